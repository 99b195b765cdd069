package release

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Publisher uploads release artifacts. The client is an interface so tests
// run against a fake.
type Publisher struct {
	Client s3iface.S3API
	Bucket string
}

// NewPublisher builds a Publisher against the configured region.
func NewPublisher(bucket, region string) (*Publisher, error) {
	if bucket == "" {
		return nil, fmt.Errorf("no release bucket configured")
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("could not create AWS session: %w", err)
	}
	return &Publisher{Client: s3.New(sess), Bucket: bucket}, nil
}

// tagExists checks for the manifest object of a tag.
func (p *Publisher) tagExists(tag string) (bool, error) {
	_, err := p.Client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(p.Bucket),
		Key:    aws.String(Key(tag, "manifest.json")),
	})
	if err == nil {
		return true, nil
	}
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case "NotFound", s3.ErrCodeNoSuchKey:
			return false, nil
		}
	}
	return false, err
}

// Publish uploads the archive and its manifest under the tag prefix.
// An already-published tag is refused.
func (p *Publisher) Publish(zipPath string, m Manifest) error {
	exists, err := p.tagExists(m.Tag)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("release %s is already published; releases are immutable", m.Tag)
	}

	archive, err := os.Open(zipPath)
	if err != nil {
		return err
	}
	defer archive.Close()

	_, err = p.Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(p.Bucket),
		Key:         aws.String(Key(m.Tag, filepath.Base(zipPath))),
		Body:        archive,
		ContentType: aws.String("application/zip"),
		Metadata: map[string]*string{
			"build-id": aws.String(m.BuildID),
		},
	})
	if err != nil {
		return fmt.Errorf("uploading archive: %w", err)
	}

	manifest, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	_, err = p.Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(p.Bucket),
		Key:         aws.String(Key(m.Tag, "manifest.json")),
		Body:        bytes.NewReader(manifest),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("uploading manifest: %w", err)
	}
	return nil
}

package release

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhentschel/anntab/corpustest"
)

func TestBuildArchive(t *testing.T) {
	root := t.TempDir()
	corpustest.WriteSubcorpus(t, root, "songs", "p01")

	zipPath := filepath.Join(t.TempDir(), "corpus.zip")
	count, err := BuildArchive(root, zipPath, nil)
	require.NoError(t, err)

	// score + 4 tables + 4 descriptors + metadata.tsv
	assert.Equal(t, 10, count)

	r, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer r.Close()

	names := make(map[string]bool)
	for _, f := range r.File {
		names[f.Name] = true
	}
	assert.True(t, names["songs/MS3/p01.mscx"])
	assert.True(t, names["songs/notes/p01.notes.tsv"])
	assert.True(t, names["songs/metadata.tsv"])
}

func TestBuildArchiveSkipsReviewCopies(t *testing.T) {
	root := t.TempDir()
	sub := corpustest.WriteSubcorpus(t, root, "songs", "p01")
	corpustest.WritePiece(t, filepath.Join(root, "_drafts"), "draft01")
	writeExtra(t, filepath.Join(sub, "MS3", "p01_reviewed.mscx"))
	writeExtra(t, filepath.Join(root, ".hidden"))

	zipPath := filepath.Join(t.TempDir(), "corpus.zip")
	count, err := BuildArchive(root, zipPath, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
	puts    []string
}

func (f *fakeS3) HeadObject(in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[*in.Key]; ok {
		return &s3.HeadObjectOutput{}, nil
	}
	return nil, awserr.New("NotFound", "not found", nil)
}

func (f *fakeS3) PutObject(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[*in.Key] = []byte{}
	f.puts = append(f.puts, *in.Key)
	return &s3.PutObjectOutput{}, nil
}

func TestPublish(t *testing.T) {
	root := t.TempDir()
	corpustest.WriteSubcorpus(t, root, "songs", "p01")
	zipPath := filepath.Join(t.TempDir(), "corpus.zip")
	count, err := BuildArchive(root, zipPath, nil)
	require.NoError(t, err)

	fake := &fakeS3{}
	p := &Publisher{Client: fake, Bucket: "releases"}
	m := NewManifest("v1.0", filepath.Base(zipPath), count)
	require.NoError(t, p.Publish(zipPath, m))

	assert.Equal(t, []string{
		"releases/v1.0/corpus.zip",
		"releases/v1.0/manifest.json",
	}, fake.puts)
}

func TestPublishRefusesExistingTag(t *testing.T) {
	root := t.TempDir()
	corpustest.WriteSubcorpus(t, root, "songs", "p01")
	zipPath := filepath.Join(t.TempDir(), "corpus.zip")
	_, err := BuildArchive(root, zipPath, nil)
	require.NoError(t, err)

	fake := &fakeS3{objects: map[string][]byte{
		"releases/v1.0/manifest.json": {},
	}}
	p := &Publisher{Client: fake, Bucket: "releases"}

	err = p.Publish(zipPath, NewManifest("v1.0", "corpus.zip", 1))
	assert.ErrorContains(t, err, "immutable")
	assert.Empty(t, fake.puts)
}

func TestManifestHasBuildID(t *testing.T) {
	m := NewManifest("v1.0", "corpus.zip", 3)
	assert.NotEmpty(t, m.BuildID)
	assert.NotEqual(t, m.BuildID, NewManifest("v1.0", "corpus.zip", 3).BuildID)
}

func writeExtra(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

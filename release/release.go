// Package release builds the distributable ZIP of a corpus and publishes
// release artifacts to S3. Published releases are immutable: a tag that
// already exists in the bucket cannot be overwritten.
package release

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhentschel/anntab/config"
)

// Manifest describes one published release.
type Manifest struct {
	BuildID   string    `json:"build_id"`
	Tag       string    `json:"tag"`
	CreatedAt time.Time `json:"created_at"`
	Archive   string    `json:"archive"`
	NumFiles  int       `json:"num_files"`
}

// NewManifest stamps a release with a fresh build id.
func NewManifest(tag, archive string, numFiles int) Manifest {
	return Manifest{
		BuildID:   uuid.New().String(),
		Tag:       tag,
		CreatedAt: time.Now().UTC(),
		Archive:   archive,
		NumFiles:  numFiles,
	}
}

// BuildArchive zips the corpus tree into zipPath, skipping excluded
// entries (hidden files, review copies) and the archive itself. Returns
// the number of archived files.
func BuildArchive(root, zipPath string, prof *config.Profile) (int, error) {
	if prof == nil {
		prof = config.DefaultProfile()
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return 0, err
	}
	absZip, err := filepath.Abs(zipPath)
	if err != nil {
		return 0, err
	}

	out, err := os.Create(zipPath)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	var count int
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if skipName(d.Name(), prof) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if abs == absZip {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		dst, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		if _, err := io.Copy(dst, src); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		zw.Close()
		return 0, err
	}
	return count, zw.Close()
}

func skipName(name string, prof *config.Profile) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, pattern := range prof.Exclude {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Key returns the object key of a release artifact under its tag prefix.
func Key(tag, file string) string {
	return fmt.Sprintf("releases/%s/%s", tag, file)
}

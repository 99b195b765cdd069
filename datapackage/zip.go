package datapackage

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jhentschel/anntab/constants"
	"github.com/jhentschel/anntab/schema"
)

// WriteZip bundles the manifest and every resource it lists into one
// archive. Each listed path must exist under dir.
func WriteZip(pkg *schema.Package, dir, zipPath string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	paths := []string{constants.DatapackageFile}
	for _, res := range pkg.Resources {
		paths = append(paths, res.Path)
	}
	for _, p := range paths {
		if err := addFile(zw, dir, p); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, dir, name string) error {
	src, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("package references %s but it does not exist: %w", name, err)
	}
	defer src.Close()

	dst, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}

// VerifyZip checks that the archive carries a manifest and that every
// resource path resolves to an archive member.
func VerifyZip(zipPath string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	members := make(map[string]bool, len(r.File))
	for _, f := range r.File {
		members[f.Name] = true
	}
	if !members[constants.DatapackageFile] {
		return fmt.Errorf("%s: archive has no %s", zipPath, constants.DatapackageFile)
	}

	mf, err := r.Open(constants.DatapackageFile)
	if err != nil {
		return err
	}
	defer mf.Close()
	data, err := io.ReadAll(mf)
	if err != nil {
		return err
	}
	var pkg schema.Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return fmt.Errorf("%s: bad manifest: %w", zipPath, err)
	}

	for _, res := range pkg.Resources {
		if !members[res.Path] {
			return fmt.Errorf("%s: manifest lists %s but the archive has no such member", zipPath, res.Path)
		}
	}
	return nil
}

// Package corpus discovers pieces in the five-folder corpus layout and
// checks the invariants a release must satisfy.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jhentschel/anntab/config"
	"github.com/jhentschel/anntab/constants"
	"github.com/jhentschel/anntab/model"
	"github.com/jhentschel/anntab/schema"
	"github.com/jhentschel/anntab/tabular"
)

// Scan walks the corpus root and builds the piece inventory. A directory
// counts as a subcorpus when it contains at least one of the five layout
// folders; a root that qualifies itself is treated as a single subcorpus.
func Scan(root string, prof *config.Profile) (*model.Corpus, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if prof == nil {
		prof = config.DefaultProfile()
	}

	c := &model.Corpus{Root: root}

	if hasLayoutFolders(root, prof) {
		sub, err := scanSubcorpus(filepath.Base(root), root, prof)
		if err != nil {
			return nil, err
		}
		c.Subcorpora = append(c.Subcorpora, sub)
		return c, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading corpus root: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() || excluded(e.Name(), prof) {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if !hasLayoutFolders(dir, prof) {
			continue
		}
		sub, err := scanSubcorpus(e.Name(), dir, prof)
		if err != nil {
			return nil, err
		}
		c.Subcorpora = append(c.Subcorpora, sub)
	}

	if len(c.Subcorpora) == 0 {
		return nil, fmt.Errorf("no subcorpora found under %s", root)
	}
	sort.Slice(c.Subcorpora, func(i, j int) bool {
		return c.Subcorpora[i].Name < c.Subcorpora[j].Name
	})
	return c, nil
}

func hasLayoutFolders(dir string, prof *config.Profile) bool {
	for _, folder := range append([]string{prof.ScoreFolder}, constants.TableKinds...) {
		if info, err := os.Stat(filepath.Join(dir, folder)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func excluded(name string, prof *config.Profile) bool {
	for _, pattern := range prof.Exclude {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func included(fname string, prof *config.Profile) bool {
	if len(prof.Include) == 0 {
		return true
	}
	for _, pattern := range prof.Include {
		if ok, _ := doublestar.Match(pattern, fname); ok {
			return true
		}
	}
	return false
}

func scanSubcorpus(name, dir string, prof *config.Profile) (*model.Subcorpus, error) {
	sub := &model.Subcorpus{Name: name, Root: dir}
	pieces := make(map[string]*model.Piece)

	piece := func(fname string) *model.Piece {
		p, ok := pieces[fname]
		if !ok {
			p = &model.Piece{
				Subcorpus:     name,
				Fname:         fname,
				Tables:        make(map[string]string),
				Descriptors:   make(map[string]string),
				MissingValues: prof.MissingValues,
			}
			pieces[fname] = p
		}
		return p
	}

	scoreDir := filepath.Join(dir, prof.ScoreFolder)
	if entries, err := os.ReadDir(scoreDir); err == nil {
		for _, e := range entries {
			if e.IsDir() || excluded(e.Name(), prof) {
				continue
			}
			for _, ext := range prof.ScoreExts {
				if strings.HasSuffix(e.Name(), ext) {
					fname := strings.TrimSuffix(e.Name(), ext)
					if included(fname, prof) {
						piece(fname).ScorePath = filepath.Join(scoreDir, e.Name())
					}
					break
				}
			}
		}
	}

	for _, kind := range constants.TableKinds {
		kindDir := filepath.Join(dir, kind)
		entries, err := os.ReadDir(kindDir)
		if err != nil {
			continue
		}
		tableSuffix := constants.TableSuffix(kind)
		descSuffix := constants.DescriptorSuffix(kind)
		for _, e := range entries {
			if e.IsDir() || excluded(e.Name(), prof) {
				continue
			}
			switch {
			case strings.HasSuffix(e.Name(), tableSuffix):
				fname := strings.TrimSuffix(e.Name(), tableSuffix)
				if included(fname, prof) {
					piece(fname).Tables[kind] = filepath.Join(kindDir, e.Name())
				}
			case strings.HasSuffix(e.Name(), descSuffix):
				fname := strings.TrimSuffix(e.Name(), descSuffix)
				if included(fname, prof) {
					piece(fname).Descriptors[kind] = filepath.Join(kindDir, e.Name())
				}
			}
		}
	}

	if info, err := os.Stat(filepath.Join(dir, constants.MetadataFile)); err == nil && !info.IsDir() {
		sub.MetadataPath = filepath.Join(dir, constants.MetadataFile)
	}

	fnames := make([]string, 0, len(pieces))
	for fname := range pieces {
		fnames = append(fnames, fname)
	}
	sort.Strings(fnames)
	for _, fname := range fnames {
		sub.Pieces = append(sub.Pieces, pieces[fname])
	}
	return sub, nil
}

// LoadTable loads one piece table together with its descriptor.
func LoadTable(p *model.Piece, kind string) (*tabular.Table, *schema.Resource, error) {
	tablePath, ok := p.Tables[kind]
	if !ok {
		return nil, nil, fmt.Errorf("%s/%s has no %s table", p.Subcorpus, p.Fname, kind)
	}
	descPath, ok := p.Descriptors[kind]
	if !ok {
		return nil, nil, fmt.Errorf("%s/%s has no %s descriptor", p.Subcorpus, p.Fname, kind)
	}
	res, err := schema.LoadResource(descPath)
	if err != nil {
		return nil, nil, err
	}
	// the profile's sentinels are the default; a descriptor's own
	// missingValues win
	if len(res.Schema.MissingValues) == 0 {
		res.Schema.MissingValues = p.MissingValues
	}
	tbl, err := tabular.Load(tablePath, res)
	if err != nil {
		return nil, nil, err
	}
	return tbl, res, nil
}

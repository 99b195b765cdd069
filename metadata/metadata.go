// Package metadata concatenates per-subcorpus metadata.tsv files and
// renders the per-subcorpus overview that gets spliced into the README.
package metadata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/jhentschel/anntab/model"
	"github.com/jhentschel/anntab/tabular"
)

// BooleanColumns are normalized to 0/1 when writing concatenated metadata.
var BooleanColumns = []string{"has_drumset"}

// relPathColumns get the subcorpus name prefixed onto their values, so
// paths stay valid from the concatenated file's point of view.
var relPathColumns = []string{"subdirectory", "rel_paths", "rel_path"}

type Table struct {
	Header []string
	Rows   [][]string
}

func Load(p string) (*Table, error) {
	header, rows, err := tabular.ReadRaw(p)
	if err != nil {
		return nil, err
	}
	return &Table{Header: header, Rows: rows}, nil
}

func (t *Table) columnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// FnameColumn returns the index of the piece-prefix column.
func (t *Table) FnameColumn() (int, error) {
	for _, name := range []string{"fname", "fnames"} {
		if i := t.columnIndex(name); i >= 0 {
			return i, nil
		}
	}
	return 0, fmt.Errorf("metadata has no fname column")
}

// Concat merges every subcorpus metadata.tsv into one table with a leading
// corpus column. Columns are aligned by name across subcorpora; values
// missing in a subcorpus stay empty.
func Concat(c *model.Corpus) (*Table, error) {
	union := []string{"corpus"}
	seen := map[string]bool{"corpus": true}
	var parts []*Table
	var names []string

	for _, sub := range c.Subcorpora {
		if sub.MetadataPath == "" {
			continue
		}
		t, err := Load(sub.MetadataPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sub.Name, err)
		}
		if _, err := t.FnameColumn(); err != nil {
			return nil, fmt.Errorf("%s: %w", sub.Name, err)
		}
		for _, h := range t.Header {
			if !seen[h] {
				seen[h] = true
				union = append(union, h)
			}
		}
		parts = append(parts, t)
		names = append(names, sub.Name)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("no metadata.tsv found in any subcorpus")
	}

	out := &Table{Header: union}
	for partIdx, t := range parts {
		corpusName := names[partIdx]
		for _, row := range t.Rows {
			outRow := make([]string, len(union))
			outRow[0] = corpusName
			for colIdx, h := range t.Header {
				val := row[colIdx]
				if isRelPathColumn(h) && val != "" {
					val = path.Join(corpusName, val)
				}
				if isBooleanColumn(h) {
					val = normalizeBoolean(val)
				}
				outRow[indexOf(union, h)] = val
			}
			out.Rows = append(out.Rows, outRow)
		}
	}
	return out, nil
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

func isRelPathColumn(name string) bool {
	for _, c := range relPathColumns {
		if name == c {
			return true
		}
	}
	return false
}

func isBooleanColumn(name string) bool {
	for _, c := range BooleanColumns {
		if name == c {
			return true
		}
	}
	return false
}

func normalizeBoolean(val string) string {
	switch strings.ToLower(val) {
	case "t", "true":
		return "1"
	case "f", "false":
		return "0"
	}
	if n, err := strconv.Atoi(val); err == nil {
		if n != 0 {
			return "1"
		}
		return "0"
	}
	return val
}

// WriteTSV stores the table tab-delimited with a header row.
func (t *Table) WriteTSV(p string) error {
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := w.Write(t.Header); err != nil {
		return err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

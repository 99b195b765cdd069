// Package tabular loads TSV files against their schema descriptors. A file
// loads as a whole or not at all: a wrong column count or a cell that fails
// its declared type rejects the file, never a single row.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jhentschel/anntab/constants"
	"github.com/jhentschel/anntab/frac"
	"github.com/jhentschel/anntab/schema"
)

// Column holds one typed column. Raw keeps the cell text exactly as read;
// the typed slice matching the field type is filled, the others stay nil.
// Null rows carry the zero value in the typed slice.
type Column struct {
	Field schema.Field
	Raw   []string
	Null  []bool

	Ints  []int64
	Fracs []frac.Frac
	Strs  []string
	Lists [][]string
}

type Table struct {
	Path    string
	Header  []string
	Columns []Column

	byName map[string]int
	rows   int
}

func (t *Table) NumRows() int {
	return t.rows
}

func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return &t.Columns[i], true
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// ReadRaw reads header and rows of a TSV without applying a schema.
// Rows with a deviating column count reject the file.
func ReadRaw(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: missing header row", path)
	}
	return records[0], records[1:], nil
}

// Load reads a TSV against its descriptor. The descriptor's field list must
// match the header exactly; every cell must parse per its declared type.
func Load(path string, res *schema.Resource) (*Table, error) {
	header, rows, err := ReadRaw(path)
	if err != nil {
		return nil, err
	}
	if err := res.CheckHeader(header); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	sentinels := res.Sentinels()
	isNull := func(cell string) bool {
		for _, s := range sentinels {
			if cell == s {
				return true
			}
		}
		return false
	}

	t := &Table{
		Path:    path,
		Header:  header,
		Columns: make([]Column, len(header)),
		byName:  make(map[string]int, len(header)),
		rows:    len(rows),
	}
	for i, f := range res.Schema.Fields {
		t.Columns[i] = Column{
			Field: f,
			Raw:   make([]string, len(rows)),
			Null:  make([]bool, len(rows)),
		}
		switch f.Type {
		case schema.TypeInteger:
			t.Columns[i].Ints = make([]int64, len(rows))
		case schema.TypeFraction:
			t.Columns[i].Fracs = make([]frac.Frac, len(rows))
		case schema.TypeString:
			t.Columns[i].Strs = make([]string, len(rows))
		case schema.TypeArray:
			t.Columns[i].Lists = make([][]string, len(rows))
		}
		t.byName[f.Name] = i
	}

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			col := &t.Columns[colIdx]
			col.Raw[rowIdx] = cell

			if isNull(cell) {
				if !col.Field.Nullable() {
					return nil, fmt.Errorf("%s: row %d: null in required column %q",
						path, rowIdx+2, col.Field.Name)
				}
				col.Null[rowIdx] = true
				continue
			}

			switch col.Field.Type {
			case schema.TypeInteger:
				v, err := strconv.ParseInt(cell, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("%s: row %d: column %q: %q is not an integer",
						path, rowIdx+2, col.Field.Name, cell)
				}
				col.Ints[rowIdx] = v
			case schema.TypeFraction:
				v, err := frac.Parse(cell)
				if err != nil {
					return nil, fmt.Errorf("%s: row %d: column %q: %q is not a fraction",
						path, rowIdx+2, col.Field.Name, cell)
				}
				col.Fracs[rowIdx] = v
			case schema.TypeString:
				col.Strs[rowIdx] = cell
			case schema.TypeArray:
				col.Lists[rowIdx] = splitList(cell)
			}
		}
	}

	return t, nil
}

func splitList(cell string) []string {
	if cell == "" {
		return []string{}
	}
	return strings.Split(cell, constants.ListSeparator)
}

// Records renders the table as generic rows for the JSON API. Fractions
// stay textual to keep them exact.
func (t *Table) Records() []map[string]any {
	records := make([]map[string]any, t.rows)
	for rowIdx := range records {
		rec := make(map[string]any, len(t.Columns))
		for i := range t.Columns {
			col := &t.Columns[i]
			if col.Null[rowIdx] {
				rec[col.Field.Name] = nil
				continue
			}
			switch col.Field.Type {
			case schema.TypeInteger:
				rec[col.Field.Name] = col.Ints[rowIdx]
			case schema.TypeFraction:
				rec[col.Field.Name] = col.Fracs[rowIdx].String()
			case schema.TypeString:
				rec[col.Field.Name] = col.Strs[rowIdx]
			case schema.TypeArray:
				rec[col.Field.Name] = col.Lists[rowIdx]
			}
		}
		records[rowIdx] = rec
	}
	return records
}

// Package schema reads and checks the tabular-data-resource descriptors
// that accompany every TSV in the corpus.
package schema

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jhentschel/anntab/constants"
)

// Semantic field types a loader must understand.
const (
	TypeInteger  = "integer"
	TypeFraction = "fraction"
	TypeString   = "string"
	TypeArray    = "array"
)

type Constraints struct {
	Required bool `json:"required,omitempty"`
}

type Field struct {
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Description string       `json:"description,omitempty"`
	Constraints *Constraints `json:"constraints,omitempty"`
}

// Nullable reports whether a null sentinel is legal in this field.
func (f Field) Nullable() bool {
	return f.Constraints == nil || !f.Constraints.Required
}

type Schema struct {
	Fields []Field `json:"fields"`

	// MissingValues lists the null sentinels. Empty means the default
	// sentinel applies; the empty string is never a sentinel.
	MissingValues []string `json:"missingValues,omitempty"`
}

// Resource describes one TSV file.
type Resource struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Profile string `json:"profile,omitempty"`
	Schema  Schema `json:"schema"`
}

// LoadResource reads a descriptor from disk.
func LoadResource(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Resource
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing descriptor %s: %w", path, err)
	}
	if len(r.Schema.Fields) == 0 {
		return nil, fmt.Errorf("descriptor %s declares no fields", path)
	}
	for _, f := range r.Schema.Fields {
		switch f.Type {
		case TypeInteger, TypeFraction, TypeString, TypeArray:
		default:
			return nil, fmt.Errorf("descriptor %s: field %q has unknown type %q", path, f.Name, f.Type)
		}
	}
	return &r, nil
}

// WriteFile stores the descriptor as indented JSON.
func (r *Resource) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func (r *Resource) FieldNames() []string {
	names := make([]string, len(r.Schema.Fields))
	for i, f := range r.Schema.Fields {
		names[i] = f.Name
	}
	return names
}

func (r *Resource) Field(name string) (Field, bool) {
	for _, f := range r.Schema.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Sentinels returns the null sentinels in effect for this resource. The
// empty string is dropped if declared: it is always a regular value.
func (r *Resource) Sentinels() []string {
	var out []string
	for _, s := range r.Schema.MissingValues {
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{constants.DefaultSentinel}
	}
	return out
}

// CheckHeader verifies that the TSV header equals the declared field names,
// in order. Any deviation is reported with its position.
func (r *Resource) CheckHeader(header []string) error {
	names := r.FieldNames()
	if len(header) != len(names) {
		return fmt.Errorf("header has %d columns, descriptor declares %d", len(header), len(names))
	}
	for i := range names {
		if header[i] != names[i] {
			return fmt.Errorf("column %d is %q, descriptor declares %q", i+1, header[i], names[i])
		}
	}
	return nil
}

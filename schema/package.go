package schema

import (
	"encoding/json"
	"fmt"
	"os"
)

type License struct {
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

type Contributor struct {
	Title string `json:"title"`
	Role  string `json:"role,omitempty"`
}

// Package is the aggregate manifest listing one resource per
// (subcorpus, table kind) concatenation.
type Package struct {
	Name         string        `json:"name"`
	Title        string        `json:"title,omitempty"`
	Licenses     []License     `json:"licenses,omitempty"`
	Contributors []Contributor `json:"contributors,omitempty"`
	Resources    []*Resource   `json:"resources"`
}

func LoadPackage(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Package
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing package descriptor %s: %w", path, err)
	}
	return &p, nil
}

func (p *Package) WriteFile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func (p *Package) Resource(name string) *Resource {
	for _, r := range p.Resources {
		if r.Name == name {
			return r
		}
	}
	return nil
}

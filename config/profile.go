package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jhentschel/anntab/constants"
)

// Profile describes a corpus's layout conventions. It can be overridden by
// an anntab.yaml file at the corpus root; everything has a default matching
// the published corpora.
type Profile struct {
	ScoreFolder   string   `yaml:"scoreFolder"`
	ScoreExts     []string `yaml:"scoreExtensions"`
	MissingValues []string `yaml:"missingValues"`
	Include       []string `yaml:"include"`
	Exclude       []string `yaml:"exclude"`
}

// DefaultProfile matches the layout contract of the published corpora:
// MS3 scores, NA sentinel, review copies and hidden entries excluded.
func DefaultProfile() *Profile {
	return &Profile{
		ScoreFolder:   constants.ScoreFolder,
		ScoreExts:     []string{constants.ScoreExt},
		MissingValues: []string{constants.DefaultSentinel},
		Exclude:       []string{".*", "_*", "*_reviewed*"},
	}
}

// LoadProfile reads anntab.yaml from the corpus root, falling back to the
// defaults when the file does not exist. Unset fields keep their defaults.
func LoadProfile(root string) (*Profile, error) {
	p := DefaultProfile()

	path := filepath.Join(root, constants.ProfileFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var override Profile
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	p.merge(&override)
	return p, nil
}

func (p *Profile) merge(o *Profile) {
	if o.ScoreFolder != "" {
		p.ScoreFolder = o.ScoreFolder
	}
	if len(o.ScoreExts) > 0 {
		p.ScoreExts = o.ScoreExts
	}
	if len(o.MissingValues) > 0 {
		p.MissingValues = o.MissingValues
	}
	if len(o.Include) > 0 {
		p.Include = o.Include
	}
	if len(o.Exclude) > 0 {
		p.Exclude = o.Exclude
	}
}

package model

// Piece is one work/movement. The fname prefix ties together its score and
// its four derived tables.
type Piece struct {
	Subcorpus string
	Fname     string

	// ScorePath is empty when the score is missing.
	ScorePath string

	// Tables and Descriptors map table kind to an absolute path. A kind
	// missing from the map means the file does not exist.
	Tables      map[string]string
	Descriptors map[string]string

	// MissingValues are the profile's null sentinels, applied when a
	// descriptor declares none of its own.
	MissingValues []string
}

type Subcorpus struct {
	Name string
	Root string

	// Pieces sorted by fname.
	Pieces []*Piece

	// MetadataPath is empty when the subcorpus has no metadata.tsv.
	MetadataPath string
}

func (s *Subcorpus) Piece(fname string) *Piece {
	for _, p := range s.Pieces {
		if p.Fname == fname {
			return p
		}
	}
	return nil
}

type Corpus struct {
	Root       string
	Subcorpora []*Subcorpus
}

func (c *Corpus) Subcorpus(name string) *Subcorpus {
	for _, s := range c.Subcorpora {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (c *Corpus) NumPieces() int {
	var n int
	for _, s := range c.Subcorpora {
		n += len(s.Pieces)
	}
	return n
}

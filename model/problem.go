package model

import "fmt"

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Problem codes for everything a release check can find.
const (
	CodeMissingCompanion  = "missing-companion"
	CodeMissingDescriptor = "missing-descriptor"
	CodeHeaderMismatch    = "header-mismatch"
	CodeHeaderDrift       = "header-drift"
	CodeParseError        = "parse-error"
	CodeFractionDrift     = "fraction-drift"
	CodeRowOrder          = "row-order"
	CodeMeasureRange      = "measure-range"
	CodeMetadataMissing   = "metadata-missing"
	CodeMetadataOrphan    = "metadata-orphan"
)

// Problem is a single data-integrity finding. Findings are data, not
// errors: a validation run only fails as a whole when the corpus cannot be
// read at all.
type Problem struct {
	Severity  Severity `json:"severity"`
	Code      string   `json:"code"`
	Subcorpus string   `json:"subcorpus,omitempty"`
	Piece     string   `json:"piece,omitempty"`
	File      string   `json:"file,omitempty"`
	Message   string   `json:"message"`
}

func (p Problem) String() string {
	loc := p.Subcorpus
	if p.Piece != "" {
		loc += "/" + p.Piece
	}
	if loc == "" {
		loc = p.File
	}
	return fmt.Sprintf("%s %s [%s]: %s", p.Severity, loc, p.Code, p.Message)
}

// Report collects the findings of one validation pass.
type Report struct {
	Problems []Problem `json:"problems"`
}

func (r *Report) Add(p Problem) {
	r.Problems = append(r.Problems, p)
}

func (r *Report) Errors() int {
	var n int
	for _, p := range r.Problems {
		if p.Severity == SeverityError {
			n++
		}
	}
	return n
}

func (r *Report) Warnings() int {
	return len(r.Problems) - r.Errors()
}

// Clean reports whether the corpus is release-ready.
func (r *Report) Clean() bool {
	return r.Errors() == 0
}

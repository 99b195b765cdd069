// Package corpustest writes small but complete corpora for tests: every
// piece has a score, all four tables, descriptors, and metadata, so a
// freshly written fixture validates clean.
package corpustest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jhentschel/anntab/constants"
	"github.com/jhentschel/anntab/schema"
)

func req() *schema.Constraints {
	return &schema.Constraints{Required: true}
}

// Descriptor returns the fixture schema for one table kind of a piece.
func Descriptor(fname, kind string) *schema.Resource {
	var fields []schema.Field
	switch kind {
	case constants.KindMeasures:
		fields = []schema.Field{
			{Name: "mc", Type: schema.TypeInteger, Constraints: req()},
			{Name: "mn", Type: schema.TypeInteger, Constraints: req()},
			{Name: "timesig", Type: schema.TypeString, Constraints: req()},
			{Name: "act_dur", Type: schema.TypeFraction, Constraints: req()},
			{Name: "repeats", Type: schema.TypeString},
			{Name: "barline", Type: schema.TypeString},
		}
	case constants.KindNotes:
		fields = []schema.Field{
			{Name: "mc", Type: schema.TypeInteger, Constraints: req()},
			{Name: "mn", Type: schema.TypeInteger, Constraints: req()},
			{Name: "mc_onset", Type: schema.TypeFraction, Constraints: req()},
			{Name: "mn_onset", Type: schema.TypeFraction, Constraints: req()},
			{Name: "duration", Type: schema.TypeFraction, Constraints: req()},
			{Name: "tied", Type: schema.TypeInteger},
			{Name: "staff", Type: schema.TypeInteger, Constraints: req()},
			{Name: "voice", Type: schema.TypeInteger, Constraints: req()},
			{Name: "midi", Type: schema.TypeInteger, Constraints: req()},
			{Name: "name", Type: schema.TypeString, Constraints: req()},
		}
	case constants.KindChords:
		fields = []schema.Field{
			{Name: "mc", Type: schema.TypeInteger, Constraints: req()},
			{Name: "mn", Type: schema.TypeInteger, Constraints: req()},
			{Name: "mc_onset", Type: schema.TypeFraction, Constraints: req()},
			{Name: "mn_onset", Type: schema.TypeFraction, Constraints: req()},
			{Name: "chord_id", Type: schema.TypeInteger, Constraints: req()},
			{Name: "dynamics", Type: schema.TypeString},
			{Name: "articulation", Type: schema.TypeArray},
		}
	case constants.KindHarmonies:
		fields = []schema.Field{
			{Name: "mc", Type: schema.TypeInteger, Constraints: req()},
			{Name: "mn", Type: schema.TypeInteger, Constraints: req()},
			{Name: "mc_onset", Type: schema.TypeFraction, Constraints: req()},
			{Name: "mn_onset", Type: schema.TypeFraction, Constraints: req()},
			{Name: "label", Type: schema.TypeString, Constraints: req()},
			{Name: "globalkey", Type: schema.TypeString, Constraints: req()},
			{Name: "localkey", Type: schema.TypeString, Constraints: req()},
			{Name: "cadence", Type: schema.TypeString},
			{Name: "phraseend", Type: schema.TypeString},
		}
	}
	return &schema.Resource{
		Name:    fname + "." + kind,
		Path:    filepath.Join(kind, fname+constants.TableSuffix(kind)),
		Profile: constants.TabularDataResourceProfile,
		Schema:  schema.Schema{Fields: fields},
	}
}

// TableContent returns the fixture rows for one table kind. Three measures
// in 3/4, the last one shortened; one tied note pair in the first measure.
func TableContent(kind string) string {
	switch kind {
	case constants.KindMeasures:
		return join(
			"mc\tmn\ttimesig\tact_dur\trepeats\tbarline",
			"1\t1\t3/4\t3/4\tfirstMeasure\tNA",
			"2\t2\t3/4\t3/4\tNA\tNA",
			"3\t3\t3/4\t1/2\tlastMeasure\tfinal",
		)
	case constants.KindNotes:
		return join(
			"mc\tmn\tmc_onset\tmn_onset\tduration\ttied\tstaff\tvoice\tmidi\tname",
			"1\t1\t0\t0\t1/4\tNA\t1\t1\t60\tC4",
			"1\t1\t1/4\t1/4\t1/4\t1\t1\t1\t64\tE4",
			"1\t1\t1/2\t1/2\t1/4\t-1\t1\t1\t64\tE4",
			"2\t2\t0\t0\t3/4\tNA\t1\t1\t67\tG4",
			"3\t3\t0\t0\t1/2\tNA\t1\t1\t72\tC5",
		)
	case constants.KindChords:
		return join(
			"mc\tmn\tmc_onset\tmn_onset\tchord_id\tdynamics\tarticulation",
			"1\t1\t0\t0\t1\tp\tNA",
			"2\t2\t0\t0\t2\tNA\tstaccato, accent",
			"3\t3\t0\t0\t3\tf\tNA",
		)
	case constants.KindHarmonies:
		return join(
			"mc\tmn\tmc_onset\tmn_onset\tlabel\tglobalkey\tlocalkey\tcadence\tphraseend",
			"1\t1\t0\t0\tI\tC\tI\tNA\tNA",
			"2\t2\t0\t0\tV\tC\tI\tNA\tNA",
			"3\t3\t0\t0\tI\tC\tI\tPAC\t}",
		)
	}
	return ""
}

func join(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// WritePiece writes score, tables, and descriptors for one fname.
func WritePiece(tb testing.TB, subRoot, fname string) {
	tb.Helper()

	scoreDir := filepath.Join(subRoot, constants.ScoreFolder)
	mustMkdir(tb, scoreDir)
	mustWrite(tb, filepath.Join(scoreDir, fname+constants.ScoreExt),
		"<museScore version=\"3.6.2\"><Score/></museScore>\n")

	for _, kind := range constants.TableKinds {
		kindDir := filepath.Join(subRoot, kind)
		mustMkdir(tb, kindDir)
		mustWrite(tb, filepath.Join(kindDir, fname+constants.TableSuffix(kind)), TableContent(kind))
		desc := Descriptor(fname, kind)
		if err := desc.WriteFile(filepath.Join(kindDir, fname+constants.DescriptorSuffix(kind))); err != nil {
			tb.Fatal(err)
		}
	}
}

// WriteSubcorpus writes a subcorpus with the given pieces plus metadata.tsv.
func WriteSubcorpus(tb testing.TB, root, name string, fnames ...string) string {
	tb.Helper()

	subRoot := filepath.Join(root, name)
	for _, fname := range fnames {
		WritePiece(tb, subRoot, fname)
	}

	header := "fname\tcomposer\tworkTitle\tlast_mn\tlabel_count\tharmony_version\tsubdirectory\thas_drumset"
	lines := []string{header}
	for _, fname := range fnames {
		lines = append(lines, fname+"\tDoe\tDemo Piece\t3\t3\t2.3.0\tMS3\t0")
	}
	mustWrite(tb, filepath.Join(subRoot, constants.MetadataFile), join(lines...))
	return subRoot
}

// WriteCorpus writes a two-subcorpus corpus under root.
func WriteCorpus(tb testing.TB, root string) {
	tb.Helper()
	WriteSubcorpus(tb, root, "demo_songs", "demo01", "demo02")
	WriteSubcorpus(tb, root, "demo_sonatas", "sonata01")
}

func mustMkdir(tb testing.TB, dir string) {
	tb.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		tb.Fatal(err)
	}
}

func mustWrite(tb testing.TB, path, content string) {
	tb.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatal(err)
	}
}

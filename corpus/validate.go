package corpus

import (
	"fmt"
	"path/filepath"

	"github.com/jhentschel/anntab/constants"
	"github.com/jhentschel/anntab/frac"
	"github.com/jhentschel/anntab/model"
	"github.com/jhentschel/anntab/schema"
	"github.com/jhentschel/anntab/tabular"
	"github.com/jhentschel/anntab/util"
)

// Validate runs every release check over a scanned corpus. Findings are
// collected, never returned as errors: an empty report means release-ready.
func Validate(c *model.Corpus) *model.Report {
	report := &model.Report{}
	for _, sub := range c.Subcorpora {
		validateSubcorpus(sub, report)
	}
	return report
}

func validateSubcorpus(sub *model.Subcorpus, report *model.Report) {
	// reference header per kind, for the concatenation precondition
	refHeaders := make(map[string][]string)
	refFiles := make(map[string]string)

	for _, p := range sub.Pieces {
		checkCompanions(p, report)

		tables := make(map[string]*tabular.Table)
		for _, kind := range constants.TableKinds {
			tbl := checkTable(p, kind, refHeaders, refFiles, report)
			if tbl != nil {
				tables[kind] = tbl
			}
		}

		for kind, tbl := range tables {
			checkFractionRoundTrip(p, kind, tbl, report)
		}
		if m := tables[constants.KindMeasures]; m != nil {
			checkMeasureOrder(p, m, report)
			for _, kind := range []string{constants.KindNotes, constants.KindChords, constants.KindHarmonies} {
				if tbl := tables[kind]; tbl != nil {
					checkMeasureRange(p, kind, tbl, m, report)
				}
			}
		}
		for _, kind := range []string{constants.KindNotes, constants.KindChords, constants.KindHarmonies} {
			if tbl := tables[kind]; tbl != nil {
				checkOnsetOrder(p, kind, tbl, report)
			}
		}
	}

	checkMetadata(sub, report)
}

func checkCompanions(p *model.Piece, report *model.Report) {
	if p.ScorePath == "" {
		report.Add(model.Problem{
			Severity:  model.SeverityError,
			Code:      model.CodeMissingCompanion,
			Subcorpus: p.Subcorpus,
			Piece:     p.Fname,
			Message:   "no score file for this prefix",
		})
	}
	for _, kind := range constants.TableKinds {
		if _, ok := p.Tables[kind]; !ok {
			report.Add(model.Problem{
				Severity:  model.SeverityError,
				Code:      model.CodeMissingCompanion,
				Subcorpus: p.Subcorpus,
				Piece:     p.Fname,
				Message:   fmt.Sprintf("no %s table for this prefix", kind),
			})
		}
	}
}

// checkTable loads one table through the full descriptor pipeline and
// returns it when it is usable for the cross-table checks.
func checkTable(p *model.Piece, kind string, refHeaders map[string][]string, refFiles map[string]string, report *model.Report) *tabular.Table {
	tablePath, ok := p.Tables[kind]
	if !ok {
		return nil
	}
	file := filepath.Base(tablePath)

	descPath, ok := p.Descriptors[kind]
	if !ok {
		report.Add(model.Problem{
			Severity:  model.SeverityError,
			Code:      model.CodeMissingDescriptor,
			Subcorpus: p.Subcorpus,
			Piece:     p.Fname,
			File:      file,
			Message:   "table has no companion schema descriptor",
		})
		return nil
	}

	res, err := schema.LoadResource(descPath)
	if err != nil {
		report.Add(model.Problem{
			Severity:  model.SeverityError,
			Code:      model.CodeParseError,
			Subcorpus: p.Subcorpus,
			Piece:     p.Fname,
			File:      filepath.Base(descPath),
			Message:   err.Error(),
		})
		return nil
	}
	if len(res.Schema.MissingValues) == 0 {
		res.Schema.MissingValues = p.MissingValues
	}

	header, _, err := tabular.ReadRaw(tablePath)
	if err != nil {
		report.Add(model.Problem{
			Severity:  model.SeverityError,
			Code:      model.CodeParseError,
			Subcorpus: p.Subcorpus,
			Piece:     p.Fname,
			File:      file,
			Message:   err.Error(),
		})
		return nil
	}
	if err := res.CheckHeader(header); err != nil {
		report.Add(model.Problem{
			Severity:  model.SeverityError,
			Code:      model.CodeHeaderMismatch,
			Subcorpus: p.Subcorpus,
			Piece:     p.Fname,
			File:      file,
			Message:   err.Error(),
		})
		return nil
	}

	if ref, ok := refHeaders[kind]; !ok {
		refHeaders[kind] = header
		refFiles[kind] = file
	} else if !equalHeaders(ref, header) {
		report.Add(model.Problem{
			Severity:  model.SeverityError,
			Code:      model.CodeHeaderDrift,
			Subcorpus: p.Subcorpus,
			Piece:     p.Fname,
			File:      file,
			Message:   fmt.Sprintf("%s header differs from %s; %s tables of a subcorpus must agree", kind, refFiles[kind], kind),
		})
	}

	tbl, err := tabular.Load(tablePath, res)
	if err != nil {
		report.Add(model.Problem{
			Severity:  model.SeverityError,
			Code:      model.CodeParseError,
			Subcorpus: p.Subcorpus,
			Piece:     p.Fname,
			File:      file,
			Message:   err.Error(),
		})
		return nil
	}
	return tbl
}

func equalHeaders(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// checkFractionRoundTrip flags cells whose stored text deviates from the
// canonical serialization of their value (leading zeros, plus signs).
func checkFractionRoundTrip(p *model.Piece, kind string, tbl *tabular.Table, report *model.Report) {
	for i := range tbl.Columns {
		col := &tbl.Columns[i]
		if col.Field.Type != schema.TypeFraction {
			continue
		}
		for row := 0; row < tbl.NumRows(); row++ {
			if col.Null[row] {
				continue
			}
			v := col.Fracs[row]
			if canon := frac.New(v.Num, v.Den).String(); canon != col.Raw[row] {
				report.Add(model.Problem{
					Severity:  model.SeverityError,
					Code:      model.CodeFractionDrift,
					Subcorpus: p.Subcorpus,
					Piece:     p.Fname,
					File:      filepath.Base(tbl.Path),
					Message: fmt.Sprintf("row %d: column %q: %q does not re-serialize to itself (canonical %q)",
						row+2, col.Field.Name, col.Raw[row], canon),
				})
				break // one finding per column is enough
			}
		}
	}
}

// typedColumn returns the named column only when the descriptor types it
// as expected. Order and range checks trust the declared type, not the
// column name: a differently-typed position column is not an order key.
func typedColumn(tbl *tabular.Table, name, typ string) (*tabular.Column, bool) {
	col, ok := tbl.Column(name)
	if !ok || col.Field.Type != typ {
		return nil, false
	}
	return col, true
}

func checkMeasureOrder(p *model.Piece, m *tabular.Table, report *model.Report) {
	mn, ok := typedColumn(m, "mn", schema.TypeInteger)
	if !ok {
		return
	}
	for row := 1; row < m.NumRows(); row++ {
		if mn.Null[row] || mn.Null[row-1] {
			continue
		}
		if mn.Ints[row] < mn.Ints[row-1] {
			report.Add(model.Problem{
				Severity:  model.SeverityError,
				Code:      model.CodeRowOrder,
				Subcorpus: p.Subcorpus,
				Piece:     p.Fname,
				File:      filepath.Base(m.Path),
				Message:   fmt.Sprintf("row %d: measure number %d after %d", row+2, mn.Ints[row], mn.Ints[row-1]),
			})
			return
		}
	}
}

// onsetKey picks the position columns a table carries. Tables store
// positions against the measure count (mc) primarily; older exports only
// carry measure numbers (mn), the flattest ones a quarterbeats column.
func onsetKey(tbl *tabular.Table) (measure *tabular.Column, onset *tabular.Column) {
	if mc, ok := typedColumn(tbl, "mc", schema.TypeInteger); ok {
		if on, ok := typedColumn(tbl, "mc_onset", schema.TypeFraction); ok {
			return mc, on
		}
	}
	if mn, ok := typedColumn(tbl, "mn", schema.TypeInteger); ok {
		if on, ok := typedColumn(tbl, "mn_onset", schema.TypeFraction); ok {
			return mn, on
		}
	}
	if qb, ok := typedColumn(tbl, "quarterbeats", schema.TypeFraction); ok {
		return nil, qb
	}
	return nil, nil
}

func checkOnsetOrder(p *model.Piece, kind string, tbl *tabular.Table, report *model.Report) {
	measure, onset := onsetKey(tbl)
	if onset == nil {
		return
	}
	for row := 1; row < tbl.NumRows(); row++ {
		if onset.Null[row] || onset.Null[row-1] {
			continue
		}
		if measure != nil {
			if measure.Null[row] || measure.Null[row-1] {
				continue
			}
			if measure.Ints[row] > measure.Ints[row-1] {
				continue
			}
			if measure.Ints[row] < measure.Ints[row-1] {
				report.Add(orderProblem(p, kind, tbl, row))
				return
			}
		}
		if onset.Fracs[row].Cmp(onset.Fracs[row-1]) < 0 {
			report.Add(orderProblem(p, kind, tbl, row))
			return
		}
	}
}

func orderProblem(p *model.Piece, kind string, tbl *tabular.Table, row int) model.Problem {
	return model.Problem{
		Severity:  model.SeverityError,
		Code:      model.CodeRowOrder,
		Subcorpus: p.Subcorpus,
		Piece:     p.Fname,
		File:      filepath.Base(tbl.Path),
		Message:   fmt.Sprintf("row %d: %s rows are not in score order", row+2, kind),
	}
}

func checkMeasureRange(p *model.Piece, kind string, tbl, measures *tabular.Table, report *model.Report) {
	known := make(map[int64]bool)
	colName := "mc"
	mcol, ok := typedColumn(measures, "mc", schema.TypeInteger)
	if !ok {
		mcol, ok = typedColumn(measures, "mn", schema.TypeInteger)
		colName = "mn"
	}
	if !ok {
		return
	}
	for row := 0; row < measures.NumRows(); row++ {
		if !mcol.Null[row] {
			known[mcol.Ints[row]] = true
		}
	}

	ref, ok := typedColumn(tbl, colName, schema.TypeInteger)
	if !ok {
		return
	}
	for row := 0; row < tbl.NumRows(); row++ {
		if ref.Null[row] {
			continue
		}
		if !known[ref.Ints[row]] {
			report.Add(model.Problem{
				Severity:  model.SeverityError,
				Code:      model.CodeMeasureRange,
				Subcorpus: p.Subcorpus,
				Piece:     p.Fname,
				File:      filepath.Base(tbl.Path),
				Message: fmt.Sprintf("row %d: %s %d does not exist in the measures table",
					row+2, colName, ref.Ints[row]),
			})
			return
		}
	}
}

func checkMetadata(sub *model.Subcorpus, report *model.Report) {
	if sub.MetadataPath == "" {
		report.Add(model.Problem{
			Severity:  model.SeverityWarning,
			Code:      model.CodeMetadataMissing,
			Subcorpus: sub.Name,
			Message:   "subcorpus has no metadata.tsv",
		})
		return
	}

	header, rows, err := tabular.ReadRaw(sub.MetadataPath)
	if err != nil {
		report.Add(model.Problem{
			Severity:  model.SeverityError,
			Code:      model.CodeParseError,
			Subcorpus: sub.Name,
			File:      constants.MetadataFile,
			Message:   err.Error(),
		})
		return
	}

	fnameCol := -1
	for i, name := range header {
		if name == "fname" || name == "fnames" {
			fnameCol = i
			break
		}
	}
	if fnameCol < 0 {
		report.Add(model.Problem{
			Severity:  model.SeverityError,
			Code:      model.CodeHeaderMismatch,
			Subcorpus: sub.Name,
			File:      constants.MetadataFile,
			Message:   "metadata.tsv has no fname column",
		})
		return
	}

	listed := make(map[string]bool, len(rows))
	for _, row := range rows {
		listed[row[fnameCol]] = true
	}
	for _, p := range sub.Pieces {
		if !listed[p.Fname] {
			report.Add(model.Problem{
				Severity:  model.SeverityWarning,
				Code:      model.CodeMetadataMissing,
				Subcorpus: sub.Name,
				Piece:     p.Fname,
				Message:   "piece is not listed in metadata.tsv",
			})
		}
		delete(listed, p.Fname)
	}
	for _, fname := range util.SortedKeys(listed) {
		report.Add(model.Problem{
			Severity:  model.SeverityWarning,
			Code:      model.CodeMetadataOrphan,
			Subcorpus: sub.Name,
			Piece:     fname,
			Message:   "metadata.tsv lists a piece with no files on disk",
		})
	}
}

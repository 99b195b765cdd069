package metadata

import (
	"fmt"
	"os"
	"strings"
)

// OverviewMarker separates hand-written README content from the generated
// part; everything from the marker on is rewritten.
const OverviewMarker = "# Overview"

// overviewColumns maps metadata columns to their display names, in output
// order.
var overviewColumns = []struct{ column, display string }{
	{"fname", "file_name"},
	{"last_mn", "measures"},
	{"label_count", "labels"},
	{"harmony_version", "standard"},
}

// Overview renders the concatenated metadata as one Markdown table per
// subcorpus.
func Overview(t *Table) string {
	corpusIdx := t.columnIndex("corpus")
	if corpusIdx < 0 {
		return ""
	}

	indexes := make([]int, len(overviewColumns))
	for i, oc := range overviewColumns {
		indexes[i] = t.columnIndex(oc.column)
		if indexes[i] < 0 {
			// fall back to the renamed fname variant
			if oc.column == "fname" {
				indexes[i] = t.columnIndex("fnames")
			}
		}
	}

	var b strings.Builder
	b.WriteString("## Overview")

	var current string
	for _, row := range t.Rows {
		if row[corpusIdx] != current {
			current = row[corpusIdx]
			b.WriteString(fmt.Sprintf("\n\n### %s\n\n", current))
			writeHeaderRow(&b)
		}
		b.WriteString("|")
		for _, idx := range indexes {
			val := ""
			if idx >= 0 {
				val = row[idx]
			}
			b.WriteString(val)
			b.WriteString("|")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeHeaderRow(b *strings.Builder) {
	b.WriteString("|")
	for _, oc := range overviewColumns {
		b.WriteString(oc.display)
		b.WriteString("|")
	}
	b.WriteString("\n|")
	for range overviewColumns {
		b.WriteString("---|")
	}
	b.WriteString("\n")
}

// SpliceReadme rewrites the README, keeping everything above the overview
// marker and replacing the rest with the given overview. A missing README
// is created.
func SpliceReadme(readmePath, overview string) error {
	var kept []string
	data, err := os.ReadFile(readmePath)
	if err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if strings.Contains(line, OverviewMarker) {
				break
			}
			kept = append(kept, line)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	var b strings.Builder
	for _, line := range kept {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(overview)
	b.WriteString("\n")
	return os.WriteFile(readmePath, []byte(b.String()), 0o644)
}

package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhentschel/anntab/schema"
)

var notesResource = &schema.Resource{
	Name: "test.notes",
	Path: "test.notes.tsv",
	Schema: schema.Schema{Fields: []schema.Field{
		{Name: "mc", Type: schema.TypeInteger, Constraints: &schema.Constraints{Required: true}},
		{Name: "mc_onset", Type: schema.TypeFraction, Constraints: &schema.Constraints{Required: true}},
		{Name: "duration", Type: schema.TypeFraction},
		{Name: "name", Type: schema.TypeString},
		{Name: "slurs", Type: schema.TypeArray},
	}},
}

func writeTSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.notes.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTypedColumns(t *testing.T) {
	path := writeTSV(t,
		"mc\tmc_onset\tduration\tname\tslurs\n"+
			"1\t0\t1/4\tC4\t\n"+
			"1\t1/4\t1/8\tE4\t1, 2\n"+
			"2\t0\tNA\t\tNA\n")

	tbl, err := Load(path, notesResource)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(3, tbl.NumRows())
	assert.Equal([]string{"mc", "mc_onset", "duration", "name", "slurs"}, tbl.Header)

	mc, ok := tbl.Column("mc")
	require.True(t, ok)
	assert.Equal([]int64{1, 1, 2}, mc.Ints)

	onset, _ := tbl.Column("mc_onset")
	assert.Equal("1/4", onset.Fracs[1].String())

	dur, _ := tbl.Column("duration")
	assert.False(dur.Null[0])
	assert.True(dur.Null[2])
	assert.Equal("NA", dur.Raw[2])

	// empty string is a value, not a null
	name, _ := tbl.Column("name")
	assert.False(name.Null[2])
	assert.Equal("", name.Strs[2])

	slurs, _ := tbl.Column("slurs")
	assert.Equal([]string{"1", "2"}, slurs.Lists[1])
	assert.Equal([]string{}, slurs.Lists[0])
	assert.True(slurs.Null[2])
}

func TestLoadRejectsWrongColumnCount(t *testing.T) {
	path := writeTSV(t,
		"mc\tmc_onset\tduration\tname\tslurs\n"+
			"1\t0\t1/4\tC4\n")

	_, err := Load(path, notesResource)
	assert.Error(t, err)
}

func TestLoadRejectsBadValue(t *testing.T) {
	cases := map[string]string{
		"bad integer":  "x\t0\t1/4\tC4\t\n",
		"bad fraction": "1\t0.25\t1/4\tC4\t\n",
	}
	for name, row := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeTSV(t, "mc\tmc_onset\tduration\tname\tslurs\n"+row)
			_, err := Load(path, notesResource)
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsNullInRequiredColumn(t *testing.T) {
	path := writeTSV(t,
		"mc\tmc_onset\tduration\tname\tslurs\n"+
			"NA\t0\t1/4\tC4\t\n")

	_, err := Load(path, notesResource)
	assert.ErrorContains(t, err, "required")
}

func TestLoadRejectsHeaderMismatch(t *testing.T) {
	path := writeTSV(t, "mc\tonset\tduration\tname\tslurs\n")

	_, err := Load(path, notesResource)
	assert.Error(t, err)
}

func TestLoadRejectsMissingHeader(t *testing.T) {
	path := writeTSV(t, "")

	_, err := Load(path, notesResource)
	assert.ErrorContains(t, err, "header")
}

func TestRecords(t *testing.T) {
	path := writeTSV(t,
		"mc\tmc_onset\tduration\tname\tslurs\n"+
			"1\t3/4\tNA\tC4\t\n")

	tbl, err := Load(path, notesResource)
	require.NoError(t, err)

	records := tbl.Records()
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0]["mc"])
	assert.Equal(t, "3/4", records[0]["mc_onset"])
	assert.Nil(t, records[0]["duration"])
	assert.Equal(t, "C4", records[0]["name"])
}

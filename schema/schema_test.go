package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDescriptor(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.notes.resource.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadResource(t *testing.T) {
	path := writeDescriptor(t, `{
		"name": "test.notes",
		"path": "notes/test.notes.tsv",
		"profile": "tabular-data-resource",
		"schema": {
			"fields": [
				{"name": "mc", "type": "integer", "constraints": {"required": true}},
				{"name": "mc_onset", "type": "fraction"},
				{"name": "name", "type": "string"},
				{"name": "slurs", "type": "array"}
			]
		}
	}`)

	r, err := LoadResource(path)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("test.notes", r.Name)
	assert.Equal([]string{"mc", "mc_onset", "name", "slurs"}, r.FieldNames())
	assert.Equal([]string{"NA"}, r.Sentinels())

	mc, ok := r.Field("mc")
	require.True(t, ok)
	assert.False(mc.Nullable())

	onset, ok := r.Field("mc_onset")
	require.True(t, ok)
	assert.True(onset.Nullable())
}

func TestLoadResourceRejectsUnknownType(t *testing.T) {
	path := writeDescriptor(t, `{
		"name": "x",
		"path": "x.tsv",
		"schema": {"fields": [{"name": "a", "type": "float"}]}
	}`)

	_, err := LoadResource(path)
	assert.ErrorContains(t, err, "unknown type")
}

func TestLoadResourceRejectsEmptySchema(t *testing.T) {
	path := writeDescriptor(t, `{"name": "x", "path": "x.tsv", "schema": {"fields": []}}`)

	_, err := LoadResource(path)
	assert.ErrorContains(t, err, "no fields")
}

func TestCheckHeader(t *testing.T) {
	r := &Resource{Schema: Schema{Fields: []Field{
		{Name: "mc", Type: TypeInteger},
		{Name: "mn", Type: TypeInteger},
	}}}

	assert := assert.New(t)
	assert.NoError(r.CheckHeader([]string{"mc", "mn"}))
	assert.Error(r.CheckHeader([]string{"mn", "mc"}))
	assert.Error(r.CheckHeader([]string{"mc"}))
	assert.Error(r.CheckHeader([]string{"mc", "mn", "extra"}))
}

func TestCustomSentinels(t *testing.T) {
	r := &Resource{Schema: Schema{
		Fields:        []Field{{Name: "a", Type: TypeString}},
		MissingValues: []string{"", "NULL"},
	}}
	// the empty string may be declared but never acts as a sentinel
	assert.Equal(t, []string{"NULL"}, r.Sentinels())
}

func TestPackageRoundTrip(t *testing.T) {
	p := &Package{
		Name:     "testcorpus",
		Title:    "Test Corpus",
		Licenses: []License{{Name: "CC-BY-4.0"}},
		Resources: []*Resource{{
			Name:   "sub.notes",
			Path:   "sub.notes.tsv",
			Schema: Schema{Fields: []Field{{Name: "mc", Type: TypeInteger}}},
		}},
	}

	path := filepath.Join(t.TempDir(), "datapackage.json")
	require.NoError(t, p.WriteFile(path))

	got, err := LoadPackage(path)
	require.NoError(t, err)
	assert.Equal(t, "testcorpus", got.Name)
	require.NotNil(t, got.Resource("sub.notes"))
	assert.Equal(t, "sub.notes.tsv", got.Resource("sub.notes").Path)
}

package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhentschel/anntab/config"
	"github.com/jhentschel/anntab/corpus"
	"github.com/jhentschel/anntab/corpustest"
	"github.com/jhentschel/anntab/model"
)

func concatFixture(t *testing.T) (*model.Corpus, *Table) {
	t.Helper()
	root := t.TempDir()
	corpustest.WriteCorpus(t, root)
	c, err := corpus.Scan(root, config.DefaultProfile())
	require.NoError(t, err)
	concatenated, err := Concat(c)
	require.NoError(t, err)
	return c, concatenated
}

func TestConcatAddsCorpusColumnAndPrefixesPaths(t *testing.T) {
	_, concatenated := concatFixture(t)

	assert := assert.New(t)
	assert.Equal("corpus", concatenated.Header[0])
	require.Len(t, concatenated.Rows, 3)

	// sonatas sort before songs
	assert.Equal("demo_sonatas", concatenated.Rows[0][0])
	assert.Equal("demo_songs", concatenated.Rows[1][0])

	subdirIdx := concatenated.columnIndex("subdirectory")
	require.GreaterOrEqual(t, subdirIdx, 0)
	assert.Equal("demo_sonatas/MS3", concatenated.Rows[0][subdirIdx])
}

func TestConcatNormalizesBooleans(t *testing.T) {
	root := t.TempDir()
	sub := corpustest.WriteSubcorpus(t, root, "songs", "p01")
	content := "fname\thas_drumset\np01\ttrue\n"
	require.NoError(t, os.WriteFile(filepath.Join(sub, "metadata.tsv"), []byte(content), 0o644))

	c, err := corpus.Scan(root, nil)
	require.NoError(t, err)
	concatenated, err := Concat(c)
	require.NoError(t, err)

	idx := concatenated.columnIndex("has_drumset")
	assert.Equal(t, "1", concatenated.Rows[0][idx])
}

func TestConcatAlignsDivergentHeaders(t *testing.T) {
	root := t.TempDir()
	subA := corpustest.WriteSubcorpus(t, root, "a_sub", "p01")
	subB := corpustest.WriteSubcorpus(t, root, "b_sub", "p02")
	require.NoError(t, os.WriteFile(filepath.Join(subA, "metadata.tsv"),
		[]byte("fname\tcomposer\np01\tDoe\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(subB, "metadata.tsv"),
		[]byte("fname\tarranger\np02\tRoe\n"), 0o644))

	c, err := corpus.Scan(root, nil)
	require.NoError(t, err)
	concatenated, err := Concat(c)
	require.NoError(t, err)

	assert.Equal(t, []string{"corpus", "fname", "composer", "arranger"}, concatenated.Header)
	composerIdx := concatenated.columnIndex("composer")
	assert.Equal(t, "Doe", concatenated.Rows[0][composerIdx])
	assert.Equal(t, "", concatenated.Rows[1][composerIdx])
}

func TestWriteTSVRoundTrip(t *testing.T) {
	_, concatenated := concatFixture(t)

	path := filepath.Join(t.TempDir(), "concatenated_metadata.tsv")
	require.NoError(t, concatenated.WriteTSV(path))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, concatenated.Header, reloaded.Header)
	assert.Equal(t, concatenated.Rows, reloaded.Rows)
}

func TestOverview(t *testing.T) {
	_, concatenated := concatFixture(t)

	overview := Overview(concatenated)
	assert := assert.New(t)
	assert.True(strings.HasPrefix(overview, "## Overview"))
	assert.Contains(overview, "### demo_songs")
	assert.Contains(overview, "### demo_sonatas")
	assert.Contains(overview, "|file_name|measures|labels|standard|")
	assert.Contains(overview, "|demo01|3|3|2.3.0|")
}

func TestSpliceReadmeKeepsPreamble(t *testing.T) {
	readme := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(readme, []byte(
		"# My Corpus\n\nHand-written intro.\n\n# Overview\n\nstale table\n"), 0o644))

	require.NoError(t, SpliceReadme(readme, "## Overview\n\n### fresh\n"))

	data, err := os.ReadFile(readme)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Hand-written intro.")
	assert.Contains(t, content, "### fresh")
	assert.NotContains(t, content, "stale table")
}

func TestSpliceReadmeCreatesFile(t *testing.T) {
	readme := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, SpliceReadme(readme, "## Overview\n"))
	data, err := os.ReadFile(readme)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Overview")
}

package midiexport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jhentschel/anntab/constants"
	"github.com/jhentschel/anntab/corpus"
	"github.com/jhentschel/anntab/corpustest"
	"github.com/jhentschel/anntab/schema"
	"github.com/jhentschel/anntab/tabular"
)

func fixtureTables(t *testing.T) (notes, measures *tabular.Table) {
	t.Helper()
	root := t.TempDir()
	corpustest.WriteSubcorpus(t, root, "songs", "p01")
	c, err := corpus.Scan(root, nil)
	require.NoError(t, err)

	p := c.Subcorpora[0].Pieces[0]
	notes, _, err = corpus.LoadTable(p, constants.KindNotes)
	require.NoError(t, err)
	measures, _, err = corpus.LoadTable(p, constants.KindMeasures)
	require.NoError(t, err)
	return notes, measures
}

func TestMeasureOffsets(t *testing.T) {
	_, measures := fixtureTables(t)

	offsets, err := MeasureOffsets(measures)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("0", offsets[1].String())
	assert.Equal("3/4", offsets[2].String())
	assert.Equal("3/2", offsets[3].String())
}

func collectNotes(t *testing.T, s *smf.SMF) (ons, offs []uint8) {
	t.Helper()
	require.Len(t, s.Tracks, 1)
	for _, evt := range s.Tracks[0] {
		var ch, key, vel uint8
		switch {
		case evt.Message.GetNoteOn(&ch, &key, &vel):
			ons = append(ons, key)
		case evt.Message.GetNoteOff(&ch, &key, &vel):
			offs = append(offs, key)
		}
	}
	return ons, offs
}

func TestRenderMergesTiedNotes(t *testing.T) {
	notes, measures := fixtureTables(t)

	s, err := Render(notes, measures, "p01")
	require.NoError(t, err)

	ons, offs := collectNotes(t, s)
	// five note-head rows, one tied pair -> four sounding events
	assert.Equal(t, []uint8{60, 64, 67, 72}, ons)
	assert.Len(t, offs, 4)
}

func TestRenderTiming(t *testing.T) {
	notes, measures := fixtureTables(t)

	s, err := Render(notes, measures, "p01")
	require.NoError(t, err)

	var tick int64
	type timed struct {
		tick int64
		on   bool
		key  uint8
	}
	var got []timed
	for _, evt := range s.Tracks[0] {
		tick += int64(evt.Delta)
		var ch, key, vel uint8
		switch {
		case evt.Message.GetNoteOn(&ch, &key, &vel):
			got = append(got, timed{tick, true, key})
		case evt.Message.GetNoteOff(&ch, &key, &vel):
			got = append(got, timed{tick, false, key})
		}
	}

	// whole note = 4 * 480 ticks; the tied E4 spans two quarters
	want := []timed{
		{0, true, 60},
		{480, false, 60},
		{480, true, 64},
		{1440, false, 64},
		{1440, true, 67},
		{2880, false, 67},
		{2880, true, 72},
		{3840, false, 72},
	}
	assert.Equal(t, want, got)
}

func TestRenderRejectsUnknownMeasure(t *testing.T) {
	notes, measures := fixtureTables(t)

	_ = measures

	// a measures table missing mc 2 and 3
	short := "mc\tmn\ttimesig\tact_dur\trepeats\tbarline\n" +
		"1\t1\t3/4\t3/4\tNA\tNA\n"
	shortPath := filepath.Join(t.TempDir(), "short.measures.tsv")
	require.NoError(t, os.WriteFile(shortPath, []byte(short), 0o644))
	shortTbl, err := tabular.Load(shortPath, corpustest.Descriptor("short", constants.KindMeasures))
	require.NoError(t, err)

	_, err = Render(notes, shortTbl, "p01")
	assert.ErrorContains(t, err, "not in measures table")
}

func TestRenderRejectsMistypedColumns(t *testing.T) {
	_, measures := fixtureTables(t)

	// duration typed as integer loads fine but cannot be rendered
	desc := corpustest.Descriptor("flat", constants.KindNotes)
	for i := range desc.Schema.Fields {
		if desc.Schema.Fields[i].Name == "duration" {
			desc.Schema.Fields[i].Type = schema.TypeInteger
		}
	}
	flat := "mc\tmn\tmc_onset\tmn_onset\tduration\ttied\tstaff\tvoice\tmidi\tname\n" +
		"1\t1\t0\t0\t1\tNA\t1\t1\t60\tC4\n"
	flatPath := filepath.Join(t.TempDir(), "flat.notes.tsv")
	require.NoError(t, os.WriteFile(flatPath, []byte(flat), 0o644))
	flatTbl, err := tabular.Load(flatPath, desc)
	require.NoError(t, err)

	_, err = Render(flatTbl, measures, "flat")
	assert.ErrorContains(t, err, "typed integer, want fraction")
}

func TestWriteFile(t *testing.T) {
	notes, measures := fixtureTables(t)
	s, err := Render(notes, measures, "p01")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "p01.mid")
	require.NoError(t, WriteFile(s, path))

	reread, err := smf.ReadFile(path)
	require.NoError(t, err)
	ons, _ := collectNotes(t, reread)
	assert.Len(t, ons, 4)
}

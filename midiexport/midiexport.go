// Package midiexport renders a piece's notes table to a Standard MIDI
// File, for checking annotations by ear. Positions come from the measures
// table: a note sounds at its measure's cumulative offset plus its onset.
package midiexport

import (
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jhentschel/anntab/frac"
	"github.com/jhentschel/anntab/schema"
	"github.com/jhentschel/anntab/tabular"
)

// TicksPerQuarter is the SMF resolution. Fractions are whole-note based,
// so one whole note is 4 * TicksPerQuarter ticks.
const TicksPerQuarter = 480

const velocity = 64

// Tie markers in the tied column: 1 opens a tie, 0 continues it, -1 ends
// it. A null means the note head is a sounding event of its own.
const (
	tieOpen     = 1
	tieContinue = 0
	tieClose    = -1
)

type soundingNote struct {
	start frac.Frac
	dur   frac.Frac
	key   uint8
}

// typedColumn fetches a column and insists on its declared type, so the
// renderer never indexes a typed slice the loader did not fill.
func typedColumn(tbl *tabular.Table, table, name, typ string) (*tabular.Column, error) {
	col, ok := tbl.Column(name)
	if !ok {
		return nil, fmt.Errorf("%s table has no %s column", table, name)
	}
	if col.Field.Type != typ {
		return nil, fmt.Errorf("%s table column %s is typed %s, want %s",
			table, name, col.Field.Type, typ)
	}
	return col, nil
}

// optionalColumn is typedColumn for columns that may be absent; a present
// column with the wrong type is still an error.
func optionalColumn(tbl *tabular.Table, name, typ string) (*tabular.Column, error) {
	col, ok := tbl.Column(name)
	if !ok {
		return nil, nil
	}
	if col.Field.Type != typ {
		return nil, fmt.Errorf("notes table column %s is typed %s, want %s",
			name, col.Field.Type, typ)
	}
	return col, nil
}

// MeasureOffsets accumulates each measure's start position in whole notes
// from the actual durations in the measures table.
func MeasureOffsets(measures *tabular.Table) (map[int64]frac.Frac, error) {
	mc, err := typedColumn(measures, "measures", "mc", schema.TypeInteger)
	if err != nil {
		return nil, err
	}
	actDur, err := typedColumn(measures, "measures", "act_dur", schema.TypeFraction)
	if err != nil {
		return nil, err
	}

	offsets := make(map[int64]frac.Frac, measures.NumRows())
	pos := frac.Zero()
	for row := 0; row < measures.NumRows(); row++ {
		if mc.Null[row] || actDur.Null[row] {
			return nil, fmt.Errorf("measures table row %d: null mc or act_dur", row+2)
		}
		offsets[mc.Ints[row]] = pos
		pos = pos.Add(actDur.Fracs[row])
	}
	return offsets, nil
}

// Render builds a one-track SMF from the notes table. Tied continuation
// rows extend the sounding event opened before them instead of emitting a
// new note-on.
func Render(notes, measures *tabular.Table, name string) (*smf.SMF, error) {
	offsets, err := MeasureOffsets(measures)
	if err != nil {
		return nil, err
	}

	sounding, err := collectSoundingNotes(notes, offsets)
	if err != nil {
		return nil, err
	}

	type tickEvent struct {
		tick int64
		on   bool
		key  uint8
	}
	var events []tickEvent
	for _, n := range sounding {
		start := n.start.ScaleInt(4 * TicksPerQuarter)
		end := n.start.Add(n.dur).ScaleInt(4 * TicksPerQuarter)
		events = append(events, tickEvent{tick: start, on: true, key: n.key})
		events = append(events, tickEvent{tick: end, on: false, key: n.key})
	}
	// note-offs first at equal ticks, so repeated pitches retrigger
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return !events[i].on && events[j].on
	})

	var track smf.Track
	track = append(track, smf.Event{Delta: 0, Message: smf.MetaTrackSequenceName(name)})
	track = append(track, smf.Event{Delta: 0, Message: smf.MetaTempo(120)})

	var lastTick int64
	for _, e := range events {
		delta := uint32(e.tick - lastTick)
		lastTick = e.tick
		var msg midi.Message
		if e.on {
			msg = midi.NoteOn(0, e.key, velocity)
		} else {
			msg = midi.NoteOff(0, e.key)
		}
		track = append(track, smf.Event{Delta: delta, Message: smf.Message(msg)})
	}
	track.Close(0)

	var s smf.SMF
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)
	s.Tracks = append(s.Tracks, track)
	return &s, nil
}

func collectSoundingNotes(notes *tabular.Table, offsets map[int64]frac.Frac) ([]soundingNote, error) {
	required := make(map[string]*tabular.Column)
	for name, typ := range map[string]string{
		"mc":       schema.TypeInteger,
		"mc_onset": schema.TypeFraction,
		"duration": schema.TypeFraction,
		"midi":     schema.TypeInteger,
	} {
		col, err := typedColumn(notes, "notes", name, typ)
		if err != nil {
			return nil, err
		}
		required[name] = col
	}
	tied, err := optionalColumn(notes, "tied", schema.TypeInteger)
	if err != nil {
		return nil, err
	}
	staff, err := optionalColumn(notes, "staff", schema.TypeInteger)
	if err != nil {
		return nil, err
	}
	voice, err := optionalColumn(notes, "voice", schema.TypeInteger)
	if err != nil {
		return nil, err
	}
	hasTied := tied != nil

	layerOf := func(row int) [3]int64 {
		var l [3]int64
		if staff != nil && !staff.Null[row] {
			l[0] = staff.Ints[row]
		}
		if voice != nil && !voice.Null[row] {
			l[1] = voice.Ints[row]
		}
		l[2] = required["midi"].Ints[row]
		return l
	}

	var sounding []soundingNote
	pending := make(map[[3]int64]*soundingNote)

	for row := 0; row < notes.NumRows(); row++ {
		mc := required["mc"].Ints[row]
		offset, ok := offsets[mc]
		if !ok {
			return nil, fmt.Errorf("notes table row %d: mc %d not in measures table", row+2, mc)
		}
		start := offset.Add(required["mc_onset"].Fracs[row])
		dur := required["duration"].Fracs[row]
		key := uint8(required["midi"].Ints[row])

		marker := int64(-2)
		if hasTied && !tied.Null[row] {
			marker = tied.Ints[row]
		}

		switch marker {
		case tieOpen:
			pending[layerOf(row)] = &soundingNote{start: start, dur: dur, key: key}
		case tieContinue, tieClose:
			if open, ok := pending[layerOf(row)]; ok {
				open.dur = open.dur.Add(dur)
				if marker == tieClose {
					sounding = append(sounding, *open)
					delete(pending, layerOf(row))
				}
			} else {
				// dangling continuation, sound it on its own
				sounding = append(sounding, soundingNote{start: start, dur: dur, key: key})
			}
		default:
			sounding = append(sounding, soundingNote{start: start, dur: dur, key: key})
		}
	}
	// unterminated ties still sound
	for _, open := range pending {
		sounding = append(sounding, *open)
	}
	return sounding, nil
}

// WriteFile stores the rendered SMF.
func WriteFile(s *smf.SMF, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := s.WriteTo(f); err != nil {
		return err
	}
	return nil
}

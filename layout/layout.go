// Package layout holds the fixed key-to-note table of the accordion.
//
// Keys sit on two interleaved rows. The number row repeats notes of the letter
// row at the positions a finger reaches them, so several keys share a note.
// The values are data, not a formula: the top row is offset from the home row
// by roughly half a key on real hardware.
package layout

import (
	"fmt"
	"sort"
)

// KeyID names a physical key the way the input sources report it: the
// unshifted character for printable keys, "esc" for Escape.
type KeyID string

// Note is a MIDI note number (0-127).
type Note uint8

const KeyEscape KeyID = "esc"

// Map is an immutable key-to-note association.
type Map struct {
	notes map[KeyID]Note
}

// Entry is one row of the table.
type Entry struct {
	Key  KeyID
	Note Note
}

var accordion = []Entry{
	{"1", 47},
	{"q", 48},
	{"a", 49},
	{"z", 50},
	{"2", 50},
	{"w", 51},
	{"s", 52},
	{"x", 53},
	{"3", 53},
	{"e", 54},
	{"d", 55},
	{"c", 56},
	{"4", 56},
	{"r", 57},
	{"f", 58},
	{"v", 59},
	{"5", 59},
	{"t", 60},
	{"g", 61},
	{"b", 62},
	{"6", 62},
	{"y", 63},
	{"h", 64},
	{"n", 65},
	{"7", 65},
	{"u", 66},
	{"j", 67},
	{"m", 68},
	{"8", 68},
	{"i", 69},
	{"k", 70},
	{",", 71},
	{"9", 71},
	{"o", 72},
	{"l", 73},
	{".", 74},
	{"0", 74},
	{"p", 75},
	{";", 76},
	{"/", 77},
	{"-", 77},
	{"[", 78},
	{"'", 79},
	{"=", 80},
	{"]", 81},
	{"\\", 84},
}

var defaultMap = New(accordion)

// Default returns the accordion layout. The map is built once and shared.
func Default() *Map {
	return defaultMap
}

// New freezes entries into a Map. A later entry for the same key wins.
func New(entries []Entry) *Map {
	m := &Map{notes: make(map[KeyID]Note, len(entries))}
	for _, e := range entries {
		m.notes[e.Key] = e.Note
	}
	return m
}

// Lookup returns the note for id, or false if the key is not part of the layout.
func (m *Map) Lookup(id KeyID) (Note, bool) {
	n, ok := m.notes[id]
	return n, ok
}

func (m *Map) Len() int {
	return len(m.notes)
}

// Entries returns the table ordered by note, then key.
func (m *Map) Entries() []Entry {
	out := make([]Entry, 0, len(m.notes))
	for k, n := range m.notes {
		out = append(out, Entry{Key: k, Note: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Note != out[j].Note {
			return out[i].Note < out[j].Note
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// KeysFor returns every key that plays n, sorted.
func (m *Map) KeysFor(n Note) []KeyID {
	var keys []KeyID
	for k, v := range m.notes {
		if v == n {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

var pitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClass returns the note name without octave.
func PitchClass(n Note) string {
	return pitchClasses[n%12]
}

// Name returns the note name with octave, C4 = 60.
func Name(n Note) string {
	return fmt.Sprintf("%s%d", pitchClasses[n%12], int(n)/12-1)
}

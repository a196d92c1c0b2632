// Package accordion turns key transitions into note transitions.
package accordion

import (
	"sort"

	"keyaccordion/debug"
	"keyaccordion/layout"
)

// Tracker owns the set of sounding notes for one input source. It is not safe
// for concurrent use; the loop that reads input owns it.
type Tracker struct {
	layout   *layout.Map
	sounding map[layout.Note]struct{}
}

// NewTracker returns a tracker over m, or the default layout when m is nil.
func NewTracker(m *layout.Map) *Tracker {
	if m == nil {
		m = layout.Default()
	}
	return &Tracker{
		layout:   m,
		sounding: make(map[layout.Note]struct{}),
	}
}

// Handle applies one key event and returns the note event it produces, if any.
//
// Repeats never produce anything. A press of a note that is already sounding
// is dropped, so two keys sharing a note act as one. A release always produces
// a note-off even when the note was not sounding: a hanging note downstream is
// worse than a redundant note-off.
func (t *Tracker) Handle(ev KeyEvent) (NoteEvent, bool) {
	note, ok := t.layout.Lookup(ev.ID)
	if !ok {
		return NoteEvent{}, false
	}

	switch ev.Kind {
	case Press:
		if _, on := t.sounding[note]; on {
			debug.Log("tracker", "press %s: %s already sounding", ev.ID, layout.Name(note))
			return NoteEvent{}, false
		}
		t.sounding[note] = struct{}{}
		return NoteEvent{Pressed: true, Note: note, Velocity: Velocity}, true

	case Release:
		if _, on := t.sounding[note]; !on {
			debug.Log("tracker", "release %s: %s was not sounding", ev.ID, layout.Name(note))
		}
		delete(t.sounding, note)
		return NoteEvent{Pressed: false, Note: note, Velocity: Velocity}, true
	}

	return NoteEvent{}, false
}

// Shutdown releases every sounding note and empties the set.
func (t *Tracker) Shutdown() []NoteEvent {
	if len(t.sounding) == 0 {
		return nil
	}
	out := make([]NoteEvent, 0, len(t.sounding))
	for _, n := range t.Sounding() {
		out = append(out, NoteEvent{Pressed: false, Note: n, Velocity: Velocity})
	}
	t.sounding = make(map[layout.Note]struct{})
	debug.Log("tracker", "shutdown released %d notes", len(out))
	return out
}

// Sounding returns the sounding notes in ascending order.
func (t *Tracker) Sounding() []layout.Note {
	notes := make([]layout.Note, 0, len(t.sounding))
	for n := range t.sounding {
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i] < notes[j] })
	return notes
}

func (t *Tracker) IsSounding(n layout.Note) bool {
	_, ok := t.sounding[n]
	return ok
}

func (t *Tracker) Len() int {
	return len(t.sounding)
}

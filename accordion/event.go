package accordion

import (
	"fmt"

	"keyaccordion/layout"
)

// Kind of a raw key transition.
type Kind int

const (
	Press Kind = iota
	Release
	Repeat
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	case Repeat:
		return "repeat"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// KeyEvent is one transition reported by an input source.
type KeyEvent struct {
	ID   layout.KeyID
	Kind Kind
	Ctrl bool // Control held
}

// Terminates reports whether the event ends the session: Escape, or Ctrl+C.
func (e KeyEvent) Terminates() bool {
	return e.ID == layout.KeyEscape || (e.Ctrl && e.ID == "c")
}

func (e KeyEvent) String() string {
	if e.Ctrl {
		return fmt.Sprintf("%s ctrl+%s", e.Kind, e.ID)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.ID)
}

// Velocity is sent with every note-on and note-off.
const Velocity uint8 = 127

// NoteEvent is a normalized note transition.
type NoteEvent struct {
	Pressed  bool
	Note     layout.Note
	Velocity uint8
}

func (n NoteEvent) String() string {
	if n.Pressed {
		return "on " + layout.Name(n.Note)
	}
	return "off " + layout.Name(n.Note)
}

package accordion

import (
	"context"
	"errors"
	"fmt"
	"io"

	"keyaccordion/debug"
)

// Source delivers key events one at a time. Next blocks until an event is
// available and returns io.EOF when the source is exhausted.
type Source interface {
	Next() (KeyEvent, error)
}

// Sink receives every note event, e.g. a MIDI port.
type Sink interface {
	Send(NoteEvent) error
}

// Display observes note events. It must not block for long.
type Display interface {
	Show(NoteEvent)
}

// Stats counts what a session did.
type Stats struct {
	Keys         int // key events read, terminator included
	NotesOn      int
	NotesOff     int // flushed releases included
	SinkFailures int
}

// Session wires a source to a sink through a Tracker.
type Session struct {
	Tracker  *Tracker
	Sink     Sink
	Displays []Display

	stats Stats
}

// NewSession returns a session over the default layout.
func NewSession(sink Sink, displays ...Display) *Session {
	return &Session{
		Tracker:  NewTracker(nil),
		Sink:     sink,
		Displays: displays,
	}
}

// Run reads src until Escape or Ctrl+C, the end of src, or ctx is cancelled.
// Cancellation is checked between reads only. Every note still sounding is
// released before Run returns, including when the source fails.
func (s *Session) Run(ctx context.Context, src Source) (Stats, error) {
	var runErr error

	for ctx.Err() == nil {
		ev, err := src.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				runErr = fmt.Errorf("read input: %w", err)
			}
			break
		}
		s.stats.Keys++

		if ev.Terminates() {
			debug.Log("session", "terminated by %s", ev)
			break
		}

		if note, ok := s.Tracker.Handle(ev); ok {
			s.emit(note)
		}
	}

	for _, note := range s.Tracker.Shutdown() {
		s.emit(note)
	}

	debug.Log("session", "done keys=%d on=%d off=%d sink_failures=%d",
		s.stats.Keys, s.stats.NotesOn, s.stats.NotesOff, s.stats.SinkFailures)
	return s.stats, runErr
}

// emit forwards one note. A failed send is logged and skipped: one missed
// message costs less than ending the session.
func (s *Session) emit(note NoteEvent) {
	if note.Pressed {
		s.stats.NotesOn++
	} else {
		s.stats.NotesOff++
	}

	if s.Sink != nil {
		if err := s.Sink.Send(note); err != nil {
			s.stats.SinkFailures++
			debug.Log("session", "send %s failed: %v", note, err)
		}
	}

	for _, d := range s.Displays {
		d.Show(note)
	}
}

// Run is a shorthand for NewSession(sink, displays...).Run(ctx, src).
func Run(ctx context.Context, src Source, sink Sink, displays ...Display) (Stats, error) {
	return NewSession(sink, displays...).Run(ctx, src)
}

package midi

import (
	"sync"

	"keyaccordion/accordion"
	"keyaccordion/debug"
)

// Recorder is a sink that keeps the wire bytes of every event instead of
// sending them. Used for -dry-run and tests.
type Recorder struct {
	mu       sync.Mutex
	messages [][3]byte
}

func (r *Recorder) Send(ev accordion.NoteEvent) error {
	b := Encode(ev)
	debug.Log("midi", "record % x", b[:])
	r.mu.Lock()
	r.messages = append(r.messages, b)
	r.mu.Unlock()
	return nil
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() [][3]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][3]byte, len(r.messages))
	copy(out, r.messages)
	return out
}

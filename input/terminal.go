package input

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"keyaccordion/accordion"
	"keyaccordion/debug"
)

// RawMode puts fd in raw mode and returns the function that restores it.
func RawMode(fd int) (restore func() error, err error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enable raw mode: %w", err)
	}
	debug.Log("input", "terminal set to raw mode")
	return func() error {
		debug.Log("input", "terminal restored")
		return term.Restore(fd, state)
	}, nil
}

var flushInput = flushTTY

// RawModeDiscard is RawMode for a terminal nobody reads from, as with the
// evdev backend: keys typed while raw are discarded on restore instead of
// reaching the shell afterwards.
func RawModeDiscard(fd int) (restore func() error, err error) {
	restore, err = RawMode(fd)
	if err != nil {
		return nil, err
	}
	return discardOnRestore(fd, restore), nil
}

func discardOnRestore(fd int, restore func() error) func() error {
	return func() error {
		if err := flushInput(fd); err != nil {
			debug.Log("input", "flush typed keys: %v", err)
		}
		return restore()
	}
}

// Terminal reads keys from a terminal in raw mode. Release and repeat events
// are only reported by terminals that speak the kitty keyboard protocol;
// elsewhere every key is a Press.
type Terminal struct {
	in      io.Reader
	out     io.Writer
	restore func() error

	dec     Decoder
	buf     []byte
	pending []accordion.KeyEvent

	mu     sync.Mutex
	closed bool
}

// OpenTerminal switches in to raw mode and asks the terminal for key release
// reporting. The caller must Close it to give the user their terminal back.
func OpenTerminal(in *os.File, out io.Writer) (*Terminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", in.Name())
	}
	restore, err := RawMode(fd)
	if err != nil {
		return nil, err
	}

	t := newTerminal(in, out)
	t.restore = restore

	if _, err := io.WriteString(out, kittyPush+kittyQuery); err != nil {
		restore()
		return nil, fmt.Errorf("enable key release reporting: %w", err)
	}
	return t, nil
}

func newTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:  in,
		out: out,
		buf: make([]byte, 256),
	}
}

// Next blocks until the next key event.
func (t *Terminal) Next() (accordion.KeyEvent, error) {
	for len(t.pending) == 0 {
		if t.isClosed() {
			return accordion.KeyEvent{}, ErrClosed
		}
		n, err := t.in.Read(t.buf)
		if n > 0 {
			t.pending = t.dec.Feed(t.buf[:n])
		}
		if err != nil && len(t.pending) == 0 {
			return accordion.KeyEvent{}, err
		}
	}
	ev := t.pending[0]
	t.pending = t.pending[1:]
	debug.Log("input", "%s", ev)
	return ev, nil
}

// ReportsRelease is true once the terminal has confirmed the kitty protocol.
// The confirmation arrives ahead of the first key.
func (t *Terminal) ReportsRelease() bool {
	return t.dec.Kitty
}

// Close pops the keyboard flags and restores the terminal. Safe to call more
// than once.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	var err error
	if t.out != nil {
		_, err = io.WriteString(t.out, kittyPop)
	}
	if t.restore != nil {
		if rerr := t.restore(); rerr != nil {
			err = rerr
		}
	}
	return err
}

func (t *Terminal) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

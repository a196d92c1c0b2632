package accordion_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyaccordion/accordion"
)

type sliceSource struct {
	events []accordion.KeyEvent
	err    error // returned once events run out; io.EOF when nil
}

func (s *sliceSource) Next() (accordion.KeyEvent, error) {
	if len(s.events) == 0 {
		if s.err != nil {
			return accordion.KeyEvent{}, s.err
		}
		return accordion.KeyEvent{}, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

type recordSink struct {
	sent []accordion.NoteEvent
	fail map[int]bool // call index -> fail
	n    int
}

func (r *recordSink) Send(ev accordion.NoteEvent) error {
	defer func() { r.n++ }()
	if r.fail[r.n] {
		return errors.New("port gone")
	}
	r.sent = append(r.sent, ev)
	return nil
}

type recordDisplay struct {
	shown []accordion.NoteEvent
}

func (d *recordDisplay) Show(ev accordion.NoteEvent) {
	d.shown = append(d.shown, ev)
}

func TestRunStopsAtEscapeAndFlushes(t *testing.T) {
	src := &sliceSource{events: []accordion.KeyEvent{
		press("q"),
		repeat("q"),
		press("w"),
		release("w"),
		press("t"),
		press("esc"),
		press("y"), // never read
	}}
	sink := &recordSink{}
	disp := &recordDisplay{}

	stats, err := accordion.Run(context.Background(), src, sink, disp)
	require.NoError(t, err)

	want := []accordion.NoteEvent{on(48), on(51), off(51), on(60), off(48), off(60)}
	assert.Equal(t, want, sink.sent)
	assert.Equal(t, want, disp.shown)
	assert.Equal(t, accordion.Stats{Keys: 6, NotesOn: 3, NotesOff: 3}, stats)
	assert.Len(t, src.events, 1)
}

func TestRunStopsAtCtrlC(t *testing.T) {
	src := &sliceSource{events: []accordion.KeyEvent{
		press("c"),
		{ID: "c", Kind: accordion.Press, Ctrl: true},
	}}
	sink := &recordSink{}

	_, err := accordion.Run(context.Background(), src, sink)
	require.NoError(t, err)
	assert.Equal(t, []accordion.NoteEvent{on(56), off(56)}, sink.sent)
}

func TestRunEndOfInput(t *testing.T) {
	src := &sliceSource{events: []accordion.KeyEvent{press("a"), press("s")}}
	sink := &recordSink{}

	_, err := accordion.Run(context.Background(), src, sink)
	require.NoError(t, err)
	assert.Equal(t, []accordion.NoteEvent{on(49), on(52), off(49), off(52)}, sink.sent)
}

func TestRunInputErrorIsFatalButFlushes(t *testing.T) {
	boom := errors.New("tty closed")
	src := &sliceSource{events: []accordion.KeyEvent{press("a")}, err: boom}
	sink := &recordSink{}

	_, err := accordion.Run(context.Background(), src, sink)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []accordion.NoteEvent{on(49), off(49)}, sink.sent)
}

func TestRunSinkFailureContinues(t *testing.T) {
	src := &sliceSource{events: []accordion.KeyEvent{press("a"), release("a"), press("s")}}
	sink := &recordSink{fail: map[int]bool{0: true}}
	disp := &recordDisplay{}

	stats, err := accordion.Run(context.Background(), src, sink, disp)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SinkFailures)
	assert.Equal(t, []accordion.NoteEvent{off(49), on(52), off(52)}, sink.sent)
	assert.Len(t, disp.shown, 4)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &sliceSource{events: []accordion.KeyEvent{press("a")}}
	sink := &recordSink{}

	stats, err := accordion.Run(ctx, src, sink)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Keys)
	assert.Empty(t, sink.sent)
}

func TestRunWithoutSink(t *testing.T) {
	src := &sliceSource{events: []accordion.KeyEvent{press("a")}}
	disp := &recordDisplay{}

	_, err := accordion.NewSession(nil, disp).Run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, []accordion.NoteEvent{on(49), off(49)}, disp.shown)
}

package midi_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyaccordion/accordion"
	"keyaccordion/layout"
	"keyaccordion/midi"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		ev   accordion.NoteEvent
		want [3]byte
	}{
		{accordion.NoteEvent{Pressed: true, Note: 48, Velocity: 127}, [3]byte{0x90, 48, 127}},
		{accordion.NoteEvent{Pressed: false, Note: 48, Velocity: 127}, [3]byte{0x80, 48, 127}},
		{accordion.NoteEvent{Pressed: true, Note: 84, Velocity: 127}, [3]byte{0x90, 84, 0x7F}},
		// masked to seven bits
		{accordion.NoteEvent{Pressed: true, Note: 0x80 | 60, Velocity: 0xFF}, [3]byte{0x90, 60, 0x7F}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, midi.Encode(c.ev), "%s", c.ev)
	}
}

func TestMessageMatchesEncode(t *testing.T) {
	for _, pressed := range []bool{true, false} {
		for note := 47; note <= 84; note++ {
			ev := accordion.NoteEvent{Pressed: pressed, Note: layout.Note(note), Velocity: accordion.Velocity}
			want := midi.Encode(ev)
			assert.Equal(t, want[:], midi.Message(ev).Bytes(), "%s", ev)
		}
	}
}

func TestRecorder(t *testing.T) {
	var r midi.Recorder
	require.NoError(t, r.Send(accordion.NoteEvent{Pressed: true, Note: 50, Velocity: 127}))
	require.NoError(t, r.Send(accordion.NoteEvent{Pressed: false, Note: 50, Velocity: 127}))
	assert.Equal(t, [][3]byte{{0x90, 50, 127}, {0x80, 50, 127}}, r.Messages())
}

type fakePort struct {
	open   bool
	closed bool
	sent   [][]byte
	err    error
}

func (p *fakePort) Open() error             { p.open = true; return nil }
func (p *fakePort) Close() error            { p.closed = true; p.open = false; return nil }
func (p *fakePort) IsOpen() bool            { return p.open }
func (p *fakePort) Number() int             { return 0 }
func (p *fakePort) String() string          { return "fake" }
func (p *fakePort) Underlying() interface{} { return nil }
func (p *fakePort) Send(data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, append([]byte(nil), data...))
	return nil
}

func TestOutSendsWireBytes(t *testing.T) {
	port := &fakePort{}
	out, err := midi.NewOut(port)
	require.NoError(t, err)
	assert.Equal(t, "fake", out.Name())

	require.NoError(t, out.Send(accordion.NoteEvent{Pressed: true, Note: 48, Velocity: 127}))
	require.NoError(t, out.Send(accordion.NoteEvent{Pressed: false, Note: 48, Velocity: 127}))
	assert.Equal(t, [][]byte{{0x90, 48, 127}, {0x80, 48, 127}}, port.sent)

	require.NoError(t, out.Close())
	require.NoError(t, out.Close())
	assert.True(t, port.closed)
}

func TestOutSendError(t *testing.T) {
	boom := errors.New("port gone")
	port := &fakePort{err: boom}
	out, err := midi.NewOut(port)
	require.NoError(t, err)

	err = out.Send(accordion.NoteEvent{Pressed: true, Note: 48, Velocity: 127})
	assert.ErrorIs(t, err, boom)
}

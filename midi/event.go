package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"

	"keyaccordion/accordion"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// Channel is fixed; channel selection is not offered.
const Channel uint8 = 0

const sevenBitMask = 0x7F

// Message builds the channel voice message for ev: note-on or note-off on
// Channel, with note and velocity masked to seven bits. Note-offs carry the
// event's velocity too.
func Message(ev accordion.NoteEvent) gomidi.Message {
	key := uint8(ev.Note) & sevenBitMask
	vel := ev.Velocity & sevenBitMask
	if ev.Pressed {
		return gomidi.NoteOn(Channel, key, vel)
	}
	return gomidi.NoteOffVelocity(Channel, key, vel)
}

// Encode returns the three wire bytes of Message(ev).
func Encode(ev accordion.NoteEvent) [3]byte {
	typ := NoteOff
	if ev.Pressed {
		typ = NoteOn
	}
	return [3]byte{typ | (Channel & 0x0F), uint8(ev.Note) & sevenBitMask, ev.Velocity & sevenBitMask}
}

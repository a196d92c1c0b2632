package input

import (
	"fmt"
	"strconv"
	"strings"

	"keyaccordion/accordion"
	"keyaccordion/debug"
	"keyaccordion/layout"
)

// Kitty keyboard protocol progressive enhancement flags.
const (
	kittyDisambiguate = 1
	kittyEventTypes   = 2
	kittyAllKeys      = 8

	kittyFlags = kittyDisambiguate | kittyEventTypes | kittyAllKeys
)

// Escape sequences written to the terminal around a session.
var (
	kittyPush  = fmt.Sprintf("\x1b[>%du", kittyFlags)
	kittyQuery = "\x1b[?u"
	kittyPop   = "\x1b[<u"
)

// Ctrl bit of the kitty modifier field (the wire value is 1 + bits)
const modCtrl = 4

var kittySpecialKeys = map[int]layout.KeyID{
	9:   "tab",
	13:  "enter",
	27:  layout.KeyEscape,
	127: "backspace",
}

// Decoder turns raw terminal bytes into key events. It understands the kitty
// keyboard protocol (press, repeat and release reported as CSI u sequences)
// and falls back to legacy bytes, which only ever mean Press.
//
// Legacy terminals send Escape as a bare ESC byte and Alt+key as ESC followed
// by the key, so the two are told apart by read boundaries: ESC ending a read
// is Escape, ESC followed by a key in the same read is Alt+key and plays the
// key. Escape typed together with another key within one read is therefore
// lost; pressing it again quits.
type Decoder struct {
	pending []byte // incomplete escape sequence from the previous chunk

	// Kitty is set once the terminal answered the flags query.
	Kitty bool
}

// Feed decodes one chunk read from the terminal.
func (d *Decoder) Feed(chunk []byte) []accordion.KeyEvent {
	data := chunk
	if len(d.pending) > 0 {
		data = append(d.pending, chunk...)
		d.pending = nil
	}

	var out []accordion.KeyEvent
	for i := 0; i < len(data); {
		b := data[i]
		switch {
		case b == 0x1b:
			if i+1 == len(data) {
				if d.Kitty {
					// kitty sends Escape as CSI 27 u, so this is the start
					// of a sequence cut by the read
					d.pending = []byte{0x1b}
					return out
				}
				// a lone ESC at the end of a read is the Escape key
				out = append(out, accordion.KeyEvent{ID: layout.KeyEscape, Kind: accordion.Press})
				i++
				continue
			}
			if data[i+1] != '[' {
				// Alt+key: the key still plays
				i++
				continue
			}
			start := i + 2
			end := csiEnd(data, start)
			if end < 0 {
				d.pending = append([]byte(nil), data[i:]...)
				return out
			}
			if ev, ok := d.csi(string(data[start:end]), data[end]); ok {
				out = append(out, ev)
			}
			i = end + 1

		case b == 0x03:
			out = append(out, accordion.KeyEvent{ID: "c", Kind: accordion.Press, Ctrl: true})
			i++

		case b >= 0x20 && b < 0x7f:
			out = append(out, accordion.KeyEvent{ID: layout.KeyID(string(rune(b))), Kind: accordion.Press})
			i++

		default:
			debug.LogEvery(16, "input", "ignored byte %#x", b)
			i++
		}
	}
	return out
}

// csiEnd returns the index of the final byte of a CSI sequence whose
// parameters start at from, or -1 if the sequence is incomplete.
func csiEnd(data []byte, from int) int {
	for j := from; j < len(data); j++ {
		if data[j] >= 0x40 && data[j] <= 0x7e {
			return j
		}
	}
	return -1
}

// csi interprets "CSI params final".
func (d *Decoder) csi(params string, final byte) (accordion.KeyEvent, bool) {
	if final != 'u' {
		// arrows, function keys: never part of the layout
		return accordion.KeyEvent{}, false
	}
	if strings.HasPrefix(params, "?") {
		d.Kitty = true
		debug.Log("input", "kitty keyboard protocol active, flags %s", params[1:])
		return accordion.KeyEvent{}, false
	}
	return parseKittyKey(params)
}

// parseKittyKey handles "keycode[:alternates] ; modifiers[:event] [; text]".
// Event types: 1=press, 2=repeat, 3=release.
func parseKittyKey(params string) (accordion.KeyEvent, bool) {
	parts := strings.Split(params, ";")

	codeStr := parts[0]
	if idx := strings.Index(codeStr, ":"); idx >= 0 {
		codeStr = codeStr[:idx]
	}
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		return accordion.KeyEvent{}, false
	}

	mod := 1
	eventType := 1
	if len(parts) >= 2 && parts[1] != "" {
		modPart := parts[1]
		if idx := strings.Index(modPart, ":"); idx >= 0 {
			if et, err := strconv.Atoi(modPart[idx+1:]); err == nil {
				eventType = et
			}
			modPart = modPart[:idx]
		}
		if m, err := strconv.Atoi(modPart); err == nil && m > 0 {
			mod = m
		}
	}

	ev := accordion.KeyEvent{Ctrl: (mod-1)&modCtrl != 0}
	switch eventType {
	case 1:
		ev.Kind = accordion.Press
	case 2:
		ev.Kind = accordion.Repeat
	case 3:
		ev.Kind = accordion.Release
	default:
		return accordion.KeyEvent{}, false
	}

	switch {
	case kittySpecialKeys[code] != "":
		ev.ID = kittySpecialKeys[code]
	case code >= 'A' && code <= 'Z':
		ev.ID = layout.KeyID(string(rune(code + 32)))
	case code >= 0x20 && code < 0x7f:
		ev.ID = layout.KeyID(string(rune(code)))
	default:
		// modifiers and other functional keys
		return accordion.KeyEvent{}, false
	}
	return ev, true
}

//go:build linux

package input

import (
	"fmt"

	"github.com/holoplot/go-evdev"

	"keyaccordion/accordion"
	"keyaccordion/debug"
	"keyaccordion/layout"
)

// EV_KEY values
const (
	evKeyRelease = 0
	evKeyPress   = 1
	evKeyRepeat  = 2
)

// evdevKeys names the keys by their position on a US keyboard, which is what
// the layout is drawn against.
var evdevKeys = map[evdev.EvCode]layout.KeyID{
	evdev.KEY_ESC: layout.KeyEscape,

	evdev.KEY_1:     "1",
	evdev.KEY_2:     "2",
	evdev.KEY_3:     "3",
	evdev.KEY_4:     "4",
	evdev.KEY_5:     "5",
	evdev.KEY_6:     "6",
	evdev.KEY_7:     "7",
	evdev.KEY_8:     "8",
	evdev.KEY_9:     "9",
	evdev.KEY_0:     "0",
	evdev.KEY_MINUS: "-",
	evdev.KEY_EQUAL: "=",

	evdev.KEY_Q:          "q",
	evdev.KEY_W:          "w",
	evdev.KEY_E:          "e",
	evdev.KEY_R:          "r",
	evdev.KEY_T:          "t",
	evdev.KEY_Y:          "y",
	evdev.KEY_U:          "u",
	evdev.KEY_I:          "i",
	evdev.KEY_O:          "o",
	evdev.KEY_P:          "p",
	evdev.KEY_LEFTBRACE:  "[",
	evdev.KEY_RIGHTBRACE: "]",
	evdev.KEY_BACKSLASH:  "\\",

	evdev.KEY_A:          "a",
	evdev.KEY_S:          "s",
	evdev.KEY_D:          "d",
	evdev.KEY_F:          "f",
	evdev.KEY_G:          "g",
	evdev.KEY_H:          "h",
	evdev.KEY_J:          "j",
	evdev.KEY_K:          "k",
	evdev.KEY_L:          "l",
	evdev.KEY_SEMICOLON:  ";",
	evdev.KEY_APOSTROPHE: "'",

	evdev.KEY_Z:     "z",
	evdev.KEY_X:     "x",
	evdev.KEY_C:     "c",
	evdev.KEY_V:     "v",
	evdev.KEY_B:     "b",
	evdev.KEY_N:     "n",
	evdev.KEY_M:     "m",
	evdev.KEY_COMMA: ",",
	evdev.KEY_DOT:   ".",
	evdev.KEY_SLASH: "/",

	evdev.KEY_SPACE: " ",
}

// evdevDecoder tracks the Control keys and translates key events.
type evdevDecoder struct {
	ctrl map[evdev.EvCode]bool
}

func newEvdevDecoder() *evdevDecoder {
	return &evdevDecoder{ctrl: make(map[evdev.EvCode]bool, 2)}
}

func (d *evdevDecoder) decode(ie *evdev.InputEvent) (accordion.KeyEvent, bool) {
	if ie.Type != evdev.EV_KEY {
		return accordion.KeyEvent{}, false
	}

	if ie.Code == evdev.KEY_LEFTCTRL || ie.Code == evdev.KEY_RIGHTCTRL {
		if ie.Value == evKeyRelease {
			delete(d.ctrl, ie.Code)
		} else {
			d.ctrl[ie.Code] = true
		}
		return accordion.KeyEvent{}, false
	}

	id, ok := evdevKeys[ie.Code]
	if !ok {
		return accordion.KeyEvent{}, false
	}

	ev := accordion.KeyEvent{ID: id, Ctrl: len(d.ctrl) > 0}
	switch ie.Value {
	case evKeyPress:
		ev.Kind = accordion.Press
	case evKeyRelease:
		ev.Kind = accordion.Release
	case evKeyRepeat:
		ev.Kind = accordion.Repeat
	default:
		return accordion.KeyEvent{}, false
	}
	return ev, true
}

// Evdev reads a Linux input device directly. The kernel reports press,
// release and autorepeat for every key, whatever the terminal supports.
type Evdev struct {
	dev     *evdev.InputDevice
	dec     *evdevDecoder
	grabbed bool
}

// OpenEvdev opens the device at path. With grab set, no other program sees
// the keys while the accordion runs.
func OpenEvdev(path string, grab bool) (*Evdev, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	e := &Evdev{dev: dev, dec: newEvdevDecoder()}
	if grab {
		if err := dev.Grab(); err != nil {
			dev.Close()
			return nil, fmt.Errorf("grab %s: %w", path, err)
		}
		e.grabbed = true
	}
	name, _ := dev.Name()
	debug.Log("input", "evdev %s (%s) open, grab=%v", path, name, grab)
	return e, nil
}

func (e *Evdev) Next() (accordion.KeyEvent, error) {
	for {
		ie, err := e.dev.ReadOne()
		if err != nil {
			return accordion.KeyEvent{}, fmt.Errorf("evdev read: %w", err)
		}
		if ev, ok := e.dec.decode(ie); ok {
			debug.Log("input", "%s", ev)
			return ev, nil
		}
	}
}

func (e *Evdev) ReportsRelease() bool { return true }

func (e *Evdev) Close() error {
	if e.grabbed {
		e.dev.Ungrab()
		e.grabbed = false
	}
	return e.dev.Close()
}

// Keyboard describes an input device that has the keys of the layout.
type Keyboard struct {
	Path string
	Name string
}

// FindKeyboards lists devices under /dev/input that can send Q and Escape.
func FindKeyboards() ([]Keyboard, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}
	var out []Keyboard
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			debug.Log("input", "skip %s: %v", p.Path, err)
			continue
		}
		hasQ, hasEsc := false, false
		for _, code := range dev.CapableEvents(evdev.EV_KEY) {
			switch code {
			case evdev.KEY_Q:
				hasQ = true
			case evdev.KEY_ESC:
				hasEsc = true
			}
		}
		dev.Close()
		if hasQ && hasEsc {
			out = append(out, Keyboard{Path: p.Path, Name: p.Name})
		}
	}
	return out, nil
}

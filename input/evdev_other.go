//go:build !linux

package input

import (
	"errors"

	"keyaccordion/accordion"
)

var errNoEvdev = errors.New("evdev input is only available on linux")

// Evdev is unavailable on this platform.
type Evdev struct{}

func OpenEvdev(path string, grab bool) (*Evdev, error) {
	return nil, errNoEvdev
}

func (e *Evdev) Next() (accordion.KeyEvent, error) { return accordion.KeyEvent{}, errNoEvdev }
func (e *Evdev) ReportsRelease() bool              { return false }
func (e *Evdev) Close() error                      { return nil }

type Keyboard struct {
	Path string
	Name string
}

func FindKeyboards() ([]Keyboard, error) {
	return nil, errNoEvdev
}

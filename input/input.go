// Package input provides the key event sources the accordion can read from.
package input

import (
	"errors"

	"keyaccordion/accordion"
)

// ErrClosed is returned by Next after Close.
var ErrClosed = errors.New("input: source closed")

// Source is an accordion.Source that owns a device.
type Source interface {
	accordion.Source

	// ReportsRelease tells whether Release events can be expected. When it
	// is false notes are only released at shutdown.
	ReportsRelease() bool

	Close() error
}

var (
	_ Source = (*Terminal)(nil)
	_ Source = (*Evdev)(nil)
	_ Source = (*Script)(nil)
)

//go:build !linux

package input

// Only the evdev backend leaves unread keys behind, and it is linux only.
func flushTTY(fd int) error { return nil }

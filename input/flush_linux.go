//go:build linux

package input

import "golang.org/x/sys/unix"

// flushTTY drops input the terminal received but nobody read.
func flushTTY(fd int) error {
	return unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH)
}

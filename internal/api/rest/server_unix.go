//go:build !windows

package rest

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// reusePort lets a replacement process bind the port before the old one has
// finished draining.
func reusePort(_, _ string, c syscall.RawConn) error {
	var sockErr error
	if err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	}); err != nil {
		return err
	}
	return sockErr
}

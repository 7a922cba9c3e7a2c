//go:build windows

package rest

import (
	"syscall"
)

// reusePort is a no-op; Windows has no SO_REUSEPORT.
func reusePort(_, _ string, _ syscall.RawConn) error {
	return nil
}

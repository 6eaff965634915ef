package pipeio

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// Grow requests a larger kernel pipe buffer for fd, so a single large
// clipboard payload doesn't force many read/write round trips. Best effort:
// errors are swallowed since the default buffer size still works correctly.
func Grow(f interface{ Fd() uintptr }, size int) {
	_, _ = unix.FcntlInt(f.Fd(), syscall.F_SETPIPE_SZ, size)
}

// Capacity returns the current capacity of the pipe backing fd, or 0 if it
// cannot be determined.
func Capacity(f interface{ Fd() uintptr }) int {
	n, err := unix.FcntlInt(f.Fd(), syscall.F_GETPIPE_SZ, 0)
	if err != nil {
		return 0
	}
	return n
}

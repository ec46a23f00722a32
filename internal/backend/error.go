package backend

import (
	"golang.org/x/sys/unix"
)

// Error is an error that carries the kernel errno which caused it. Every
// failure produced by this package implements it, so callers can always
// recover the exact error number the kernel reported.
type Error interface {
	error
	Errno() unix.Errno
}

type syscallError struct {
	op    string
	path  string
	errno unix.Errno
}

func newSyscallError(op string, path string, errno unix.Errno) Error {
	return &syscallError{
		op:    op,
		path:  path,
		errno: errno,
	}
}

func (m *syscallError) Error() string {
	if m.path != "" {
		return m.op + " " + m.path + ": " + m.errno.Error()
	}
	return m.op + ": " + m.errno.Error()
}

func (m *syscallError) Errno() unix.Errno {
	return m.errno
}

// ErrnoOf extracts the kernel errno from err, unwrapping both
// errors.Wrap-style causes and Go 1.13 wrap chains.
func ErrnoOf(err error) (unix.Errno, bool) {
	for err != nil {
		switch cast := err.(type) {
		case Error:
			return cast.Errno(), true
		case unix.Errno:
			return cast, true
		}

		switch cast := err.(type) {
		case interface{ Cause() error }:
			err = cast.Cause()
		case interface{ Unwrap() error }:
			err = cast.Unwrap()
		default:
			return 0, false
		}
	}
	return 0, false
}

func IsNotExist(err error) bool {
	errno, ok := ErrnoOf(err)
	return ok && errno == unix.ENOENT
}

func IsExist(err error) bool {
	errno, ok := ErrnoOf(err)
	return ok && errno == unix.EEXIST
}

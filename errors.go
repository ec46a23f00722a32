package fs

import (
	"golang.org/x/sys/unix"

	"github.com/SteveLauC/fs/internal/backend"
)

// ErrnoOf reports the errno buried in err, unwrapping any contextual
// layers added along the way.
func ErrnoOf(err error) (unix.Errno, bool) {
	return backend.ErrnoOf(err)
}

// IsNotExist reports whether err says the path does not exist.
func IsNotExist(err error) bool {
	return backend.IsNotExist(err)
}

// IsExist reports whether err says the path already exists.
func IsExist(err error) bool {
	return backend.IsExist(err)
}

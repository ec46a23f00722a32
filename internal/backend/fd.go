//go:build linux && amd64

package backend

import (
	"sync"

	"golang.org/x/sys/unix"
)

// FD owns an open kernel file descriptor. It is closed exactly once; after
// Close the wrapped descriptor number is gone and any further use yields
// EBADF from the kernel.
type FD struct {
	mu  sync.Mutex
	raw int
}

func newFD(raw int) *FD {
	return &FD{raw: raw}
}

// Raw returns the descriptor number, or -1 once closed.
func (m *FD) Raw() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.raw
}

// Close releases the descriptor. Closing an already-closed FD is a no-op.
func (m *FD) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.raw < 0 {
		return nil
	}
	r, _, e := unix.Syscall(unix.SYS_CLOSE, uintptr(m.raw), 0, 0)
	m.raw = -1
	_, err := outcome("close", "", r, e)
	return err
}

// Clone duplicates the descriptor, yielding a second independent owner of
// the same open file description. The duplicate is close-on-exec.
func (m *FD) Clone() (*FD, error) {
	dup, err := Fcntl(m, unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return newFD(dup), nil
}

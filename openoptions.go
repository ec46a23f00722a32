package fs

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/SteveLauC/fs/internal/backend"
)

// OpenOptions describes how a file should be opened: the access mode
// (read/write/append), the creation behavior (truncate/create/create-new),
// raw extra open(2) flags, and the permission bits used when a file is
// created.
type OpenOptions struct {
	read      bool
	write     bool
	append    bool
	truncate  bool
	create    bool
	createNew bool

	customFlags int
	mode        uint32
}

func NewOpenOptions() *OpenOptions {
	return &OpenOptions{mode: 0o666}
}

func (m *OpenOptions) Read(read bool) *OpenOptions {
	m.read = read
	return m
}

func (m *OpenOptions) Write(write bool) *OpenOptions {
	m.write = write
	return m
}

// Append opens the file in append mode. Append implies write access.
func (m *OpenOptions) Append(append bool) *OpenOptions {
	m.append = append
	return m
}

func (m *OpenOptions) Truncate(truncate bool) *OpenOptions {
	m.truncate = truncate
	return m
}

func (m *OpenOptions) Create(create bool) *OpenOptions {
	m.create = create
	return m
}

// CreateNew requires that the open creates the file: if the path already
// exists the open fails. Create and Truncate are ignored when it is set.
func (m *OpenOptions) CreateNew(createNew bool) *OpenOptions {
	m.createNew = createNew
	return m
}

// CustomFlags adds raw open(2) flags. The access-mode bits are masked out
// so they cannot override the computed access mode.
func (m *OpenOptions) CustomFlags(flags int) *OpenOptions {
	m.customFlags = flags
	return m
}

// Mode sets the permission bits applied when the open creates a file.
func (m *OpenOptions) Mode(mode uint32) *OpenOptions {
	m.mode = mode
	return m
}

// accessMode maps (read, write, append) onto O_RDONLY/O_WRONLY/O_RDWR plus
// O_APPEND. Append implies write, so with append set the write flag is
// irrelevant. Requesting no access at all is invalid.
func (m *OpenOptions) accessMode() (int, error) {
	switch {
	case m.append && m.read:
		return unix.O_RDWR | unix.O_APPEND, nil
	case m.append:
		return unix.O_WRONLY | unix.O_APPEND, nil
	case m.read && m.write:
		return unix.O_RDWR, nil
	case m.read:
		return unix.O_RDONLY, nil
	case m.write:
		return unix.O_WRONLY, nil
	}
	return 0, errors.Wrap(unix.EINVAL, "no access mode requested")
}

// creationMode maps (create, truncate, createNew) onto the creation flags,
// after validating them against the access mode: creating or truncating
// requires write access, and truncate cannot be combined with append unless
// create-new overrides it.
func (m *OpenOptions) creationMode() (int, error) {
	if !m.write && !m.append {
		if m.truncate || m.create || m.createNew {
			return 0, errors.Wrap(unix.EINVAL, "creating or truncating requires write access")
		}
	}
	if m.append && m.truncate && !m.createNew {
		return 0, errors.Wrap(unix.EINVAL, "cannot truncate in append mode")
	}

	switch {
	case m.createNew:
		// Create and Truncate are ignored.
		return unix.O_CREAT | unix.O_EXCL, nil
	case m.create && m.truncate:
		return unix.O_CREAT | unix.O_TRUNC, nil
	case m.create:
		return unix.O_CREAT, nil
	case m.truncate:
		return unix.O_TRUNC, nil
	}
	return 0, nil
}

// flags resolves the full open(2) flags integer. O_CLOEXEC is always set.
func (m *OpenOptions) flags() (int, error) {
	access, err := m.accessMode()
	if err != nil {
		return 0, err
	}
	creation, err := m.creationMode()
	if err != nil {
		return 0, err
	}
	return unix.O_CLOEXEC | access | creation | (m.customFlags &^ unix.O_ACCMODE), nil
}

// Open opens path with the configured options.
func (m *OpenOptions) Open(path string) (*File, error) {
	flags, err := m.flags()
	if err != nil {
		return nil, err
	}
	fd, err := backend.Open(path, flags, m.mode)
	if err != nil {
		return nil, err
	}
	return &File{fd: fd}, nil
}

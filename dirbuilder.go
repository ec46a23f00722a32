package fs

import (
	"path"

	"github.com/pkg/errors"

	"github.com/SteveLauC/fs/internal/backend"
)

// DirBuilder creates directories, optionally with all missing parents.
type DirBuilder struct {
	mode      uint32
	recursive bool
}

func NewDirBuilder() *DirBuilder {
	return &DirBuilder{mode: 0o777}
}

// Mode sets the permission bits for every directory the builder creates.
func (m *DirBuilder) Mode(mode uint32) *DirBuilder {
	m.mode = mode
	return m
}

// Recursive makes Create build all missing parents as well, each with the
// builder's mode.
func (m *DirBuilder) Recursive(recursive bool) *DirBuilder {
	m.recursive = recursive
	return m
}

func (m *DirBuilder) Create(p string) error {
	if m.recursive {
		return m.createAll(p)
	}
	return backend.Mkdir(p, m.mode)
}

// createAll creates p bottom-up: a NotFound from mkdir means at least one
// parent is missing, so build the parent chain first and retry. A path that
// already exists as a directory is not an error.
func (m *DirBuilder) createAll(p string) error {
	if p == "" {
		return nil
	}

	err := backend.Mkdir(p, m.mode)
	switch {
	case err == nil:
		return nil
	case backend.IsNotExist(err):
	case isDir(p):
		return nil
	default:
		return err
	}

	parent := path.Dir(p)
	if parent == p {
		return errors.Wrap(err, "failed to create whole tree")
	}
	if err := m.createAll(parent); err != nil {
		return err
	}

	err = backend.Mkdir(p, m.mode)
	if err != nil && !isDir(p) {
		return err
	}
	return nil
}

func isDir(p string) bool {
	var st backend.FileStat
	if err := backend.Stat(p, &st); err != nil {
		return false
	}
	return st.FileType() == backend.TypeDirectory
}

package fs

import (
	"github.com/SteveLauC/fs/internal/backend"
)

// FileType is the kind of object a directory entry or metadata record
// refers to.
type FileType struct {
	t backend.FileType
}

func (m FileType) IsDir() bool {
	return m.t == backend.TypeDirectory
}

func (m FileType) IsFile() bool {
	return m.t == backend.TypeRegular
}

func (m FileType) IsSymlink() bool {
	return m.t == backend.TypeSymlink
}

func (m FileType) String() string {
	return m.t.String()
}

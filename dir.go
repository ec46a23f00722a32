package fs

import (
	"github.com/SteveLauC/fs/internal/backend"
)

// Dir is a stream of directory entries. Entries come back one at a time in
// filesystem order; "." and ".." are never reported. A Dir must not be
// shared between goroutines.
type Dir struct {
	dir *backend.Dir
}

// OpenDir opens a directory entry stream on path.
func OpenDir(path string) (*Dir, error) {
	d, err := backend.OpenDir(path)
	if err != nil {
		return nil, err
	}
	return &Dir{dir: d}, nil
}

// OpenDirBuffer is OpenDir with a caller-chosen scratch buffer size.
func OpenDirBuffer(path string, bufSize int) (*Dir, error) {
	d, err := backend.OpenDirBuffer(path, bufSize)
	if err != nil {
		return nil, err
	}
	return &Dir{dir: d}, nil
}

// Read returns the next entry, or (nil, nil) once the directory is
// exhausted.
func (m *Dir) Read() (*DirEntry, error) {
	entry, err := m.dir.Read()
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return &DirEntry{entry: *entry}, nil
}

func (m *Dir) Close() error {
	return m.dir.Close()
}

// ReadDir reads the whole directory at path into a slice.
func ReadDir(path string) ([]*DirEntry, error) {
	dir, err := OpenDir(path)
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	var entries []*DirEntry
	for {
		entry, err := dir.Read()
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return entries, nil
		}
		entries = append(entries, entry)
	}
}

// DirEntry is a single entry inside a directory.
type DirEntry struct {
	entry backend.Dirent
}

// Path returns the directory the stream was opened on joined with the
// entry's name.
func (m *DirEntry) Path() string {
	return m.entry.Path
}

// FileName returns the bare name of the entry without any leading path
// components. The kernel reports it as raw bytes; it is not guaranteed to
// be valid UTF-8.
func (m *DirEntry) FileName() string {
	return m.entry.Name
}

func (m *DirEntry) Ino() uint64 {
	return m.entry.Ino
}

// FileType returns the type tag recorded in the directory itself, with no
// extra stat call and without following symlinks.
func (m *DirEntry) FileType() FileType {
	return FileType{t: m.entry.Type}
}

// Metadata queries the status of the entry without following symlinks.
func (m *DirEntry) Metadata() (*Metadata, error) {
	meta := &Metadata{}
	if err := backend.Lstatx(m.entry.Path, &meta.stx); err != nil {
		return nil, err
	}
	return meta, nil
}

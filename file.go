package fs

import (
	"io"
	"time"

	"golang.org/x/sys/unix"

	"github.com/SteveLauC/fs/internal/backend"
)

// File is an open file. It owns its descriptor exclusively; Close releases
// it exactly once, and TryClone is the only way to obtain a second owner of
// the underlying kernel object.
type File struct {
	fd *backend.FD
}

// Open opens path read-only.
func Open(path string) (*File, error) {
	return NewOpenOptions().Read(true).Open(path)
}

// Create opens path write-only, creating it if missing and truncating it
// otherwise.
func Create(path string) (*File, error) {
	return NewOpenOptions().Write(true).Create(true).Truncate(true).Open(path)
}

// CreateNew opens path read-write and fails if it already exists.
func CreateNew(path string) (*File, error) {
	return NewOpenOptions().Read(true).Write(true).CreateNew(true).Open(path)
}

func (m *File) Read(p []byte) (int, error) {
	n, err := backend.Read(m.fd, p)
	if err != nil {
		return 0, err
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (m *File) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := backend.Write(m.fd, p[total:])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// ReadAt reads len(p) bytes starting at offset, without moving the file
// offset.
func (m *File) ReadAt(p []byte, offset int64) (int, error) {
	total := 0
	for total < len(p) {
		n, err := backend.Pread(m.fd, p[total:], offset+int64(total))
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.EOF
		}
		total += n
	}
	return total, nil
}

// WriteAt writes p at offset, without moving the file offset.
func (m *File) WriteAt(p []byte, offset int64) (int, error) {
	total := 0
	for total < len(p) {
		n, err := backend.Pwrite(m.fd, p[total:], offset+int64(total))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (m *File) Seek(offset int64, whence int) (int64, error) {
	return backend.Seek(m.fd, offset, whence)
}

// SyncAll flushes data and metadata to disk.
func (m *File) SyncAll() error {
	return backend.Fsync(m.fd)
}

// SyncData flushes data, skipping metadata that is not needed to read it
// back.
func (m *File) SyncData() error {
	return backend.Fdatasync(m.fd)
}

// SetLen truncates or extends the file to size bytes.
func (m *File) SetLen(size int64) error {
	return backend.Ftruncate(m.fd, size)
}

func (m *File) Metadata() (*Metadata, error) {
	meta := &Metadata{}
	if err := backend.Fstatx(m.fd, &meta.stx); err != nil {
		return nil, err
	}
	return meta, nil
}

// TryClone duplicates the descriptor. The two Files share one open file
// description: reads, writes and seeks on either move the same offset.
func (m *File) TryClone() (*File, error) {
	dup, err := m.fd.Clone()
	if err != nil {
		return nil, err
	}
	return &File{fd: dup}, nil
}

func (m *File) SetPermissions(perm Permissions) error {
	return backend.Fchmod(m.fd, perm.Mode())
}

// SetTimes changes the file's access and modification timestamps. Slots
// never set on times are left untouched.
func (m *File) SetTimes(times FileTimes) error {
	ts := times.times
	return backend.Futimens(m.fd, &ts)
}

// SetModified changes only the modification timestamp.
func (m *File) SetModified(t time.Time) error {
	return m.SetTimes(NewFileTimes().SetModified(t))
}

// Chown changes the file's owner and group; -1 leaves a field unchanged.
func (m *File) Chown(uid int, gid int) error {
	return backend.Fchown(m.fd, uid, gid)
}

// AccessMode reports whether the file is open for reading and writing.
func (m *File) AccessMode() (read bool, write bool, err error) {
	flags, err := backend.Fcntl(m.fd, unix.F_GETFL, 0)
	if err != nil {
		return false, false, err
	}
	switch flags & unix.O_ACCMODE {
	case unix.O_RDONLY:
		return true, false, nil
	case unix.O_WRONLY:
		return false, true, nil
	case unix.O_RDWR:
		return true, true, nil
	}
	return false, false, nil
}

// Close releases the descriptor. Closing twice is a no-op.
func (m *File) Close() error {
	return m.fd.Close()
}

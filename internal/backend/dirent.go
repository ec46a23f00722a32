//go:build linux && amd64

package backend

import (
	"bytes"
	"encoding/binary"
	"path"

	"golang.org/x/sys/unix"
)

// FileType is the kind of filesystem object an entry refers to.
type FileType uint8

const (
	TypeUnknown FileType = iota
	TypeRegular
	TypeDirectory
	TypeSocket
	TypeFifo
	TypeCharDevice
	TypeBlockDevice
	TypeSymlink
)

func (m FileType) String() string {
	switch m {
	case TypeRegular:
		return "regular"
	case TypeDirectory:
		return "directory"
	case TypeSocket:
		return "socket"
	case TypeFifo:
		return "fifo"
	case TypeCharDevice:
		return "char-device"
	case TypeBlockDevice:
		return "block-device"
	case TypeSymlink:
		return "symlink"
	}
	return "unknown"
}

func fileTypeFromDirent(tag byte) FileType {
	switch tag {
	case unix.DT_REG:
		return TypeRegular
	case unix.DT_DIR:
		return TypeDirectory
	case unix.DT_SOCK:
		return TypeSocket
	case unix.DT_FIFO:
		return TypeFifo
	case unix.DT_CHR:
		return TypeCharDevice
	case unix.DT_BLK:
		return TypeBlockDevice
	case unix.DT_LNK:
		return TypeSymlink
	}
	return TypeUnknown
}

func fileTypeFromMode(mode uint32) FileType {
	switch mode & unix.S_IFMT {
	case unix.S_IFREG:
		return TypeRegular
	case unix.S_IFDIR:
		return TypeDirectory
	case unix.S_IFSOCK:
		return TypeSocket
	case unix.S_IFIFO:
		return TypeFifo
	case unix.S_IFCHR:
		return TypeCharDevice
	case unix.S_IFBLK:
		return TypeBlockDevice
	case unix.S_IFLNK:
		return TypeSymlink
	}
	return TypeUnknown
}

// linux_dirent64 field offsets within a record: d_ino, d_off, d_reclen,
// d_type, then the NUL-terminated name. The name offset is the sum of the
// fixed header fields, not an empirical constant.
const (
	direntInoOff    = 0
	direntReclenOff = direntInoOff + 8 + 8
	direntTypeOff   = direntReclenOff + 2
	direntNameOff   = direntTypeOff + 1
)

const defaultDirBufSize = 1024

// Dirent is one directory entry. Name is the raw byte sequence the kernel
// reported (not necessarily valid UTF-8), Path is Name joined onto the
// directory the stream was opened on.
type Dirent struct {
	Ino  uint64
	Type FileType
	Name string
	Path string
}

// Dir is a stream of directory entries. It owns the descriptor and a
// scratch buffer which getdents64 fills with variable-length records; Read
// drains parsed entries from a queue and refills when it runs dry. A Dir
// must not be shared between goroutines.
type Dir struct {
	fd      *FD
	root    string
	buf     []byte
	entries []Dirent
	eof     bool
}

// OpenDir opens path as a directory entry stream.
func OpenDir(path string) (*Dir, error) {
	return OpenDirBuffer(path, defaultDirBufSize)
}

// OpenDirBuffer is OpenDir with a caller-chosen scratch buffer size. A
// small buffer just forces more kernel round-trips per directory.
func OpenDirBuffer(path string, bufSize int) (*Dir, error) {
	fd, err := Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return &Dir{
		fd:   fd,
		root: path,
		buf:  make([]byte, bufSize),
	}, nil
}

// Read returns the next entry, or (nil, nil) once the directory is
// exhausted. The literal "." and ".." entries are skipped.
func (m *Dir) Read() (*Dirent, error) {
	for len(m.entries) == 0 {
		if m.eof {
			return nil, nil
		}
		n, err := Getdents(m.fd, m.buf)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			m.eof = true
			return nil, nil
		}
		if err := m.parse(m.buf[:n]); err != nil {
			return nil, err
		}
	}

	entry := m.entries[0]
	m.entries = m.entries[1:]
	return &entry, nil
}

// parse walks buf as a sequence of linux_dirent64 records, appending one
// entry per record. Every read is bounds-checked against the record's
// declared length; the cursor must consume the buffer exactly.
func (m *Dir) parse(buf []byte) error {
	cursor := 0
	for cursor < len(buf) {
		record := buf[cursor:]
		if len(record) < direntNameOff {
			return newSyscallError("getdents", m.root, unix.EBADMSG)
		}
		reclen := int(binary.LittleEndian.Uint16(record[direntReclenOff:]))
		if reclen < direntNameOff || reclen > len(record) {
			return newSyscallError("getdents", m.root, unix.EBADMSG)
		}
		nameField := record[direntNameOff:reclen]
		end := bytes.IndexByte(nameField, 0)
		if end < 0 {
			return newSyscallError("getdents", m.root, unix.EBADMSG)
		}
		name := string(nameField[:end])
		if name != "." && name != ".." {
			m.entries = append(m.entries, Dirent{
				Ino:  binary.LittleEndian.Uint64(record[direntInoOff:]),
				Type: fileTypeFromDirent(record[direntTypeOff]),
				Name: name,
				Path: path.Join(m.root, name),
			})
		}
		cursor += reclen
	}
	return nil
}

// Root returns the path the stream was opened on.
func (m *Dir) Root() string {
	return m.root
}

// Close releases the underlying descriptor.
func (m *Dir) Close() error {
	return m.fd.Close()
}

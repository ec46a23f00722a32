//go:build linux && amd64

package backend

import (
	"golang.org/x/sys/unix"
)

// Timespec mirrors the kernel's struct timespec on x86-64.
type Timespec struct {
	Sec  int64
	Nsec int64
}

// FileStat mirrors the kernel's struct stat on x86-64, field for field. It
// is filled in by the kernel through an output pointer, so layout, order and
// padding must match exactly.
type FileStat struct {
	Dev     uint64
	Ino     uint64
	Nlink   uint64
	Mode    uint32
	Uid     uint32
	Gid     uint32
	_       int32
	Rdev    uint64
	Size    int64
	Blksize int64
	Blocks  int64
	Atim    Timespec
	Mtim    Timespec
	Ctim    Timespec
	_       [3]int64
}

// FileType reports the file type encoded in the mode bits.
func (m *FileStat) FileType() FileType {
	return fileTypeFromMode(m.Mode)
}

// StatxTimestamp mirrors the kernel's struct statx_timestamp.
type StatxTimestamp struct {
	Sec  int64
	Nsec uint32
	_    int32
}

// FileStatx mirrors the kernel's struct statx. Unlike FileStat it carries
// the device numbers pre-split into major/minor, a birth timestamp and a
// mount id. Mask says which fields the filesystem actually filled in.
type FileStatx struct {
	Mask           uint32
	Blksize        uint32
	Attributes     uint64
	Nlink          uint32
	Uid            uint32
	Gid            uint32
	Mode           uint16
	_              [1]uint16
	Ino            uint64
	Size           uint64
	Blocks         uint64
	AttributesMask uint64
	Atime          StatxTimestamp
	Btime          StatxTimestamp
	Ctime          StatxTimestamp
	Mtime          StatxTimestamp
	RdevMajor      uint32
	RdevMinor      uint32
	DevMajor       uint32
	DevMinor       uint32
	MntID          uint64
	_              uint64
	_              [12]uint64
}

func (m *FileStatx) FileType() FileType {
	return fileTypeFromMode(uint32(m.Mode))
}

// HasBirthTime reports whether the filesystem filled in Btime.
func (m *FileStatx) HasBirthTime() bool {
	return m.Mask&unix.STATX_BTIME != 0
}

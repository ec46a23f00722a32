package fs

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/SteveLauC/fs/internal/backend"
)

// Metadata is the extended status of a filesystem object, as reported by
// statx(2). It is a snapshot; nothing updates it after the query.
type Metadata struct {
	stx backend.FileStatx
}

func (m *Metadata) FileType() FileType {
	return FileType{t: m.stx.FileType()}
}

func (m *Metadata) IsDir() bool {
	return m.FileType().IsDir()
}

func (m *Metadata) IsFile() bool {
	return m.FileType().IsFile()
}

func (m *Metadata) IsSymlink() bool {
	return m.FileType().IsSymlink()
}

// Len returns the file size in bytes.
func (m *Metadata) Len() uint64 {
	return m.stx.Size
}

func (m *Metadata) Permissions() Permissions {
	return PermissionsFromMode(uint32(m.stx.Mode) & 0o7777)
}

func (m *Metadata) Modified() time.Time {
	return timeOf(m.stx.Mtime)
}

func (m *Metadata) Accessed() time.Time {
	return timeOf(m.stx.Atime)
}

// Created returns the birth time of the file. Not every filesystem records
// one; when it is missing the error carries ENODATA.
func (m *Metadata) Created() (time.Time, error) {
	if !m.stx.HasBirthTime() {
		return time.Time{}, unix.ENODATA
	}
	return timeOf(m.stx.Btime), nil
}

func (m *Metadata) Ino() uint64 {
	return m.stx.Ino
}

func (m *Metadata) Nlink() uint32 {
	return m.stx.Nlink
}

func (m *Metadata) OwnerUID() uint32 {
	return m.stx.Uid
}

func (m *Metadata) OwnerGID() uint32 {
	return m.stx.Gid
}

func (m *Metadata) Blocks() uint64 {
	return m.stx.Blocks
}

func (m *Metadata) BlockSize() uint32 {
	return m.stx.Blksize
}

// Dev returns the major and minor numbers of the device containing the
// file.
func (m *Metadata) Dev() (uint32, uint32) {
	return m.stx.DevMajor, m.stx.DevMinor
}

// Rdev returns the major and minor numbers a device special file
// represents; zero for anything else.
func (m *Metadata) Rdev() (uint32, uint32) {
	return m.stx.RdevMajor, m.stx.RdevMinor
}

func (m *Metadata) MountID() uint64 {
	return m.stx.MntID
}

func timeOf(ts backend.StatxTimestamp) time.Time {
	return time.Unix(ts.Sec, int64(ts.Nsec))
}

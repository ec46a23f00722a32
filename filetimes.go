package fs

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/SteveLauC/fs/internal/backend"
)

// FileTimes carries the access and modification timestamps for
// File.SetTimes. A slot that was never set is left untouched on the file.
type FileTimes struct {
	times [2]backend.Timespec
}

func NewFileTimes() FileTimes {
	omit := backend.Timespec{Nsec: unix.UTIME_OMIT}
	return FileTimes{times: [2]backend.Timespec{omit, omit}}
}

// SetAccessed sets the last access time.
func (m FileTimes) SetAccessed(t time.Time) FileTimes {
	m.times[0] = backend.Timespec{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
	return m
}

// SetModified sets the last modification time.
func (m FileTimes) SetModified(t time.Time) FileTimes {
	m.times[1] = backend.Timespec{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
	return m
}

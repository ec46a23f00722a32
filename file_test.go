package fs

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestFileWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")

	f, err := Create(path)
	require.NoError(t, err)
	n, err := f.Write([]byte("some bytes"))
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	require.NoError(t, f.Close())

	f, err = Open(path)
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, 10)
	n, err = f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, []byte("some bytes"), buf)

	_, err = f.Read(buf)
	assert.Equal(t, io.EOF, err)
}

func TestFilePositionedIO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	f, err := NewOpenOptions().Read(true).Write(true).Create(true).Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("hello world"))
	require.NoError(t, err)

	n, err := f.WriteAt([]byte("steve"), 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	buf := make([]byte, 11)
	n, err = f.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.Equal(t, []byte("hello steve"), buf)

	// Positioned I/O does not move the file offset.
	offset, err := f.Seek(0, unix.SEEK_CUR)
	require.NoError(t, err)
	assert.Equal(t, int64(11), offset)
}

func TestFileSeek(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	f, err := NewOpenOptions().Read(true).Write(true).Create(true).Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)

	offset, err := f.Seek(1, unix.SEEK_SET)
	require.NoError(t, err)
	assert.Equal(t, int64(1), offset)

	buf := make([]byte, 4)
	_, err = f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("ello"), buf)
}

func TestFileSetLen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	f, err := Create(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.SetLen(3))

	meta, err := f.Metadata()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), meta.Len())

	require.NoError(t, f.SetLen(8))
	meta, err = f.Metadata()
	require.NoError(t, err)
	assert.Equal(t, uint64(8), meta.Len())
}

func TestFileSync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	f, err := Create(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	assert.NoError(t, f.SyncAll())
	assert.NoError(t, f.SyncData())
}

func TestFileTryClone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	f, err := NewOpenOptions().Read(true).Write(true).Create(true).Open(path)
	require.NoError(t, err)

	clone, err := f.TryClone()
	require.NoError(t, err)

	// The clone shares the open file description, including the offset.
	_, err = f.Write([]byte("ab"))
	require.NoError(t, err)
	offset, err := clone.Seek(0, unix.SEEK_CUR)
	require.NoError(t, err)
	assert.Equal(t, int64(2), offset)

	// Each owner closes independently.
	require.NoError(t, f.Close())
	_, err = clone.Write([]byte("c"))
	assert.NoError(t, err)
	require.NoError(t, clone.Close())
}

func TestFileSetPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	f, err := Create(path)
	require.NoError(t, err)
	defer f.Close()

	perm := PermissionsFromMode(0o600)
	require.NoError(t, f.SetPermissions(perm))

	meta, err := f.Metadata()
	require.NoError(t, err)
	assert.Equal(t, uint32(0o600), meta.Permissions().Mode())
}

func TestFileSetTimes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	f, err := Create(path)
	require.NoError(t, err)
	defer f.Close()

	modified := time.Unix(1234567890, 0)
	require.NoError(t, f.SetModified(modified))

	meta, err := f.Metadata()
	require.NoError(t, err)
	assert.Equal(t, modified, meta.Modified())

	// Setting only the access time leaves the modification time alone.
	accessed := time.Unix(1111111111, 0)
	require.NoError(t, f.SetTimes(NewFileTimes().SetAccessed(accessed)))
	meta, err = f.Metadata()
	require.NoError(t, err)
	assert.Equal(t, accessed, meta.Accessed())
	assert.Equal(t, modified, meta.Modified())
}

func TestFileAccessMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	f, err := Create(path)
	require.NoError(t, err)
	defer f.Close()

	read, write, err := f.AccessMode()
	require.NoError(t, err)
	assert.False(t, read)
	assert.True(t, write)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()
	read, write, err = r.AccessMode()
	require.NoError(t, err)
	assert.True(t, read)
	assert.False(t, write)
}

func TestFileChownSelf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	f, err := Create(path)
	require.NoError(t, err)
	defer f.Close()

	meta, err := f.Metadata()
	require.NoError(t, err)
	assert.NoError(t, f.Chown(int(meta.OwnerUID()), int(meta.OwnerGID())))
	assert.NoError(t, f.Chown(-1, -1))
}

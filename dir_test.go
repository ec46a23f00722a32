package fs

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		require.NoError(t, WriteFile(filepath.Join(dir, fmt.Sprintf("f%d", i)), []byte("x")))
	}
	require.NoError(t, CreateDir(filepath.Join(dir, "sub")))

	entries, err := ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 6)

	byName := make(map[string]*DirEntry)
	for _, entry := range entries {
		byName[entry.FileName()] = entry
	}
	require.Contains(t, byName, "sub")
	assert.True(t, byName["sub"].FileType().IsDir())
	assert.True(t, byName["f0"].FileType().IsFile())
	assert.Equal(t, filepath.Join(dir, "f0"), byName["f0"].Path())
}

func TestDirStream(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(filepath.Join(dir, "only"), []byte("x")))

	stream, err := OpenDir(dir)
	require.NoError(t, err)
	defer stream.Close()

	entry, err := stream.Read()
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "only", entry.FileName())
	assert.NotZero(t, entry.Ino())

	meta, err := entry.Metadata()
	require.NoError(t, err)
	assert.True(t, meta.IsFile())
	assert.Equal(t, uint64(1), meta.Len())

	entry, err = stream.Read()
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestDirStreamSmallBuffer(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		require.NoError(t, WriteFile(filepath.Join(dir, fmt.Sprintf("file-%02d", i)), nil))
	}

	stream, err := OpenDirBuffer(dir, 64)
	require.NoError(t, err)
	defer stream.Close()

	seen := make(map[string]bool)
	for {
		entry, err := stream.Read()
		require.NoError(t, err)
		if entry == nil {
			break
		}
		require.False(t, seen[entry.FileName()])
		seen[entry.FileName()] = true
	}
	assert.Len(t, seen, 20)
}

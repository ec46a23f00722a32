//go:build linux && amd64

package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// canonicalTempDir returns a t.TempDir() with any symlinks in its own path
// already resolved, so expectations can be compared byte for byte.
func canonicalTempDir(t *testing.T) string {
	t.Helper()
	dir, err := Realpath(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestRealpathRootParent(t *testing.T) {
	resolved, err := Realpath("/..")
	require.NoError(t, err)
	assert.Equal(t, "/", resolved)
}

func TestRealpathRootParentChild(t *testing.T) {
	resolved, err := Realpath("/../tmp")
	require.NoError(t, err)
	assert.Equal(t, "/tmp", resolved)
}

func TestRealpathDotAndDotDot(t *testing.T) {
	dir := canonicalTempDir(t)
	require.NoError(t, Mkdir(dir+"/x", 0o755))

	resolved, err := Realpath(dir + "/x/..")
	require.NoError(t, err)
	assert.Equal(t, dir, resolved)

	resolved, err = Realpath(dir + "/./x/.")
	require.NoError(t, err)
	assert.Equal(t, dir+"/x", resolved)
}

func TestRealpathAtRelative(t *testing.T) {
	dir := canonicalTempDir(t)
	require.NoError(t, Mkdir(dir+"/x", 0o755))

	resolved, err := RealpathAt("x/..", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, resolved)

	resolved, err = RealpathAt("./x", dir)
	require.NoError(t, err)
	assert.Equal(t, dir+"/x", resolved)
}

func TestRealpathAtRelativeBase(t *testing.T) {
	_, err := RealpathAt("x", "not/absolute")
	errno, ok := ErrnoOf(err)
	require.True(t, ok)
	assert.Equal(t, unix.EINVAL, errno)
}

func TestRealpathMissingIntermediate(t *testing.T) {
	dir := canonicalTempDir(t)

	_, err := Realpath(dir + "/missing/child")
	errno, ok := ErrnoOf(err)
	require.True(t, ok)
	assert.Equal(t, unix.ENOENT, errno)
}

func TestRealpathMissingTrailing(t *testing.T) {
	dir := canonicalTempDir(t)

	// A missing final component is not an error; the canonical name of the
	// would-be entry is still well defined.
	resolved, err := Realpath(dir + "/missing")
	require.NoError(t, err)
	assert.Equal(t, dir+"/missing", resolved)
}

func TestRealpathRelativeSymlink(t *testing.T) {
	dir := canonicalTempDir(t)
	fd, err := Creat(dir+"/target", 0o644)
	require.NoError(t, err)
	require.NoError(t, fd.Close())
	require.NoError(t, Symlink("target", dir+"/link"))

	resolved, err := Realpath(dir + "/link")
	require.NoError(t, err)
	assert.Equal(t, dir+"/target", resolved)
}

// A relative target is anchored at the directory containing the link, not
// at the link's own name.
func TestRealpathRelativeSymlinkWithDotDot(t *testing.T) {
	dir := canonicalTempDir(t)
	require.NoError(t, Mkdir(dir+"/sub", 0o755))
	fd, err := Creat(dir+"/target", 0o644)
	require.NoError(t, err)
	require.NoError(t, fd.Close())
	require.NoError(t, Symlink("../target", dir+"/sub/link"))

	resolved, err := Realpath(dir + "/sub/link")
	require.NoError(t, err)
	assert.Equal(t, dir+"/target", resolved)
}

func TestRealpathAbsoluteSymlink(t *testing.T) {
	dir := canonicalTempDir(t)
	require.NoError(t, Mkdir(dir+"/sub", 0o755))
	fd, err := Creat(dir+"/target", 0o644)
	require.NoError(t, err)
	require.NoError(t, fd.Close())
	require.NoError(t, Symlink(dir+"/target", dir+"/sub/link"))

	resolved, err := Realpath(dir + "/sub/link")
	require.NoError(t, err)
	assert.Equal(t, dir+"/target", resolved)
}

func TestRealpathNestedSymlinks(t *testing.T) {
	dir := canonicalTempDir(t)
	fd, err := Creat(dir+"/target", 0o644)
	require.NoError(t, err)
	require.NoError(t, fd.Close())
	require.NoError(t, Symlink("target", dir+"/inner"))
	require.NoError(t, Symlink("inner", dir+"/outer"))

	resolved, err := Realpath(dir + "/outer")
	require.NoError(t, err)
	assert.Equal(t, dir+"/target", resolved)
}

// Symlinks in intermediate components are resolved too.
func TestRealpathSymlinkedDirectory(t *testing.T) {
	dir := canonicalTempDir(t)
	require.NoError(t, Mkdir(dir+"/real", 0o755))
	fd, err := Creat(dir+"/real/file", 0o644)
	require.NoError(t, err)
	require.NoError(t, fd.Close())
	require.NoError(t, Symlink("real", dir+"/alias"))

	resolved, err := Realpath(dir + "/alias/file")
	require.NoError(t, err)
	assert.Equal(t, dir+"/real/file", resolved)
}

func TestRealpathSymlinkCycle(t *testing.T) {
	dir := canonicalTempDir(t)
	require.NoError(t, Symlink("b", dir+"/a"))
	require.NoError(t, Symlink("a", dir+"/b"))

	_, err := Realpath(dir + "/a")
	errno, ok := ErrnoOf(err)
	require.True(t, ok)
	assert.Equal(t, unix.ELOOP, errno)
}

func TestRealpathRelativeUsesCwd(t *testing.T) {
	cwd, err := Getcwd()
	require.NoError(t, err)
	want, err := Realpath(cwd)
	require.NoError(t, err)

	resolved, err := Realpath(".")
	require.NoError(t, err)
	assert.Equal(t, want, resolved)
}

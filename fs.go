// Package fs is a filesystem access layer that talks to the Linux kernel
// directly through raw system calls, bypassing libc. It offers the familiar
// open/read/write/stat/readdir/rename surface while owning every syscall's
// argument marshalling, return convention and ABI struct layout itself.
//
// Every operation is a synchronous kernel round-trip; there is no caching
// and no buffering. Failures always carry the kernel's errno, recoverable
// through the backend error helpers even across wrapped errors.
package fs

import (
	"io"

	"github.com/pkg/errors"

	"github.com/SteveLauC/fs/internal/backend"
)

// TryExists reports whether path points at an existing entity. Errors other
// than NotFound (for example permission denied on a parent) are returned,
// not folded into false.
func TryExists(path string) (bool, error) {
	_, err := Stat(path)
	switch {
	case err == nil:
		return true, nil
	case backend.IsNotExist(err):
		return false, nil
	}
	return false, err
}

// Canonicalize returns the canonical, absolute form of path: no ".", no
// "..", no symbolic links. Relative paths are resolved against the working
// directory, read once at the start of resolution.
func Canonicalize(path string) (string, error) {
	return backend.Realpath(path)
}

// CanonicalizeAt is Canonicalize with an explicit absolute base directory
// for relative paths, independent of the process working directory.
func CanonicalizeAt(path string, base string) (string, error) {
	return backend.RealpathAt(path, base)
}

// Copy copies the contents of one file to another inside the kernel,
// overwriting to, and carries the permission bits over. It returns the
// number of bytes copied.
func Copy(from string, to string) (int64, error) {
	src, err := Open(from)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	dst, err := Create(to)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	meta, err := src.Metadata()
	if err != nil {
		return 0, err
	}

	size := int64(meta.Len())
	var copied int64
	for copied < size {
		srcOffset, dstOffset := copied, copied
		n, err := backend.CopyFileRange(src.fd, &srcOffset, dst.fd, &dstOffset, int(size-copied))
		if err != nil {
			return copied, errors.Wrapf(err, "copying %s to %s", from, to)
		}
		if n == 0 {
			break
		}
		copied += int64(n)
	}

	if err := dst.SetPermissions(meta.Permissions()); err != nil {
		return copied, err
	}
	return copied, nil
}

// CreateDir creates a new, empty directory at path.
func CreateDir(path string) error {
	return NewDirBuilder().Create(path)
}

// CreateDirAll creates a directory and all of its missing parents.
func CreateDirAll(path string) error {
	return NewDirBuilder().Recursive(true).Create(path)
}

// HardLink creates a new hard link to original at link.
func HardLink(original string, link string) error {
	return backend.Link(original, link)
}

// Stat queries the status of path, following symlinks.
func Stat(path string) (*Metadata, error) {
	meta := &Metadata{}
	if err := backend.Statx(path, &meta.stx); err != nil {
		return nil, err
	}
	return meta, nil
}

// Lstat queries the status of path without following a trailing symlink.
func Lstat(path string) (*Metadata, error) {
	meta := &Metadata{}
	if err := backend.Lstatx(path, &meta.stx); err != nil {
		return nil, err
	}
	return meta, nil
}

// ReadFile reads the entire contents of the file at path.
func ReadFile(path string) ([]byte, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// ReadString reads the entire contents of the file at path as a string.
func ReadString(path string) (string, error) {
	data, err := ReadFile(path)
	return string(data), err
}

// WriteFile writes data as the entire contents of the file at path,
// creating it if missing and truncating it otherwise.
func WriteFile(path string, data []byte) error {
	f, err := Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadLink returns the target of the symbolic link at path.
func ReadLink(path string) (string, error) {
	return backend.Readlink(path)
}

// RemoveDir removes an empty directory.
func RemoveDir(path string) error {
	return backend.Rmdir(path)
}

// RemoveDirAll removes path and, if it is a directory, everything under
// it. A symlink is removed itself, never followed.
func RemoveDirAll(path string) error {
	meta, err := Lstat(path)
	if err != nil {
		return err
	}
	if !meta.IsDir() {
		return RemoveFile(path)
	}
	return removeDirRecursive(path)
}

func removeDirRecursive(path string) error {
	entries, err := ReadDir(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		isDir := entry.entry.Type == backend.TypeDirectory
		if entry.entry.Type == backend.TypeUnknown {
			// Some filesystems do not fill in d_type.
			meta, err := entry.Metadata()
			if err != nil {
				return err
			}
			isDir = meta.IsDir()
		}
		if isDir {
			if err := removeDirRecursive(entry.Path()); err != nil {
				return err
			}
			continue
		}
		if err := RemoveFile(entry.Path()); err != nil {
			return errors.Wrapf(err, "emptying %s", path)
		}
	}
	return RemoveDir(path)
}

// RemoveFile removes a non-directory from the filesystem.
func RemoveFile(path string) error {
	return backend.Unlink(path)
}

// Rename renames a file or directory, replacing to if it already exists.
func Rename(from string, to string) error {
	return backend.Rename(from, to)
}

// SetPermissions changes the permission bits of path.
func SetPermissions(path string, perm Permissions) error {
	return backend.Chmod(path, perm.Mode())
}

// Chown changes the owner and group of path; -1 leaves a field unchanged.
func Chown(path string, uid int, gid int) error {
	return backend.Chown(path, uid, gid)
}

// Lchown is Chown without following a trailing symlink.
func Lchown(path string, uid int, gid int) error {
	return backend.Lchown(path, uid, gid)
}

// Chroot changes the root directory of the current process.
func Chroot(path string) error {
	return backend.Chroot(path)
}

// Symlink creates a symbolic link at link pointing to target.
func Symlink(target string, link string) error {
	return backend.Symlink(target, link)
}

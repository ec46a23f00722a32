//go:build linux && amd64

// Package backend talks to the Linux kernel directly through raw system
// calls, bypassing libc. It owns the syscall invocation and error-decoding
// convention, the kernel ABI structures for file status, the directory-entry
// enumeration engine and the realpath engine. Everything above it is a thin
// wrapper.
package backend

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// The kernel folds errnos into the syscall return word: a return value in
// [-4095, -1] is a negated errno, anything else (including "negative
// looking" large success values) is a valid result.
const maxErrno = 4095

// splitReturn applies the kernel return convention to a raw return word.
func splitReturn(raw uintptr) (uintptr, unix.Errno) {
	if v := int64(raw); v < 0 && v >= -maxErrno {
		return 0, unix.Errno(-v)
	}
	return raw, 0
}

// outcome turns a syscall result into a typed error carrying the errno. No
// errno is ever collapsed or retried here; interrupted calls are the
// caller's policy.
func outcome(op string, path string, r uintptr, errno unix.Errno) (uintptr, error) {
	if errno != 0 {
		return 0, newSyscallError(op, path, errno)
	}
	return r, nil
}

// pathArg converts a path into a NUL-terminated byte pointer. Paths with an
// embedded NUL are a caller contract violation and surface as EINVAL, which
// is what the kernel itself would report.
func pathArg(op string, path string) (*byte, error) {
	p, err := unix.BytePtrFromString(path)
	if err != nil {
		return nil, newSyscallError(op, path, unix.EINVAL)
	}
	return p, nil
}

// bufArg returns the start pointer of buf, or nil for an empty buffer.
func bufArg(buf []byte) unsafe.Pointer {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Pointer(&buf[0])
}

// Open opens path with the given open(2) flags and creation mode.
func Open(path string, flags int, mode uint32) (*FD, error) {
	p, err := pathArg("open", path)
	if err != nil {
		return nil, err
	}
	r, _, e := unix.Syscall(unix.SYS_OPEN, uintptr(unsafe.Pointer(p)), uintptr(flags), uintptr(mode))
	fd, err := outcome("open", path, r, e)
	if err != nil {
		return nil, err
	}
	return newFD(int(fd)), nil
}

// Creat creates (or truncates) path, open for reading.
func Creat(path string, mode uint32) (*FD, error) {
	return Open(path, unix.O_RDONLY|unix.O_CREAT|unix.O_TRUNC, mode)
}

func Read(fd *FD, buf []byte) (int, error) {
	r, _, e := unix.Syscall(unix.SYS_READ, uintptr(fd.Raw()), uintptr(bufArg(buf)), uintptr(len(buf)))
	n, err := outcome("read", "", r, e)
	return int(n), err
}

func Write(fd *FD, buf []byte) (int, error) {
	r, _, e := unix.Syscall(unix.SYS_WRITE, uintptr(fd.Raw()), uintptr(bufArg(buf)), uintptr(len(buf)))
	n, err := outcome("write", "", r, e)
	return int(n), err
}

// Pread reads from fd at offset without moving the file offset.
func Pread(fd *FD, buf []byte, offset int64) (int, error) {
	r, _, e := unix.Syscall6(unix.SYS_PREAD64,
		uintptr(fd.Raw()), uintptr(bufArg(buf)), uintptr(len(buf)), uintptr(offset), 0, 0)
	n, err := outcome("pread", "", r, e)
	return int(n), err
}

// Pwrite writes to fd at offset without moving the file offset.
func Pwrite(fd *FD, buf []byte, offset int64) (int, error) {
	r, _, e := unix.Syscall6(unix.SYS_PWRITE64,
		uintptr(fd.Raw()), uintptr(bufArg(buf)), uintptr(len(buf)), uintptr(offset), 0, 0)
	n, err := outcome("pwrite", "", r, e)
	return int(n), err
}

func Link(oldPath string, newPath string) error {
	po, err := pathArg("link", oldPath)
	if err != nil {
		return err
	}
	pn, err := pathArg("link", newPath)
	if err != nil {
		return err
	}
	r, _, e := unix.Syscall(unix.SYS_LINK, uintptr(unsafe.Pointer(po)), uintptr(unsafe.Pointer(pn)), 0)
	_, err = outcome("link", newPath, r, e)
	return err
}

func Unlink(path string) error {
	p, err := pathArg("unlink", path)
	if err != nil {
		return err
	}
	r, _, e := unix.Syscall(unix.SYS_UNLINK, uintptr(unsafe.Pointer(p)), 0, 0)
	_, err = outcome("unlink", path, r, e)
	return err
}

func Symlink(target string, linkPath string) error {
	pt, err := pathArg("symlink", target)
	if err != nil {
		return err
	}
	pl, err := pathArg("symlink", linkPath)
	if err != nil {
		return err
	}
	r, _, e := unix.Syscall(unix.SYS_SYMLINK, uintptr(unsafe.Pointer(pt)), uintptr(unsafe.Pointer(pl)), 0)
	_, err = outcome("symlink", linkPath, r, e)
	return err
}

func Mkdir(path string, mode uint32) error {
	p, err := pathArg("mkdir", path)
	if err != nil {
		return err
	}
	r, _, e := unix.Syscall(unix.SYS_MKDIR, uintptr(unsafe.Pointer(p)), uintptr(mode), 0)
	_, err = outcome("mkdir", path, r, e)
	return err
}

func Rmdir(path string) error {
	p, err := pathArg("rmdir", path)
	if err != nil {
		return err
	}
	r, _, e := unix.Syscall(unix.SYS_RMDIR, uintptr(unsafe.Pointer(p)), 0, 0)
	_, err = outcome("rmdir", path, r, e)
	return err
}

func Rename(oldPath string, newPath string) error {
	po, err := pathArg("rename", oldPath)
	if err != nil {
		return err
	}
	pn, err := pathArg("rename", newPath)
	if err != nil {
		return err
	}
	r, _, e := unix.Syscall(unix.SYS_RENAME, uintptr(unsafe.Pointer(po)), uintptr(unsafe.Pointer(pn)), 0)
	_, err = outcome("rename", newPath, r, e)
	return err
}

// Stat fills st with the status of the file path refers to, following
// symlinks.
func Stat(path string, st *FileStat) error {
	p, err := pathArg("stat", path)
	if err != nil {
		return err
	}
	r, _, e := unix.Syscall(unix.SYS_STAT, uintptr(unsafe.Pointer(p)), uintptr(unsafe.Pointer(st)), 0)
	_, err = outcome("stat", path, r, e)
	return err
}

// Lstat is Stat without following a trailing symlink.
func Lstat(path string, st *FileStat) error {
	p, err := pathArg("lstat", path)
	if err != nil {
		return err
	}
	r, _, e := unix.Syscall(unix.SYS_LSTAT, uintptr(unsafe.Pointer(p)), uintptr(unsafe.Pointer(st)), 0)
	_, err = outcome("lstat", path, r, e)
	return err
}

func Fstat(fd *FD, st *FileStat) error {
	r, _, e := unix.Syscall(unix.SYS_FSTAT, uintptr(fd.Raw()), uintptr(unsafe.Pointer(st)), 0)
	_, err := outcome("fstat", "", r, e)
	return err
}

func statx(op string, dirfd int, path string, flags int, stx *FileStatx) error {
	p, err := pathArg(op, path)
	if err != nil {
		return err
	}
	r, _, e := unix.Syscall6(unix.SYS_STATX,
		uintptr(dirfd), uintptr(unsafe.Pointer(p)), uintptr(flags),
		uintptr(unix.STATX_ALL), uintptr(unsafe.Pointer(stx)), 0)
	_, err = outcome(op, path, r, e)
	return err
}

// Statx fills stx with the extended status of path, following symlinks.
func Statx(path string, stx *FileStatx) error {
	return statx("statx", unix.AT_FDCWD, path, 0, stx)
}

// Lstatx is Statx without following a trailing symlink.
func Lstatx(path string, stx *FileStatx) error {
	return statx("lstatx", unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, stx)
}

// Fstatx queries the extended status of an open descriptor.
func Fstatx(fd *FD, stx *FileStatx) error {
	return statx("fstatx", fd.Raw(), "", unix.AT_EMPTY_PATH, stx)
}

// Getdents fills buf with linux_dirent64 records and returns the number of
// bytes placed in it. A zero return on success means the directory has been
// fully read.
func Getdents(fd *FD, buf []byte) (int, error) {
	r, _, e := unix.Syscall(unix.SYS_GETDENTS64, uintptr(fd.Raw()), uintptr(bufArg(buf)), uintptr(len(buf)))
	n, err := outcome("getdents", "", r, e)
	return int(n), err
}

// Chroot changes the root directory of the calling process.
func Chroot(path string) error {
	p, err := pathArg("chroot", path)
	if err != nil {
		return err
	}
	r, _, e := unix.Syscall(unix.SYS_CHROOT, uintptr(unsafe.Pointer(p)), 0, 0)
	_, err = outcome("chroot", path, r, e)
	return err
}

// Seek repositions the file offset of fd and returns the resulting offset.
func Seek(fd *FD, offset int64, whence int) (int64, error) {
	r, _, e := unix.Syscall(unix.SYS_LSEEK, uintptr(fd.Raw()), uintptr(offset), uintptr(whence))
	n, err := outcome("lseek", "", r, e)
	return int64(n), err
}

// Readlink returns the target a symbolic link points to. The target is
// returned verbatim; it is not resolved in any way.
func Readlink(path string) (string, error) {
	p, err := pathArg("readlink", path)
	if err != nil {
		return "", err
	}
	bufSize := 256
	for {
		buf := make([]byte, bufSize)
		r, _, e := unix.Syscall(unix.SYS_READLINK,
			uintptr(unsafe.Pointer(p)), uintptr(bufArg(buf)), uintptr(len(buf)))
		n, err := outcome("readlink", path, r, e)
		if err != nil {
			return "", err
		}
		// A full buffer may mean truncation, retry with a larger one.
		if int(n) < len(buf) {
			return string(buf[:n]), nil
		}
		bufSize *= 2
	}
}

// Fcntl performs the given fcntl(2) command on fd.
func Fcntl(fd *FD, cmd int, arg int) (int, error) {
	r, _, e := unix.Syscall(unix.SYS_FCNTL, uintptr(fd.Raw()), uintptr(cmd), uintptr(arg))
	n, err := outcome("fcntl", "", r, e)
	return int(n), err
}

// Fsync flushes file data and metadata to the underlying device.
func Fsync(fd *FD) error {
	r, _, e := unix.Syscall(unix.SYS_FSYNC, uintptr(fd.Raw()), 0, 0)
	_, err := outcome("fsync", "", r, e)
	return err
}

// Fdatasync is Fsync minus metadata that is not needed to read the data
// back.
func Fdatasync(fd *FD) error {
	r, _, e := unix.Syscall(unix.SYS_FDATASYNC, uintptr(fd.Raw()), 0, 0)
	_, err := outcome("fdatasync", "", r, e)
	return err
}

func Ftruncate(fd *FD, length int64) error {
	r, _, e := unix.Syscall(unix.SYS_FTRUNCATE, uintptr(fd.Raw()), uintptr(length), 0)
	_, err := outcome("ftruncate", "", r, e)
	return err
}

func Chmod(path string, mode uint32) error {
	p, err := pathArg("chmod", path)
	if err != nil {
		return err
	}
	r, _, e := unix.Syscall(unix.SYS_CHMOD, uintptr(unsafe.Pointer(p)), uintptr(mode), 0)
	_, err = outcome("chmod", path, r, e)
	return err
}

func Fchmod(fd *FD, mode uint32) error {
	r, _, e := unix.Syscall(unix.SYS_FCHMOD, uintptr(fd.Raw()), uintptr(mode), 0)
	_, err := outcome("fchmod", "", r, e)
	return err
}

// Utimens sets the access and modification timestamps of path. A slot with
// Nsec == unix.UTIME_OMIT is left untouched.
func Utimens(path string, times *[2]Timespec) error {
	p, err := pathArg("utimensat", path)
	if err != nil {
		return err
	}
	fdcwd := unix.AT_FDCWD
	r, _, e := unix.Syscall6(unix.SYS_UTIMENSAT,
		uintptr(fdcwd), uintptr(unsafe.Pointer(p)), uintptr(unsafe.Pointer(times)), 0, 0, 0)
	_, err = outcome("utimensat", path, r, e)
	return err
}

// Futimens is Utimens on an open descriptor.
func Futimens(fd *FD, times *[2]Timespec) error {
	r, _, e := unix.Syscall6(unix.SYS_UTIMENSAT,
		uintptr(fd.Raw()), 0, uintptr(unsafe.Pointer(times)), 0, 0, 0)
	_, err := outcome("utimensat", "", r, e)
	return err
}

// Chown changes the owner and group of path. Pass -1 to leave either
// unchanged.
func Chown(path string, uid int, gid int) error {
	p, err := pathArg("chown", path)
	if err != nil {
		return err
	}
	r, _, e := unix.Syscall(unix.SYS_CHOWN, uintptr(unsafe.Pointer(p)), uintptr(uid), uintptr(gid))
	_, err = outcome("chown", path, r, e)
	return err
}

func Fchown(fd *FD, uid int, gid int) error {
	r, _, e := unix.Syscall(unix.SYS_FCHOWN, uintptr(fd.Raw()), uintptr(uid), uintptr(gid))
	_, err := outcome("fchown", "", r, e)
	return err
}

// Lchown is Chown without following a trailing symlink.
func Lchown(path string, uid int, gid int) error {
	p, err := pathArg("lchown", path)
	if err != nil {
		return err
	}
	r, _, e := unix.Syscall(unix.SYS_LCHOWN, uintptr(unsafe.Pointer(p)), uintptr(uid), uintptr(gid))
	_, err = outcome("lchown", path, r, e)
	return err
}

// Getcwd returns the current working directory of the process.
func Getcwd() (string, error) {
	buf := make([]byte, 4096)
	r, _, e := unix.Syscall(unix.SYS_GETCWD, uintptr(bufArg(buf)), uintptr(len(buf)), 0)
	_, err := outcome("getcwd", "", r, e)
	if err != nil {
		return "", err
	}
	return unix.ByteSliceToString(buf), nil
}

// CopyFileRange copies up to length bytes between two descriptors inside
// the kernel. Nil offsets use (and advance) the file offsets.
func CopyFileRange(src *FD, srcOffset *int64, dst *FD, dstOffset *int64, length int) (int, error) {
	r, _, e := unix.Syscall6(unix.SYS_COPY_FILE_RANGE,
		uintptr(src.Raw()), uintptr(unsafe.Pointer(srcOffset)),
		uintptr(dst.Raw()), uintptr(unsafe.Pointer(dstOffset)),
		uintptr(length), 0)
	n, err := outcome("copy_file_range", "", r, e)
	return int(n), err
}

//go:build linux && amd64

package backend

import (
	"path"
	"strings"

	"golang.org/x/sys/unix"
)

// maxSymlinkFollows caps recursive symlink expansion. The kernel uses 40;
// past it resolution fails with ELOOP instead of chasing a cycle forever.
const maxSymlinkFollows = 40

// Realpath resolves path into its canonical absolute form: no ".", no "..",
// no symbolic links. Relative paths are anchored at the working directory,
// read once at the start of resolution.
func Realpath(pathname string) (string, error) {
	base := "/"
	if !strings.HasPrefix(pathname, "/") {
		cwd, err := Getcwd()
		if err != nil {
			return "", err
		}
		base = cwd
	}
	return canonicalize(pathname, base, 0)
}

// RealpathAt is Realpath with an explicit base directory for relative
// paths, for callers that need resolution independent of the process-wide
// working directory. base must be absolute.
func RealpathAt(pathname string, base string) (string, error) {
	if !strings.HasPrefix(base, "/") {
		return "", newSyscallError("realpath", base, unix.EINVAL)
	}
	return canonicalize(pathname, base, 0)
}

// canonicalize walks pathname component by component, keeping the canonical
// prefix resolved so far in parsed. Whenever an appended component turns out
// to be a symlink, its target is spliced in: relative targets are anchored
// at the directory containing the link, absolute targets restart from "/",
// and either way the target is canonicalized recursively before the walk
// continues.
func canonicalize(pathname string, base string, depth int) (string, error) {
	if depth > maxSymlinkFollows {
		return "", newSyscallError("realpath", pathname, unix.ELOOP)
	}

	parsed := base
	if strings.HasPrefix(pathname, "/") {
		parsed = "/"
	}
	remaining := splitComponents(pathname)

	var st FileStat
	for len(remaining) > 0 {
		// The kernel checks existence node by node; a missing intermediate
		// segment fails here rather than at the end of the walk.
		if err := Lstat(parsed, &st); err != nil {
			return "", err
		}

		component := remaining[0]
		remaining = remaining[1:]

		switch component {
		case ".":
			continue
		case "..":
			parsed = parentOf(parsed)
			continue
		}

		parsed = joinComponent(parsed, component)

		err := Lstat(parsed, &st)
		if err != nil {
			if errno, ok := ErrnoOf(err); ok && errno == unix.ENOENT {
				// A missing trailing component is fine; a missing
				// intermediate one is caught on the next iteration.
				continue
			}
			return "", err
		}
		if st.Mode&unix.S_IFMT != unix.S_IFLNK {
			continue
		}

		target, err := Readlink(parsed)
		if err != nil {
			return "", err
		}
		anchor := "/"
		if !strings.HasPrefix(target, "/") {
			// Relative targets are anchored at the link's own directory,
			// never at the path including the link's name.
			anchor = parentOf(parsed)
		}
		resolved, err := canonicalize(target, anchor, depth+1)
		if err != nil {
			return "", err
		}
		parsed = resolved
	}

	return parsed, nil
}

// splitComponents splits a path into its components, dropping empty ones
// but keeping "." and ".." for the walk to interpret.
func splitComponents(pathname string) []string {
	var components []string
	for _, component := range strings.Split(pathname, "/") {
		if component != "" {
			components = append(components, component)
		}
	}
	return components
}

// parentOf returns the parent of an absolute path; the root is its own
// parent.
func parentOf(pathname string) string {
	if pathname == "/" {
		return "/"
	}
	return path.Dir(pathname)
}

func joinComponent(pathname string, component string) string {
	if pathname == "/" {
		return "/" + component
	}
	return pathname + "/" + component
}

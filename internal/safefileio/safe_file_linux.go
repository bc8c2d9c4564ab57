//go:build linux

package safefileio

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// openFile resolves absPath with openat2(RESOLVE_NO_SYMLINKS), so the kernel
// refuses a symlink in any component before the file is created or opened.
// Kernels older than 5.6 lack openat2 and get the portable fallback.
func openFile(absPath string, flag int, perm os.FileMode) (*os.File, error) {
	how := unix.OpenHow{
		// #nosec G115 - open flags are non-negative
		Flags:   uint64(flag | unix.O_CLOEXEC),
		Resolve: unix.RESOLVE_NO_SYMLINKS,
	}
	if flag&os.O_CREATE != 0 {
		how.Mode = uint64(perm.Perm())
	}

	fd, err := unix.Openat2(unix.AT_FDCWD, absPath, &how)
	if err != nil {
		switch {
		case errors.Is(err, unix.ENOSYS):
			return openFallback(absPath, flag, perm)
		case errors.Is(err, unix.ELOOP):
			return nil, fmt.Errorf("%w: %s", ErrIsSymlink, absPath)
		case errors.Is(err, unix.EEXIST):
			return nil, fmt.Errorf("%w: %s", ErrFileExists, absPath)
		}
		return nil, &os.PathError{Op: "openat2", Path: absPath, Err: err}
	}
	return os.NewFile(uintptr(fd), absPath), nil
}

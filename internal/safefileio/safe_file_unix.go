//go:build unix

package safefileio

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// nonBlock keeps an open of a FIFO from waiting for a writer. It has no effect
// on regular files.
const nonBlock = unix.O_NONBLOCK

func openNoFollow(absPath string, flag int, perm os.FileMode) (*os.File, error) {
	// #nosec G304 - absPath is cleaned and the final component is never followed
	file, err := os.OpenFile(absPath, flag|unix.O_NOFOLLOW|unix.O_CLOEXEC, perm)
	if err != nil {
		switch {
		case os.IsExist(err):
			return nil, fmt.Errorf("%w: %s", ErrFileExists, absPath)
		case isNoFollowError(err):
			return nil, fmt.Errorf("%w: %s", ErrIsSymlink, absPath)
		}
		return nil, err
	}
	return file, nil
}

// isNoFollowError checks if the error indicates we tried to open a symlink.
// NetBSD reports EFTYPE, everything else ELOOP.
func isNoFollowError(err error) bool {
	var e *os.PathError
	if !errors.As(err, &e) {
		return false
	}
	return errors.Is(e.Err, unix.ELOOP) || errors.Is(e.Err, unix.EMLINK) || isEFTYPE(e.Err)
}

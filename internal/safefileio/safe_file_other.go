//go:build !unix

package safefileio

import (
	"fmt"
	"os"
)

const nonBlock = 0

func openNoFollow(absPath string, flag int, perm os.FileMode) (*os.File, error) {
	fi, err := os.Lstat(absPath)
	switch {
	case err == nil && fi.Mode()&os.ModeSymlink != 0:
		return nil, fmt.Errorf("%w: %s", ErrIsSymlink, absPath)
	case err != nil && !os.IsNotExist(err):
		return nil, err
	}
	// #nosec G304 - absPath is cleaned and checked above
	file, err := os.OpenFile(absPath, flag, perm)
	if os.IsExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileExists, absPath)
	}
	return file, err
}

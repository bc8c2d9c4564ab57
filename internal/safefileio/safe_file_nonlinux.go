//go:build !linux

package safefileio

import "os"

func openFile(absPath string, flag int, perm os.FileMode) (*os.File, error) {
	return openFallback(absPath, flag, perm)
}

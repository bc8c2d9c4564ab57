package safefileio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MaxFileSize is the maximum size ReadFile accepts. Config and dotenv files are small.
const MaxFileSize = 1 << 20

// ReadFile reads a regular file, refusing a symlink anywhere in its path.
// FIFOs and devices are rejected without blocking on them.
func ReadFile(filePath string) (content []byte, err error) {
	absPath, err := absolute(filePath)
	if err != nil {
		return nil, err
	}

	file, err := openFile(absPath, os.O_RDONLY|nonBlock, 0)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", closeErr)
		}
	}()

	fileInfo, err := validateFile(file, absPath)
	if err != nil {
		return nil, err
	}
	if fileInfo.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, absPath)
	}

	content, err = io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(content) > MaxFileSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, absPath)
	}
	return content, nil
}

// CreateFile creates a new regular file for writing with perm. It fails with
// ErrFileExists when the path exists and with ErrIsSymlink when a directory on
// the path is a symlink. The caller closes the file.
func CreateFile(filePath string, perm os.FileMode) (*os.File, error) {
	absPath, err := absolute(filePath)
	if err != nil {
		return nil, err
	}

	file, err := openFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return nil, err
	}
	if _, err := validateFile(file, absPath); err != nil {
		_ = file.Close()
		return nil, err
	}
	return file, nil
}

func absolute(filePath string) (string, error) {
	if filePath == "" {
		return "", ErrInvalidFilePath
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidFilePath, err)
	}
	return absPath, nil
}

// openFallback is used where the kernel cannot refuse symlinks during path
// resolution. Parents are checked before the open so an existing file behind a
// symlinked directory is never opened, and again after it to catch a swap.
func openFallback(absPath string, flag int, perm os.FileMode) (*os.File, error) {
	if err := verifyPathComponents(absPath); err != nil {
		return nil, err
	}

	file, err := openNoFollow(absPath, flag, perm)
	if err != nil {
		return nil, err
	}

	if err := verifyPathComponents(absPath); err != nil {
		_ = file.Close()
		return nil, err
	}
	return file, nil
}

// verifyPathComponents checks that no directory above absPath is a symlink.
func verifyPathComponents(absPath string) error {
	current := filepath.Dir(absPath)
	for {
		parent := filepath.Dir(current)
		if parent == current {
			return nil
		}

		fi, err := os.Lstat(current)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", current, err)
		}
		if fi.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s", ErrIsSymlink, current)
		}

		current = parent
	}
}

// validateFile checks through the descriptor that the file is a regular file
func validateFile(file *os.File, filePath string) (os.FileInfo, error) {
	fileInfo, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: not a regular file: %s", ErrInvalidFilePath, filePath)
	}
	return fileInfo, nil
}

// Package safefileio opens the files a program reads or writes before it holds
// root privileges without following symbolic links, so an unprivileged user
// cannot redirect a config, dotenv or log path to another file.
package safefileio

import "errors"

var (
	// ErrInvalidFilePath indicates that the specified file path is invalid.
	ErrInvalidFilePath = errors.New("invalid file path")

	// ErrIsSymlink indicates that the path or one of its directories is a symbolic link.
	ErrIsSymlink = errors.New("path is a symbolic link")

	// ErrFileExists indicates that CreateFile found the path already present.
	ErrFileExists = errors.New("file exists")

	// ErrFileTooLarge indicates that the file exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("file too large")
)

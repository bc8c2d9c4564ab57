package bootstrap

import "errors"

// ErrInvalidLogDir is returned when the log directory cannot be used
var ErrInvalidLogDir = errors.New("invalid log directory")

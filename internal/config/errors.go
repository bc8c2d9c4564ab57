package config

import "errors"

// Error definitions for the config package
var (
	// ErrInvalidConfigPath is returned when the config file path is invalid
	ErrInvalidConfigPath = errors.New("invalid config file path")

	// ErrInvalidHelperPath is returned when helper_path is not an absolute path
	ErrInvalidHelperPath = errors.New("helper_path must be an absolute path")

	// ErrInvalidLogLevel is returned when log_level is not a known level
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidBacktraceVar is returned when backtrace_var is not a valid variable name
	ErrInvalidBacktraceVar = errors.New("invalid backtrace variable name")
)

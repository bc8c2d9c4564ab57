package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ErrorType represents different types of failures that happen before the
// program obtained the privileges it needs
type ErrorType string

const (
	// ErrorTypeConfigParsing represents configuration parsing failures
	ErrorTypeConfigParsing ErrorType = "config_parsing_failed"
	// ErrorTypeLogFileOpen represents log file opening failures
	ErrorTypeLogFileOpen ErrorType = "log_file_open_failed"
	// ErrorTypeEnvFile represents dotenv loading failures
	ErrorTypeEnvFile ErrorType = "env_file_failed"
	// ErrorTypeInvalidArguments represents invalid command line arguments
	ErrorTypeInvalidArguments ErrorType = "invalid_arguments"
	// ErrorTypeEscalation represents privilege escalation failures
	ErrorTypeEscalation ErrorType = "escalation_failed"
	// ErrorTypeSystemError represents system errors
	ErrorTypeSystemError ErrorType = "system_error"
)

// PreExecutionError represents an error that occurs before the program's
// privileged work starts
type PreExecutionError struct {
	Type      ErrorType
	Message   string
	Component string
	RunID     string
	Err       error
}

// Error implements the error interface
func (e *PreExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v (component: %s, run_id: %s)", e.Type, e.Message, e.Err, e.Component, e.RunID)
	}
	return fmt.Sprintf("%s: %s (component: %s, run_id: %s)", e.Type, e.Message, e.Component, e.RunID)
}

// Unwrap implements error wrapping for errors.Unwrap
func (e *PreExecutionError) Unwrap() error {
	return e.Err
}

// HandlePreExecutionError reports err on stderr and through slog.
func HandlePreExecutionError(err *PreExecutionError) {
	writePreExecutionError(os.Stderr, err)

	slog.Error("Pre-execution error occurred",
		"error_type", string(err.Type),
		"error_message", err.Message,
		"error", err.Err,
		"component", err.Component,
		"run_id", err.RunID)
}

// writePreExecutionError builds the report in one buffer so it is written atomically
func writePreExecutionError(w io.Writer, err *PreExecutionError) {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", err.Type)
	if err.Component != "" {
		fmt.Fprintf(&b, "  Component: %s\n", err.Component)
	}
	fmt.Fprintf(&b, "  Details: %s\n", err.Message)
	if err.Err != nil {
		fmt.Fprintf(&b, "  Cause: %v\n", err.Err)
	}
	if err.RunID != "" {
		fmt.Fprintf(&b, "  Run ID: %s\n", err.RunID)
	}
	_, _ = io.WriteString(w, b.String())
}

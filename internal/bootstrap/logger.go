// Package bootstrap wires the process-wide logger and environment before a
// program asks for privileges.
package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/isseis/go-escalate/internal/logging"
	"github.com/isseis/go-escalate/internal/safefileio"
	"github.com/isseis/go-escalate/internal/terminal"
)

const (
	// File permissions for log files
	logFilePerm = 0o600
	// Directory permissions for the log directory
	logDirPerm = 0o750
)

// LoggerConfig holds all configuration for logger setup
type LoggerConfig struct {
	Level            slog.Level
	LogDir           string
	RunID            string
	ConsoleWriter    io.Writer         // Writer for non-interactive console output, stdout by default
	InteractiveOut   io.Writer         // Writer for interactive output, stderr by default
	ForceInteractive bool              // -interactive
	ForceQuiet       bool              // -quiet
	Detector         terminal.Detector // nil selects terminal.NewDetector
}

// SetupLogger builds the handler chain and installs it as the slog default.
// It must be called once during startup, before any logging happens.
func SetupLogger(config LoggerConfig) (*slog.Logger, error) {
	detector := config.Detector
	if detector == nil {
		detector = terminal.NewDetector(terminal.Options{
			ForceInteractive:    config.ForceInteractive,
			ForceNonInteractive: config.ForceQuiet,
		})
	}

	var handlers []slog.Handler

	// 1. Interactive handler
	interactiveOut := config.InteractiveOut
	if interactiveOut == nil {
		interactiveOut = os.Stderr
	}
	interactiveHandler, err := logging.NewInteractiveHandler(logging.InteractiveHandlerOptions{
		Level:    config.Level,
		Writer:   interactiveOut,
		Detector: detector,
		Color:    detector.SupportsColor(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create interactive handler: %w", err)
	}
	handlers = append(handlers, interactiveHandler)

	// 2. Conditional text handler (for non-interactive console output)
	consoleWriter := config.ConsoleWriter
	if consoleWriter == nil {
		consoleWriter = os.Stdout
	}
	conditionalTextHandler, err := logging.NewConditionalTextHandler(logging.ConditionalTextHandlerOptions{
		TextHandlerOptions: &slog.HandlerOptions{
			Level: config.Level,
		},
		Writer:   consoleWriter,
		Detector: detector,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create conditional text handler: %w", err)
	}
	handlers = append(handlers, conditionalTextHandler)

	// 3. Machine-readable log handler (to file, per-run auto-named)
	var logPath string
	if config.LogDir != "" {
		jsonHandler, path, err := newFileHandler(config)
		if err != nil {
			return nil, err
		}
		logPath = path
		handlers = append(handlers, jsonHandler)
	}

	multiHandler, err := logging.NewMultiHandler(handlers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi handler: %w", err)
	}

	logger := slog.New(multiHandler)
	slog.SetDefault(logger)

	logger.Debug("Logger initialized",
		"log_level", config.Level,
		"log_file", logPath,
		"run_id", config.RunID,
		"interactive_mode", detector.IsInteractive(),
		"ci_environment", detector.IsCIEnvironment())

	return logger, nil
}

func newFileHandler(config LoggerConfig) (slog.Handler, string, error) {
	if !filepath.IsAbs(config.LogDir) {
		return nil, "", fmt.Errorf("%w: log directory must be absolute: %q", ErrInvalidLogDir, config.LogDir)
	}
	if err := os.MkdirAll(config.LogDir, logDirPerm); err != nil {
		return nil, "", fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := logging.LogFilePath(config.LogDir, config.RunID, time.Now())
	logF, err := safefileio.CreateFile(logPath, logFilePerm)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open log file: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	jsonHandler := slog.NewJSONHandler(logF, &slog.HandlerOptions{
		Level: config.Level,
	})
	return jsonHandler.WithAttrs([]slog.Attr{
		slog.String("hostname", hostname),
		slog.Int("pid", os.Getpid()),
		slog.String("run_id", config.RunID),
	}), logPath, nil
}

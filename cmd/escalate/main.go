// Package main provides a demonstration program for the privilege package. It
// reports its identity, escalates to root through the elevation helper and
// reports again, showing which environment variables survive the hop.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/isseis/go-escalate/internal/bootstrap"
	"github.com/isseis/go-escalate/internal/config"
	"github.com/isseis/go-escalate/internal/logging"
	"github.com/isseis/go-escalate/internal/terminal"
	"github.com/isseis/go-escalate/privilege"
)

// Modes selectable with -mode
const (
	modeSuid        = "suid"
	modeEnvironment = "environment"
	modeBacktrace   = "backtrace"
	modeStatus      = "status"
)

// Error definitions
var (
	ErrUnknownMode = errors.New("unknown mode")
)

// defaultEnvironmentPrefixes are forwarded in environment mode when neither the
// command line nor the config names any prefix.
var defaultEnvironmentPrefixes = []string{"EXAMPLE_", "CARGO"}

// stringList collects a repeatable flag
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

type options struct {
	configPath  string
	envFile     string
	envPrefixes stringList
	logLevel    string
	logDir      string
	mode        string
	interactive bool
	quiet       bool
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("escalate", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "path to config file")
	fs.StringVar(&opts.envFile, "env-file", "", "dotenv file loaded into the environment before escalation")
	fs.Var(&opts.envPrefixes, "env-prefix", "forward variables with this name prefix to the elevated process (repeatable)")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error). Overrides config if set.")
	fs.StringVar(&opts.logDir, "log-dir", "", "directory to place per-run JSON log (auto-named). Overrides config if set.")
	fs.StringVar(&opts.mode, "mode", modeSuid, "suid, environment, backtrace or status")
	fs.BoolVar(&opts.interactive, "interactive", false, "force interactive console output")
	fs.BoolVar(&opts.quiet, "quiet", false, "force non-interactive console output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch opts.mode {
	case modeSuid, modeEnvironment, modeBacktrace, modeStatus:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, opts.mode)
	}
	return opts, nil
}

func main() {
	// Generate run ID early for error handling
	runID := logging.GenerateRunID()

	if err := run(runID, os.Args[1:], os.Stdout); err != nil {
		var preExecErr *logging.PreExecutionError
		if !errors.As(err, &preExecErr) {
			preExecErr = &logging.PreExecutionError{
				Type:      logging.ErrorTypeSystemError,
				Message:   "Unexpected failure",
				Component: "main",
				RunID:     runID,
				Err:       err,
			}
		}
		logging.HandlePreExecutionError(preExecErr)
		os.Exit(1)
	}
}

func run(runID string, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return &logging.PreExecutionError{
			Type:      logging.ErrorTypeInvalidArguments,
			Message:   "Invalid command line",
			Component: "flags",
			RunID:     runID,
			Err:       err,
		}
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return &logging.PreExecutionError{
			Type:      logging.ErrorTypeConfigParsing,
			Message:   "Failed to load config",
			Component: "config",
			RunID:     runID,
			Err:       err,
		}
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return &logging.PreExecutionError{
			Type:      logging.ErrorTypeInvalidArguments,
			Message:   "Invalid log level",
			Component: "flags",
			RunID:     runID,
			Err:       err,
		}
	}

	detector := terminal.NewDetector(terminal.Options{
		ForceInteractive:    opts.interactive,
		ForceNonInteractive: opts.quiet,
	})
	logger, err := bootstrap.SetupLogger(bootstrap.LoggerConfig{
		Level:    level,
		LogDir:   cfg.LogDir,
		RunID:    runID,
		Detector: detector,
	})
	if err != nil {
		return &logging.PreExecutionError{
			Type:      logging.ErrorTypeLogFileOpen,
			Message:   "Failed to setup logger",
			Component: "logging",
			RunID:     runID,
			Err:       err,
		}
	}
	logger = logger.With("run_id", runID)

	if opts.envFile != "" {
		names, err := bootstrap.LoadEnvFile(opts.envFile)
		if err != nil {
			return &logging.PreExecutionError{
				Type:      logging.ErrorTypeEnvFile,
				Message:   "Failed to load environment file",
				Component: "environment",
				RunID:     runID,
				Err:       err,
			}
		}
		logger.Debug("Environment file loaded", "path", opts.envFile, "variables", names)
	}

	manager := privilege.NewManager(cfg.EscalatorOptions(logger)...)
	d := &demo{
		manager:  manager,
		detector: detector,
		logger:   logger,
		stdout:   stdout,
		prefixes: resolvePrefixes(opts, cfg),
		runID:    runID,
		exec:     runProgram,
	}
	return d.run(opts.mode)
}

// loadConfig reads the config file when one is given and applies command line overrides
func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.NewLoader().LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.logDir != "" {
		cfg.LogDir = opts.logDir
	}
	return cfg, nil
}

// resolvePrefixes picks the forwarded prefixes: command line, then config, then
// the environment mode defaults.
func resolvePrefixes(opts *options, cfg *config.Config) []string {
	switch {
	case len(opts.envPrefixes) > 0:
		return opts.envPrefixes
	case len(cfg.EnvPrefixes) > 0:
		return cfg.EnvPrefixes
	case opts.mode == modeEnvironment:
		return defaultEnvironmentPrefixes
	default:
		return nil
	}
}

func runProgram(stdout io.Writer, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

type demo struct {
	manager  privilege.Manager
	detector terminal.Detector
	logger   *slog.Logger
	stdout   io.Writer
	prefixes []string
	runID    string
	exec     func(stdout io.Writer, name string, args ...string) error
}

func (d *demo) run(mode string) error {
	switch mode {
	case modeStatus:
		return d.status()
	case modeSuid:
		return d.showAround("/usr/bin/id")
	case modeEnvironment:
		return d.showAround("env")
	case modeBacktrace:
		if err := d.escalate(); err != nil {
			return err
		}
		panic("escalated process panics on purpose to show the forwarded traceback setting")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

func (d *demo) status() error {
	encoder := json.NewEncoder(d.stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(d.manager.Status()); err != nil {
		return fmt.Errorf("failed to write status: %w", err)
	}
	return nil
}

// showAround runs program before and after escalation
func (d *demo) showAround(program string) error {
	d.logIdentity("Before escalation")
	if err := d.exec(d.stdout, program); err != nil {
		d.logger.Warn("Program failed", "program", program, "error", err)
	}

	if err := d.escalate(); err != nil {
		return err
	}

	d.logIdentity("After escalation")
	if err := d.exec(d.stdout, program); err != nil {
		d.logger.Warn("Program failed", "program", program, "error", err)
	}
	return nil
}

func (d *demo) escalate() error {
	state, err := d.manager.Check()
	if err != nil {
		return &logging.PreExecutionError{
			Type:      logging.ErrorTypeEscalation,
			Message:   "Failed to determine privilege state",
			Component: "privilege",
			RunID:     d.runID,
			Err:       err,
		}
	}
	if state == privilege.User && !d.detector.CanPrompt() {
		d.logger.Warn("Standard input is not a terminal; the elevation helper may be unable to prompt for a password")
	}

	state, err = d.manager.Ensure(d.prefixes...)
	if err != nil {
		return &logging.PreExecutionError{
			Type:      logging.ErrorTypeEscalation,
			Message:   "Failed to obtain root privileges",
			Component: "privilege",
			RunID:     d.runID,
			Err:       err,
		}
	}
	d.logger.Info("Running with root privileges", "state", state.String())
	return nil
}

func (d *demo) logIdentity(msg string) {
	d.logger.Info(msg, "uid", os.Getuid(), "euid", os.Geteuid())
}

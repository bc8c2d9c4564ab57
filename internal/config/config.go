// Package config loads the TOML configuration of go-escalate programs: which
// elevation helper to run, which environment variables to forward to the
// elevated process and how to log.
package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/isseis/go-escalate/privilege"
)

// Default values
const (
	DefaultLogLevel = "info"
)

// Config is the on-disk configuration
type Config struct {
	HelperPath   string   `toml:"helper_path"`
	EnvPrefixes  []string `toml:"env_prefixes"`
	BacktraceVar *string  `toml:"backtrace_var"`
	LogLevel     string   `toml:"log_level"`
	LogDir       string   `toml:"log_dir"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields. An explicitly empty backtrace_var is kept,
// because it disables backtrace forwarding.
func ApplyDefaults(cfg *Config) {
	if cfg.HelperPath == "" {
		cfg.HelperPath = privilege.DefaultHelperPath
	}
	if cfg.BacktraceVar == nil {
		name := privilege.DefaultBacktraceVar
		cfg.BacktraceVar = &name
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

// Validate checks the semantic constraints of a configuration with defaults applied
func Validate(cfg *Config) error {
	if !filepath.IsAbs(cfg.HelperPath) {
		return fmt.Errorf("%w: %q", ErrInvalidHelperPath, cfg.HelperPath)
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.BacktraceVar != nil && strings.ContainsAny(*cfg.BacktraceVar, "= \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidBacktraceVar, *cfg.BacktraceVar)
	}
	return nil
}

// ParseLogLevel converts a level name (debug, info, warn, error) to a slog.Level
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
	}
	return l, nil
}

// EscalatorOptions translates the configuration into privilege options
func (c *Config) EscalatorOptions(logger *slog.Logger) []privilege.Option {
	opts := []privilege.Option{
		privilege.WithLogger(logger),
		privilege.WithHelperPath(c.HelperPath),
	}
	if c.BacktraceVar != nil {
		opts = append(opts, privilege.WithBacktraceVar(*c.BacktraceVar))
	}
	return opts
}

package config

import (
	"bytes"
	"fmt"

	"github.com/isseis/go-escalate/internal/safefileio"
	"github.com/pelletier/go-toml/v2"
)

// Loader reads configuration files
type Loader struct {
	readFile func(string) ([]byte, error)
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{readFile: safefileio.ReadFile}
}

// LoadConfig loads, defaults and validates the configuration at path. The file
// is read without following symlinks.
func (l *Loader) LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, ErrInvalidConfigPath
	}

	content, err := l.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfigPath, err)
	}

	cfg, err := LoadConfigFromContent(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigFromContent parses TOML content. Unknown keys are rejected so that a
// misspelled env_prefixes does not silently forward nothing.
func LoadConfigFromContent(content []byte) (*Config, error) {
	var cfg Config

	decoder := toml.NewDecoder(bytes.NewReader(content))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

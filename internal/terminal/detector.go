// Package terminal detects whether the process talks to a human at a terminal or
// runs unattended (CI, pipes), which decides both the console log format and
// whether an elevation helper can prompt for a password.
package terminal

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ciEnvVars contains common CI environment variables
var ciEnvVars = []string{
	"CI",                     // Generic CI indicator
	"CONTINUOUS_INTEGRATION", // Generic CI indicator
	"GITHUB_ACTIONS",         // GitHub Actions
	"TRAVIS",                 // Travis CI
	"CIRCLECI",               // Circle CI
	"JENKINS_URL",            // Jenkins
	"BUILD_NUMBER",           // Jenkins/TeamCity/etc
	"GITLAB_CI",              // GitLab CI
	"BUILDKITE",              // Buildkite
	"DRONE",                  // Drone CI
	"TF_BUILD",               // Azure DevOps
}

// Options controls interactive detection
type Options struct {
	ForceInteractive    bool // Force interactive mode regardless of environment
	ForceNonInteractive bool // Force non-interactive mode regardless of environment
}

// Detector reports terminal properties of the current process
type Detector interface {
	// IsInteractive reports whether output is meant for a human
	IsInteractive() bool
	// CanPrompt reports whether stdin is a terminal an elevation helper can prompt on
	CanPrompt() bool
	// IsCIEnvironment reports whether a CI system was detected
	IsCIEnvironment() bool
	// SupportsColor reports whether interactive output may use ANSI colors
	SupportsColor() bool
}

// DefaultDetector implements Detector using environment variables and x/term
type DefaultDetector struct {
	options    Options
	getenv     func(string) string
	isTerminal func(fd int) bool
}

// NewDetector creates a detector for the current process
func NewDetector(options Options) *DefaultDetector {
	return &DefaultDetector{
		options:    options,
		getenv:     os.Getenv,
		isTerminal: term.IsTerminal,
	}
}

// IsInteractive returns true if the current environment is interactive.
// Command line options win over CI detection, which wins over terminal checks.
func (d *DefaultDetector) IsInteractive() bool {
	if d.options.ForceInteractive {
		return true
	}
	if d.options.ForceNonInteractive {
		return false
	}
	if d.IsCIEnvironment() {
		return false
	}
	if t := d.getenv("TERM"); t == "" || t == "dumb" {
		return false
	}
	return d.isTerminal(int(os.Stdout.Fd())) && d.isTerminal(int(os.Stderr.Fd()))
}

// CanPrompt returns true if stdin is connected to a terminal
func (d *DefaultDetector) CanPrompt() bool {
	return d.isTerminal(int(os.Stdin.Fd()))
}

// SupportsColor honors NO_COLOR (https://no-color.org) on top of IsInteractive
func (d *DefaultDetector) SupportsColor() bool {
	return d.getenv("NO_COLOR") == "" && d.IsInteractive()
}

// IsCIEnvironment checks if the current environment is a CI/CD system
func (d *DefaultDetector) IsCIEnvironment() bool {
	for _, envVar := range ciEnvVars {
		value := d.getenv(envVar)
		if value == "" {
			continue
		}
		// CI=false or CI=0 should not be considered a CI environment
		if envVar == "CI" {
			return isTruthy(value)
		}
		return true
	}
	return false
}

func isTruthy(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	return lower != "false" && lower != "0" && lower != "no"
}

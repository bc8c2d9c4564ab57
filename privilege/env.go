package privilege

import (
	"log/slog"
	"strings"
)

// DefaultBacktraceVar is the traceback-verbosity variable that is always
// forwarded to the elevated process, independently of the prefix set.
const DefaultBacktraceVar = "GOTRACEBACK"

// Normalized backtrace values
const (
	backtraceShort = "1"
	backtraceFull  = "full"
)

// NormalizeBacktrace maps a backtrace-verbosity value to the value forwarded to
// the elevated process. The boolean result is false when the variable must not
// be forwarded at all, and substituted is true when an unrecognized value was
// replaced by "full". Only "true" compares case-insensitively, so "FULL" counts
// as substituted.
func NormalizeBacktrace(value string) (normalized string, forward, substituted bool) {
	switch {
	case value == "":
		return "", false, false
	case value == backtraceShort || strings.EqualFold(value, "true"):
		return backtraceShort, true, false
	case value == backtraceFull:
		return backtraceFull, true, false
	default:
		return backtraceFull, true, true
	}
}

// ForwardedEnv selects the NAME=value assignments handed to the elevation helper.
//
// environ is a snapshot in os.Environ format. The backtrace variable, when set and
// non-empty, comes first with its normalized value. It is followed by every other
// variable whose name starts with one of prefixes, in environ order. Each variable
// is emitted at most once, even when several prefixes match it.
func ForwardedEnv(environ, prefixes []string, backtraceVar string, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}

	var forwarded []string

	if backtraceVar != "" {
		if value, ok := lookup(environ, backtraceVar); ok {
			normalized, forward, substituted := NormalizeBacktrace(value)
			if substituted {
				logger.Warn("Unrecognized backtrace setting, forwarding full backtrace instead",
					"variable", backtraceVar,
					"value", value,
					"forwarded", normalized)
			}
			if forward {
				forwarded = append(forwarded, backtraceVar+"="+normalized)
			}
		}
	}

	if len(prefixes) == 0 {
		return forwarded
	}

	for _, entry := range environ {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" || name == backtraceVar {
			continue
		}
		if hasAnyPrefix(name, prefixes) {
			forwarded = append(forwarded, name+"="+value)
		}
	}

	return forwarded
}

// lookup returns the last value of name in environ, mirroring os.Getenv on a
// snapshot that may contain duplicates.
func lookup(environ []string, name string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, entry := range environ {
		key, v, ok := strings.Cut(entry, "=")
		if ok && key == name {
			value, found = v, true
		}
	}
	return value, found
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

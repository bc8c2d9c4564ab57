package privilege

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBacktrace(t *testing.T) {
	tests := []struct {
		value           string
		wantValue       string
		wantForward     bool
		wantSubstituted bool
	}{
		{value: "", wantValue: "", wantForward: false},
		{value: "1", wantValue: "1", wantForward: true},
		{value: "true", wantValue: "1", wantForward: true},
		{value: "TRUE", wantValue: "1", wantForward: true},
		{value: "True", wantValue: "1", wantForward: true},
		{value: "full", wantValue: "full", wantForward: true},
		{value: "garbage", wantValue: "full", wantForward: true, wantSubstituted: true},
		{value: "0", wantValue: "full", wantForward: true, wantSubstituted: true},
		{value: "FULL", wantValue: "full", wantForward: true, wantSubstituted: true},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			value, forward, substituted := NormalizeBacktrace(tt.value)
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantForward, forward)
			assert.Equal(t, tt.wantSubstituted, substituted)
		})
	}
}

func TestForwardedEnv_Backtrace(t *testing.T) {
	tests := []struct {
		name     string
		environ  []string
		want     []string
		wantWarn bool
	}{
		{name: "unset", environ: []string{"PATH=/bin"}, want: nil},
		{name: "empty is omitted", environ: []string{"GOTRACEBACK="}, want: nil},
		{name: "one", environ: []string{"GOTRACEBACK=1"}, want: []string{"GOTRACEBACK=1"}},
		{name: "true upper case", environ: []string{"GOTRACEBACK=TRUE"}, want: []string{"GOTRACEBACK=1"}},
		{name: "full", environ: []string{"GOTRACEBACK=full"}, want: []string{"GOTRACEBACK=full"}},
		{name: "garbage", environ: []string{"GOTRACEBACK=garbage"}, want: []string{"GOTRACEBACK=full"}, wantWarn: true},
		{name: "upper case full", environ: []string{"GOTRACEBACK=FULL"}, want: []string{"GOTRACEBACK=full"}, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))

			got := ForwardedEnv(tt.environ, nil, DefaultBacktraceVar, logger)
			assert.Equal(t, tt.want, got)

			if tt.wantWarn {
				assert.Contains(t, logs.String(), "level=WARN")
				assert.Contains(t, logs.String(), "value="+strings.TrimPrefix(tt.environ[0], "GOTRACEBACK="))
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}

func TestForwardedEnv_Prefixes(t *testing.T) {
	environ := []string{
		"APP_NAME=x",
		"PATH=/bin",
		"LOG_LEVEL=debug",
		"HOME=/home/user",
	}

	t.Run("matching prefixes", func(t *testing.T) {
		got := ForwardedEnv(environ, []string{"APP_", "LOG_"}, DefaultBacktraceVar, nil)
		assert.ElementsMatch(t, []string{"APP_NAME=x", "LOG_LEVEL=debug"}, got)
	})

	t.Run("environment order is kept", func(t *testing.T) {
		got := ForwardedEnv(environ, []string{"LOG_", "APP_"}, DefaultBacktraceVar, nil)
		assert.Equal(t, []string{"APP_NAME=x", "LOG_LEVEL=debug"}, got)
	})

	t.Run("empty prefix set forwards nothing", func(t *testing.T) {
		assert.Empty(t, ForwardedEnv(environ, nil, DefaultBacktraceVar, nil))
		assert.Empty(t, ForwardedEnv(environ, []string{}, DefaultBacktraceVar, nil))
	})

	t.Run("variable matching several prefixes is forwarded once", func(t *testing.T) {
		got := ForwardedEnv(environ, []string{"APP_", "APP_N", "APP_"}, DefaultBacktraceVar, nil)
		assert.Equal(t, []string{"APP_NAME=x"}, got)
	})

	t.Run("values are forwarded verbatim", func(t *testing.T) {
		got := ForwardedEnv([]string{"APP_DSN=user=a password=b", "APP_EMPTY="}, []string{"APP_"}, DefaultBacktraceVar, nil)
		assert.Equal(t, []string{"APP_DSN=user=a password=b", "APP_EMPTY="}, got)
	})

	t.Run("malformed entries are skipped", func(t *testing.T) {
		got := ForwardedEnv([]string{"APP_BROKEN", "=APP_X", "APP_OK=1"}, []string{"APP_"}, DefaultBacktraceVar, nil)
		assert.Equal(t, []string{"APP_OK=1"}, got)
	})
}

func TestForwardedEnv_BacktraceExcludedFromPrefixes(t *testing.T) {
	environ := []string{"GOTRACEBACK=garbage", "GOFLAGS=-mod=mod", "PATH=/bin"}

	got := ForwardedEnv(environ, []string{"GO"}, DefaultBacktraceVar, nil)

	assert.Equal(t, []string{"GOTRACEBACK=full", "GOFLAGS=-mod=mod"}, got)
}

func TestForwardedEnv_CustomBacktraceVar(t *testing.T) {
	environ := []string{"APP_TRACEBACK=true", "GOTRACEBACK=all", "APP_LOG=info"}

	got := ForwardedEnv(environ, []string{"APP_"}, "APP_TRACEBACK", nil)
	assert.Equal(t, []string{"APP_TRACEBACK=1", "APP_LOG=info"}, got)

	got = ForwardedEnv(environ, nil, "", nil)
	assert.Empty(t, got, "an empty backtrace variable name disables the dedicated rule")
}

func TestForwardedEnv_LastDuplicateWins(t *testing.T) {
	got := ForwardedEnv([]string{"GOTRACEBACK=garbage", "GOTRACEBACK=1"}, nil, DefaultBacktraceVar, nil)
	assert.Equal(t, []string{"GOTRACEBACK=1"}, got)
}

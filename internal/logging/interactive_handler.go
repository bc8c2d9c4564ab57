package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/isseis/go-escalate/internal/color"
)

// Static errors for InteractiveHandler validation
var (
	ErrInteractiveHandlerWriterRequired   = errors.New("InteractiveHandler: Writer is required")
	ErrInteractiveHandlerDetectorRequired = errors.New("InteractiveHandler: Detector is required")
)

// InteractiveHandler prints short human-readable lines for a user sitting at a
// terminal, e.g. while an elevation helper is about to prompt for a password.
type InteractiveHandler struct {
	detector InteractiveDetector
	writer   io.Writer
	mu       *sync.Mutex
	level    slog.Leveler
	color    bool
	attrs    string // preformatted " key=value" pairs
	prefix   string // open groups joined with "."
}

// InteractiveHandlerOptions configures the InteractiveHandler.
type InteractiveHandlerOptions struct {
	Level    slog.Leveler
	Writer   io.Writer
	Detector InteractiveDetector
	Color    bool // colorize level labels
}

// NewInteractiveHandler creates a new InteractiveHandler.
func NewInteractiveHandler(opts InteractiveHandlerOptions) (*InteractiveHandler, error) {
	if opts.Writer == nil {
		return nil, ErrInteractiveHandlerWriterRequired
	}
	if opts.Detector == nil {
		return nil, ErrInteractiveHandlerDetectorRequired
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}

	return &InteractiveHandler{
		detector: opts.Detector,
		writer:   opts.Writer,
		mu:       &sync.Mutex{},
		level:    level,
		color:    opts.Color,
	}, nil
}

// Enabled reports whether the handler handles records at the given level.
func (h *InteractiveHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.detector.IsInteractive() && level >= h.level.Level()
}

// Handle writes "LEVEL message key=value ..." followed by a newline.
func (h *InteractiveHandler) Handle(_ context.Context, r slog.Record) error {
	if !h.detector.IsInteractive() {
		return nil
	}

	label := fmt.Sprintf("%-5s", r.Level.String())
	if h.color {
		label = color.ForLevel(r.Level)(label)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s%s", label, r.Message, h.attrs)
	r.Attrs(func(attr slog.Attr) bool {
		writeAttr(&b, h.prefix, attr)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, b.String())
	return err
}

// WithAttrs returns a new handler with additional attributes.
func (h *InteractiveHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, attr := range attrs {
		writeAttr(&b, h.prefix, attr)
	}
	clone := *h
	clone.attrs = b.String()
	return &clone
}

// WithGroup returns a new handler with an additional group.
func (h *InteractiveHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func writeAttr(b *strings.Builder, prefix string, attr slog.Attr) {
	fmt.Fprintf(b, " %s%s=%v", prefix, attr.Key, attr.Value)
}

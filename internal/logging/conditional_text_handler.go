package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// Static errors for ConditionalTextHandler validation
var (
	ErrConditionalTextHandlerDetectorRequired = errors.New("ConditionalTextHandler: Detector is required")
	ErrConditionalTextHandlerWriterRequired   = errors.New("ConditionalTextHandler: Writer is required")
)

// InteractiveDetector reports whether the console is used interactively
type InteractiveDetector interface {
	IsInteractive() bool
}

// ConditionalTextHandler writes key=value text only when the console is not
// interactive. Interactive sessions get the human-oriented handler instead.
type ConditionalTextHandler struct {
	detector    InteractiveDetector
	textHandler slog.Handler
}

// ConditionalTextHandlerOptions configures the ConditionalTextHandler.
type ConditionalTextHandlerOptions struct {
	Detector           InteractiveDetector
	TextHandlerOptions *slog.HandlerOptions
	Writer             io.Writer
}

// NewConditionalTextHandler creates a ConditionalTextHandler.
func NewConditionalTextHandler(opts ConditionalTextHandlerOptions) (*ConditionalTextHandler, error) {
	if opts.Detector == nil {
		return nil, ErrConditionalTextHandlerDetectorRequired
	}
	if opts.Writer == nil {
		return nil, ErrConditionalTextHandlerWriterRequired
	}

	return &ConditionalTextHandler{
		detector:    opts.Detector,
		textHandler: slog.NewTextHandler(opts.Writer, opts.TextHandlerOptions),
	}, nil
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConditionalTextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.detector.IsInteractive() {
		return false
	}
	return h.textHandler.Enabled(ctx, level)
}

// Handle delegates to the text handler in non-interactive environments.
func (h *ConditionalTextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.detector.IsInteractive() {
		return nil
	}
	return h.textHandler.Handle(ctx, r)
}

// WithAttrs returns a new handler with additional attributes.
func (h *ConditionalTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ConditionalTextHandler{
		detector:    h.detector,
		textHandler: h.textHandler.WithAttrs(attrs),
	}
}

// WithGroup returns a new handler with an additional group.
func (h *ConditionalTextHandler) WithGroup(name string) slog.Handler {
	return &ConditionalTextHandler{
		detector:    h.detector,
		textHandler: h.textHandler.WithGroup(name),
	}
}

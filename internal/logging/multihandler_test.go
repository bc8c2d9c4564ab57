package logging

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test errors
var (
	errHandler1 = errors.New("handler1 error")
	errHandler2 = errors.New("handler2 error")
)

// mockHandler is a test implementation of slog.Handler
type mockHandler struct {
	mu          sync.Mutex
	enabled     bool
	records     []slog.Record
	attrs       []slog.Attr
	groups      []string
	handleError error
}

func newMockHandler(enabled bool) *mockHandler {
	return &mockHandler{enabled: enabled}
}

func (m *mockHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return m.enabled
}

func (m *mockHandler) Handle(_ context.Context, r slog.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handleError != nil {
		return m.handleError
	}
	m.records = append(m.records, r.Clone())
	return nil
}

func (m *mockHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &mockHandler{
		enabled:     m.enabled,
		attrs:       append(append([]slog.Attr(nil), m.attrs...), attrs...),
		groups:      m.groups,
		handleError: m.handleError,
	}
}

func (m *mockHandler) WithGroup(name string) slog.Handler {
	return &mockHandler{
		enabled:     m.enabled,
		attrs:       m.attrs,
		groups:      append(append([]string(nil), m.groups...), name),
		handleError: m.handleError,
	}
}

func (m *mockHandler) getRecordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func TestNewMultiHandler(t *testing.T) {
	multi, err := NewMultiHandler(newMockHandler(true), newMockHandler(false))
	require.NoError(t, err)
	assert.Len(t, multi.handlers, 2)

	_, err = NewMultiHandler()
	assert.ErrorIs(t, err, ErrNoHandlers)
}

func TestMultiHandler_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		handlers []slog.Handler
		expected bool
	}{
		{
			name:     "at least one handler enabled",
			handlers: []slog.Handler{newMockHandler(false), newMockHandler(true)},
			expected: true,
		},
		{
			name:     "no handlers enabled",
			handlers: []slog.Handler{newMockHandler(false), newMockHandler(false)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			multi, err := NewMultiHandler(tt.handlers...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, multi.Enabled(context.Background(), slog.LevelInfo))
		})
	}
}

func TestMultiHandler_Handle(t *testing.T) {
	handler1 := newMockHandler(true)
	handler2 := newMockHandler(true)
	handler3 := newMockHandler(false)

	multi, err := NewMultiHandler(handler1, handler2, handler3)
	require.NoError(t, err)

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "Escalating privileges", 0)
	require.NoError(t, multi.Handle(context.Background(), record))

	assert.Equal(t, 1, handler1.getRecordCount())
	assert.Equal(t, 1, handler2.getRecordCount())
	assert.Equal(t, 0, handler3.getRecordCount(), "disabled handler must not receive records")
}

func TestMultiHandler_HandleWithErrors(t *testing.T) {
	handler1 := newMockHandler(true)
	handler1.handleError = errHandler1
	handler2 := newMockHandler(true)
	handler2.handleError = errHandler2
	handler3 := newMockHandler(true)

	multi, err := NewMultiHandler(handler1, handler2, handler3)
	require.NoError(t, err)

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "test message", 0)
	err = multi.Handle(context.Background(), record)

	require.Error(t, err)
	assert.ErrorIs(t, err, errHandler1)
	assert.ErrorIs(t, err, errHandler2)
	assert.Equal(t, 1, handler3.getRecordCount(), "a failing handler must not stop the others")
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	multi, err := NewMultiHandler(newMockHandler(true), newMockHandler(true))
	require.NoError(t, err)

	withAttrs := multi.WithAttrs([]slog.Attr{slog.String("run_id", "abc")}).(*MultiHandler)
	assert.NotSame(t, multi, withAttrs)
	require.Len(t, withAttrs.handlers, 2)
	assert.Equal(t, "abc", withAttrs.handlers[0].(*mockHandler).attrs[0].Value.String())

	withGroup := multi.WithGroup("privilege").(*MultiHandler)
	assert.NotSame(t, multi, withGroup)
	assert.Equal(t, []string{"privilege"}, withGroup.handlers[1].(*mockHandler).groups)
}

func TestMultiHandler_ConcurrentAccess(t *testing.T) {
	handler := newMockHandler(true)
	multi, err := NewMultiHandler(handler)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record := slog.NewRecord(time.Now(), slog.LevelInfo, "test message", 0)
			_ = multi.Handle(context.Background(), record)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, handler.getRecordCount())
}

package privilege

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
)

var errMockSeteuid = errors.New("mock seteuid failure")

// exitCalled is the panic value raised by the exit hook installed by newTestEscalator
type exitCalled struct {
	code int
}

// fakeIDs is a mutable identity whose seteuid hook updates the effective uid
type fakeIDs struct {
	mu          sync.Mutex
	ruid, euid  int
	seteuidErr  error
	seteuidSeen []int
	readCalls   int
}

func (f *fakeIDs) read() (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCalls++
	return f.ruid, f.euid, nil
}

func (f *fakeIDs) seteuid(uid int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seteuidSeen = append(f.seteuidSeen, uid)
	if f.seteuidErr != nil {
		return f.seteuidErr
	}
	f.euid = uid
	return nil
}

// fakeChild records delivered signals and returns a fixed exit code
type fakeChild struct {
	mu       sync.Mutex
	exitCode int
	signals  []os.Signal
}

func (c *fakeChild) Signal(sig os.Signal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signals = append(c.signals, sig)
	return nil
}

func (c *fakeChild) Wait() int {
	return c.exitCode
}

func (c *fakeChild) received() []os.Signal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]os.Signal(nil), c.signals...)
}

// fakeLauncher records launches
type fakeLauncher struct {
	child    *fakeChild
	err      error
	calls    int
	lastPath string
	lastArgs []string
}

func (l *fakeLauncher) Launch(path string, args []string) (Child, error) {
	l.calls++
	l.lastPath = path
	l.lastArgs = append([]string(nil), args...)
	if l.err != nil {
		return nil, l.err
	}
	return l.child, nil
}

type testEnv struct {
	ids         *fakeIDs
	launcher    *fakeLauncher
	environ     []string
	environRead int
	logs        *bytes.Buffer
}

// newTestEscalator builds an Escalator whose process interactions are all fakes.
func newTestEscalator(t *testing.T, ruid, euid int, environ []string, opts ...Option) (*Escalator, *testEnv) {
	t.Helper()

	env := &testEnv{
		ids:      &fakeIDs{ruid: ruid, euid: euid},
		launcher: &fakeLauncher{child: &fakeChild{}},
		environ:  environ,
		logs:     &bytes.Buffer{},
	}

	logger := slog.New(slog.NewTextHandler(env.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opts = append([]Option{WithLogger(logger), WithLauncher(env.launcher)}, opts...)

	e := NewEscalator(opts...)
	e.readIDs = env.ids.read
	e.seteuid = env.ids.seteuid
	e.environ = func() []string {
		env.environRead++
		return env.environ
	}
	e.args = func() []string { return []string{"demo", "--flag", "value"} }
	e.executable = func() (string, error) { return "/opt/demo/bin/demo", nil }
	e.exit = func(code int) { panic(exitCalled{code: code}) }

	return e, env
}

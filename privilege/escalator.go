package privilege

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
)

// DefaultHelperPath is the standard installation path of sudo.
const DefaultHelperPath = "/usr/bin/sudo"

// ExitCodeUnknown is the exit status used when the elevated child terminated
// without an exit code of its own (for example because it was killed by a signal).
const ExitCodeUnknown = 1

// Escalator implements the escalation protocol. It holds configuration only; the
// process identity and environment are sampled afresh on every call.
type Escalator struct {
	logger       *slog.Logger
	helperPath   string
	backtraceVar string
	launcher     Launcher

	readIDs    func() (realUID, effectiveUID int, err error)
	seteuid    func(uid int) error
	environ    func() []string
	args       func() []string
	executable func() (string, error)
	exit       func(code int)
}

// Option configures an Escalator
type Option func(*Escalator)

// WithLogger sets the logger used for escalation diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(e *Escalator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHelperPath overrides the elevation helper (default DefaultHelperPath)
func WithHelperPath(path string) Option {
	return func(e *Escalator) {
		if path != "" {
			e.helperPath = path
		}
	}
}

// WithBacktraceVar overrides the always-forwarded backtrace variable (default
// DefaultBacktraceVar). An empty name disables the dedicated rule.
func WithBacktraceVar(name string) Option {
	return func(e *Escalator) {
		e.backtraceVar = name
	}
}

// WithLauncher replaces the process launcher
func WithLauncher(launcher Launcher) Option {
	return func(e *Escalator) {
		if launcher != nil {
			e.launcher = launcher
		}
	}
}

// NewEscalator creates an Escalator bound to the current process.
func NewEscalator(opts ...Option) *Escalator {
	e := &Escalator{
		logger:       slog.Default(),
		helperPath:   DefaultHelperPath,
		backtraceVar: DefaultBacktraceVar,
		launcher:     ExecLauncher{},
		readIDs:      readIDs,
		seteuid:      seteuid,
		environ:      os.Environ,
		args:         func() []string { return os.Args },
		executable:   resolvedExecutable,
		exit:         os.Exit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HelperPath returns the configured elevation helper
func (e *Escalator) HelperPath() string {
	return e.helperPath
}

// Check reports the privilege state of the current process.
func (e *Escalator) Check() (RunningAs, error) {
	ruid, euid, err := e.readIDs()
	if err != nil {
		return 0, err
	}
	return Classify(ruid, euid), nil
}

// Ensure makes sure the process runs with root privileges.
//
//   - Root: returns Root immediately.
//   - Suid: sets the effective uid to 0 in place and returns Suid.
//   - User: re-executes the program through the elevation helper, forwarding the
//     backtrace variable and every variable whose name starts with one of
//     prefixes, waits for it and terminates the current process with the
//     child's exit status. Ensure does not return on this path unless the
//     helper could not be started, in which case ErrHelperLaunchFailed is
//     returned and the caller keeps control.
func (e *Escalator) Ensure(prefixes ...string) (RunningAs, error) {
	ruid, euid, err := e.readIDs()
	if err != nil {
		return 0, err
	}

	switch state := Classify(ruid, euid); state {
	case Root:
		e.logger.Debug("Already running as root")
		return Root, nil
	case Suid:
		return e.claim(ruid, euid)
	default:
		code, err := e.relaunch(ruid, euid, prefixes)
		if err != nil {
			return 0, err
		}
		e.exit(code)
		panic(fmt.Sprintf("privilege: process exit with status %d returned", code))
	}
}

// claim activates the latent privilege of a setuid-root executable.
func (e *Escalator) claim(ruid, euid int) (RunningAs, error) {
	claimErr := func(err error) error {
		return &Error{
			Kind:         ErrPrivilegeClaimFailed,
			Operation:    OperationClaim,
			State:        Suid,
			RealUID:      ruid,
			EffectiveUID: euid,
			Err:          err,
		}
	}

	if err := e.seteuid(RootUID); err != nil {
		return 0, claimErr(err)
	}

	// Downstream code assumes root from here on, so confirm it.
	_, current, err := e.readIDs()
	if err != nil {
		return 0, claimErr(err)
	}
	if current != RootUID {
		return 0, claimErr(fmt.Errorf("effective uid is %d after seteuid", current))
	}

	e.logger.Info("Privileges claimed from setuid executable",
		"real_uid", ruid,
		"effective_uid", current)

	return Suid, nil
}

// helperArgs returns the arguments passed to the elevation helper: the
// forwarded NAME=value assignments followed by the program's own argv, with
// argv[0] replaced by the resolved executable path when it can be determined.
func (e *Escalator) helperArgs(prefixes []string) []string {
	return e.commandLine(ForwardedEnv(e.environ(), prefixes, e.backtraceVar, e.logger))
}

func (e *Escalator) commandLine(forwarded []string) []string {
	args := make([]string, 0, len(forwarded)+len(e.args()))
	args = append(args, forwarded...)
	return append(args, e.argv()...)
}

func (e *Escalator) argv() []string {
	argv := slices.Clone(e.args())

	exe, err := e.executable()
	if err != nil || exe == "" {
		e.logger.Debug("Could not resolve executable path, keeping argv[0]", "error", err)
		return argv
	}
	if len(argv) == 0 {
		return []string{exe}
	}
	argv[0] = exe
	return argv
}

// relaunch runs the program again through the elevation helper and returns the
// exit status the current process must terminate with.
func (e *Escalator) relaunch(ruid, euid int, prefixes []string) (int, error) {
	forwarded := ForwardedEnv(e.environ(), prefixes, e.backtraceVar, e.logger)
	args := e.commandLine(forwarded)

	e.logger.Info("Escalating privileges through elevation helper",
		"helper", e.helperPath,
		"real_uid", ruid,
		"effective_uid", euid,
		"forwarded_env", envNames(forwarded))

	child, err := e.launcher.Launch(e.helperPath, args)
	if err != nil {
		return 0, &Error{
			Kind:         ErrHelperLaunchFailed,
			Operation:    OperationLaunch,
			State:        User,
			RealUID:      ruid,
			EffectiveUID: euid,
			Helper:       e.helperPath,
			Err:          err,
		}
	}

	stop := relaySignals(child, e.logger)
	code := child.Wait()
	stop()

	status := exitStatus(code)
	e.logger.Debug("Elevated process terminated",
		"exit_code", code,
		"exit_status", status)

	return status, nil
}

// exitStatus maps the child's exit code to the status of the current process.
func exitStatus(code int) int {
	if code < 0 {
		return ExitCodeUnknown
	}
	return code
}

// envNames strips the values from NAME=value assignments so they can be logged.
func envNames(assignments []string) []string {
	names := make([]string, 0, len(assignments))
	for _, a := range assignments {
		name, _, _ := strings.Cut(a, "=")
		names = append(names, name)
	}
	return names
}

// relaySignals keeps the parent alive while the child runs. SIGTERM and SIGHUP
// are addressed to the parent pid and are passed on to the child; SIGINT and
// SIGQUIT come from the terminal, which already delivers them to the child's
// process group, so they are dropped here.
func relaySignals(child Child, logger *slog.Logger) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGHUP)

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for {
			select {
			case sig := <-sigCh:
				if sig == syscall.SIGTERM || sig == syscall.SIGHUP {
					if err := child.Signal(sig); err != nil {
						logger.Warn("Failed to forward signal to elevated process", "signal", sig, "error", err)
					}
					continue
				}
				logger.Debug("Ignoring terminal signal while elevated process runs", "signal", sig)
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
		<-finished
	}
}

// resolvedExecutable returns the absolute path of the running executable with
// symlinks resolved.
func resolvedExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		return resolved, nil
	}
	return filepath.Abs(exe)
}

package privilege

import (
	"os"
	"os/exec"
)

// Launcher starts the elevation helper.
type Launcher interface {
	// Launch starts path with args, wired to the caller's standard streams.
	Launch(path string, args []string) (Child, error)
}

// Child is a started elevation helper process.
type Child interface {
	// Signal delivers sig to the child.
	Signal(sig os.Signal) error
	// Wait blocks until the child terminates and returns its exit code, or -1 when
	// the child was killed by a signal or its status is unavailable.
	Wait() int
}

// ExecLauncher starts the helper with os/exec, inheriting stdin, stdout and stderr.
type ExecLauncher struct{}

// Launch implements Launcher
func (ExecLauncher) Launch(path string, args []string) (Child, error) {
	// #nosec G204 - the helper path comes from trusted configuration
	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execChild{cmd: cmd}, nil
}

type execChild struct {
	cmd *exec.Cmd
}

func (c *execChild) Signal(sig os.Signal) error {
	return c.cmd.Process.Signal(sig)
}

func (c *execChild) Wait() int {
	// A non-zero exit is reported through ProcessState, not through the error.
	_ = c.cmd.Wait()
	if c.cmd.ProcessState == nil {
		return -1
	}
	return c.cmd.ProcessState.ExitCode()
}

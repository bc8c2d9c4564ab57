package privilege

// Manager is the privilege interface host programs depend on.
type Manager interface {
	// Check reports the current privilege state without changing it.
	Check() (RunningAs, error)
	// Ensure escalates the process to root; see Escalator.Ensure.
	Ensure(prefixes ...string) (RunningAs, error)
	// Status reports the privilege situation without changing it.
	Status() Status
}

var _ Manager = (*Escalator)(nil)

// NewManager creates a Manager for the current process
func NewManager(opts ...Option) Manager {
	return NewEscalator(opts...)
}

// EscalateIfNeeded ensures root privileges, forwarding only the backtrace variable
// to a re-executed process. On the re-exec path it does not return unless the
// elevation helper could not be started.
func EscalateIfNeeded() (RunningAs, error) {
	return NewEscalator().Ensure()
}

// WithEnv ensures root privileges, forwarding the backtrace variable and every
// environment variable whose name starts with one of prefixes.
func WithEnv(prefixes ...string) (RunningAs, error) {
	return NewEscalator().Ensure(prefixes...)
}

// Package privilege detects the privilege context of the running process and,
// when the process is not root, escalates it either by claiming a latent setuid
// privilege in place or by re-executing the program through an elevation helper.
package privilege

import (
	"errors"
	"fmt"
)

// Standard errors
var (
	ErrPlatformUnsupported  = errors.New("privilege escalation is not supported on this platform")
	ErrPrivilegeClaimFailed = errors.New("failed to claim effective root privileges")
	ErrHelperLaunchFailed   = errors.New("failed to launch elevation helper")
)

// Operation names the step of the escalation protocol that failed.
type Operation string

// Escalation operations
const (
	OperationCheck  Operation = "check"
	OperationClaim  Operation = "claim"
	OperationLaunch Operation = "launch"
)

// Error contains detailed information about an escalation failure.
// Kind is one of the sentinel errors above; Err is the underlying cause.
type Error struct {
	Kind         error
	Operation    Operation
	State        RunningAs
	RealUID      int
	EffectiveUID int
	Helper       string
	Err          error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%v (operation '%s', state %s, uid %d, euid %d", e.Kind, e.Operation, e.State, e.RealUID, e.EffectiveUID)
	if e.Helper != "" {
		msg += fmt.Sprintf(", helper %s", e.Helper)
	}
	msg += ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the error kind and the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Package errs defines the stable, machine-readable error taxonomy the
// driver and manager surface to callers. No stack traces cross the
// package boundary; every error a caller sees is a *Error with a Kind
// from the closed set below.
package errs

import "fmt"

// Kind is the closed set of failure categories a caller must be able to
// distinguish.
type Kind string

const (
	LifecycleNotStarted      Kind = "lifecycle_not_started"
	LifecycleAlreadyStarted  Kind = "lifecycle_already_started"
	LifecycleExited          Kind = "lifecycle_exited"
	WrongState               Kind = "wrong_state_for_operation"
	TimeoutWaitForState      Kind = "timeout_wait_for_state"
	TimeoutExecLeaveIdle     Kind = "timeout_exec_leave_idle"
	TimeoutExecReturnIdle    Kind = "timeout_exec_return_idle"
	SessionEndedWhileWaiting Kind = "session_ended_while_waiting"
	NoPendingConfirmation    Kind = "no_pending_confirmation"
	QuotaMaxSessions         Kind = "quota_max_sessions"
	UnknownSessionID         Kind = "unknown_session_id"
	UnknownPreset            Kind = "unknown_preset"
	SpawnFailed              Kind = "spawn_failed"
	UnknownKey               Kind = "unknown_key"
	Internal                 Kind = "internal"
)

// Error is the structured error every exported driver/manager method
// returns. Message is human-readable; Kind is stable and meant for
// programmatic dispatch.
type Error struct {
	Kind      Kind
	Message   string
	SessionID string
	Cause     error
}

func (e *Error) Error() string {
	if e.SessionID != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s (session %s): %v", e.Kind, e.Message, e.SessionID, e.Cause)
		}
		return fmt.Sprintf("%s: %s (session %s)", e.Kind, e.Message, e.SessionID)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithSession attaches a session id to an error, as the manager does
// when it relays a driver error without translating its kind.
func WithSession(err *Error, sessionID string) *Error {
	if err == nil {
		return nil
	}
	cp := *err
	cp.SessionID = sessionID
	return &cp
}

// Is lets errors.Is(err, errs.SomeKind) read naturally by comparing
// against a sentinel built from the kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel returns a bare *Error carrying only a Kind, suitable for use
// with errors.Is.
func Sentinel(kind Kind) *Error { return &Error{Kind: kind} }

package portal

import (
	"errors"
	"fmt"
)

// Reason classifies why a login attempt failed.
// The taxonomy is deliberately small: the orchestrator only needs enough
// to decide what to report, and none of these reasons is retried within
// the same cycle.
type Reason int

const (
	// ReasonNetwork is a transport-level failure (DNS, connect, TLS,
	// timeout) during a login step. Always recoverable; the next cycle
	// simply tries again.
	ReasonNetwork Reason = iota

	// ReasonProtocolMismatch means the vendor's page structure was not
	// what the handler expects (missing form, missing token field). This
	// usually means the vendor changed their portal; it is surfaced, not
	// retried automatically.
	ReasonProtocolMismatch

	// ReasonInvalidCredentials means the vendor rejected the submitted
	// credentials. Expected to recur every cycle until the configuration
	// is fixed, so it must never escalate to a crash.
	ReasonInvalidCredentials

	// ReasonUnsupported marks a declared-but-unimplemented account flow.
	// Always surfaced, never attempted.
	ReasonUnsupported
)

// String returns the reason name used in logs and reports.
func (r Reason) String() string {
	switch r {
	case ReasonNetwork:
		return "network"
	case ReasonProtocolMismatch:
		return "protocol_mismatch"
	case ReasonInvalidCredentials:
		return "invalid_credentials"
	case ReasonUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// LoginError is a classified login failure.
// It wraps the underlying cause (if any) so callers can log detail while
// switching on Reason.
type LoginError struct {
	// Reason classifies the failure.
	Reason Reason

	// Err is the underlying cause; may be nil for purely protocol-level
	// failures such as a missing form.
	Err error
}

// Error implements the error interface.
func (e *LoginError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("login failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("login failed (%s)", e.Reason)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *LoginError) Unwrap() error {
	return e.Err
}

// NewLoginError creates a LoginError with the given reason and cause.
func NewLoginError(reason Reason, err error) *LoginError {
	return &LoginError{Reason: reason, Err: err}
}

// ReasonOf extracts the failure reason from an error returned by
// Handler.Login. The second return is false when the error is not a
// classified login failure.
func ReasonOf(err error) (Reason, bool) {
	var le *LoginError
	if errors.As(err, &le) {
		return le.Reason, true
	}
	return 0, false
}

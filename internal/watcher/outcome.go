package watcher

import (
	"time"

	"github.com/portalwatch/portalwatch/internal/portal"
)

// Outcome classifies one completed check cycle.
type Outcome int

const (
	// OutcomeAlreadyOnline means the canary matched; nothing to do.
	OutcomeAlreadyOnline Outcome = iota

	// OutcomeLoggedIn means a portal was detected and its login sequence
	// completed.
	OutcomeLoggedIn

	// OutcomeLoginFailed means a portal was detected and matched, but the
	// login sequence ended in a classified failure (see Reason).
	OutcomeLoginFailed

	// OutcomeUnreachable means the probe failed at the transport level.
	// This is the expected steady state while offline.
	OutcomeUnreachable

	// OutcomeUnknownPortal means a portal was detected but no registered
	// signature matched it. Reportable, non-fatal: we do not know how to
	// log in, but we must not crash or loop tightly either.
	OutcomeUnknownPortal
)

// String returns the outcome name used in logs, reports, and the journal.
func (o Outcome) String() string {
	switch o {
	case OutcomeAlreadyOnline:
		return "already_online"
	case OutcomeLoggedIn:
		return "logged_in"
	case OutcomeLoginFailed:
		return "login_failed"
	case OutcomeUnreachable:
		return "unreachable"
	case OutcomeUnknownPortal:
		return "unknown_portal"
	default:
		return "unknown"
	}
}

// CycleResult is the full record of one check cycle.
type CycleResult struct {
	// Outcome classifies the cycle.
	Outcome Outcome

	// Timestamp is when the cycle started.
	Timestamp time.Time

	// Duration is how long the cycle took, probe and login included.
	Duration time.Duration

	// CanaryURL is the canary probed this cycle.
	CanaryURL string

	// PortalURL is the final URL the portal redirected the canary to.
	// Empty unless a portal was detected.
	PortalURL string

	// Handler is the identity of the handler that ran. Empty unless a
	// signature matched.
	Handler portal.ID

	// Reason classifies the login failure for OutcomeLoginFailed.
	Reason portal.Reason

	// Err carries failure detail for logging; nil on success outcomes.
	Err error
}

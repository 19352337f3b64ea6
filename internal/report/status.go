package report

import (
	"time"

	"github.com/portalwatch/portalwatch/internal/probe"
	"github.com/portalwatch/portalwatch/internal/watcher"
)

// Status is the reportable result of one connectivity check.
// All fields are plain strings and timestamps so every writer can render
// them without knowing the domain types.
type Status struct {
	// Timestamp is when the check started.
	Timestamp time.Time `json:"timestamp"`

	// Outcome is the cycle outcome name (already_online, logged_in,
	// login_failed, unreachable, unknown_portal).
	Outcome string `json:"outcome"`

	// Duration is the elapsed wall time of the check.
	Duration string `json:"duration"`

	// CanaryURL is the canary probed.
	CanaryURL string `json:"canary_url"`

	// PortalURL is the detected portal URL, if any.
	PortalURL string `json:"portal_url,omitempty"`

	// Handler is the handler identity that ran, if any.
	Handler string `json:"handler,omitempty"`

	// Reason is the login failure classification, if the login failed.
	Reason string `json:"reason,omitempty"`

	// Detail is the failure detail, if any.
	Detail string `json:"detail,omitempty"`

	// Probes holds the per-canary diagnostic sweep, when requested.
	Probes []ProbeStatus `json:"probes,omitempty"`
}

// ProbeStatus is one canary's result in a diagnostic sweep.
type ProbeStatus struct {
	// CanaryURL is the canary endpoint.
	CanaryURL string `json:"canary_url"`

	// Status is the probe verdict (online, portal, unreachable).
	Status string `json:"status"`

	// FinalURL is the URL after redirects, when the request succeeded.
	FinalURL string `json:"final_url,omitempty"`

	// Error is the transport error, when the request failed.
	Error string `json:"error,omitempty"`
}

// FromCycle builds a Status from a completed cycle.
func FromCycle(result watcher.CycleResult) *Status {
	s := &Status{
		Timestamp: result.Timestamp,
		Outcome:   result.Outcome.String(),
		Duration:  result.Duration.String(),
		CanaryURL: result.CanaryURL,
		PortalURL: result.PortalURL,
		Handler:   string(result.Handler),
	}

	if result.Outcome == watcher.OutcomeLoginFailed {
		s.Reason = result.Reason.String()
	}
	if result.Err != nil {
		s.Detail = result.Err.Error()
	}

	return s
}

// AddProbes attaches a diagnostic sweep to the status.
func (s *Status) AddProbes(results []probe.Result) {
	for _, r := range results {
		ps := ProbeStatus{
			CanaryURL: r.Canary.URL,
			Status:    r.Status.String(),
			FinalURL:  r.FinalURL,
		}
		if r.Err != nil {
			ps.Error = r.Err.Error()
		}
		s.Probes = append(s.Probes, ps)
	}
}

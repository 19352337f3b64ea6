package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrInvalidUpdatePeriod is returned when the update period is not
	// positive. A zero period would turn the watch loop into a busy loop
	// hammering the canary endpoints.
	ErrInvalidUpdatePeriod = errors.New("invalid update period: must be positive")

	// ErrInvalidTimeout is returned when the HTTP timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures,
	// which the probe would misreport as being offline.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)

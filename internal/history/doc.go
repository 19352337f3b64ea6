// Package history provides SQLite-based storage of check cycle outcomes.
//
// The journal is operator telemetry for the history command: when did the
// portal last intercept us, did logins succeed, how often are we offline.
// It stores outcomes only (no cookies, no tokens, no session state),
// so nothing here survives that the login flow depends on.
package history

// Package probe implements captive portal detection.
//
// Detection works by fetching a "canary": a well-known URL whose
// unmodified response body is fixed and documented. A transparent network
// returns the expected body byte-for-byte; a captive portal intercepts
// the request and answers with its own login page (usually behind a
// redirect). The mismatch itself signals interception; the probe does
// not inspect the content, it only hands the final URL and body
// downstream for vendor classification.
package probe

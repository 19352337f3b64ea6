// Package report renders the result of a connectivity check in
// human-readable text, JSON, or Markdown.
//
// The check command is the consumer: one cycle outcome, optionally with
// a per-canary diagnostic sweep, written to stdout or a file.
package report

package report

import "io"

// Writer defines the interface for status report output.
// Implementations render the same Status in different formats.
//
// Design decision: We use an interface so the check command can pick a
// format from flags and hand any destination (stdout, file) to the same
// code path.
type Writer interface {
	// Write outputs the status to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(status *Status) (int, error)
}

// baseWriter provides the shared output destination for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Plain text with ASCII formatting, no ANSI colors: it works in every
// terminal and pipes cleanly into files and other tools.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the status as human-readable text.
func (w *SimpleWriter) Write(status *Status) (int, error) {
	var b strings.Builder

	b.WriteString("portalwatch connectivity check\n")
	b.WriteString("==============================\n")
	fmt.Fprintf(&b, "Time:     %s\n", status.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "Outcome:  %s\n", status.Outcome)
	fmt.Fprintf(&b, "Canary:   %s\n", status.CanaryURL)
	fmt.Fprintf(&b, "Duration: %s\n", status.Duration)

	if status.PortalURL != "" {
		fmt.Fprintf(&b, "Portal:   %s\n", status.PortalURL)
	}
	if status.Handler != "" {
		fmt.Fprintf(&b, "Handler:  %s\n", status.Handler)
	}
	if status.Reason != "" {
		fmt.Fprintf(&b, "Reason:   %s\n", status.Reason)
	}
	if status.Detail != "" {
		fmt.Fprintf(&b, "Detail:   %s\n", status.Detail)
	}

	if len(status.Probes) > 0 {
		b.WriteString("\nCanary diagnostics\n")
		b.WriteString("------------------\n")
		for _, p := range status.Probes {
			fmt.Fprintf(&b, "%-12s %s\n", p.Status, p.CanaryURL)
			if p.FinalURL != "" && p.FinalURL != p.CanaryURL {
				fmt.Fprintf(&b, "%-12s -> %s\n", "", p.FinalURL)
			}
			if p.Error != "" {
				fmt.Fprintf(&b, "%-12s !! %s\n", "", p.Error)
			}
		}
	}

	return w.output.Write([]byte(b.String()))
}

package report

import (
	"io"
	"time"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs status reports in GitHub Flavored Markdown,
// convenient for pasting into an issue when a portal stops cooperating.
//
// Design decision: We use the nao1215/markdown library for fluent,
// type-safe markdown generation rather than string concatenation.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the status as Markdown.
func (w *MarkdownWriter) Write(status *Status) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Connectivity Check")
	md.PlainText("")

	rows := [][]string{
		{"Time", status.Timestamp.Format(time.RFC3339)},
		{"Outcome", status.Outcome},
		{"Canary", status.CanaryURL},
		{"Duration", status.Duration},
	}
	if status.PortalURL != "" {
		rows = append(rows, []string{"Portal", status.PortalURL})
	}
	if status.Handler != "" {
		rows = append(rows, []string{"Handler", status.Handler})
	}
	if status.Reason != "" {
		rows = append(rows, []string{"Reason", status.Reason})
	}
	if status.Detail != "" {
		rows = append(rows, []string{"Detail", status.Detail})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})

	if len(status.Probes) > 0 {
		md.H2("Canary diagnostics")
		md.PlainText("")

		probeRows := make([][]string, 0, len(status.Probes))
		for _, p := range status.Probes {
			detail := p.FinalURL
			if p.Error != "" {
				detail = p.Error
			}
			probeRows = append(probeRows, []string{p.CanaryURL, p.Status, detail})
		}

		md.Table(markdown.TableSet{
			Header: []string{"Canary", "Status", "Final URL / Error"},
			Rows:   probeRows,
		})
	}

	return len(md.String()), md.Build()
}

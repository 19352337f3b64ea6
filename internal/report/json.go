package report

import (
	"encoding/json"
	"io"
)

// JSONWriter outputs status reports as indented JSON, suitable for
// scripting and log aggregation.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the status as JSON.
func (w *JSONWriter) Write(status *Status) (int, error) {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}

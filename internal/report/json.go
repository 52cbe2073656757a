package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/webinfo/internal/model"
)

// JSONWriter outputs results in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteResult outputs a tool result as JSON.
func (w *JSONWriter) WriteResult(r *model.ToolResult) (int, error) {
	return w.writeJSON(r)
}

// WriteDigests outputs a digest report as JSON.
func (w *JSONWriter) WriteDigests(r *model.DigestReport) (int, error) {
	return w.writeJSON(r)
}

// WriteIP outputs an IP report as JSON.
func (w *JSONWriter) WriteIP(r *model.IPReport) (int, error) {
	return w.writeJSON(r)
}

// WriteBatch outputs a batch report as JSON.
func (w *JSONWriter) WriteBatch(r *model.BatchReport) (int, error) {
	return w.writeJSON(r)
}

// writeJSON marshals the given value to JSON and writes it to the output.
// HTML characters are left unescaped since the output is not embedded in HTML.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indent {
		enc.SetIndent(w.indentPrefix, w.indentString)
	}
	// Encode appends the trailing newline.
	if err := enc.Encode(v); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/webinfo/internal/model"
)

// SimpleWriter outputs plain text. A single result is printed as its bare
// output so commands compose in shell pipelines; records are printed as
// aligned "Label: value" lines.
type SimpleWriter struct {
	baseWriter

	// showInput prefixes batch lines with their input.
	showInput bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowInput prints each batch line as "input<TAB>output".
func WithShowInput(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showInput = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteResult prints the output followed by a newline. Failed results
// print nothing; the CLI reports the error on stderr.
func (w *SimpleWriter) WriteResult(r *model.ToolResult) (int, error) {
	if !r.OK() {
		return 0, nil
	}
	return io.WriteString(w.output, r.Output+"\n")
}

// WriteDigests prints one "ALGORITHM  hex" line per digest.
func (w *SimpleWriter) WriteDigests(r *model.DigestReport) (int, error) {
	labels := make([]string, len(r.Digests))
	width := 0
	for i, d := range r.Digests {
		labels[i] = algorithmLabel(d.Algorithm)
		width = max(width, len(labels[i]))
	}

	var sb strings.Builder
	for i, d := range r.Digests {
		fmt.Fprintf(&sb, "%-*s  %s\n", width, labels[i], d.Hex)
	}
	if r.Verified != nil {
		if *r.Verified {
			sb.WriteString("Verify: OK\n")
		} else {
			sb.WriteString("Verify: MISMATCH\n")
		}
	}
	return io.WriteString(w.output, sb.String())
}

// WriteIP prints the record as aligned "Label: value" lines. A fallback
// record gets a trailing note.
func (w *SimpleWriter) WriteIP(r *model.IPReport) (int, error) {
	fields := r.Fields()
	width := 0
	for _, f := range fields {
		width = max(width, len(fieldLabel(f.Name)))
	}

	var sb strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&sb, "%-*s %s\n", width+1, fieldLabel(f.Name)+":", f.Value)
	}
	if r.IsFallback() {
		sb.WriteString("\n(lookup unavailable; showing fallback record)\n")
	}
	return io.WriteString(w.output, sb.String())
}

// WriteBatch prints one line per input. Failed lines read "error: <message>".
func (w *SimpleWriter) WriteBatch(r *model.BatchReport) (int, error) {
	var sb strings.Builder
	for _, it := range r.Items {
		if w.showInput {
			sb.WriteString(it.Input)
			sb.WriteByte('\t')
		}
		if it.Error != "" {
			sb.WriteString("error: " + it.Error)
		} else {
			sb.WriteString(it.Output)
		}
		sb.WriteByte('\n')
	}
	return io.WriteString(w.output, sb.String())
}

package report

import (
	"fmt"
	"io"

	"github.com/nao1215/webinfo/internal/config"
	"github.com/nao1215/webinfo/internal/model"
)

// Writer defines the interface for report output.
// Each method returns the number of bytes written and any error encountered.
type Writer interface {
	// WriteResult outputs the result of a single transformation.
	WriteResult(r *model.ToolResult) (int, error)

	// WriteDigests outputs the digests of one input.
	WriteDigests(r *model.DigestReport) (int, error)

	// WriteIP outputs a resolved IP record.
	WriteIP(r *model.IPReport) (int, error)

	// WriteBatch outputs the per-line results of a batch run.
	WriteBatch(r *model.BatchReport) (int, error)
}

// New returns the Writer for format (text, json or markdown).
func New(format string, output io.Writer) (Writer, error) {
	switch format {
	case config.FormatText, "":
		return NewSimpleWriter(output), nil
	case config.FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case config.FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidFormat, format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

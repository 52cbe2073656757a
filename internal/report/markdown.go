package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/webinfo/internal/model"
)

// MarkdownWriter outputs results in Markdown format using the
// nao1215/markdown builder.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteResult writes the input and output as fenced code blocks.
func (w *MarkdownWriter) WriteResult(r *model.ToolResult) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1(r.Tool.Title())
	md.PlainText("")

	md.H2("Input")
	md.PlainText("")
	md.CodeBlocks(syntaxFor(r.Tool, true), r.Input)
	md.PlainText("")

	if !r.OK() {
		md.Caution(r.Error)
		md.PlainText("")
		return w.build(md)
	}

	md.H2("Output")
	md.PlainText("")
	md.CodeBlocks(syntaxFor(r.Tool, false), r.Output)
	md.PlainText("")
	return w.build(md)
}

// WriteDigests writes an Algorithm/Digest table.
func (w *MarkdownWriter) WriteDigests(r *model.DigestReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1(model.ToolHash.Title())
	md.PlainText("")

	rows := make([][]string, len(r.Digests))
	for i, d := range r.Digests {
		rows[i] = []string{algorithmLabel(d.Algorithm), markdown.Code(d.Hex)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Algorithm", "Digest"},
		Rows:   rows,
	})
	md.PlainText("")

	if r.Verified != nil {
		if *r.Verified {
			md.Tip("The input matches the expected digest.")
		} else {
			md.Warning("The input does NOT match the expected digest.")
		}
		md.PlainText("")
	}
	return w.build(md)
}

// WriteIP writes a Field/Value table.
func (w *MarkdownWriter) WriteIP(r *model.IPReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1(model.ToolIP.Title())
	md.PlainText("")

	fields := r.Fields()
	rows := make([][]string, len(fields))
	for i, f := range fields {
		rows[i] = []string{fieldLabel(f.Name), f.Value}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Field", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if extra := r.ExtraFields(); len(extra) > 0 {
		md.H2("Additional fields")
		md.PlainText("")
		rows := make([][]string, len(extra))
		for i, f := range extra {
			rows[i] = []string{f.Name, f.Value}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Field", "Value"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if r.IsFallback() {
		md.Note("The geolocation lookup was unavailable; unknown fields are shown as Unknown.")
		md.PlainText("")
	}
	return w.build(md)
}

// WriteBatch writes one table row per line, followed by a warning when
// some lines failed.
func (w *MarkdownWriter) WriteBatch(r *model.BatchReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1(r.Tool.Title() + " (batch)")
	md.PlainText("")

	rows := make([][]string, len(r.Items))
	for i, it := range r.Items {
		result := markdown.Code(it.Output)
		if it.Error != "" {
			result = "❌ " + it.Error
		}
		rows[i] = []string{strconv.Itoa(it.Line), markdown.Code(truncateString(it.Input, 60)), result}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Line", "Input", "Result"},
		Rows:   rows,
	})
	md.PlainText("")

	if r.HasFailures() {
		md.Warningf("%d of %d line(s) failed.", r.Failed, len(r.Items))
		md.PlainText("")
	}
	return w.build(md)
}

func (w *MarkdownWriter) build(md *markdown.Markdown) (int, error) {
	return len(md.String()), md.Build()
}

// syntaxFor picks the code block language for a tool's input or output.
func syntaxFor(tool model.Tool, input bool) markdown.SyntaxHighlight {
	switch tool {
	case model.ToolJSONFormat, model.ToolJSONMinify, model.ToolJSONQuery, model.ToolJSONValidate:
		if input || tool != model.ToolJSONValidate {
			return markdown.SyntaxHighlightJSON
		}
	}
	return markdown.SyntaxHighlightText
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

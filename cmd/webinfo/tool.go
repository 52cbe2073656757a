package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nao1215/webinfo/internal/batch"
	"github.com/nao1215/webinfo/internal/input"
	"github.com/nao1215/webinfo/internal/jsonfmt"
	"github.com/nao1215/webinfo/internal/model"
	"github.com/nao1215/webinfo/internal/report"
)

// addInputFlags registers the flags shared by text tools.
func addInputFlags(cmd *cobra.Command, lines bool) {
	cmd.Flags().String("file", "", `Read input from file ("-" for stdin)`)
	if lines {
		cmd.Flags().BoolP("lines", "l", false, "Transform each input line independently")
		cmd.Flags().Bool("show-input", false, "Prefix each batch output line with its input (text format)")
	}
}

// runTool reads the input and applies fn once, or per line with --lines.
// Failures are returned so the process exits with status 1; structured
// formats also get the failed result written to stdout.
func runTool(cmd *cobra.Command, args []string, tool model.Tool, fn batch.Func) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	text, err := a.readInput(cmd, args)
	if err != nil {
		return err
	}

	if lines, _ := cmd.Flags().GetBool("lines"); lines {
		return a.runBatch(cmd, tool, fn, text)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out, fnErr := fn(ctx, text)
	if fnErr != nil && a.textMode() {
		return fnErr
	}
	if fnErr == nil && a.textMode() {
		if out, err = colorize(cmd, tool, out); err != nil {
			return err
		}
	}
	if _, err := a.writer.WriteResult(model.NewToolResult(tool, text, out, fnErr)); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return fnErr
}

// runBatch applies fn to every line of text concurrently and reports the
// results in input order. Text output is streamed as soon as every earlier
// line is done; structured formats are written once the batch completes.
func (a *app) runBatch(cmd *cobra.Command, tool model.Tool, fn batch.Func, text string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p := batch.NewProcessor(fn,
		batch.WithConcurrency(a.cfg.BatchSize),
		batch.WithLogger(a.logger),
	)
	lines := batch.Lines(text)

	var items []batch.Item
	if a.textMode() {
		w := a.writer
		if show, _ := cmd.Flags().GetBool("show-input"); show {
			w = report.NewSimpleWriter(cmd.OutOrStdout(), report.WithShowInput(true))
		}
		stream := newOrderedStream(len(lines), func(it batch.Item) error {
			_, err := w.WriteBatch(model.NewBatchReport(tool, []batch.Item{it}))
			return err
		})
		if err := p.ProcessWithCallback(ctx, lines, stream.add); err != nil {
			return err
		}
		if err := stream.err(); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		items = stream.items
	} else {
		var err error
		if items, err = p.Process(ctx, lines); err != nil {
			return err
		}
		if _, err := a.writer.WriteBatch(model.NewBatchReport(tool, items)); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}

	if failed := batch.Failed(items); failed > 0 {
		return fmt.Errorf("%d of %d line(s) failed", failed, len(items))
	}
	return nil
}

// orderedStream receives batch items in completion order and hands them to
// write in input order.
type orderedStream struct {
	mu       sync.Mutex
	items    []batch.Item
	done     []bool
	next     int
	write    func(batch.Item) error
	writeErr error
}

func newOrderedStream(n int, write func(batch.Item) error) *orderedStream {
	return &orderedStream{
		items: make([]batch.Item, n),
		done:  make([]bool, n),
		write: write,
	}
}

// add records it and flushes every item that is now contiguous with the
// ones already written. Safe for concurrent use.
func (s *orderedStream) add(it batch.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[it.Index] = it
	s.done[it.Index] = true
	for s.next < len(s.items) && s.done[s.next] {
		if s.writeErr == nil {
			s.writeErr = s.write(s.items[s.next])
		}
		s.next++
	}
}

func (s *orderedStream) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeErr
}

// colorize highlights JSON output when the command has a --color flag
// that resolves to true for stdout.
func colorize(cmd *cobra.Command, tool model.Tool, out string) (string, error) {
	f := cmd.Flags().Lookup("color")
	if f == nil || tool == model.ToolJSONValidate {
		return out, nil
	}
	stdout, _ := cmd.OutOrStdout().(*os.File)
	enabled, err := input.ColorEnabled(f.Value.String(), stdout)
	if err != nil || !enabled {
		return out, err
	}
	return strings.TrimSuffix(jsonfmt.Colorize(out), "\n"), nil
}

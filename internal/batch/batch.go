package batch

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when WithConcurrency is not given.
const DefaultConcurrency = 8

// Func transforms a single input.
type Func func(ctx context.Context, input string) (string, error)

// Item is the outcome for one input.
type Item struct {
	// Index is the position of the input, starting at 0.
	Index int `json:"index"`

	// Input is the original input.
	Input string `json:"input"`

	// Output is the transformed value, empty when Err is set.
	Output string `json:"output,omitempty"`

	// Err is the transformation error, or the context error for items that
	// never ran because the batch was cancelled.
	Err error `json:"-"`
}

// Processor runs a Func over many inputs with bounded concurrency.
type Processor struct {
	// fn is applied to every input.
	fn Func

	// concurrency is the maximum number of inputs processed at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets a custom logger for batch processing.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent transformations.
// Non-positive values keep the default.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// NewProcessor creates a Processor applying fn.
func NewProcessor(fn Func, opts ...Option) *Processor {
	p := &Processor{
		fn:          fn,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Process transforms every input and returns one Item per input, in input
// order. Per-item errors are recorded in the items; the returned error is
// non-nil only when ctx was cancelled before all items ran.
func (p *Processor) Process(ctx context.Context, inputs []string) ([]Item, error) {
	items := make([]Item, len(inputs))
	var mu sync.Mutex

	err := p.run(ctx, inputs, func(item Item) {
		mu.Lock()
		items[item.Index] = item
		mu.Unlock()
	})
	return items, err
}

// ProcessWithCallback transforms every input and calls callback with each
// Item as soon as it is done. callback runs on worker goroutines and must be
// safe for concurrent use. Items skipped due to cancellation are reported too.
func (p *Processor) ProcessWithCallback(ctx context.Context, inputs []string, callback func(Item)) error {
	return p.run(ctx, inputs, callback)
}

func (p *Processor) run(ctx context.Context, inputs []string, emit func(Item)) error {
	p.logger.Debug("starting batch",
		"total", len(inputs),
		"concurrency", p.concurrency,
	)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, in := range inputs {
		item := Item{Index: i, Input: in}

		// Once cancelled, record the remaining items without scheduling them.
		if err := gctx.Err(); err != nil {
			item.Err = err
			emit(item)
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				item.Err = err
				emit(item)
				return err
			}

			out, err := p.fn(gctx, in)
			if err != nil {
				item.Err = err
				p.logger.Debug("batch item failed", "index", i, "error", err)
			} else {
				item.Output = out
			}
			emit(item)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	p.logger.Debug("batch complete",
		"total", len(inputs),
		"elapsed", time.Since(start),
	)
	return err
}

// Failed returns the number of items that carry an error.
func Failed(items []Item) int {
	n := 0
	for _, it := range items {
		if it.Err != nil {
			n++
		}
	}
	return n
}

// Lines splits text into lines for batch processing. CRLF endings are
// accepted and a single trailing newline does not produce an empty item.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/nao1215/webinfo/internal/batch"
	"github.com/nao1215/webinfo/internal/digest"
	"github.com/nao1215/webinfo/internal/ipinfo"
)

// ToolResult is the outcome of running one tool on one input.
type ToolResult struct {
	// Tool is the transformation that was applied.
	Tool Tool `json:"tool"`

	// Input is the text the tool received.
	Input string `json:"input"`

	// Output is the transformed text. Empty when Error is set.
	Output string `json:"output"`

	// Error is the failure message, if any.
	Error string `json:"error,omitempty"`
}

// NewToolResult builds a ToolResult, recording err when non-nil.
func NewToolResult(tool Tool, input, output string, err error) *ToolResult {
	r := &ToolResult{Tool: tool, Input: input, Output: output}
	if err != nil {
		r.Output = ""
		r.Error = err.Error()
	}
	return r
}

// OK reports whether the tool succeeded.
func (r *ToolResult) OK() bool {
	return r.Error == ""
}

// DigestEntry is one algorithm/digest pair.
type DigestEntry struct {
	Algorithm string `json:"algorithm"`
	Hex       string `json:"hex"`
}

// DigestReport holds the digests of one input in algorithm order.
type DigestReport struct {
	Digests []DigestEntry `json:"digests"`

	// Verified is set when an expected digest was checked.
	Verified *bool `json:"verified,omitempty"`
}

// NewDigestReport converts a digest set, keeping the set's algorithm order.
func NewDigestReport(set digest.Set) *DigestReport {
	algs := set.Algorithms()
	entries := make([]DigestEntry, len(algs))
	for i, a := range algs {
		entries[i] = DigestEntry{Algorithm: string(a), Hex: set[a]}
	}
	return &DigestReport{Digests: entries}
}

// WithVerification records the result of a digest comparison.
func (r *DigestReport) WithVerification(ok bool) *DigestReport {
	r.Verified = &ok
	return r
}

// IPReport is a resolved IP record plus diagnostics.
type IPReport struct {
	IP       string `json:"ip"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Timezone string `json:"timezone"`
	Org      string `json:"org"`

	// Extra holds the lookup response fields beyond the six above.
	Extra map[string]any `json:"extra,omitempty"`

	// Source is "lookup" or "fallback".
	Source string `json:"source"`

	// Error explains a fallback; empty on success.
	Error string `json:"error,omitempty"`
}

// NewIPReport converts a resolver result.
func NewIPReport(res ipinfo.Result) *IPReport {
	r := &IPReport{
		IP:       res.Info.IP,
		City:     res.Info.City,
		Region:   res.Info.Region,
		Country:  res.Info.Country,
		Timezone: res.Info.Timezone,
		Org:      res.Info.Org,
		Extra:    res.Info.Additional(),
		Source:   string(res.Source),
	}
	if res.Err != nil {
		r.Error = res.Err.Error()
	}
	return r
}

// Fields returns the record fields in display order.
func (r *IPReport) Fields() []ipinfo.Field {
	return ipinfo.Info{
		IP: r.IP, City: r.City, Region: r.Region,
		Country: r.Country, Timezone: r.Timezone, Org: r.Org,
	}.Fields()
}

// ExtraFields returns the additional lookup fields sorted by name. Values
// that are not strings are rendered as JSON.
func (r *IPReport) ExtraFields() []ipinfo.Field {
	fields := make([]ipinfo.Field, 0, len(r.Extra))
	for _, name := range slices.Sorted(maps.Keys(r.Extra)) {
		fields = append(fields, ipinfo.Field{Name: name, Value: renderValue(r.Extra[name])})
	}
	return fields
}

func renderValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// IsFallback reports whether the record came from the fallback path.
func (r *IPReport) IsFallback() bool {
	return r.Source == string(ipinfo.SourceFallback)
}

// BatchItem is the outcome for one line of a batch.
type BatchItem struct {
	Line   int    `json:"line"`
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchReport holds per-line outcomes of a batch run.
type BatchReport struct {
	Tool   Tool        `json:"tool"`
	Items  []BatchItem `json:"items"`
	Failed int         `json:"failed"`
}

// NewBatchReport converts batch items. Line numbers start at 1.
func NewBatchReport(tool Tool, items []batch.Item) *BatchReport {
	r := &BatchReport{Tool: tool, Items: make([]BatchItem, len(items)), Failed: batch.Failed(items)}
	for i, it := range items {
		bi := BatchItem{Line: it.Index + 1, Input: it.Input, Output: it.Output}
		if it.Err != nil {
			bi.Output = ""
			bi.Error = it.Err.Error()
		}
		r.Items[i] = bi
	}
	return r
}

// HasFailures reports whether any line failed.
func (r *BatchReport) HasFailures() bool {
	return r.Failed > 0
}

package ipinfo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Source tells where the fields of a resolved Info came from.
type Source string

const (
	// SourceLookup means the lookup succeeded; missing fields may still be
	// back-filled with Unknown.
	SourceLookup Source = "lookup"

	// SourceFallback means the lookup failed and Info is Fallback(ip).
	SourceFallback Source = "fallback"
)

// Result is the outcome of Resolve.
type Result struct {
	Info   Info
	Source Source

	// Err is the lookup failure when Source is SourceFallback, nil otherwise.
	// It is informational; the Info is always usable.
	Err error
}

// Resolver enriches an IP address through a Lookup, falling back to a
// record of Unknown fields on any failure.
type Resolver struct {
	lookup  Lookup
	timeout time.Duration
	logger  *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTimeout bounds each Resolve call. Zero disables the resolver-level
// deadline and leaves timing to the Lookup.
func WithTimeout(timeout time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.timeout = timeout
	}
}

// WithLogger sets the logger used to report lookup failures.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver around lookup.
func NewResolver(lookup Lookup, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		lookup:  lookup,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Timeout returns the per-call deadline, zero when the resolver sets none.
func (r *Resolver) Timeout() time.Duration {
	return r.timeout
}

// Resolve looks up ip and returns its record. It makes exactly one lookup
// attempt and never returns an error: failures yield Fallback(ip) with the
// cause in Result.Err.
func (r *Resolver) Resolve(ctx context.Context, ip string) Result {
	info, err := r.attempt(ctx, ip)
	if err != nil {
		r.logger.Debug("ip lookup failed, using fallback record",
			"ip", ip,
			"error", err,
		)
		return Result{Info: Fallback(ip), Source: SourceFallback, Err: err}
	}
	return Result{Info: info, Source: SourceLookup}
}

// ResolveRequest extracts the client IP from meta and resolves it.
func (r *Resolver) ResolveRequest(ctx context.Context, meta Metadata) Result {
	return r.Resolve(ctx, Extract(meta))
}

// attempt performs the lookup and merges the response over the fallback.
func (r *Resolver) attempt(ctx context.Context, ip string) (Info, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	fields, err := r.lookup.Lookup(ctx, ip)
	if err != nil {
		var lerr *LookupError
		if !errors.As(err, &lerr) {
			err = newLookupError(ip, ErrRequestFailed, 0, err)
		}
		return Info{}, err
	}
	if fields == nil {
		return Info{}, newLookupError(ip, ErrMalformedResponse, 0, nil)
	}
	if reason, failed := serviceError(fields); failed {
		return Info{}, newLookupError(ip, ErrServiceError, 0, errors.New(reason))
	}
	return merge(ip, fields), nil
}

// serviceError detects error payloads such as {"error": true, "reason": "..."}.
func serviceError(fields map[string]any) (string, bool) {
	flag, ok := fields["error"].(bool)
	if !ok || !flag {
		return "", false
	}
	for _, key := range []string{"reason", "message"} {
		if s, ok := fields[key].(string); ok && s != "" {
			return s, true
		}
	}
	return "unspecified error", true
}

// merge overlays the lookup fields on Fallback(ip). Missing, null and empty
// fields keep their fallback value.
func merge(ip string, fields map[string]any) Info {
	info := Fallback(ip)
	for _, name := range fieldNames {
		if s, ok := text(fields[name]); ok {
			info.set(name, s)
		}
	}
	info.Extra = fields
	return info
}

// text renders a scalar JSON value as a string. Null, empty strings and
// composite values are reported as absent.
func text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

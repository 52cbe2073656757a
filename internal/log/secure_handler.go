package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// redactedKeys are attribute names whose values are never logged. Lookup
// requests carry the API key as a "key" query parameter, and server access logs
// may see request headers.
var redactedKeys = map[string]struct{}{
	"key":                 {},
	"authorization":       {},
	"proxy-authorization": {},
	"cookie":              {},
	"set-cookie":          {},
	"x-api-key":           {},
	"session":             {},
	"session_id":          {},
	"sid":                 {},
}

// redactedKeywords match anywhere in an attribute name. The bare "key" is not
// here because it would hit names like "cache_key".
var redactedKeywords = []string{
	"password", "passwd", "secret", "token", "auth",
	"credential", "private", "apikey", "api_key", "api-key",
}

// secretValues match attribute values that look like credentials whatever
// their key.
var secretValues = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`), // JWT
	regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+`),
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
	regexp.MustCompile(`(?i)[?&](key|api_key|apikey|token)=[^&\s]+`),
}

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler is an slog.Handler that redacts credentials and masks client
// addresses before records reach the wrapped handler.
type SecureHandler struct {
	handler slog.Handler
	maskIPs bool
}

// HandlerOption configures a SecureHandler.
type HandlerOption func(*SecureHandler)

// WithIPMasking enables or disables client IP masking. Enabled by default.
func WithIPMasking(enabled bool) HandlerOption {
	return func(h *SecureHandler) {
		h.maskIPs = enabled
	}
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, the returned SecureHandler will use slog.Default().Handler().
func NewSecureHandler(handler slog.Handler, opts ...HandlerOption) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	h := &SecureHandler{handler: handler, maskIPs: true}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it to the underlying handler.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs sanitizes attrs before handing them to the wrapped handler.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitizedAttrs), maskIPs: h.maskIPs}
}

func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name), maskIPs: h.maskIPs}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	key := strings.ToLower(a.Key)
	switch {
	case isRedactedKey(key):
		return slog.String(a.Key, MaskValue)
	case h.maskIPs && ipKeys[key]:
		return slog.String(a.Key, MaskIPList(a.Value.String()))
	case a.Value.Kind() == slog.KindString && looksSecret(a.Value.String()):
		return slog.String(a.Key, MaskValue)
	}
	return a
}

func isRedactedKey(key string) bool {
	if _, ok := redactedKeys[key]; ok {
		return true
	}
	for _, kw := range redactedKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

func looksSecret(value string) bool {
	for _, re := range secretValues {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// NewSecureLogger creates a new slog.Logger with secure handling that
// writes text records to w. verbose selects Debug instead of Warn.
func NewSecureLogger(w io.Writer, verbose bool, opts ...HandlerOption) *slog.Logger {
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelFor(verbose)})
	return slog.New(NewSecureHandler(textHandler, opts...))
}

// NewSecureJSONLogger creates a new slog.Logger with secure handling
// that outputs JSON format. Used by the HTTP server for access logs.
func NewSecureJSONLogger(w io.Writer, verbose bool, opts ...HandlerOption) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: levelFor(verbose)})
	return slog.New(NewSecureHandler(jsonHandler, opts...))
}

func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

package ipinfo

import (
	"net/http"
	"strings"
)

// Request headers consulted by Extract.
const (
	HeaderForwardedFor = "X-Forwarded-For"
	HeaderRealIP       = "X-Real-IP"
)

// Metadata is the subset of request metadata used to identify the client.
// Empty strings mean the header was absent.
type Metadata struct {
	ForwardedFor string
	RealIP       string
}

// MetadataFromHeader reads the client headers from h. Only the first
// X-Forwarded-For line is used.
func MetadataFromHeader(h http.Header) Metadata {
	return Metadata{
		ForwardedFor: h.Get(HeaderForwardedFor),
		RealIP:       h.Get(HeaderRealIP),
	}
}

// Extract returns the client IP: the first X-Forwarded-For entry, else
// X-Real-IP, else Unknown. Values are trimmed but not validated, and an
// empty first X-Forwarded-For entry falls through to X-Real-IP.
func Extract(meta Metadata) string {
	if meta.ForwardedFor != "" {
		first, _, _ := strings.Cut(meta.ForwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(meta.RealIP); ip != "" {
		return ip
	}
	return Unknown
}

// ExtractFromRequest applies Extract to the headers of r.
// RemoteAddr is not consulted.
func ExtractFromRequest(r *http.Request) string {
	return Extract(MetadataFromHeader(r.Header))
}

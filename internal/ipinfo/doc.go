// Package ipinfo derives a client IP address from request metadata and
// enriches it with geolocation data from an external lookup service.
//
// Resolution never fails from the caller's point of view. When the lookup
// cannot be completed (transport error, timeout, non-2xx status, malformed
// body or a service error payload) the Resolver returns a fallback record
// whose fields, apart from the IP, are the Unknown sentinel. The reason is
// kept in Result.Err for diagnostics only.
//
// The lookup transport is pluggable through the Lookup interface. HTTPLookup
// is the production implementation and can route requests through a SOCKS5
// proxy.
package ipinfo

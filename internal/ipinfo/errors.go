package ipinfo

import (
	"errors"
	"fmt"
)

// Lookup failure kinds. A *LookupError wraps exactly one of them.
var (
	// ErrRequestFailed covers transport errors and timeouts.
	ErrRequestFailed = errors.New("lookup request failed")

	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected lookup response status")

	// ErrMalformedResponse is returned when the body is not a JSON object.
	ErrMalformedResponse = errors.New("malformed lookup response")

	// ErrResponseTooLarge is returned when the body exceeds the size limit.
	ErrResponseTooLarge = errors.New("lookup response too large")

	// ErrServiceError is returned when the service answers with an error payload
	// such as {"error": true, "reason": "RateLimited"}.
	ErrServiceError = errors.New("lookup service reported an error")
)

// LookupError describes why a lookup for IP did not produce a record.
// It never escapes Resolve except through Result.Err.
type LookupError struct {
	// IP is the address that was looked up.
	IP string

	// Kind is one of the Err* sentinels above.
	Kind error

	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	msg := e.Kind.Error()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns both the kind and the cause so errors.Is matches either.
func (e *LookupError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newLookupError(ip string, kind error, status int, err error) *LookupError {
	return &LookupError{IP: ip, Kind: kind, StatusCode: status, Err: err}
}

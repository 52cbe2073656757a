package codec

import (
	"errors"
	"fmt"
)

// Decode failure kinds. A *DecodeError unwraps to exactly one of these.
var (
	// ErrInvalidEscape is returned when percent-decoding meets a '%' that is
	// not followed by two hex digits, or when the decoded bytes are not UTF-8.
	ErrInvalidEscape = errors.New("invalid percent escape")

	// ErrInvalidBase64 is returned for input with characters outside the
	// Base64 alphabet, misplaced padding or an impossible length.
	ErrInvalidBase64 = errors.New("invalid base64")

	// ErrInvalidUTF8 is returned when Base64 input decodes to bytes that are
	// not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("invalid utf-8")
)

// DecodeError describes why a decoder rejected its input.
type DecodeError struct {
	// Kind is one of ErrInvalidEscape, ErrInvalidBase64 or ErrInvalidUTF8.
	Kind error

	// Offset is the byte offset in the input (or in the decoded bytes for
	// UTF-8 failures) where the problem was found, or -1 if unknown.
	Offset int

	// Detail is a short human-readable explanation.
	Detail string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%v at offset %d: %s", e.Kind, e.Offset, e.Detail)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
}

// Unwrap returns the failure kind so errors.Is works against the sentinels.
func (e *DecodeError) Unwrap() error {
	return e.Kind
}

// newDecodeError is a small constructor used by the decoders.
func newDecodeError(kind error, offset int, format string, args ...any) *DecodeError {
	return &DecodeError{
		Kind:   kind,
		Offset: offset,
		Detail: fmt.Sprintf(format, args...),
	}
}

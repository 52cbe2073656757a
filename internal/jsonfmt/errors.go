package jsonfmt

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidJSON is matched by every *ParseError via errors.Is.
var ErrInvalidJSON = errors.New("invalid JSON")

// ErrPathNotFound is returned by Query when the path matches nothing.
var ErrPathNotFound = errors.New("path not found")

// ParseError reports malformed JSON. Message mirrors the parser's
// description; Line and Column are 1-based and point at Offset.
type ParseError struct {
	Message string
	Offset  int
	Line    int
	Column  int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Line, e.Column)
}

// Unwrap allows errors.Is(err, ErrInvalidJSON).
func (e *ParseError) Unwrap() error {
	return ErrInvalidJSON
}

// newParseError builds a ParseError, deriving line and column from the
// byte offset into text. Columns count runes, not bytes.
func newParseError(text, message string, offset int) *ParseError {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}

	line, lineStart := 1, 0
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	return &ParseError{
		Message: message,
		Offset:  offset,
		Line:    line,
		Column:  utf8.RuneCountInString(text[lineStart:offset]) + 1,
	}
}

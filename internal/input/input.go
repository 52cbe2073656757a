package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultLimit is the maximum input size in bytes.
const DefaultLimit = 10 * 1024 * 1024 // 10MB

var (
	// ErrTooLarge is returned when the input exceeds the size limit.
	ErrTooLarge = errors.New("input exceeds size limit")

	// ErrInvalidUTF8 is returned when the input is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("input is not valid UTF-8")

	// ErrNoInput is returned when no argument or file is given and standard
	// input is an interactive terminal.
	ErrNoInput = errors.New("no input: pass text as an argument, use --file, or pipe data on stdin")
)

// Read reads at most limit bytes from r and returns them as text.
// A non-positive limit means DefaultLimit.
func Read(r io.Reader, limit int64) (string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if int64(len(raw)) > limit {
		return "", fmt.Errorf("%w (%d bytes)", ErrTooLarge, limit)
	}
	return Decode(raw)
}

// Decode converts raw bytes to text, honouring a leading byte order mark.
// Without a BOM the bytes must already be valid UTF-8.
func Decode(raw []byte) (string, error) {
	dec := unicode.BOMOverride(encoding.Nop.NewDecoder())
	text, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode input: %w", err)
	}
	if !utf8.Valid(text) {
		return "", ErrInvalidUTF8
	}
	return string(text), nil
}

// TrimTrailingNewline removes one trailing "\n" or "\r\n", the newline
// that echo and most editors append.
func TrimTrailingNewline(s string) string {
	if s, ok := strings.CutSuffix(s, "\r\n"); ok {
		return s
	}
	return strings.TrimSuffix(s, "\n")
}

// Source describes where a command takes its input from. The first
// non-empty of Args and File wins; otherwise Stdin is read.
type Source struct {
	// Args are positional arguments, joined with single spaces.
	Args []string

	// File is a path to read; "-" means standard input.
	File string

	// Stdin is the standard input stream.
	Stdin io.Reader

	// StdinIsTerminal makes Text fail with ErrNoInput instead of blocking
	// on an interactive terminal.
	StdinIsTerminal bool

	// Limit caps the input size; see Read.
	Limit int64
}

// Text returns the input text. Text read from stdin loses one trailing
// newline; argument and file content is returned exactly.
func (s Source) Text() (string, error) {
	if len(s.Args) > 0 {
		text := strings.Join(s.Args, " ")
		if s.Limit > 0 && int64(len(text)) > s.Limit {
			return "", fmt.Errorf("%w (%d bytes)", ErrTooLarge, s.Limit)
		}
		return text, nil
	}

	if s.File != "" && s.File != "-" {
		f, err := os.Open(s.File) //nolint:gosec // User-provided input path is intentional
		if err != nil {
			return "", fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		return Read(f, s.Limit)
	}

	if s.Stdin == nil || s.StdinIsTerminal {
		return "", ErrNoInput
	}
	text, err := Read(s.Stdin, s.Limit)
	if err != nil {
		return "", err
	}
	return TrimTrailingNewline(text), nil
}

package jsonfmt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// maxDepth bounds nesting so hostile input cannot exhaust the stack.
const maxDepth = 10000

// Parse parses text as a single JSON document. Trailing non-whitespace after
// the top-level value is an error.
func Parse(text string) (Value, error) {
	if err := check(text); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	p := &parser{dec: dec, text: text}

	tok, err := p.next()
	if err != nil {
		return nil, p.wrap(err)
	}
	v, err := p.value(tok, 0)
	if err != nil {
		return nil, err
	}

	end := int(dec.InputOffset())
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, p.wrap(err)
		}
		return nil, newParseError(text, "invalid character after top-level value", skipSpace(text, end))
	}
	return v, nil
}

// check validates the whole document with encoding/json's scanner. Its
// SyntaxError offsets are relative to text, unlike those of a Decoder.
func check(text string) error {
	var raw json.RawMessage
	err := json.Unmarshal([]byte(text), &raw)
	if err == nil {
		return nil
	}

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return newParseError(text, err.Error(), 0)
	}
	offset := int(syntaxErr.Offset)
	if offset < len(text) || !strings.HasPrefix(syntaxErr.Error(), "unexpected end") {
		// the scanner counts the offending byte before reporting it
		offset--
	}
	return newParseError(text, syntaxErr.Error(), offset)
}

// Validate reports whether text is a single well-formed JSON document.
func Validate(text string) error {
	_, err := Parse(text)
	return err
}

// parser builds a Value tree from the decoder's token stream.
type parser struct {
	dec  *json.Decoder
	text string
}

// next returns the next token. String tokens holding an unpaired surrogate
// escape are decoded again from the source so the escape survives.
func (p *parser) next() (json.Token, error) {
	start := p.dec.InputOffset()
	tok, err := p.dec.Token()
	if err != nil {
		return tok, err
	}
	if _, ok := tok.(string); ok {
		lit := strings.TrimLeft(p.text[start:p.dec.InputOffset()], " \t\r\n,:")
		if hasSurrogateEscape(lit) {
			return unquote(lit), nil
		}
	}
	return tok, nil
}

func (p *parser) value(tok json.Token, depth int) (Value, error) {
	if depth > maxDepth {
		return nil, newParseError(p.text, fmt.Sprintf("exceeded max nesting depth of %d", maxDepth), int(p.dec.InputOffset()))
	}

	switch t := tok.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return canonicalNumber(t), nil
	case json.Delim:
		switch t {
		case '{':
			return p.object(depth)
		case '[':
			return p.array(depth)
		}
	}
	return nil, newParseError(p.text, fmt.Sprintf("unexpected token %v", tok), int(p.dec.InputOffset()))
}

func (p *parser) object(depth int) (Value, error) {
	obj := Object{}
	for p.dec.More() {
		keyTok, err := p.next()
		if err != nil {
			return nil, p.wrap(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, newParseError(p.text, "expected object key string", int(p.dec.InputOffset()))
		}

		valTok, err := p.next()
		if err != nil {
			return nil, p.wrap(err)
		}
		val, err := p.value(valTok, depth+1)
		if err != nil {
			return nil, err
		}
		obj = append(obj, Member{Key: key, Value: val})
	}
	if err := p.closing('}'); err != nil {
		return nil, err
	}
	return obj, nil
}

func (p *parser) array(depth int) (Value, error) {
	arr := Array{}
	for p.dec.More() {
		tok, err := p.next()
		if err != nil {
			return nil, p.wrap(err)
		}
		v, err := p.value(tok, depth+1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	if err := p.closing(']'); err != nil {
		return nil, err
	}
	return arr, nil
}

// closing consumes the delimiter that must end the current container.
func (p *parser) closing(want json.Delim) error {
	tok, err := p.next()
	if err != nil {
		return p.wrap(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return newParseError(p.text, fmt.Sprintf("expected %q", rune(want)), int(p.dec.InputOffset()))
	}
	return nil
}

// wrap converts decoder errors into *ParseError.
func (p *parser) wrap(err error) error {
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		return newParseError(p.text, syntaxErr.Error(), int(p.dec.InputOffset()))
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return newParseError(p.text, "unexpected end of JSON input", len(p.text))
	default:
		return newParseError(p.text, err.Error(), int(p.dec.InputOffset()))
	}
}

// hasSurrogateEscape reports whether a string literal contains a \uD800 to
// \uDFFF escape.
func hasSurrogateEscape(lit string) bool {
	for i := 0; i+5 < len(lit); i++ {
		if lit[i] != '\\' {
			continue
		}
		if lit[i+1] == 'u' {
			if c := lit[i+2] | 0x20; c == 'd' && strings.IndexByte("89abcdefABCDEF", lit[i+3]) >= 0 {
				return true
			}
		}
		i++
	}
	return false
}

// unquote decodes a well-formed JSON string literal. Unlike encoding/json it
// keeps an unpaired surrogate as its three-byte generalized UTF-8 form, which
// writeString turns back into the escape.
func unquote(lit string) string {
	s := lit[1 : len(lit)-1]
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}
		switch s[i+1] {
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			r := hex4(s[i+2 : i+6])
			i += 6
			if !utf16.IsSurrogate(r) {
				b.WriteRune(r)
				continue
			}
			if r < 0xdc00 && i+6 <= len(s) && s[i] == '\\' && s[i+1] == 'u' {
				if lo := hex4(s[i+2 : i+6]); lo >= 0xdc00 && lo <= 0xdfff {
					b.WriteRune(utf16.DecodeRune(r, lo))
					i += 6
					continue
				}
			}
			b.WriteByte(byte(0xe0 | r>>12))
			b.WriteByte(byte(0x80 | (r>>6)&0x3f))
			b.WriteByte(byte(0x80 | r&0x3f))
			continue
		default: // '"', '\\' and '/'
			b.WriteByte(s[i+1])
		}
		i += 2
	}
	return b.String()
}

func hex4(s string) rune {
	n, _ := strconv.ParseUint(s, 16, 32)
	return rune(n)
}

// skipSpace returns the offset of the first non-whitespace byte at or after i.
func skipSpace(text string, i int) int {
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// canonicalNumber converts a number literal to canonical text. Integer
// literals are kept verbatim. Other literals are rendered as the shortest
// decimal that round-trips through float64, using the same exponent
// thresholds as ECMAScript (and encoding/json). Literals outside the float64
// range are kept verbatim.
func canonicalNumber(n json.Number) Number {
	lit := n.String()
	if !strings.ContainsAny(lit, ".eE") {
		return Number{Text: lit, Integer: true}
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(f, 0) {
		return Number{Text: lit}
	}

	b, err := json.Marshal(f)
	if err != nil {
		return Number{Text: lit}
	}
	return Number{Text: string(b)}
}

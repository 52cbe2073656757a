package jsonfmt

import (
	"fmt"
	"strings"
)

// Mode selects the output layout of Format.
type Mode int

const (
	// Pretty indents nested values by two spaces, one member per line.
	Pretty Mode = iota
	// Minify removes all insignificant whitespace.
	Minify
)

// indent is the per-level indentation used by Pretty.
const indent = "  "

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Pretty:
		return "pretty"
	case Minify:
		return "minify"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name. The empty string means Pretty.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pretty", "format":
		return Pretty, nil
	case "minify", "compact":
		return Minify, nil
	default:
		return Pretty, fmt.Errorf("unknown JSON format mode %q (want pretty or minify)", s)
	}
}

// Format parses text and renders it in the given mode.
// On failure it returns a *ParseError and no output.
func Format(text string, mode Mode) (string, error) {
	v, err := Parse(text)
	if err != nil {
		return "", err
	}
	return Marshal(v, mode), nil
}

// Marshal renders v in the given mode.
func Marshal(v Value, mode Mode) string {
	var sb strings.Builder
	w := writer{sb: &sb, pretty: mode == Pretty}
	w.value(v, 0)
	return sb.String()
}

type writer struct {
	sb     *strings.Builder
	pretty bool
}

func (w writer) value(v Value, depth int) {
	switch t := v.(type) {
	case Null:
		w.sb.WriteString("null")
	case Bool:
		if t {
			w.sb.WriteString("true")
		} else {
			w.sb.WriteString("false")
		}
	case Number:
		w.sb.WriteString(t.Text)
	case String:
		writeString(w.sb, string(t))
	case Array:
		w.array(t, depth)
	case Object:
		w.object(t, depth)
	default:
		w.sb.WriteString("null")
	}
}

func (w writer) array(arr Array, depth int) {
	if len(arr) == 0 {
		w.sb.WriteString("[]")
		return
	}
	w.sb.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			w.sb.WriteByte(',')
		}
		w.newline(depth + 1)
		w.value(elem, depth+1)
	}
	w.newline(depth)
	w.sb.WriteByte(']')
}

func (w writer) object(obj Object, depth int) {
	if len(obj) == 0 {
		w.sb.WriteString("{}")
		return
	}
	w.sb.WriteByte('{')
	for i, m := range obj {
		if i > 0 {
			w.sb.WriteByte(',')
		}
		w.newline(depth + 1)
		writeString(w.sb, m.Key)
		w.sb.WriteByte(':')
		if w.pretty {
			w.sb.WriteByte(' ')
		}
		w.value(m.Value, depth+1)
	}
	w.newline(depth)
	w.sb.WriteByte('}')
}

func (w writer) newline(depth int) {
	if !w.pretty {
		return
	}
	w.sb.WriteByte('\n')
	for range depth {
		w.sb.WriteString(indent)
	}
}

const hexDigits = "0123456789abcdef"

// isSurrogateBytes reports whether s[i:] starts with the generalized UTF-8
// encoding of a surrogate code point, as produced by unquote.
func isSurrogateBytes(s string, i int) bool {
	return i+2 < len(s) && s[i] == 0xed && s[i+1] >= 0xa0 && s[i+1] <= 0xbf && s[i+2] >= 0x80 && s[i+2] <= 0xbf
}

// writeString writes s as a quoted JSON string. Only the quote, the
// backslash, control characters and unpaired surrogates are escaped; HTML
// characters and other non-ASCII text are written as-is.
func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSurrogateBytes(s, i) {
			sb.WriteString(s[start:i])
			r := rune(s[i]&0x0f)<<12 | rune(s[i+1]&0x3f)<<6 | rune(s[i+2]&0x3f)
			sb.WriteString(`\u`)
			for shift := 12; shift >= 0; shift -= 4 {
				sb.WriteByte(hexDigits[(r>>shift)&0xf])
			}
			i += 2
			start = i + 1
			continue
		}
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		sb.WriteString(s[start:i])
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteString(`\u00`)
			sb.WriteByte(hexDigits[c>>4])
			sb.WriteByte(hexDigits[c&0xf])
		}
		start = i + 1
	}
	sb.WriteString(s[start:])
	sb.WriteByte('"')
}

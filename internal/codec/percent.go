package codec

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// PercentEncode escapes every byte outside the unreserved set
// (A-Z a-z 0-9 - _ . ~) as %XX with uppercase hex digits. Multi-byte UTF-8
// sequences are escaped one byte at a time.
//
// url.QueryEscape escapes exactly this set except that it writes spaces as
// '+'. A literal '+' in the input is always escaped to %2B, so any '+' left
// in its output stands for a space.
func PercentEncode(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// PercentDecode reverses PercentEncode. Unlike url.QueryUnescape a '+' is
// kept as is. It fails with ErrInvalidEscape when a '%' is not followed by two
// hex digits or when the unescaped bytes are not valid UTF-8.
func PercentDecode(text string) (string, error) {
	decoded, err := url.PathUnescape(text)
	if err != nil {
		return "", newDecodeError(ErrInvalidEscape, badEscapeOffset(text), "%v", err)
	}
	if i := invalidUTF8Offset(decoded); i >= 0 {
		return "", newDecodeError(ErrInvalidEscape, -1, "escapes decode to invalid UTF-8 at byte %d", i)
	}
	return decoded, nil
}

// invalidUTF8Offset returns the offset of the first invalid UTF-8 sequence
// in s, or -1 if s is valid.
func invalidUTF8Offset(s string) int {
	if utf8.ValidString(s) {
		return -1
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// badEscapeOffset returns the offset of the first '%' that does not start a
// valid %XX escape, or -1.
func badEscapeOffset(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
			return i
		}
		i += 2
	}
	return -1
}

func isHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

package codec

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Variant selects the Base64 alphabet.
type Variant int

const (
	// Standard is the RFC 4648 section 4 alphabet (+ and /).
	Standard Variant = iota

	// URLSafe is the RFC 4648 section 5 alphabet (- and _).
	URLSafe
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case Standard:
		return "standard"
	case URLSafe:
		return "url"
	default:
		return "unknown"
	}
}

// encodings returns the padded and unpadded strict encodings for v.
func (v Variant) encodings() (padded, raw *base64.Encoding) {
	if v == URLSafe {
		return base64.URLEncoding.Strict(), base64.RawURLEncoding.Strict()
	}
	return base64.StdEncoding.Strict(), base64.RawStdEncoding.Strict()
}

// Base64Encode encodes the UTF-8 bytes of text with the standard padded alphabet.
func Base64Encode(text string) string {
	return EncodeBase64(text, Standard)
}

// Base64Decode decodes standard Base64 back to text.
// See DecodeBase64 for the accepted forms.
func Base64Decode(text string) (string, error) {
	return DecodeBase64(text, Standard)
}

// Base64URLEncode encodes text with the URL-safe padded alphabet.
func Base64URLEncode(text string) string {
	return EncodeBase64(text, URLSafe)
}

// Base64URLDecode decodes URL-safe Base64 back to text.
func Base64URLDecode(text string) (string, error) {
	return DecodeBase64(text, URLSafe)
}

// EncodeBase64 encodes the UTF-8 bytes of text using variant v with padding.
func EncodeBase64(text string, v Variant) string {
	padded, _ := v.encodings()
	return padded.EncodeToString([]byte(text))
}

// DecodeBase64 decodes Base64 text using variant v.
//
// Leading and trailing ASCII whitespace is ignored. Padded input must have a
// length that is a multiple of four; unpadded input is accepted when its
// length modulo four is 2 or 3. Whitespace inside the payload, characters
// outside the alphabet and non-zero trailing bits are rejected with
// ErrInvalidBase64. Bytes that are not valid UTF-8 are rejected with
// ErrInvalidUTF8.
func DecodeBase64(text string, v Variant) (string, error) {
	payload := strings.Trim(text, " \t\r\n")
	if i := strings.IndexAny(payload, " \t\r\n"); i >= 0 {
		return "", newDecodeError(ErrInvalidBase64, i, "whitespace inside payload")
	}

	padded, raw := v.encodings()
	enc := padded
	if len(payload)%4 != 0 {
		if strings.Contains(payload, "=") {
			return "", newDecodeError(ErrInvalidBase64, -1, "padded input length %d is not a multiple of 4", len(payload))
		}
		if len(payload)%4 == 1 {
			return "", newDecodeError(ErrInvalidBase64, -1, "impossible unpadded length %d", len(payload))
		}
		enc = raw
	}

	data, err := enc.DecodeString(payload)
	if err != nil {
		var corrupt base64.CorruptInputError
		if errors.As(err, &corrupt) {
			return "", newDecodeError(ErrInvalidBase64, int(corrupt), "illegal data for %s alphabet", v)
		}
		return "", newDecodeError(ErrInvalidBase64, -1, "%v", err)
	}

	decoded := string(data)
	if i := invalidUTF8Offset(decoded); i >= 0 {
		return "", newDecodeError(ErrInvalidUTF8, i, "decoded bytes are not UTF-8 text")
	}
	return decoded, nil
}

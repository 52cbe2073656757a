package codec

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBase64Encode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"f", "Zg=="},
		{"fo", "Zm8="},
		{"foo", "Zm9v"},
		{"hello", "aGVsbG8="},
		{"é", "w6k="},
		{"???", "Pz8/"},
		{"?>>", "Pz4+"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := Base64Encode(tt.input); got != tt.want {
				t.Errorf("Base64Encode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBase64URLEncode(t *testing.T) {
	t.Parallel()

	if got := Base64URLEncode("???"); got != "Pz8_" {
		t.Errorf("Base64URLEncode(???) = %q, want Pz8_", got)
	}
	if got := Base64URLEncode("?>>"); got != "Pz4-" {
		t.Errorf("Base64URLEncode(?>>) = %q, want Pz4-", got)
	}
}

func TestBase64Decode(t *testing.T) {
	t.Parallel()

	t.Run("valid input", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name  string
			input string
			want  string
		}{
			{name: "empty", input: "", want: ""},
			{name: "padded", input: "aGVsbG8=", want: "hello"},
			{name: "unpadded", input: "aGVsbG8", want: "hello"},
			{name: "unpadded two chars", input: "Zg", want: "f"},
			{name: "surrounding whitespace", input: "  aGVsbG8=\n", want: "hello"},
			{name: "utf-8", input: "w6k=", want: "é"},
		}
		for _, tt := range tests {
			got, err := Base64Decode(tt.input)
			if err != nil {
				t.Errorf("%s: unexpected error: %v", tt.name, err)
				continue
			}
			if got != tt.want {
				t.Errorf("%s: Base64Decode(%q) = %q, want %q", tt.name, tt.input, got, tt.want)
			}
		}
	})

	t.Run("invalid base64", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name  string
			input string
		}{
			{name: "illegal characters", input: "not-valid-base64!"},
			{name: "impossible length", input: "aGVsb"},
			{name: "misplaced padding", input: "aGVsbG8=="},
			{name: "padding in middle", input: "aG=sbG8="},
			{name: "interior newline", input: "aGVs\nbG8="},
			{name: "interior space", input: "aGVs bG8="},
			{name: "non-zero trailing bits", input: "aGVsbG9="},
			{name: "url alphabet in standard", input: "Pz8_"},
		}
		for _, tt := range tests {
			_, err := Base64Decode(tt.input)
			if !errors.Is(err, ErrInvalidBase64) {
				t.Errorf("%s: Base64Decode(%q) error = %v, want ErrInvalidBase64", tt.name, tt.input, err)
			}
		}
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		t.Parallel()

		_, err := Base64Decode("/w==")
		if !errors.Is(err, ErrInvalidUTF8) {
			t.Errorf("expected ErrInvalidUTF8, got %v", err)
		}
		var de *DecodeError
		if !errors.As(err, &de) || de.Offset != 0 {
			t.Errorf("expected DecodeError at offset 0, got %v", err)
		}
	})

	t.Run("error message mentions kind", func(t *testing.T) {
		t.Parallel()

		_, err := Base64Decode("not-valid-base64!")
		if err == nil || !strings.Contains(err.Error(), "invalid base64") {
			t.Errorf("expected message to mention invalid base64, got %v", err)
		}
	})
}

func TestBase64URLDecode(t *testing.T) {
	t.Parallel()

	got, err := Base64URLDecode("Pz8_")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "???" {
		t.Errorf("Base64URLDecode(Pz8_) = %q, want ???", got)
	}

	if _, err := Base64URLDecode("Pz8/"); !errors.Is(err, ErrInvalidBase64) {
		t.Errorf("expected standard alphabet to be rejected, got %v", err)
	}
}

func TestBase64RoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []Variant{Standard, URLSafe} {
		for _, s := range roundTripInputs {
			decoded, err := DecodeBase64(EncodeBase64(s, v), v)
			if err != nil {
				t.Errorf("%s: round trip error for %q: %v", v, s, err)
				continue
			}
			if decoded != s {
				t.Errorf("%s: round trip mismatch: got %q, want %q", v, decoded, s)
			}
		}
	}
}

func TestVariantString(t *testing.T) {
	t.Parallel()

	if Standard.String() != "standard" {
		t.Errorf("unexpected %q", Standard.String())
	}
	if URLSafe.String() != "url" {
		t.Errorf("unexpected %q", URLSafe.String())
	}
	if Variant(42).String() != "unknown" {
		t.Errorf("unexpected %q", Variant(42).String())
	}
}

func FuzzBase64RoundTrip(f *testing.F) {
	for _, s := range roundTripInputs {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			t.Skip()
		}
		decoded, err := Base64Decode(Base64Encode(s))
		if err != nil {
			t.Fatalf("round trip error for %q: %v", s, err)
		}
		if decoded != s {
			t.Fatalf("round trip mismatch: got %q, want %q", decoded, s)
		}
	})
}

package digest

import (
	"crypto/md5" //nolint:gosec // Offered for checksum comparison, not for security
	"crypto/sha1" //nolint:gosec // Part of the default set for compatibility with common tooling
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Algorithm is a digest algorithm name as used on the command line and in
// API responses.
type Algorithm string

// Registered algorithms.
const (
	SHA1       Algorithm = "sha1"
	SHA256     Algorithm = "sha256"
	SHA384     Algorithm = "sha384"
	SHA512     Algorithm = "sha512"
	MD5        Algorithm = "md5"
	SHA3_256   Algorithm = "sha3-256"
	SHA3_512   Algorithm = "sha3-512"
	BLAKE2b256 Algorithm = "blake2b-256"
	BLAKE2b512 Algorithm = "blake2b-512"
)

// ErrUnknownAlgorithm is returned for algorithm names that are not registered.
var ErrUnknownAlgorithm = errors.New("unknown digest algorithm")

// ErrMalformedDigest is returned by Verify when the expected digest is not
// hex of the right length.
var ErrMalformedDigest = errors.New("malformed digest")

// DefaultAlgorithms is the set returned by Digest, in display order.
var DefaultAlgorithms = []Algorithm{SHA1, SHA256, SHA384, SHA512}

// entry describes a registered algorithm.
type entry struct {
	newHash func() hash.Hash
	size    int
}

// registry maps algorithm names to constructors. Each call gets a fresh
// hash.Hash so no state is shared between algorithms or calls.
var registry = map[Algorithm]entry{
	SHA1:       {sha1.New, sha1.Size},
	SHA256:     {sha256.New, sha256.Size},
	SHA384:     {sha512.New384, sha512.Size384},
	SHA512:     {sha512.New, sha512.Size},
	MD5:        {md5.New, md5.Size},
	SHA3_256:   {func() hash.Hash { return sha3.New256() }, 32},
	SHA3_512:   {func() hash.Hash { return sha3.New512() }, 64},
	BLAKE2b256: {mustBlake2b(blake2b.New256), blake2b.Size256},
	BLAKE2b512: {mustBlake2b(blake2b.New512), blake2b.Size},
}

// mustBlake2b adapts the keyed BLAKE2b constructors; with a nil key they
// cannot fail.
func mustBlake2b(newKeyed func(key []byte) (hash.Hash, error)) func() hash.Hash {
	return func() hash.Hash {
		h, err := newKeyed(nil)
		if err != nil {
			panic(fmt.Sprintf("blake2b: %v", err))
		}
		return h
	}
}

// Set maps an algorithm to its lowercase hex digest.
type Set map[Algorithm]string

// Get returns the digest for a, or "" if it was not computed.
func (s Set) Get(a Algorithm) string {
	return s[a]
}

// Algorithms returns the algorithms in s ordered as in Algorithms(), which
// keeps output stable.
func (s Set) Algorithms() []Algorithm {
	out := make([]Algorithm, 0, len(s))
	for _, a := range Algorithms() {
		if _, ok := s[a]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Algorithms returns every registered algorithm, defaults first.
func Algorithms() []Algorithm {
	return []Algorithm{SHA1, SHA256, SHA384, SHA512, MD5, SHA3_256, SHA3_512, BLAKE2b256, BLAKE2b512}
}

// ParseAlgorithm normalizes a user supplied name such as "SHA-256" or
// "sha3_256" to a registered Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	// "sha-256" -> "sha256", but keep "sha3-256" and "blake2b-256" intact.
	if strings.HasPrefix(n, "sha-") {
		n = "sha" + strings.TrimPrefix(n, "sha-")
	}
	a := Algorithm(n)
	if _, ok := registry[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return a, nil
}

// Digest computes SHA-1, SHA-256, SHA-384 and SHA-512 of the UTF-8 bytes of
// text. It never fails.
func Digest(text string) Set {
	set := make(Set, len(DefaultAlgorithms))
	data := []byte(text)
	for _, a := range DefaultAlgorithms {
		set[a] = sum(registry[a], data)
	}
	return set
}

// Compute computes the requested algorithms over text. With no algorithms it
// behaves like Digest. Duplicates are computed once.
func Compute(text string, algorithms ...Algorithm) (Set, error) {
	if len(algorithms) == 0 {
		return Digest(text), nil
	}

	data := []byte(text)
	set := make(Set, len(algorithms))
	for _, a := range algorithms {
		sp, ok := registry[a]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, a)
		}
		if _, done := set[a]; done {
			continue
		}
		set[a] = sum(sp, data)
	}
	return set, nil
}

// Verify reports whether the digest of text under a equals expected.
// expected is compared case-insensitively in constant time.
func Verify(text string, a Algorithm, expected string) (bool, error) {
	sp, ok := registry[a]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, a)
	}
	want, err := hex.DecodeString(strings.TrimSpace(expected))
	if err != nil || len(want) != sp.size {
		return false, fmt.Errorf("%w: expected %d hex characters for %s", ErrMalformedDigest, sp.size*2, a)
	}
	h := sp.newHash()
	h.Write([]byte(text)) //nolint:errcheck // hash.Hash.Write never returns an error
	return subtle.ConstantTimeCompare(h.Sum(nil), want) == 1, nil
}

// sum hashes data with a fresh hash from sp and hex encodes the result.
func sum(sp entry, data []byte) string {
	h := sp.newHash()
	h.Write(data) //nolint:errcheck // hash.Hash.Write never returns an error
	return hex.EncodeToString(h.Sum(nil))
}

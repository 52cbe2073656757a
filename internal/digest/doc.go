// Package digest computes cryptographic digests of text, rendered as
// lowercase hexadecimal.
//
// Digest returns the default set (SHA-1, SHA-256, SHA-384, SHA-512). Compute
// accepts any subset of the registered algorithms, which additionally include
// MD5, SHA3 and BLAKE2b from golang.org/x/crypto. Every algorithm hashes the
// UTF-8 bytes of the input with its own hash state.
package digest

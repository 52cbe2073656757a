// Package codec provides the reversible text encodings offered by webinfo:
// percent-encoding (as used in URL components) and Base64.
//
// All functions are pure and safe for concurrent use. Encoders never fail;
// decoders return a *DecodeError whose Kind can be matched with errors.Is
// against ErrInvalidEscape, ErrInvalidBase64 and ErrInvalidUTF8.
package codec

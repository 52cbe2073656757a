// Package jsonfmt validates, pretty-prints and minifies JSON documents.
//
// Documents are parsed into an order-preserving tree (see Value) so object
// members keep their source order and integers keep every digit. Pretty
// output uses two-space indentation; minified output has no insignificant
// whitespace. Both forms are idempotent and parse back to an equal document.
//
// Query extracts a sub-document with gjson path syntax before formatting it.
package jsonfmt

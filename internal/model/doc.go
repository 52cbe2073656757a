// Package model defines the result structures shared by the CLI, the HTTP
// server and the report writers.
//
// This package contains the following main types:
//   - Tool: identifies a transformation (url-encode, hash, ip, ...)
//   - ToolResult: the outcome of a single transformation
//   - DigestReport: the digests of one input
//   - IPReport: a resolved IP record and where it came from
//   - BatchReport: per-line outcomes of a --lines run
//
// The models are serializable to JSON; the field names are part of the
// JSON output format.
package model

// Package input reads tool input for the CLI from arguments, files or
// standard input, and detects whether the standard streams are terminals.
//
// Input is decoded as UTF-8. A leading byte order mark is honoured: UTF-8
// BOMs are stripped and UTF-16 (LE or BE) input is transcoded to UTF-8.
package input

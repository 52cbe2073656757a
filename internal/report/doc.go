// Package report renders tool results for output.
//
// This package contains writers for different output formats:
//   - SimpleWriter: plain text for terminals and pipes
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: Markdown for documentation and sharing
//
// Writers implement the Writer interface, so the CLI picks one with New
// based on the --format flag and uses it the same way for every command.
package report

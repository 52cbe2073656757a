// Package main provides the entry point for the webinfo CLI.
//
// webinfo is a toolkit of text transformations (URL percent-encoding,
// Base64, JSON formatting, cryptographic hashes) plus an IP geolocation
// lookup, usable from the command line or over HTTP with `webinfo serve`.
//
// Usage:
//
//	webinfo url encode "a b&c"
//	echo '{"a":1}' | webinfo json format
//	webinfo hash --algo sha256,blake2b-256 --file archive.tar
//	webinfo ip 8.8.8.8
//	webinfo serve --listen 127.0.0.1:8080
//
// See --help for all available options.
package main

func main() {
	Execute()
}

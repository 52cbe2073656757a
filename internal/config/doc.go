// Package config provides configuration structures and utilities for webinfo.
// It defines the lookup service settings, HTTP API settings and output
// preferences shared by the CLI and the server.
package config

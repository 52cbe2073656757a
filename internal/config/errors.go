package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() to distinguish them while still printing a readable message.
var (
	// ErrInvalidTimeout is returned when the lookup timeout is not positive.
	// The lookup must always be bounded so a slow service cannot hang the caller.
	ErrInvalidTimeout = errors.New("invalid lookup timeout: must be positive")

	// ErrInvalidEndpoint is returned when the lookup endpoint is not an
	// absolute http(s) URL.
	ErrInvalidEndpoint = errors.New("invalid lookup endpoint: must be an absolute http or https URL")

	// ErrInvalidBatchSize is returned when the batch concurrency is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidFormat is returned when the output format is not one of
	// text, json or markdown.
	ErrInvalidFormat = errors.New("invalid output format: must be text, json or markdown")

	// ErrInvalidMaxBodySize is returned when a body size limit is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address is not
	// in "host:port" format.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrInvalidListenAddress is returned when the server listen address is empty.
	ErrInvalidListenAddress = errors.New("invalid listen address: must not be empty")
)

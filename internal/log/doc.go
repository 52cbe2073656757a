// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic sanitization of secrets (API keys, tokens, cookies, passwords)
//   - Masking of client IP addresses to their network prefix
//   - Configurable log levels with verbose mode support
//
// # Security Features
//
// The SecureHandler rewrites attributes before they reach the output handler:
//   - Values of sensitive keys (authorization, cookie, api_key, ...) are replaced
//     with MaskValue
//   - Values that look like secrets (JWTs, bearer tokens, AWS keys) are replaced
//     regardless of the key
//   - Values of client address keys (ip, client_ip, remote_addr,
//     x-forwarded-for, x-real-ip) are reduced to a /24 (IPv4) or /48 (IPv6)
//     prefix unless WithIPMasking(false) is given
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("ip lookup failed", "ip", "203.0.113.77", "api_key", key)
//	// ip=203.0.113.0/24 api_key=***REDACTED***
//
//	slog.SetDefault(logger)
package log

package config

import (
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultLookupEndpoint is the IP geolocation service queried by the resolver.
	// The {ip} placeholder is replaced with the percent-encoded client IP.
	DefaultLookupEndpoint = "https://ipapi.co/{ip}/json/"

	// DefaultLookupTimeout bounds the single lookup attempt. After this the
	// resolver gives up and returns the fallback record.
	DefaultLookupTimeout = 5 * time.Second

	// DefaultMaxLookupBodySize limits how much of the lookup response is read.
	// Geolocation responses are a few hundred bytes; 1MB is generous.
	DefaultMaxLookupBodySize = 1 * 1024 * 1024 // 1MB

	// DefaultMaxInputSize limits CLI input and HTTP API request bodies.
	DefaultMaxInputSize = 10 * 1024 * 1024 // 10MB

	// DefaultListenAddress is where `webinfo serve` listens.
	DefaultListenAddress = "127.0.0.1:8080"

	// DefaultBatchSize is the number of lines transformed concurrently in --lines mode.
	DefaultBatchSize = 8

	// DefaultUserAgent is sent with lookup requests.
	DefaultUserAgent = "webinfo/1.0 (+https://github.com/nao1215/webinfo)"

	// AppName is the application name used for XDG directory paths.
	AppName = "webinfo"
)

// Output formats understood by the report writers.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Config holds all configuration options for webinfo.
// It is populated from defaults, then the YAML config file, then CLI flags,
// and passed through the application explicitly rather than via globals.
type Config struct {
	// LookupEndpoint is the URL template of the geolocation service.
	// It must contain an absolute http or https URL; {ip} is substituted.
	LookupEndpoint string

	// LookupTimeout bounds the whole lookup request including reading the body.
	LookupTimeout time.Duration

	// LookupAPIKey is appended as the "key" query parameter when set.
	// Paid ipapi plans authenticate this way.
	LookupAPIKey string

	// ProxyAddress routes lookups through a SOCKS5 proxy in "host:port" format.
	// Empty means direct connections.
	ProxyAddress string

	// UserAgent is the User-Agent header sent with lookup requests.
	UserAgent string

	// MaxLookupBodySize is the maximum lookup response size in bytes.
	MaxLookupBodySize int64

	// MaxInputSize is the maximum input size for CLI input and API request bodies.
	MaxInputSize int64

	// ListenAddress is the address the HTTP API binds to.
	ListenAddress string

	// BatchSize is the number of concurrent transforms in --lines mode.
	BatchSize int

	// Format selects the report writer: text, json or markdown.
	Format string

	// Verbose enables debug logging.
	Verbose bool

	// UnmaskIPs disables client IP masking in log output.
	UnmaskIPs bool

	// ConfigFilePath is the explicit configuration file path, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		LookupEndpoint:    DefaultLookupEndpoint,
		LookupTimeout:     DefaultLookupTimeout,
		UserAgent:         DefaultUserAgent,
		MaxLookupBodySize: DefaultMaxLookupBodySize,
		MaxInputSize:      DefaultMaxInputSize,
		ListenAddress:     DefaultListenAddress,
		BatchSize:         DefaultBatchSize,
		Format:            FormatText,
	}
}

// XDGConfigDir returns the XDG config directory for webinfo.
// On Linux: ~/.config/webinfo
// On macOS: ~/Library/Application Support/webinfo
// On Windows: %APPDATA%\webinfo
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found as one of the sentinel errors in errors.go.
func (c *Config) Validate() error {
	if c.LookupTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if !isValidEndpoint(c.LookupEndpoint) {
		return ErrInvalidEndpoint
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	switch c.Format {
	case FormatText, FormatJSON, FormatMarkdown:
	default:
		return ErrInvalidFormat
	}

	if c.MaxLookupBodySize <= 0 || c.MaxInputSize <= 0 {
		return ErrInvalidMaxBodySize
	}

	if c.ProxyAddress != "" && !IsValidProxyAddress(c.ProxyAddress) {
		return ErrInvalidProxyAddress
	}

	if strings.TrimSpace(c.ListenAddress) == "" {
		return ErrInvalidListenAddress
	}

	return nil
}

// isValidEndpoint reports whether the endpoint template, with the {ip}
// placeholder filled in, is an absolute http(s) URL with a host.
func isValidEndpoint(endpoint string) bool {
	if endpoint == "" {
		return false
	}
	u, err := url.Parse(strings.ReplaceAll(endpoint, "{ip}", "127.0.0.1"))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// IsValidProxyAddress checks if the address is in "host:port" format with a
// port between 1 and 65535.
func IsValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

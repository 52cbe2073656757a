package ipinfo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// Lookup fetches the raw geolocation fields for an IP address.
// Implementations return a *LookupError on failure.
type Lookup interface {
	Lookup(ctx context.Context, ip string) (map[string]any, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(ctx context.Context, ip string) (map[string]any, error)

// Lookup calls f(ctx, ip).
func (f LookupFunc) Lookup(ctx context.Context, ip string) (map[string]any, error) {
	return f(ctx, ip)
}

// Defaults for HTTPLookup.
const (
	// DefaultEndpoint is the ipapi.co JSON API. {ip} is replaced with the
	// path-escaped address.
	DefaultEndpoint = "https://ipapi.co/{ip}/json/"

	// DefaultTimeout bounds a single lookup including reading the body.
	DefaultTimeout = 5 * time.Second

	// DefaultMaxBodySize caps the response size.
	DefaultMaxBodySize = 1 * 1024 * 1024 // 1MB

	// DefaultUserAgent identifies webinfo to the lookup service.
	DefaultUserAgent = "webinfo/1.0"

	// ipPlaceholder marks where the address goes in the endpoint template.
	ipPlaceholder = "{ip}"
)

// HTTPLookup queries a JSON geolocation API over HTTP.
type HTTPLookup struct {
	// endpoint is the URL template containing {ip}.
	endpoint string

	// apiKey is sent as the "key" query parameter when non-empty.
	apiKey string

	// userAgent is the User-Agent header value.
	userAgent string

	// maxBodySize limits how much of the response is read.
	maxBodySize int64

	// timeout is applied to the HTTP client.
	timeout time.Duration

	// proxyAddress is an optional SOCKS5 proxy in "host:port" form.
	proxyAddress string

	// client performs the request. Built in NewHTTPLookup unless injected.
	client *http.Client
}

// HTTPLookupOption configures an HTTPLookup.
type HTTPLookupOption func(*HTTPLookup)

// WithEndpoint sets the URL template. It must contain {ip}.
func WithEndpoint(endpoint string) HTTPLookupOption {
	return func(l *HTTPLookup) {
		l.endpoint = endpoint
	}
}

// WithAPIKey sets the API key for paid plans.
func WithAPIKey(key string) HTTPLookupOption {
	return func(l *HTTPLookup) {
		l.apiKey = key
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) HTTPLookupOption {
	return func(l *HTTPLookup) {
		l.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response size in bytes.
func WithMaxBodySize(size int64) HTTPLookupOption {
	return func(l *HTTPLookup) {
		l.maxBodySize = size
	}
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(timeout time.Duration) HTTPLookupOption {
	return func(l *HTTPLookup) {
		l.timeout = timeout
	}
}

// WithProxy routes lookups through the SOCKS5 proxy at address.
func WithProxy(address string) HTTPLookupOption {
	return func(l *HTTPLookup) {
		l.proxyAddress = address
	}
}

// WithHTTPClient injects a preconfigured client. Proxy and timeout options
// are ignored when a client is supplied.
func WithHTTPClient(client *http.Client) HTTPLookupOption {
	return func(l *HTTPLookup) {
		l.client = client
	}
}

// NewHTTPLookup creates an HTTPLookup. It fails only when the endpoint has
// no {ip} placeholder or the proxy dialer cannot be created.
func NewHTTPLookup(opts ...HTTPLookupOption) (*HTTPLookup, error) {
	l := &HTTPLookup{
		endpoint:    DefaultEndpoint,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}

	if !strings.Contains(l.endpoint, ipPlaceholder) {
		return nil, fmt.Errorf("lookup endpoint %q must contain %s", l.endpoint, ipPlaceholder)
	}

	if l.client == nil {
		client, err := newHTTPClient(l.proxyAddress, l.timeout)
		if err != nil {
			return nil, err
		}
		l.client = client
	}
	return l, nil
}

// newHTTPClient builds the lookup client, dialing through a SOCKS5 proxy
// when proxyAddress is set.
func newHTTPClient(proxyAddress string, timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: timeout,
	}

	if proxyAddress != "" {
		dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// URL returns the request URL for ip.
func (l *HTTPLookup) URL(ip string) (string, error) {
	raw := strings.ReplaceAll(l.endpoint, ipPlaceholder, url.PathEscape(ip))
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if l.apiKey != "" {
		q := u.Query()
		q.Set("key", l.apiKey)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Lookup performs one GET request and decodes the JSON object body.
// It does not retry.
func (l *HTTPLookup) Lookup(ctx context.Context, ip string) (map[string]any, error) {
	target, err := l.URL(ip)
	if err != nil {
		return nil, newLookupError(ip, ErrRequestFailed, 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, newLookupError(ip, ErrRequestFailed, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		// url.Error repeats the request URL, which holds the address and key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, newLookupError(ip, ErrRequestFailed, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // best effort
		return nil, newLookupError(ip, ErrUnexpectedStatus, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBodySize+1))
	if err != nil {
		return nil, newLookupError(ip, ErrRequestFailed, resp.StatusCode, err)
	}
	if int64(len(body)) > l.maxBodySize {
		return nil, newLookupError(ip, ErrResponseTooLarge, resp.StatusCode, nil)
	}

	fields, err := decodeObject(body)
	if err != nil {
		return nil, newLookupError(ip, ErrMalformedResponse, resp.StatusCode, err)
	}
	return fields, nil
}

// decodeObject decodes body as a single JSON object, keeping numbers as
// json.Number so they render exactly.
func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after JSON object")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %T", v)
	}
	return obj, nil
}

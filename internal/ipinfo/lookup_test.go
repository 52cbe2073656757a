package ipinfo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestNewHTTPLookup(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		l, err := NewHTTPLookup()
		if err != nil {
			t.Fatalf("NewHTTPLookup() error = %v", err)
		}
		got, err := l.URL("8.8.8.8")
		if err != nil {
			t.Fatalf("URL() error = %v", err)
		}
		if got != "https://ipapi.co/8.8.8.8/json/" {
			t.Errorf("URL() = %q", got)
		}
	})

	t.Run("endpoint without placeholder", func(t *testing.T) {
		t.Parallel()

		if _, err := NewHTTPLookup(WithEndpoint("https://example.com/json")); err == nil {
			t.Error("expected error for endpoint without {ip}")
		}
	})

	t.Run("proxy", func(t *testing.T) {
		t.Parallel()

		l, err := NewHTTPLookup(WithProxy("127.0.0.1:9050"))
		if err != nil {
			t.Fatalf("NewHTTPLookup() error = %v", err)
		}
		tr, ok := l.client.Transport.(*http.Transport)
		if !ok || tr.DialContext == nil || tr.Proxy != nil {
			t.Error("expected a SOCKS5 dialing transport")
		}
	})
}

func TestHTTPLookupURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []HTTPLookupOption
		ip   string
		want string
	}{
		{
			name: "ipv6 is path escaped",
			ip:   "2001:db8::1",
			want: "https://ipapi.co/2001:db8::1/json/",
		},
		{
			name: "sentinel is passed through",
			ip:   Unknown,
			want: "https://ipapi.co/Unknown/json/",
		},
		{
			name: "slash cannot change the path",
			ip:   "1.2.3.4/../x",
			want: "https://ipapi.co/1.2.3.4%2F..%2Fx/json/",
		},
		{
			name: "api key",
			opts: []HTTPLookupOption{WithAPIKey("s3cret")},
			ip:   "1.2.3.4",
			want: "https://ipapi.co/1.2.3.4/json/?key=s3cret",
		},
		{
			name: "query template keeps existing params",
			opts: []HTTPLookupOption{WithEndpoint("http://geo.local/lookup?ip={ip}&lang=en"), WithAPIKey("k")},
			ip:   "1.2.3.4",
			want: "http://geo.local/lookup?ip=1.2.3.4&key=k&lang=en",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, err := NewHTTPLookup(tt.opts...)
			if err != nil {
				t.Fatalf("NewHTTPLookup() error = %v", err)
			}
			got, err := l.URL(tt.ip)
			if err != nil {
				t.Fatalf("URL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("URL(%q) = %q, want %q", tt.ip, got, tt.want)
			}
		})
	}
}

func TestHTTPLookupRequest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "test-agent/1" {
			t.Errorf("unexpected User-Agent %q", ua)
		}
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		fmt.Fprint(w, `{"ip":"1.2.3.4","latitude":35.6895,"in_eu":false}`)
	}))
	t.Cleanup(srv.Close)

	l, err := NewHTTPLookup(WithEndpoint(srv.URL+"/{ip}"), WithUserAgent("test-agent/1"))
	if err != nil {
		t.Fatalf("NewHTTPLookup() error = %v", err)
	}

	fields, err := l.Lookup(context.Background(), "1.2.3.4")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if fields["ip"] != "1.2.3.4" {
		t.Errorf("ip = %v", fields["ip"])
	}
	if fmt.Sprint(fields["latitude"]) != "35.6895" {
		t.Errorf("numbers should keep their text, got %v", fields["latitude"])
	}
}

func TestHTTPLookupFailures(t *testing.T) {
	t.Parallel()

	t.Run("body too large", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprintf(w, `{"org":"%s"}`, strings.Repeat("x", 256))
		}))
		t.Cleanup(srv.Close)

		l, err := NewHTTPLookup(WithEndpoint(srv.URL+"/{ip}"), WithMaxBodySize(64))
		if err != nil {
			t.Fatalf("NewHTTPLookup() error = %v", err)
		}
		_, err = l.Lookup(context.Background(), "1.2.3.4")
		if !errors.Is(err, ErrResponseTooLarge) {
			t.Errorf("expected ErrResponseTooLarge, got %v", err)
		}
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("connection refused")
		client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, boom
		})}
		l, err := NewHTTPLookup(WithHTTPClient(client))
		if err != nil {
			t.Fatalf("NewHTTPLookup() error = %v", err)
		}

		_, err = l.Lookup(context.Background(), "1.2.3.4")
		if !errors.Is(err, ErrRequestFailed) || !errors.Is(err, boom) {
			t.Errorf("expected request failure wrapping the cause, got %v", err)
		}

		res := NewResolver(l).Resolve(context.Background(), "1.2.3.4")
		if res.Source != SourceFallback || res.Info.IP != "1.2.3.4" {
			t.Errorf("expected fallback record, got %+v", res)
		}
	})

	t.Run("status is recorded", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		t.Cleanup(srv.Close)

		l, err := NewHTTPLookup(WithEndpoint(srv.URL + "/{ip}"))
		if err != nil {
			t.Fatalf("NewHTTPLookup() error = %v", err)
		}
		_, err = l.Lookup(context.Background(), "1.2.3.4")
		var lerr *LookupError
		if !errors.As(err, &lerr) || lerr.StatusCode != http.StatusForbidden {
			t.Errorf("expected LookupError with status 403, got %v", err)
		}
	})
}

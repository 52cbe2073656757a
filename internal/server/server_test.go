package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/webinfo/internal/ipinfo"
	"github.com/nao1215/webinfo/internal/log"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubLookup answers with fields for every IP and records the last IP asked.
func stubLookup(fields map[string]any, err error, seen *string) ipinfo.Lookup {
	return ipinfo.LookupFunc(func(_ context.Context, ip string) (map[string]any, error) {
		if seen != nil {
			*seen = ip
		}
		if err != nil {
			return nil, err
		}
		return fields, nil
	})
}

func newTestServer(t *testing.T, lookup ipinfo.Lookup, opts ...Option) *Server {
	t.Helper()

	resolver := ipinfo.NewResolver(lookup, ipinfo.WithLogger(quietLogger()))
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s, err := New(resolver, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func do(t *testing.T, s *Server, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, rec.Body.String())
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); err == nil {
		t.Error("expected error for nil resolver")
	}
}

func TestHandleIP(t *testing.T) {
	t.Parallel()

	t.Run("resolves the forwarded client", func(t *testing.T) {
		t.Parallel()

		var seen string
		s := newTestServer(t, stubLookup(map[string]any{
			"ip":       "8.8.8.8",
			"city":     "Mountain View",
			"region":   "California",
			"country":  "US",
			"timezone": "America/Los_Angeles",
			"org":      "GOOGLE",
			"asn":      "AS15169",
		}, nil, &seen))

		rec := do(t, s, http.MethodGet, "/api/ip", "", http.Header{
			"X-Forwarded-For": {"8.8.8.8, 10.0.0.1"},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if seen != "8.8.8.8" {
			t.Errorf("lookup called with %q, want 8.8.8.8", seen)
		}

		var got map[string]any
		decodeBody(t, rec, &got)
		if got["city"] != "Mountain View" || got["org"] != "GOOGLE" {
			t.Errorf("unexpected body %v", got)
		}
		if got["asn"] != "AS15169" {
			t.Errorf("expected asn to be passed through, got %v", got["asn"])
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("Content-Type = %q", ct)
		}
	})

	t.Run("partial response keeps extras and back-fills the record", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, stubLookup(map[string]any{
			"ip":     "8.8.8.8",
			"city":   "MV",
			"asn":    "AS15169",
			"postal": "94043",
		}, nil, nil))
		rec := do(t, s, http.MethodGet, "/api/ip", "", http.Header{"X-Real-Ip": {"8.8.8.8"}})

		var got map[string]any
		decodeBody(t, rec, &got)
		if got["asn"] != "AS15169" || got["postal"] != "94043" {
			t.Errorf("expected asn and postal to be passed through, got %v", got)
		}
		if got["city"] != "MV" {
			t.Errorf("city = %v, want MV", got["city"])
		}
		for _, name := range []string{"region", "country", "timezone", "org"} {
			if got[name] != ipinfo.Unknown {
				t.Errorf("%s = %v, want %q", name, got[name], ipinfo.Unknown)
			}
		}
	})

	t.Run("lookup failure still answers 200", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, stubLookup(nil, errors.New("connection refused"), nil))
		rec := do(t, s, http.MethodGet, "/api/ip", "", http.Header{"X-Real-Ip": {"203.0.113.9"}})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got map[string]any
		decodeBody(t, rec, &got)
		if len(got) != 6 {
			t.Errorf("fallback body has %d fields, want 6: %v", len(got), got)
		}
		if got["ip"] != "203.0.113.9" || got["city"] != ipinfo.Unknown || got["org"] != ipinfo.Unknown {
			t.Errorf("got %v, want fallback record", got)
		}
	})

	t.Run("no client headers keeps the Unknown sentinel", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, stubLookup(nil, errors.New("bad ip"), nil))
		rec := do(t, s, http.MethodGet, "/api/ip", "", nil)

		var got ipinfo.Info
		decodeBody(t, rec, &got)
		if got.IP != ipinfo.Unknown {
			t.Errorf("IP = %q, want %q", got.IP, ipinfo.Unknown)
		}
	})
}

func TestToolEndpoints(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubLookup(nil, errors.New("unused"), nil))

	tests := []struct {
		name   string
		target string
		body   string
		want   any
	}{
		{"url encode", "/api/url/encode", "a b&c=é", "a%20b%26c%3D%C3%A9"},
		{"url decode", "/api/url/decode", "a%20b%2Bc+d", "a b+c+d"},
		{"base64 encode", "/api/base64/encode", "hello", "aGVsbG8="},
		{"base64 decode", "/api/base64/decode", "aGVsbG8=", "hello"},
		{"base64 url variant", "/api/base64/encode?variant=url", "??>", "Pz8-"},
		{"json pretty", "/api/json/format", `{"b":1,"a":[]}`, "{\n  \"b\": 1,\n  \"a\": []\n}"},
		{"json minify", "/api/json/format?mode=minify", "{ \"a\" : [ 1 , 2 ] }", `{"a":[1,2]}`},
		{"json query", "/api/json/query?path=user.name&mode=minify", `{"user":{"name":"gopher"}}`, `"gopher"`},
		{"hash subset", "/api/hash?algo=sha256", "abc", map[string]any{
			"sha256": "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := do(t, s, http.MethodPost, tt.target, tt.body, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
			}

			var got struct {
				Output any `json:"output"`
			}
			decodeBody(t, rec, &got)

			gotJSON, _ := json.Marshal(got.Output)
			wantJSON, _ := json.Marshal(tt.want)
			if !bytes.Equal(gotJSON, wantJSON) {
				t.Errorf("output = %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestHashDefaultAlgorithms(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubLookup(nil, errors.New("unused"), nil))
	rec := do(t, s, http.MethodPost, "/api/hash", "", nil)

	var got struct {
		Output map[string]string `json:"output"`
	}
	decodeBody(t, rec, &got)
	if len(got.Output) != 4 {
		t.Fatalf("expected 4 digests, got %v", got.Output)
	}
	if got.Output["sha1"] != "da39a3ee5e6b4b0d3255bfef95601890afd80709" {
		t.Errorf("unexpected sha1 of empty input %q", got.Output["sha1"])
	}
}

func TestToolEndpointErrors(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubLookup(nil, errors.New("unused"), nil), WithMaxBodySize(16))

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantError  string
		wantLine   int
	}{
		{"bad escape", "/api/url/decode", "100%", http.StatusBadRequest, "escape", 0},
		{"bad base64", "/api/base64/decode", "a===", http.StatusBadRequest, "base64", 0},
		{"bad variant", "/api/base64/decode?variant=hex", "YQ==", http.StatusBadRequest, "variant", 0},
		{"bad json", "/api/json/format", "{\n\"a\":}", http.StatusBadRequest, "", 2},
		{"bad mode", "/api/json/format?mode=tabs", "{}", http.StatusBadRequest, "mode", 0},
		{"missing query path", "/api/json/query", "{}", http.StatusBadRequest, "path", 0},
		{"query miss", "/api/json/query?path=nope", "{}", http.StatusBadRequest, "not found", 0},
		{"unknown algorithm", "/api/hash?algo=sha256,crc32", "x", http.StatusBadRequest, "crc32", 0},
		{"body too large", "/api/url/encode", strings.Repeat("a", 17), http.StatusRequestEntityTooLarge, "size limit", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := do(t, s, http.MethodPost, tt.target, tt.body, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}

			var got errorResponse
			decodeBody(t, rec, &got)
			if got.Error == "" {
				t.Fatal("expected an error message")
			}
			if !strings.Contains(strings.ToLower(got.Error), tt.wantError) {
				t.Errorf("error = %q, want it to contain %q", got.Error, tt.wantError)
			}
			if tt.wantLine != 0 && got.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", got.Line, tt.wantLine)
			}
		})
	}
}

func TestDecodeErrorOffset(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubLookup(nil, errors.New("unused"), nil))
	rec := do(t, s, http.MethodPost, "/api/url/decode", "%zz", nil)

	var got errorResponse
	decodeBody(t, rec, &got)
	if got.Offset == nil || *got.Offset != 0 {
		t.Errorf("expected offset 0, got %v", got.Offset)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubLookup(nil, errors.New("unused"), nil))
	if rec := do(t, s, http.MethodGet, "/api/url/encode", "", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET on tool endpoint: status = %d, want 405", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/ip", "", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST on /api/ip: status = %d, want 405", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/nope", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route: status = %d, want 404", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubLookup(nil, errors.New("unused"), nil))
	rec := do(t, s, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubLookup(nil, errors.New("unused"), nil))

	t.Run("generated when absent", func(t *testing.T) {
		t.Parallel()

		rec := do(t, s, http.MethodGet, "/healthz", "", nil)
		if _, err := uuid.Parse(rec.Header().Get(HeaderRequestID)); err != nil {
			t.Errorf("expected a UUID request id, got %q", rec.Header().Get(HeaderRequestID))
		}
	})

	t.Run("client uuid is echoed", func(t *testing.T) {
		t.Parallel()

		id := uuid.NewString()
		rec := do(t, s, http.MethodGet, "/healthz", "", http.Header{HeaderRequestID: {id}})
		if got := rec.Header().Get(HeaderRequestID); got != id {
			t.Errorf("request id = %q, want %q", got, id)
		}
	})

	t.Run("non uuid is replaced", func(t *testing.T) {
		t.Parallel()

		rec := do(t, s, http.MethodGet, "/healthz", "", http.Header{HeaderRequestID: {"<script>"}})
		got := rec.Header().Get(HeaderRequestID)
		if got == "<script>" {
			t.Error("expected untrusted request id to be replaced")
		}
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("expected a UUID request id, got %q", got)
		}
	})
}

func TestAccessLogMasksClientIP(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := newTestServer(t, stubLookup(nil, errors.New("unused"), nil),
		WithLogger(log.NewSecureJSONLogger(&buf, true)))

	rec := do(t, s, http.MethodPost, "/api/url/encode", "x", http.Header{"X-Forwarded-For": {"203.0.113.77"}})

	out := buf.String()
	if !strings.Contains(out, `"client_ip":"203.0.113.0/24"`) {
		t.Errorf("expected masked client ip in access log:\n%s", out)
	}
	if strings.Contains(out, "203.0.113.77") {
		t.Errorf("raw client ip leaked into access log:\n%s", out)
	}
	if !strings.Contains(out, rec.Header().Get(HeaderRequestID)) {
		t.Errorf("expected request id in access log:\n%s", out)
	}
	if !strings.Contains(out, `"status":200`) {
		t.Errorf("expected status in access log:\n%s", out)
	}
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubLookup(nil, errors.New("down"), nil))
	do(t, s, http.MethodPost, "/api/url/encode", "a b", nil)
	do(t, s, http.MethodPost, "/api/url/decode", "%", nil)
	do(t, s, http.MethodGet, "/api/ip", "", nil)

	rec := do(t, s, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	out := rec.Body.String()
	for _, want := range []string{
		`webinfo_tool_requests_total{outcome="ok",tool="url-encode"} 1`,
		`webinfo_tool_requests_total{outcome="error",tool="url-decode"} 1`,
		`webinfo_tool_requests_total{outcome="ok",tool="hash"} 0`,
		`webinfo_ip_lookups_total{source="fallback"} 1`,
		`webinfo_ip_lookups_total{source="lookup"} 0`,
		`webinfo_http_request_duration_seconds_count{code="200",route="POST /api/url/encode"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in metrics output", want)
		}
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubLookup(nil, errors.New("unused"), nil))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		cancel()
		t.Fatalf("GET /healthz failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestWriteTimeoutFollowsResolver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"default lookup timeout", ipinfo.DefaultTimeout, ipinfo.DefaultTimeout + writeTimeoutMargin},
		{"lookup timeout longer than the old fixed deadline", 45 * time.Second, 55 * time.Second},
		{"resolver without deadline", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resolver := ipinfo.NewResolver(stubLookup(nil, nil, nil), ipinfo.WithTimeout(tt.timeout))
			s, err := New(resolver, WithLogger(quietLogger()))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if s.writeTimeout != tt.want {
				t.Errorf("writeTimeout = %v, want %v", s.writeTimeout, tt.want)
			}
		})
	}
}

func TestSlowLookupStillAnswers(t *testing.T) {
	t.Parallel()

	blocking := ipinfo.LookupFunc(func(ctx context.Context, _ string) (map[string]any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	resolver := ipinfo.NewResolver(blocking,
		ipinfo.WithTimeout(200*time.Millisecond),
		ipinfo.WithLogger(quietLogger()),
	)
	s, err := New(resolver, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Serve(ctx, ln) }()

	req, err := http.NewRequest(http.MethodGet, "http://"+ln.Addr().String()+"/api/ip", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("X-Real-IP", "198.51.100.7")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/ip failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if got["ip"] != "198.51.100.7" || got["city"] != ipinfo.Unknown {
		t.Errorf("got %v, want fallback record", got)
	}
}

func TestRunRequiresAddress(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, stubLookup(nil, errors.New("unused"), nil))
	if err := s.Run(context.Background(), " "); err == nil {
		t.Error("expected error for empty address")
	}
}

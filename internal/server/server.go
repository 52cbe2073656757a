package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/nao1215/webinfo/internal/input"
	"github.com/nao1215/webinfo/internal/ipinfo"
)

// Server timeouts.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// writeTimeoutMargin is the time left after the lookup deadline to write
// the /api/ip response.
const writeTimeoutMargin = 10 * time.Second

// writeTimeoutFor returns the response deadline for a resolver timeout.
// A resolver without a deadline gets a server without one.
func writeTimeoutFor(lookupTimeout time.Duration) time.Duration {
	if lookupTimeout <= 0 {
		return 0
	}
	return lookupTimeout + writeTimeoutMargin
}

// Server serves the webinfo HTTP API.
type Server struct {
	resolver     *ipinfo.Resolver
	logger       *slog.Logger
	maxBodySize  int64
	writeTimeout time.Duration
	metrics      *metrics
	handler      http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for access and error logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxBodySize limits tool request bodies. Non-positive values keep
// input.DefaultLimit.
func WithMaxBodySize(size int64) Option {
	return func(s *Server) {
		if size > 0 {
			s.maxBodySize = size
		}
	}
}

// New creates a Server resolving caller IPs through resolver.
func New(resolver *ipinfo.Resolver, opts ...Option) (*Server, error) {
	if resolver == nil {
		return nil, errors.New("resolver is required")
	}
	s := &Server{
		resolver:     resolver,
		logger:       slog.Default(),
		maxBodySize:  input.DefaultLimit,
		writeTimeout: writeTimeoutFor(resolver.Timeout()),
		metrics:      newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.handler())

	mux.HandleFunc("GET /api/ip", s.handleIP)
	mux.HandleFunc("POST /api/url/encode", s.handleURLEncode)
	mux.HandleFunc("POST /api/url/decode", s.handleURLDecode)
	mux.HandleFunc("POST /api/base64/encode", s.handleBase64Encode)
	mux.HandleFunc("POST /api/base64/decode", s.handleBase64Decode)
	mux.HandleFunc("POST /api/json/format", s.handleJSONFormat)
	mux.HandleFunc("POST /api/json/query", s.handleJSONQuery)
	mux.HandleFunc("POST /api/hash", s.handleHash)

	return s.requestID(s.accessLog(mux))
}

// Run listens on addr and serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("listen address must be provided")
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       idleTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		err := httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server failed: %w", err)
			return
		}
		errCh <- nil
	}()

	s.logger.Info("server started", "address", ln.Addr().String())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("graceful shutdown failed", "error", err)
		}
		err := <-errCh
		s.logger.Info("server stopped")
		return err
	case err := <-errCh:
		return err
	}
}

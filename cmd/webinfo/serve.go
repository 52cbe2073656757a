package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/webinfo/internal/log"
	"github.com/nao1215/webinfo/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools as an HTTP API",
		Long: `Serve exposes every tool over HTTP.

  GET  /api/ip                 geolocation of the caller (X-Forwarded-For / X-Real-IP)
  POST /api/url/encode|decode  body is the text to transform
  POST /api/base64/encode|decode[?variant=url]
  POST /api/json/format[?mode=pretty|minify]
  POST /api/json/query?path=...
  POST /api/hash[?algo=sha256,md5]
  GET  /healthz, /metrics

Responses are JSON: {"output": ...} or {"error": ...}. Access logs are
written to stderr as JSON with client addresses masked; use --verbose to
see them.

Examples:
  webinfo serve
  webinfo serve --listen 0.0.0.0:9000`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}
	cmd.Flags().String("listen", "", "Listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		a.cfg.ListenAddress = listen
	}

	// The server logs JSON so access lines are machine readable.
	logger := log.NewSecureJSONLogger(cmd.ErrOrStderr(), a.cfg.Verbose, log.WithIPMasking(!a.cfg.UnmaskIPs))
	a.logger = logger

	resolver, err := a.newResolver()
	if err != nil {
		return err
	}
	srv, err := server.New(resolver,
		server.WithLogger(logger),
		server.WithMaxBodySize(a.cfg.MaxInputSize),
	)
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.PrintErrf("Listening on http://%s\n", a.cfg.ListenAddress)
	return srv.Run(ctx, a.cfg.ListenAddress)
}

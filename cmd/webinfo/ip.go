package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/webinfo/internal/ipinfo"
	"github.com/nao1215/webinfo/internal/model"
)

// NewIPCmd creates the ip command.
func NewIPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ip [address]",
		Short: "Look up geolocation information for an IP address",
		Long: `Look up city, region, country, timezone and organization of an IP address.

The address is taken from the argument, or derived from --forwarded-for
and --real-ip the same way the HTTP API derives it from request headers.
A single request is made to the lookup service; if it fails the record
is still printed with Unknown fields.

Examples:
  webinfo ip 8.8.8.8
  webinfo ip --forwarded-for "203.0.113.7, 10.0.0.1"
  webinfo ip --endpoint "https://geo.example.com/{ip}" 1.1.1.1 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIPCmd,
	}
	cmd.Flags().String("forwarded-for", "", "X-Forwarded-For header value to derive the address from")
	cmd.Flags().String("real-ip", "", "X-Real-IP header value to derive the address from")
	cmd.Flags().String("endpoint", "", "Lookup URL template containing {ip}")
	cmd.Flags().Duration("timeout", 0, "Lookup timeout (default from config, 5s)")
	return cmd
}

func runIPCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	if endpoint, _ := cmd.Flags().GetString("endpoint"); endpoint != "" {
		a.cfg.LookupEndpoint = endpoint
	}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		a.cfg.LookupTimeout = timeout
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	resolver, err := a.newResolver()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var res ipinfo.Result
	if len(args) == 1 {
		res = resolver.Resolve(ctx, args[0])
	} else {
		meta := ipinfo.Metadata{}
		meta.ForwardedFor, _ = cmd.Flags().GetString("forwarded-for")
		meta.RealIP, _ = cmd.Flags().GetString("real-ip")
		res = resolver.ResolveRequest(ctx, meta)
	}

	if _, err := a.writer.WriteIP(model.NewIPReport(res)); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

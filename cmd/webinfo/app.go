package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/webinfo/internal/config"
	"github.com/nao1215/webinfo/internal/input"
	"github.com/nao1215/webinfo/internal/ipinfo"
	"github.com/nao1215/webinfo/internal/log"
	"github.com/nao1215/webinfo/internal/report"
)

// app carries what every command needs: the effective configuration, a
// logger and the report writer for stdout.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	writer report.Writer
}

// newApp loads the configuration file, applies the global flags on top of
// it and validates the result.
func newApp(cmd *cobra.Command) (*app, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, usedPath, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return nil, fmt.Errorf("failed to load config file %s: %w", usedPath, err)
	}

	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		cfg.Format = f.Value.String()
	}
	cfg.Verbose, err = cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose, log.WithIPMasking(!cfg.UnmaskIPs))
	if usedPath != "" {
		logger.Debug("configuration loaded", "path", usedPath)
	}

	w, err := report.New(cfg.Format, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, writer: w}, nil
}

// textMode reports whether results are printed as plain text.
func (a *app) textMode() bool {
	return a.cfg.Format == config.FormatText
}

// readInput resolves the command input from args, --file or stdin.
func (a *app) readInput(cmd *cobra.Command, args []string) (string, error) {
	src := input.Source{
		Args:  args,
		Stdin: cmd.InOrStdin(),
		Limit: a.cfg.MaxInputSize,
	}
	if f := cmd.Flags().Lookup("file"); f != nil {
		src.File = f.Value.String()
	}
	if f, ok := src.Stdin.(*os.File); ok {
		src.StdinIsTerminal = input.IsTerminal(f)
	}
	return src.Text()
}

// newResolver builds the IP resolver from the lookup settings.
func (a *app) newResolver() (*ipinfo.Resolver, error) {
	opts := []ipinfo.HTTPLookupOption{
		ipinfo.WithEndpoint(a.cfg.LookupEndpoint),
		ipinfo.WithUserAgent(a.cfg.UserAgent),
		ipinfo.WithMaxBodySize(a.cfg.MaxLookupBodySize),
		ipinfo.WithHTTPTimeout(a.cfg.LookupTimeout),
	}
	if a.cfg.LookupAPIKey != "" {
		opts = append(opts, ipinfo.WithAPIKey(a.cfg.LookupAPIKey))
	}
	if a.cfg.ProxyAddress != "" {
		opts = append(opts, ipinfo.WithProxy(a.cfg.ProxyAddress))
	}

	lookup, err := ipinfo.NewHTTPLookup(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup client: %w", err)
	}
	return ipinfo.NewResolver(lookup,
		ipinfo.WithTimeout(a.cfg.LookupTimeout),
		ipinfo.WithLogger(a.logger),
	), nil
}

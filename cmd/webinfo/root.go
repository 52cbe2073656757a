package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/webinfo/internal/config"
)

// NewRootCmd creates the root command for webinfo.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webinfo",
		Short: "Text transformation and IP lookup toolkit",
		Long: `webinfo bundles small, independent developer tools:

  url      percent-encode and decode text
  base64   encode and decode Base64 (standard or URL-safe alphabet)
  json     pretty-print, minify, validate and query JSON
  hash     compute SHA-1/256/384/512 and other digests
  ip       look up geolocation information for an IP address
  serve    expose all tools as an HTTP API

Input is taken from arguments, --file, or standard input.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .webinfo in current or home directory)")
	cmd.PersistentFlags().String("format", config.FormatText,
		"Output format: text, json or markdown")

	cmd.AddCommand(NewURLCmd())
	cmd.AddCommand(NewBase64Cmd())
	cmd.AddCommand(NewJSONCmd())
	cmd.AddCommand(NewHashCmd())
	cmd.AddCommand(NewIPCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

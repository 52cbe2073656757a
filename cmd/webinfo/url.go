package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nao1215/webinfo/internal/codec"
	"github.com/nao1215/webinfo/internal/model"
)

// NewURLCmd creates the url command.
func NewURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Percent-encode and decode text",
		Long: `Percent-encode text for use in URLs, or decode it again.

Every byte outside A-Z a-z 0-9 - _ . ~ is written as %XX. Decoding
does not treat '+' as a space.

Examples:
  webinfo url encode "a b&c=d"
  webinfo url decode "a%20b%26c%3Dd"
  cat urls.txt | webinfo url decode --lines`,
	}
	cmd.AddCommand(newURLEncodeCmd(), newURLDecodeCmd())
	return cmd
}

func newURLEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [text]",
		Short: "Percent-encode text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, args, model.ToolURLEncode, func(_ context.Context, s string) (string, error) {
				return codec.PercentEncode(s), nil
			})
		},
	}
	addInputFlags(cmd, true)
	return cmd
}

func newURLDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [text]",
		Short: "Decode percent-encoded text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, args, model.ToolURLDecode, func(_ context.Context, s string) (string, error) {
				return codec.PercentDecode(s)
			})
		},
	}
	addInputFlags(cmd, true)
	return cmd
}

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nao1215/webinfo/internal/codec"
	"github.com/nao1215/webinfo/internal/model"
)

// NewBase64Cmd creates the base64 command.
func NewBase64Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "base64",
		Short: "Encode and decode Base64",
		Long: `Encode text as Base64 or decode Base64 back to text.

The standard RFC 4648 alphabet with padding is used unless --url selects
the URL-safe alphabet. Decoding accepts unpadded input and ignores
surrounding whitespace; the decoded bytes must be UTF-8 text.

Examples:
  webinfo base64 encode hello
  webinfo base64 decode aGVsbG8=
  webinfo base64 encode --url --file token.json`,
	}
	cmd.PersistentFlags().Bool("url", false, "Use the URL-safe alphabet (- and _)")
	cmd.AddCommand(newBase64EncodeCmd(), newBase64DecodeCmd())
	return cmd
}

func base64VariantFlag(cmd *cobra.Command) codec.Variant {
	if urlSafe, _ := cmd.Flags().GetBool("url"); urlSafe {
		return codec.URLSafe
	}
	return codec.Standard
}

func newBase64EncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [text]",
		Short: "Encode text as Base64",
		RunE: func(cmd *cobra.Command, args []string) error {
			variant := base64VariantFlag(cmd)
			return runTool(cmd, args, model.ToolBase64Encode, func(_ context.Context, s string) (string, error) {
				return codec.EncodeBase64(s, variant), nil
			})
		},
	}
	addInputFlags(cmd, true)
	return cmd
}

func newBase64DecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [text]",
		Short: "Decode Base64 to text",
		RunE: func(cmd *cobra.Command, args []string) error {
			variant := base64VariantFlag(cmd)
			return runTool(cmd, args, model.ToolBase64Decode, func(_ context.Context, s string) (string, error) {
				return codec.DecodeBase64(s, variant)
			})
		},
	}
	addInputFlags(cmd, true)
	return cmd
}

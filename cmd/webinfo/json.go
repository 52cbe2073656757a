package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nao1215/webinfo/internal/input"
	"github.com/nao1215/webinfo/internal/jsonfmt"
	"github.com/nao1215/webinfo/internal/model"
)

// validMessage is printed by `json validate` for well-formed input.
const validMessage = "valid"

// NewJSONCmd creates the json command.
func NewJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json",
		Short: "Format, minify, validate and query JSON",
		Long: `Format JSON with two-space indentation, minify it, check that it is
well-formed, or extract a value with a gjson path.

Key order is preserved and integers are kept digit for digit. Errors
report the line and column of the problem.

Examples:
  echo '{"b":1,"a":[1,2]}' | webinfo json format
  webinfo json minify --file data.json
  webinfo json validate '{"a":}'
  webinfo json query user.name --file user.json`,
	}
	cmd.PersistentFlags().String("color", input.ColorAuto,
		"Colorize text output: auto, always or never")
	cmd.AddCommand(
		newJSONModeCmd("format", "Pretty-print JSON", model.ToolJSONFormat, jsonfmt.Pretty),
		newJSONModeCmd("minify", "Remove insignificant whitespace from JSON", model.ToolJSONMinify, jsonfmt.Minify),
		newJSONValidateCmd(),
		newJSONQueryCmd(),
	)
	return cmd
}

func newJSONModeCmd(use, short string, tool model.Tool, mode jsonfmt.Mode) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " [text]",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, args, tool, func(_ context.Context, s string) (string, error) {
				return jsonfmt.Format(s, mode)
			})
		},
	}
	addInputFlags(cmd, true)
	return cmd
}

func newJSONValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [text]",
		Short: "Check that the input is well-formed JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, args, model.ToolJSONValidate, func(_ context.Context, s string) (string, error) {
				if err := jsonfmt.Validate(s); err != nil {
					return "", err
				}
				return validMessage, nil
			})
		},
	}
	addInputFlags(cmd, true)
	return cmd
}

func newJSONQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <path> [text]",
		Short: "Extract a value by gjson path",
		Long: `Extract a value from JSON using gjson path syntax and print it formatted.

Examples:
  webinfo json query user.name '{"user":{"name":"gopher"}}'
  webinfo json query 'items.#.id' --minify --file items.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			mode := jsonfmt.Pretty
			if minify, _ := cmd.Flags().GetBool("minify"); minify {
				mode = jsonfmt.Minify
			}
			return runTool(cmd, args[1:], model.ToolJSONQuery, func(_ context.Context, s string) (string, error) {
				return jsonfmt.Query(s, path, mode)
			})
		},
	}
	cmd.Flags().Bool("minify", false, "Print the result minified")
	addInputFlags(cmd, false)
	return cmd
}

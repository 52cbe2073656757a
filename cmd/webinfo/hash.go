package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/webinfo/internal/digest"
	"github.com/nao1215/webinfo/internal/model"
)

// errDigestMismatch is returned by `hash --verify` when the digests differ.
var errDigestMismatch = errors.New("digest mismatch")

// NewHashCmd creates the hash command.
func NewHashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash [text]",
		Short: "Compute cryptographic digests",
		Long: `Compute hex digests of the UTF-8 bytes of the input.

Without --algo, SHA-1, SHA-256, SHA-384 and SHA-512 are printed.
Available algorithms: ` + algorithmList() + `

Examples:
  webinfo hash "hello world"
  webinfo hash --algo sha256,blake2b-256 --file CHANGELOG.md
  webinfo hash --algo sha256 --verify 2cf24dba... hello
  cat passwords.txt | webinfo hash --algo sha256 --lines`,
		RunE: runHashCmd,
	}
	cmd.Flags().StringSliceP("algo", "a", nil, "Algorithms to compute (comma separated)")
	cmd.Flags().String("verify", "", "Compare against an expected hex digest (requires a single --algo)")
	addInputFlags(cmd, true)
	return cmd
}

func algorithmList() string {
	names := make([]string, 0, len(digest.Algorithms()))
	for _, a := range digest.Algorithms() {
		names = append(names, string(a))
	}
	return strings.Join(names, ", ")
}

// parseAlgorithmFlag resolves --algo, which may be repeated or comma separated.
func parseAlgorithmFlag(cmd *cobra.Command) ([]digest.Algorithm, error) {
	names, err := cmd.Flags().GetStringSlice("algo")
	if err != nil {
		return nil, err
	}
	algorithms := make([]digest.Algorithm, 0, len(names))
	for _, name := range names {
		a, err := digest.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		algorithms = append(algorithms, a)
	}
	return algorithms, nil
}

func runHashCmd(cmd *cobra.Command, args []string) error {
	algorithms, err := parseAlgorithmFlag(cmd)
	if err != nil {
		return err
	}
	expected, err := cmd.Flags().GetString("verify")
	if err != nil {
		return err
	}
	if expected != "" && len(algorithms) != 1 {
		return errors.New("--verify requires exactly one --algo")
	}

	// Batch mode prints one digest per line, so it takes a single algorithm.
	if lines, _ := cmd.Flags().GetBool("lines"); lines {
		if len(algorithms) > 1 || expected != "" {
			return errors.New("--lines takes at most one --algo and no --verify")
		}
		alg := digest.SHA256
		if len(algorithms) == 1 {
			alg = algorithms[0]
		}
		return runTool(cmd, args, model.ToolHash, func(_ context.Context, s string) (string, error) {
			set, err := digest.Compute(s, alg)
			if err != nil {
				return "", err
			}
			return set.Get(alg), nil
		})
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	text, err := a.readInput(cmd, args)
	if err != nil {
		return err
	}

	set, err := digest.Compute(text, algorithms...)
	if err != nil {
		return err
	}
	r := model.NewDigestReport(set)

	var verifyErr error
	if expected != "" {
		ok, err := digest.Verify(text, algorithms[0], expected)
		if err != nil {
			return err
		}
		r.WithVerification(ok)
		if !ok {
			verifyErr = fmt.Errorf("%w for %s", errDigestMismatch, algorithms[0])
		}
	}

	if _, err := a.writer.WriteDigests(r); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return verifyErr
}

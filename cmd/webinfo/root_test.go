package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// emptyConfig writes an empty config file so tests never pick up a
// .webinfo from the working or home directory.
func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webinfo.yaml")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// execute runs the root command with stdin and returns stdout, stderr and
// the command error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", emptyConfig(t)}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "webinfo" {
			t.Errorf("expected use 'webinfo', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has global flags", func(t *testing.T) {
		t.Parallel()

		verbose := cmd.PersistentFlags().Lookup("verbose")
		if verbose == nil || verbose.Shorthand != "v" || verbose.DefValue != "false" {
			t.Errorf("unexpected verbose flag %+v", verbose)
		}
		configFlag := cmd.PersistentFlags().Lookup("config")
		if configFlag == nil || configFlag.Shorthand != "c" {
			t.Errorf("unexpected config flag %+v", configFlag)
		}
		format := cmd.PersistentFlags().Lookup("format")
		if format == nil || format.DefValue != "text" {
			t.Errorf("unexpected format flag %+v", format)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()

		want := map[string]bool{
			"url": false, "base64": false, "json": false, "hash": false,
			"ip": false, "serve": false, "init": false, "version": false,
		}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage || !cmd.SilenceErrors {
			t.Error("expected SilenceUsage and SilenceErrors to be true")
		}
	})
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	t.Run("invalid format is rejected", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, "", "--format", "xml", "url", "encode", "x")
		if err == nil || !strings.Contains(err.Error(), "format") {
			t.Errorf("expected format error, got %v", err)
		}
	})

	t.Run("missing explicit config is an error", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "url", "encode", "x"})
		err := cmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("config file sets the format", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "webinfo.yaml")
		if err := os.WriteFile(path, []byte("output:\n  format: json\n"), 0600); err != nil {
			t.Fatal(err)
		}

		var stdout bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&stdout)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--config", path, "url", "encode", "a b"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout.String(), `"output": "a%20b"`) {
			t.Errorf("expected JSON output, got %q", stdout.String())
		}
	})

	t.Run("flag overrides config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "webinfo.yaml")
		if err := os.WriteFile(path, []byte("output:\n  format: json\n"), 0600); err != nil {
			t.Fatal(err)
		}

		var stdout bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&stdout)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--config", path, "--format", "text", "url", "encode", "a b"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout.String() != "a%20b\n" {
			t.Errorf("expected text output, got %q", stdout.String())
		}
	})
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults should be intentional; these tests document them.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default LookupEndpoint is ipapi.co", func(t *testing.T) {
		t.Parallel()
		if cfg.LookupEndpoint != "https://ipapi.co/{ip}/json/" {
			t.Errorf("expected ipapi endpoint, got %q", cfg.LookupEndpoint)
		}
	})

	t.Run("default LookupTimeout is 5 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.LookupTimeout != 5*time.Second {
			t.Errorf("expected LookupTimeout to be 5s, got %v", cfg.LookupTimeout)
		}
	})

	t.Run("default ListenAddress is loopback", func(t *testing.T) {
		t.Parallel()
		if cfg.ListenAddress != "127.0.0.1:8080" {
			t.Errorf("expected ListenAddress 127.0.0.1:8080, got %q", cfg.ListenAddress)
		}
	})

	t.Run("default Format is text", func(t *testing.T) {
		t.Parallel()
		if cfg.Format != FormatText {
			t.Errorf("expected Format text, got %q", cfg.Format)
		}
	})

	t.Run("default config is valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected default config to be valid, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method, one rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.LookupTimeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.LookupTimeout = -time.Second },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "empty endpoint",
			mutate:  func(c *Config) { c.LookupEndpoint = "" },
			wantErr: ErrInvalidEndpoint,
		},
		{
			name:    "relative endpoint",
			mutate:  func(c *Config) { c.LookupEndpoint = "/{ip}/json" },
			wantErr: ErrInvalidEndpoint,
		},
		{
			name:    "ftp endpoint",
			mutate:  func(c *Config) { c.LookupEndpoint = "ftp://example.com/{ip}" },
			wantErr: ErrInvalidEndpoint,
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name:    "unknown format",
			mutate:  func(c *Config) { c.Format = "xml" },
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "zero lookup body size",
			mutate:  func(c *Config) { c.MaxLookupBodySize = 0 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name:    "zero input size",
			mutate:  func(c *Config) { c.MaxInputSize = 0 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name:    "proxy without port",
			mutate:  func(c *Config) { c.ProxyAddress = "127.0.0.1" },
			wantErr: ErrInvalidProxyAddress,
		},
		{
			name:    "empty listen address",
			mutate:  func(c *Config) { c.ListenAddress = " " },
			wantErr: ErrInvalidListenAddress,
		},
		{
			name:    "http endpoint with custom host is valid",
			mutate:  func(c *Config) { c.LookupEndpoint = "http://localhost:9999/lookup?ip={ip}" },
			wantErr: nil,
		},
		{
			name:    "valid proxy",
			mutate:  func(c *Config) { c.ProxyAddress = "127.0.0.1:9050" },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsValidProxyAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		address string
		want    bool
	}{
		{"127.0.0.1:9050", true},
		{"localhost:1080", true},
		{"[::1]:9050", true},
		{"127.0.0.1", false},
		{":9050", false},
		{"127.0.0.1:0", false},
		{"127.0.0.1:65536", false},
		{"127.0.0.1:abc", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			t.Parallel()
			if got := IsValidProxyAddress(tt.address); got != tt.want {
				t.Errorf("IsValidProxyAddress(%q) = %v, want %v", tt.address, got, tt.want)
			}
		})
	}
}

func TestXDGConfigDir(t *testing.T) {
	t.Parallel()

	dir := XDGConfigDir()
	if !strings.HasSuffix(dir, AppName) {
		t.Errorf("expected XDG config dir to end with %q, got %q", AppName, dir)
	}
}

// writeConfig writes content to a config file in a temp directory.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webinfo.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads all sections", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
lookup:
  endpoint: "https://geo.example.com/{ip}"
  timeout: 2s
  apiKey: "k-123"
  proxy: "127.0.0.1:9050"
  userAgent: "custom/1.0"
  maxBodySize: 2048
server:
  listen: "0.0.0.0:9000"
  maxInputSize: 4096
output:
  format: json
  batchSize: 3
  unmaskIPs: true
`)

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.LookupEndpoint != "https://geo.example.com/{ip}" {
			t.Errorf("unexpected endpoint %q", cfg.LookupEndpoint)
		}
		if cfg.LookupTimeout != 2*time.Second {
			t.Errorf("expected 2s timeout, got %v", cfg.LookupTimeout)
		}
		if cfg.LookupAPIKey != "k-123" {
			t.Errorf("unexpected api key %q", cfg.LookupAPIKey)
		}
		if cfg.ProxyAddress != "127.0.0.1:9050" {
			t.Errorf("unexpected proxy %q", cfg.ProxyAddress)
		}
		if cfg.UserAgent != "custom/1.0" {
			t.Errorf("unexpected user agent %q", cfg.UserAgent)
		}
		if cfg.MaxLookupBodySize != 2048 {
			t.Errorf("unexpected max body size %d", cfg.MaxLookupBodySize)
		}
		if cfg.ListenAddress != "0.0.0.0:9000" {
			t.Errorf("unexpected listen %q", cfg.ListenAddress)
		}
		if cfg.MaxInputSize != 4096 {
			t.Errorf("unexpected max input size %d", cfg.MaxInputSize)
		}
		if cfg.Format != FormatJSON {
			t.Errorf("unexpected format %q", cfg.Format)
		}
		if cfg.BatchSize != 3 {
			t.Errorf("unexpected batch size %d", cfg.BatchSize)
		}
		if !cfg.UnmaskIPs {
			t.Error("expected UnmaskIPs to be true")
		}
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "")
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)
		if cfg.LookupTimeout != DefaultLookupTimeout {
			t.Errorf("expected default timeout, got %v", cfg.LookupTimeout)
		}
		if cfg.LookupEndpoint != DefaultLookupEndpoint {
			t.Errorf("expected default endpoint, got %q", cfg.LookupEndpoint)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid duration is an error", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "lookup:\n  timeout: soon\n")
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid duration")
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "lookup: [unclosed\n")
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for malformed yaml")
		}
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("explicit missing path is an error", func(t *testing.T) {
		t.Parallel()

		_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("explicit path is applied", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "output:\n  format: markdown\n")
		cfg, used, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if used != path {
			t.Errorf("expected used path %q, got %q", path, used)
		}
		if cfg.Format != FormatMarkdown {
			t.Errorf("expected markdown format, got %q", cfg.Format)
		}
		if cfg.ConfigFilePath != path {
			t.Errorf("expected ConfigFilePath to be recorded, got %q", cfg.ConfigFilePath)
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path is returned", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "")
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}

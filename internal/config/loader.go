package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name looked up in the
// current and home directories.
const DefaultConfigFile = ".webinfo"

// xdgConfigFile is the file name inside XDGConfigDir().
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .webinfo configuration file.
// Every field is optional; zero values leave the corresponding default alone.
type File struct {
	Lookup LookupSection `yaml:"lookup,omitempty"`
	Server ServerSection `yaml:"server,omitempty"`
	Output OutputSection `yaml:"output,omitempty"`
}

// LookupSection configures the IP geolocation lookup.
type LookupSection struct {
	Endpoint    string   `yaml:"endpoint,omitempty"`
	Timeout     Duration `yaml:"timeout,omitempty"`
	APIKey      string   `yaml:"apiKey,omitempty"`
	Proxy       string   `yaml:"proxy,omitempty"`
	UserAgent   string   `yaml:"userAgent,omitempty"`
	MaxBodySize int64    `yaml:"maxBodySize,omitempty"`
}

// ServerSection configures `webinfo serve`.
type ServerSection struct {
	Listen       string `yaml:"listen,omitempty"`
	MaxInputSize int64  `yaml:"maxInputSize,omitempty"`
}

// OutputSection configures report output.
type OutputSection struct {
	Format    string `yaml:"format,omitempty"`
	BatchSize int    `yaml:"batchSize,omitempty"`
	UnmaskIPs bool   `yaml:"unmaskIPs,omitempty"`
}

// Duration is a time.Duration that unmarshals from YAML strings such as "5s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// LoadConfigFile loads a configuration file from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply overlays the non-zero values of the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	if cf.Lookup.Endpoint != "" {
		cfg.LookupEndpoint = cf.Lookup.Endpoint
	}
	if cf.Lookup.Timeout != 0 {
		cfg.LookupTimeout = time.Duration(cf.Lookup.Timeout)
	}
	if cf.Lookup.APIKey != "" {
		cfg.LookupAPIKey = cf.Lookup.APIKey
	}
	if cf.Lookup.Proxy != "" {
		cfg.ProxyAddress = cf.Lookup.Proxy
	}
	if cf.Lookup.UserAgent != "" {
		cfg.UserAgent = cf.Lookup.UserAgent
	}
	if cf.Lookup.MaxBodySize != 0 {
		cfg.MaxLookupBodySize = cf.Lookup.MaxBodySize
	}
	if cf.Server.Listen != "" {
		cfg.ListenAddress = cf.Server.Listen
	}
	if cf.Server.MaxInputSize != 0 {
		cfg.MaxInputSize = cf.Server.MaxInputSize
	}
	if cf.Output.Format != "" {
		cfg.Format = cf.Output.Format
	}
	if cf.Output.BatchSize != 0 {
		cfg.BatchSize = cf.Output.BatchSize
	}
	if cf.Output.UnmaskIPs {
		cfg.UnmaskIPs = true
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .webinfo in the current directory
// 3. Look for .webinfo in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// Load builds a Config from defaults and the configuration file.
// A missing file is only an error when configPath was given explicitly.
// The returned path is the file that was applied, or "" when none was found.
func Load(configPath string) (*Config, string, error) {
	cfg := NewConfig()
	cfg.ConfigFilePath = configPath

	path := FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, "", ErrConfigNotFound
		}
		return cfg, "", nil
	}

	cf, err := LoadConfigFile(path)
	if err != nil {
		return nil, path, err
	}
	cf.Apply(cfg)
	return cfg, path, nil
}

package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/quantmind-br/listaudit/internal/output"
)

// Default values
const (
	// Source defaults
	DefaultAllowlistPath = "allowlist"
	DefaultManifestPath  = "README.md"

	// Fetch defaults
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 0

	// Cache defaults
	DefaultCacheEnabled = false
	DefaultCacheTTL     = 1 * time.Hour

	// Output defaults
	DefaultOutputFormat = output.FormatText
	DefaultProgress     = true

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// LocalConfigFile is picked up from the working directory before the
// per-user config file
const LocalConfigFile = "listaudit.yaml"

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".listaudit"
	}
	return filepath.Join(home, ".listaudit")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Sources: SourcesConfig{
			Allowlist: DefaultAllowlistPath,
			Manifest:  DefaultManifestPath,
		},
		Fetch: FetchConfig{
			Timeout:    DefaultTimeout,
			MaxRetries: DefaultMaxRetries,
			UserAgent:  "",
			Proxy:      "",
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Output: OutputConfig{
			Format:   DefaultOutputFormat,
			Progress: DefaultProgress,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

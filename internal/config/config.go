package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/quantmind-br/listaudit/internal/domain"
	"github.com/quantmind-br/listaudit/internal/output"
)

// Config represents the application configuration
type Config struct {
	Sources SourcesConfig `mapstructure:"sources" yaml:"sources"`
	Fetch   FetchConfig   `mapstructure:"fetch" yaml:"fetch"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// SourcesConfig locates the allowlist and the manifest naming the blocklists
type SourcesConfig struct {
	Allowlist string `mapstructure:"allowlist" yaml:"allowlist"`
	Manifest  string `mapstructure:"manifest" yaml:"manifest"`
}

// FetchConfig contains remote retrieval settings
type FetchConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
	Proxy      string        `mapstructure:"proxy" yaml:"proxy"`
}

// CacheConfig contains cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// OutputConfig contains report settings
type OutputConfig struct {
	Format   string `mapstructure:"format" yaml:"format"`
	Progress bool   `mapstructure:"progress" yaml:"progress"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Sources.Allowlist == "" {
		c.Sources.Allowlist = DefaultAllowlistPath
	}
	if c.Sources.Manifest == "" {
		c.Sources.Manifest = DefaultManifestPath
	}
	if c.Fetch.Timeout < time.Second {
		c.Fetch.Timeout = DefaultTimeout
	}
	if c.Fetch.MaxRetries < 0 {
		c.Fetch.MaxRetries = DefaultMaxRetries
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.Directory == "" {
		c.Cache.Directory = CacheDir()
	}

	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	switch c.Output.Format {
	case "":
		c.Output.Format = DefaultOutputFormat
	case output.FormatText, output.FormatJSON, output.FormatYAML:
	default:
		return fmt.Errorf("invalid output.format %q: %w", c.Output.Format, domain.ErrUnsupportedFormat)
	}
	return nil
}

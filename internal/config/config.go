package config

import (
	"fmt"
	"time"

	"github.com/benbel/evolution-du-droit/internal/normalize"
)

// Config represents the application configuration
type Config struct {
	Codes     CodesConfig     `mapstructure:"codes" yaml:"codes"`
	Data      DataConfig      `mapstructure:"data" yaml:"data"`
	Local     LocalConfig     `mapstructure:"local" yaml:"local"`
	Remote    RemoteConfig    `mapstructure:"remote" yaml:"remote"`
	Generate  GenerateConfig  `mapstructure:"generate" yaml:"generate"`
	Normalize NormalizeConfig `mapstructure:"normalize" yaml:"normalize"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// CodesConfig locates the on-disk repository clones
type CodesConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// DataConfig locates the persisted output
type DataConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// LocalConfig contains local strategy settings
type LocalConfig struct {
	GitTimeout time.Duration `mapstructure:"git_timeout" yaml:"git_timeout"`
}

// RemoteConfig contains remote strategy settings
type RemoteConfig struct {
	Owner        string        `mapstructure:"owner" yaml:"owner"`
	Token        string        `mapstructure:"token" yaml:"token"`
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url"`
	MaxRetries   int           `mapstructure:"max_retries" yaml:"max_retries"`
	RequestDelay time.Duration `mapstructure:"request_delay" yaml:"request_delay"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Enabled reports whether the remote strategy can be used
func (c RemoteConfig) Enabled() bool {
	return c.Owner != ""
}

// GenerateConfig contains run settings
type GenerateConfig struct {
	// RecentLimit restricts detail generation to the N most recent
	// commits per repository; 0 processes the full history.
	RecentLimit int `mapstructure:"recent_limit" yaml:"recent_limit"`
	// IncludeUnchanged keeps context lines in detail records
	IncludeUnchanged bool `mapstructure:"include_unchanged" yaml:"include_unchanged"`
}

// NormalizeConfig contains the metadata filter pattern set
type NormalizeConfig struct {
	LabelPatterns     []string `mapstructure:"label_patterns" yaml:"label_patterns"`
	IdentifierPattern string   `mapstructure:"identifier_pattern" yaml:"identifier_pattern"`
}

// FilterConfig converts to the normalizer's config type, falling back
// to the built-in pattern set where fields are unset.
func (c NormalizeConfig) FilterConfig() normalize.Config {
	cfg := normalize.DefaultConfig()
	if len(c.LabelPatterns) > 0 {
		cfg.LabelPatterns = c.LabelPatterns
	}
	if c.IdentifierPattern != "" {
		cfg.IdentifierPattern = c.IdentifierPattern
	}
	return cfg
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration and applies floors for
// out-of-range values
func (c *Config) Validate() error {
	if c.Codes.Directory == "" {
		return fmt.Errorf("codes.directory is required")
	}
	if c.Data.Directory == "" {
		return fmt.Errorf("data.directory is required")
	}
	if c.Local.GitTimeout < time.Second {
		c.Local.GitTimeout = DefaultGitTimeout
	}
	if c.Remote.MaxRetries <= 0 {
		c.Remote.MaxRetries = DefaultRemoteMaxRetries
	}
	if c.Remote.RequestDelay < 0 {
		c.Remote.RequestDelay = DefaultRequestDelay
	}
	if c.Remote.Timeout < time.Second {
		c.Remote.Timeout = DefaultRemoteTimeout
	}
	if c.Generate.RecentLimit < 0 {
		c.Generate.RecentLimit = 0
	}
	return nil
}

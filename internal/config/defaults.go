package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	DefaultCodesDir = "./codes"
	DefaultDataDir  = "./data"

	DefaultGitTimeout = 60 * time.Second

	DefaultRemoteMaxRetries = 3
	DefaultRequestDelay     = 500 * time.Millisecond
	DefaultRemoteTimeout    = 30 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".evodroit"
	}
	return filepath.Join(home, ".evodroit")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Codes: CodesConfig{Directory: DefaultCodesDir},
		Data:  DataConfig{Directory: DefaultDataDir},
		Local: LocalConfig{GitTimeout: DefaultGitTimeout},
		Remote: RemoteConfig{
			MaxRetries:   DefaultRemoteMaxRetries,
			RequestDelay: DefaultRequestDelay,
			Timeout:      DefaultRemoteTimeout,
		},
		Generate: GenerateConfig{
			RecentLimit:      0,
			IncludeUnchanged: false,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

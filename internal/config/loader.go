package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults.
// Uses the global viper instance to access CLI flag bindings.
func Load() (*Config, error) {
	v := viper.GetViper()

	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables (EVODROIT_*)
	v.SetEnvPrefix("EVODROIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("codes.directory", DefaultCodesDir)
	v.SetDefault("data.directory", DefaultDataDir)

	v.SetDefault("local.git_timeout", DefaultGitTimeout)

	v.SetDefault("remote.owner", "")
	v.SetDefault("remote.token", "")
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.max_retries", DefaultRemoteMaxRetries)
	v.SetDefault("remote.request_delay", DefaultRequestDelay)
	v.SetDefault("remote.timeout", DefaultRemoteTimeout)

	v.SetDefault("generate.recent_limit", 0)
	v.SetDefault("generate.include_unchanged", false)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

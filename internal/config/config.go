// Package config handles configuration loading for git-summary.
// It supports XDG config paths and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ReposPathEnvVar names the environment variable consulted for the
// folder containing repositories when no path argument is given.
const ReposPathEnvVar = "GIT_SUMMARY_REPOS_PATH"

// Config holds all configuration for git-summary.
type Config struct {
	// ReposPath is the folder whose child repositories are summarised.
	ReposPath string `mapstructure:"repos_path"`
	// Workers is the size of the concurrent inspection pool.
	Workers int `mapstructure:"workers"`
	// ProbeTimeout bounds the terminal geometry probe.
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Workers:      8,
		ProbeTimeout: time.Second,
	}
}

// Load loads configuration from environment variables, the user config
// file, and built-in defaults, in that precedence order.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	v.SetEnvPrefix("GIT_SUMMARY")
	v.AutomaticEnv()
	v.BindEnv("repos_path", ReposPathEnvVar)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("repos_path", "")
	v.SetDefault("workers", 8)
	v.SetDefault("probe_timeout", "1s")
}

// getUserConfigDir returns the XDG config directory for git-summary.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "git-summary")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "git-summary")
	}
	return filepath.Join(home, ".config", "git-summary")
}

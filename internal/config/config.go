// Package config loads client configuration from the state directory's
// config.yaml with TENDERDESK_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved client configuration.
type Config struct {
	APIBaseURL    string `mapstructure:"api_base_url"`
	StateDir      string `mapstructure:"state_dir"`
	DownloadDir   string `mapstructure:"download_dir"`
	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
}

// DatabasePath returns the local cache database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.StateDir, "tenderdesk.db")
}

// Load reads config.yaml from the state dir (if present) and applies
// environment overrides. A missing config file is not an error.
func Load() (*Config, error) {
	stateDir := os.Getenv("TENDERDESK_STATE_DIR")
	if stateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		stateDir = filepath.Join(base, "tenderdesk")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(stateDir)

	v.SetEnvPrefix("TENDERDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_base_url", "http://localhost:8000/api")
	v.SetDefault("state_dir", stateDir)
	v.SetDefault("download_dir", defaultDownloadDir())
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 10)
	v.SetDefault("log_max_backups", 3)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return &cfg, nil
}

func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "downloads"
	}
	return filepath.Join(home, "Downloads")
}

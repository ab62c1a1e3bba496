package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the CLI needs before any service is wired.
type Config struct {
	// DataDir is the directory holding all vault state files.
	DataDir string
	// Encrypt toggles encryption at rest for credential and registry data.
	Encrypt bool
	// KeyFile is the at-rest encryption key path; relative paths resolve
	// against DataDir.
	KeyFile string
	// AuthLatency is the simulated round-trip delay on auth operations.
	AuthLatency time.Duration
	// LogLevel is one of zap's level names ("debug", "info", ...).
	LogLevel string
	// Dev switches the logger to the development encoder.
	Dev bool
}

// Load reads config.yaml from DataDir and the working directory, then applies
// SECUREVAULT_* environment overrides on top of the defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := defaultDataDir(); err == nil {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("SECUREVAULT")
	v.AutomaticEnv()

	if err := setDefaults(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg := &Config{
		DataDir:     v.GetString("data_dir"),
		Encrypt:     v.GetBool("encrypt"),
		KeyFile:     v.GetString("key_file"),
		AuthLatency: v.GetDuration("auth_latency"),
		LogLevel:    v.GetString("log_level"),
		Dev:         v.GetBool("dev"),
	}
	if !filepath.IsAbs(cfg.KeyFile) {
		cfg.KeyFile = filepath.Join(cfg.DataDir, cfg.KeyFile)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) error {
	dir, err := defaultDataDir()
	if err != nil {
		return err
	}
	v.SetDefault("data_dir", dir)
	v.SetDefault("encrypt", true)
	v.SetDefault("key_file", "vault.key")
	v.SetDefault("auth_latency", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("dev", false)
	return nil
}

func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".securevault"), nil
}

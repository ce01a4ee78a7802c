// Package config loads termwatch's own operating configuration — manager
// quotas, tick pacing, preset directory, logging — from a TOML file with
// environment-variable overrides, following the teacher's layered
// envconfig-with-defaults style but adding a file layer so operators can
// commit a config alongside their presets.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all termwatch configuration.
type Config struct {
	Manager ManagerConfig
	Logging LogConfig
}

// ManagerConfig holds session-manager tunables.
type ManagerConfig struct {
	MaxSessions  int           `toml:"max_sessions" envconfig:"MAX_SESSIONS"`
	IdleTimeout  time.Duration `toml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	SweepPeriod  time.Duration `toml:"sweep_period" envconfig:"SWEEP_PERIOD"`
	TickInterval time.Duration `toml:"tick_interval" envconfig:"TICK_INTERVAL"`
	PresetDir    string        `toml:"preset_dir" envconfig:"PRESET_DIR" default:""`
	LastLines    int           `toml:"last_lines" envconfig:"LAST_LINES"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `toml:"level" envconfig:"LOG_LEVEL"`
	Development bool   `toml:"development" envconfig:"LOG_DEV"`
}

// Default returns the built-in configuration used when no file or
// environment overrides are present.
func Default() *Config {
	return &Config{
		Manager: ManagerConfig{
			MaxSessions:  10,
			IdleTimeout:  30 * time.Minute,
			SweepPeriod:  60 * time.Second,
			TickInterval: 100 * time.Millisecond,
			LastLines:    10,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Load reads an optional TOML file at path (skipped if path is empty or
// the file does not exist), then applies environment variable overrides
// on top, matching the teacher's "env wins" convention.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("TERMWATCH", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads configuration from path and the environment,
// falling back to Default on any error.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return Default()
	}
	return cfg
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	coretypes "github.com/projecteru2/core/types"
)

// Config holds global Bollard configuration.
type Config struct {
	// DockerHost overrides DOCKER_HOST when set.
	DockerHost string `json:"docker_host" mapstructure:"docker_host"`
	// PoolSize bounds concurrent image inspects.
	// Defaults to runtime.NumCPU() if zero.
	PoolSize int `json:"pool_size" mapstructure:"pool_size"`
	// Columns is the column layout of `image ls` when --column is absent.
	Columns []string `json:"columns" mapstructure:"columns"`
	// ShortDigest truncates IDs and digests to 12 hex characters.
	ShortDigest bool `json:"short_digest" mapstructure:"short_digest"`
	// HighlightArchitecture marks images built for a foreign architecture.
	HighlightArchitecture bool `json:"highlight_architecture" mapstructure:"highlight_architecture"`
	// Log configuration, uses eru core's ServerLogConfig.
	Log coretypes.ServerLogConfig `json:"log" mapstructure:"log"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		PoolSize:              runtime.NumCPU(),
		Columns:               []string{"default"},
		ShortDigest:           true,
		HighlightArchitecture: true,
		Log: coretypes.ServerLogConfig{
			Level:      "info",
			MaxSize:    500,
			MaxAge:     28,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from file, falling back to defaults.
func LoadConfig(path string) (*Config, error) {
	conf := DefaultConfig()
	if path == "" {
		return conf, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // config path from CLI flag
	if err != nil {
		if os.IsNotExist(err) {
			return conf, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	conf.Normalize()
	return conf, nil
}

// Normalize fills zero values left by partial config sources.
func (c *Config) Normalize() {
	if c.PoolSize <= 0 {
		c.PoolSize = runtime.NumCPU()
	}
	if len(c.Columns) == 0 {
		c.Columns = []string{"default"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

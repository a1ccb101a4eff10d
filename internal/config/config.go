// Package config loads worker configuration: the embedding backend
// endpoint and logging options. The request document carries everything
// else. Values come from an optional YAML file with environment variables
// taking precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultModel is used when the request does not name a model.
const DefaultModel = "openai/clip-vit-large-patch14"

// BackendConfig holds connection details for the CLIP embeddings server.
type BackendConfig struct {
	BaseURL     string `yaml:"base_url" env:"CLIP_BACKEND_URL"`
	APIKey      string `yaml:"-" env:"CLIP_BACKEND_API_KEY"`
	Model       string `yaml:"model" env:"CLIP_MODEL"`
	TimeoutSecs int    `yaml:"timeout_secs" env:"CLIP_BACKEND_TIMEOUT_SECS"`
}

// Timeout returns the request timeout as a duration.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSecs) * time.Second
}

// Config is the root worker configuration.
type Config struct {
	LogLevel string        `yaml:"log_level" env:"CLIP_LOG_LEVEL"`
	Backend  BackendConfig `yaml:"backend"`
}

// SlogLevel maps the configured log level to slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads the optional YAML file at path, then overlays environment
// variables and fills remaining defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://127.0.0.1:7997/v1"
	}
	if cfg.Backend.Model == "" {
		cfg.Backend.Model = DefaultModel
	}
	if cfg.Backend.TimeoutSecs == 0 {
		cfg.Backend.TimeoutSecs = 120
	}
}

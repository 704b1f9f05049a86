// Package config provides unified configuration for the aichat client.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (AICHAT_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import (
	"time"

	"github.com/rhuss/aichat/pkg/api"
)

// Config holds all configuration for the aichat client.
type Config struct {
	Assistant AssistantConfig    `yaml:"assistant"`
	Provider  api.ProviderConfig `yaml:"provider"`
	Stream    StreamConfig       `yaml:"stream"`
	Docs      DocsConfig         `yaml:"docs"`
	Log       LogConfig          `yaml:"log"`
	Metrics   MetricsConfig      `yaml:"metrics"`
}

// AssistantConfig selects the deployment variant and its credentials.
type AssistantConfig struct {
	Version    api.Variant `yaml:"version"`      // default: "full-beta"
	APIKey     string      `yaml:"api_key"`      // required for live calls
	APIKeyFile string      `yaml:"api_key_file"` // _file variant for api_key
	Endpoint   string      `yaml:"endpoint"`     // required when version is "enterprise"
}

// StreamConfig holds reconnect settings for the streaming client.
type StreamConfig struct {
	MaxRetries    int           `yaml:"max_retries"`    // default: 2
	RetryInterval time.Duration `yaml:"retry_interval"` // default: 1s
}

// DocsConfig controls documentation endpoint selection. UseLocal is a
// string so boolean-ish values such as "1" or "true" are accepted.
type DocsConfig struct {
	UseLocal string `yaml:"use_local"`
}

// LogConfig holds slog and debug category settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // default: "INFO"
	Format string `yaml:"format"` // "text" or "json", default: "text"
	Debug  string `yaml:"debug"`  // comma-separated debug categories
}

// MetricsConfig holds the optional Prometheus listener.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the listener
	Path string `yaml:"path"` // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Assistant: AssistantConfig{
			Version: api.VariantFullBeta,
		},
		Stream: StreamConfig{
			MaxRetries:    2,
			RetryInterval: time.Second,
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
	}
}

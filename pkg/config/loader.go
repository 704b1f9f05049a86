package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rhuss/aichat/pkg/api"
	"github.com/rhuss/aichat/pkg/debug"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, AICHAT_CONFIG env, ./config.yaml, /etc/aichat/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
		debug.Log("config", "loaded config file", "path", filePath)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. AICHAT_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/aichat/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("AICHAT_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/aichat/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps AICHAT_* environment variables to config fields.
// Numeric values that fail to parse are reported as errors.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("AICHAT_API_KEY"); v != "" {
		cfg.Assistant.APIKey = v
	}
	if v := os.Getenv("AICHAT_VERSION"); v != "" {
		cfg.Assistant.Version = api.Variant(strings.TrimSpace(v))
	}
	if v := os.Getenv("AICHAT_ENDPOINT"); v != "" {
		cfg.Assistant.Endpoint = v
	}
	if v := os.Getenv("AICHAT_MODEL"); v != "" {
		cfg.Provider.Model = v
	}
	if v := os.Getenv("AICHAT_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("AICHAT_TEMPERATURE: %w", err)
		}
		cfg.Provider.Temperature = &t
	}
	if v := os.Getenv("AICHAT_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AICHAT_MAX_TOKENS: %w", err)
		}
		cfg.Provider.MaxTokens = &n
	}
	if v := os.Getenv("AICHAT_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AICHAT_MAX_RETRIES: %w", err)
		}
		cfg.Stream.MaxRetries = n
	}
	if v := os.Getenv("AICHAT_RETRY_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("AICHAT_RETRY_INTERVAL: %w", err)
		}
		cfg.Stream.RetryInterval = d
	}
	if v, ok := os.LookupEnv("AICHAT_USE_LOCAL_DOCS"); ok {
		cfg.Docs.UseLocal = v
	}
	if v := os.Getenv("AICHAT_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	return nil
}

// resolveFileReferences reads _file fields and populates the corresponding
// value fields when those are empty.
func resolveFileReferences(cfg *Config) error {
	if cfg.Assistant.APIKeyFile != "" && cfg.Assistant.APIKey == "" {
		val, err := readSecretFile(cfg.Assistant.APIKeyFile)
		if err != nil {
			return fmt.Errorf("assistant.api_key_file: %w", err)
		}
		cfg.Assistant.APIKey = val
	}
	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

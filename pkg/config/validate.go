package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rhuss/aichat/pkg/api"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
//
// The deployment variant itself is not restricted here: non-live variants
// are legal configuration and are rejected at call time instead.
func (c *Config) Validate() error {
	var errs []error

	if c.Assistant.Version == "" {
		errs = append(errs, fmt.Errorf("assistant.version is required"))
	}

	// enterprise routes every call to a customer endpoint.
	if c.Assistant.Version == api.VariantEnterprise {
		if c.Assistant.Endpoint == "" {
			errs = append(errs, fmt.Errorf("assistant.endpoint is required when assistant.version is %q", api.VariantEnterprise))
		} else if err := validateURL(c.Assistant.Endpoint); err != nil {
			errs = append(errs, fmt.Errorf("assistant.endpoint: %w", err))
		}
	}

	if c.Stream.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("stream.max_retries must be >= 0, got %d", c.Stream.MaxRetries))
	}
	if c.Stream.RetryInterval < 0 {
		errs = append(errs, fmt.Errorf("stream.retry_interval must be >= 0, got %s", c.Stream.RetryInterval))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "":
		// valid
	default:
		errs = append(errs, fmt.Errorf("log.format must be \"text\" or \"json\", got %q", c.Log.Format))
	}

	if c.Metrics.Addr != "" && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with \"/\", got %q", c.Metrics.Path))
	}

	return errors.Join(errs...)
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

package config

import (
	"github.com/baalimago/go_away_boilerplate/pkg/misc"

	"github.com/rhuss/aichat/pkg/api"
)

// Store exposes a loaded Config as the read-only settings store consumed
// by the assistant and docs packages.
type Store struct {
	cfg Config
}

// NewStore snapshots cfg. Later changes to cfg are not observed.
func NewStore(cfg *Config) *Store {
	return &Store{cfg: *cfg}
}

// APIKey returns the bearer credential for the backend.
func (s *Store) APIKey() string {
	return s.cfg.Assistant.APIKey
}

// Version returns the deployment variant.
func (s *Store) Version() api.Variant {
	return s.cfg.Assistant.Version
}

// Endpoint returns the enterprise completion endpoint.
func (s *Store) Endpoint() string {
	return s.cfg.Assistant.Endpoint
}

// UseLocalDocs reports whether the local documentation server is preferred.
func (s *Store) UseLocalDocs() bool {
	return misc.Truthy(s.cfg.Docs.UseLocal)
}

// Provider returns a copy of the configured provider settings.
func (s *Store) Provider() api.ProviderConfig {
	return s.cfg.Provider
}

package authkit

import (
	"github.com/authkit/authkit/pkg/config"
	"github.com/authkit/authkit/pkg/endpoint"
	"github.com/authkit/authkit/pkg/hasher"
	"github.com/authkit/authkit/pkg/session"
	"github.com/authkit/authkit/pkg/userstore"
)

// Config aggregates the per-component configuration. Each section validates
// itself, and the engine refuses to construct on any invalid section.
type Config struct {
	API     endpoint.Config
	Session session.Config
	Hash    hasher.Config
	DB      userstore.Config
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		API:     endpoint.DefaultConfig(),
		Session: session.DefaultConfig(),
		Hash:    hasher.DefaultConfig(),
		DB:      userstore.DefaultConfig(),
	}
}

// LoadConfig populates every section from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg.API); err != nil {
		return cfg, err
	}
	if err := config.Load(&cfg.Session); err != nil {
		return cfg, err
	}
	if err := config.Load(&cfg.Hash); err != nil {
		return cfg, err
	}
	if err := config.Load(&cfg.DB); err != nil {
		return cfg, err
	}
	return cfg, nil
}

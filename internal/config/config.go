package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the service configuration, loaded from environment variables.
type Config struct {
	Port         int    `env:"PORT" envDefault:"8008"`
	StoreID      string `env:"CACHE_STORE_ID" envDefault:"cache-store"`
	StoreVersion int    `env:"CACHE_STORE_VERSION" envDefault:"1"`
	Verbose      bool   `env:"CACHE_VERBOSE" envDefault:"false"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

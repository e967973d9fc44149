package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Addr       string `env:"CRM_ADDR" envDefault:":8080"`
	DBPath     string `env:"CRM_DB" envDefault:"crm.db"`
	AuthSecret string `env:"CRM_AUTH_SECRET"`
	SeedDemo   bool   `env:"CRM_SEED_DEMO" envDefault:"true"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// defaultJWTSecret mirrors the envDefault on JWT.Secret.
const defaultJWTSecret = "dev_secret"

// Load reads an optional .env file into the process environment and parses Config.
// A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	// references are <prefix>-<millis>-<orderID> and split on "-"
	if c.Lava.OrderPrefix == "" || strings.Contains(c.Lava.OrderPrefix, "-") {
		return fmt.Errorf("LAVA_ORDER_PREFIX %q must be non-empty and must not contain '-'", c.Lava.OrderPrefix)
	}
	if c.Environment.IsProduction() && (c.JWT.Secret == "" || c.JWT.Secret == defaultJWTSecret) {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

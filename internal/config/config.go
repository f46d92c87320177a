// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/msomdec/lovebridge/internal/i18n"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"lovebridge.db"`
	JWTSecret    string `env:"JWT_SECRET"`
	BcryptCost   int    `env:"BCRYPT_COST" envDefault:"12"`
	// Secure cookies by default; disable only for local development.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`

	AllowInitiatorResponse bool `env:"MATCH_ALLOW_INITIATOR_RESPONSE" envDefault:"false"`
	DiscoveryRanked        bool `env:"DISCOVERY_RANKED" envDefault:"false"`
	DiscoveryDefaultLimit  int  `env:"DISCOVERY_DEFAULT_LIMIT" envDefault:"20"`
	ProposeRatePerMinute   int  `env:"PROPOSE_RATE_PER_MINUTE" envDefault:"30"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	DefaultLocale      string   `env:"DEFAULT_LOCALE" envDefault:"en"`
	SeedGifts          bool     `env:"SEED_GIFTS" envDefault:"true"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable is required"))
	} else if len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost))
	}
	if c.DiscoveryDefaultLimit < 1 || c.DiscoveryDefaultLimit > 100 {
		errs = append(errs, fmt.Errorf("DISCOVERY_DEFAULT_LIMIT must be between 1 and 100, got %d", c.DiscoveryDefaultLimit))
	}
	if c.ProposeRatePerMinute < 1 {
		errs = append(errs, fmt.Errorf("PROPOSE_RATE_PER_MINUTE must be positive, got %d", c.ProposeRatePerMinute))
	}
	if !i18n.Default().Has(c.DefaultLocale) {
		errs = append(errs, fmt.Errorf("DEFAULT_LOCALE %q has no message catalog", c.DefaultLocale))
	}
	return errors.Join(errs...)
}

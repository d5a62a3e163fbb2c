package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	DatabaseURL       string `env:"DATABASE_URL" env-default:"okrs.db"`
	JWTSecret         string `env:"JWT_SECRET" env-default:"your-secret-key-change-in-production"`
	Port              string `env:"PORT" env-default:"8080"`
	LogLevel          string `env:"LOG_LEVEL" env-default:"info"`
	DBLogLevel        string `env:"DB_LOG_LEVEL" env-default:"warn"`
	FCMServiceAccount string `env:"FCM_SERVICE_ACCOUNT" env-default:""`

	// AtomicPropagation runs a key-result mutation and the objective score
	// recompute in one transaction. Off by default: propagation is best
	// effort and never undoes the primary write.
	AtomicPropagation bool `env:"ATOMIC_PROPAGATION" env-default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UsesDefaultSecret is true when JWT_SECRET was not overridden.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

func (c *Config) validate() error {
	switch c.DBLogLevel {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("invalid DB_LOG_LEVEL %q: want silent, error, warn or info", c.DBLogLevel)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

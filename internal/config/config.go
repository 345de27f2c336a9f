package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
)

type Config struct {
	DBDriver       string `env:"MSGSTORE_DB_DRIVER" envDefault:"sqlite"`
	DatabaseURL    string `env:"MSGSTORE_DATABASE_URL"`
	MigrationsPath string `env:"MSGSTORE_MIGRATIONS_PATH" envDefault:"migrations/postgres"`

	// Cache configuration
	RedisURL    string `env:"MSGSTORE_REDIS_URL"`                           // Optional; in-memory cache otherwise
	CachePrefix string `env:"MSGSTORE_CACHE_PREFIX" envDefault:"msgstore:"` // Redis key prefix
	CacheTTL    int    `env:"MSGSTORE_CACHE_TTL" envDefault:"3600"`         // Seconds, 0 = no expiry

	// Language of CLI output.
	Locale string `env:"MSGSTORE_LOCALE" envDefault:"en"`
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Load reads an optional .env file, parses the environment and validates it.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applies defaults that depend on the driver and checks the values.
func (c *Config) validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))

	switch c.DBDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			c.DatabaseURL = "./data/msgstore.db"
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			// Local default when MSGSTORE_DATABASE_URL is not provided.
			c.DatabaseURL = "postgres://localhost:5432/msgstore?sslmode=disable"
		}
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: invalid MSGSTORE_DATABASE_URL (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: invalid MSGSTORE_DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
		}
	case DriverMySQL:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("config: MSGSTORE_DATABASE_URL is required for the mysql driver")
		}
	default:
		return fmt.Errorf("config: unknown MSGSTORE_DB_DRIVER %q (want postgres, sqlite or mysql)", c.DBDriver)
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("config: MSGSTORE_CACHE_TTL must not be negative")
	}

	if c.UseRedisCache() {
		if _, err := url.Parse(c.RedisURL); err != nil {
			return fmt.Errorf("config: invalid MSGSTORE_REDIS_URL: %w", err)
		}
	}

	return nil
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type StorageBackend string

const (
	StorageMemory   StorageBackend = "memory"
	StorageSQLite   StorageBackend = "sqlite"
	StoragePostgres StorageBackend = "postgres"
)

// Config is the API server configuration, read from the environment.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	StorageBackend StorageBackend `env:"STORAGE_BACKEND" envDefault:"memory"`
	DatabaseURL    string         `env:"DATABASE_URL"`
	SQLitePath     string         `env:"SQLITE_PATH" envDefault:"family-planner.db"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat          string   `env:"LOG_FORMAT" envDefault:"text"`

	// IdempotencyTTL bounds how long in-memory idempotency records are replayed.
	IdempotencyTTL  time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment into a Config and checks cross-field rules.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.StorageBackend = StorageBackend(strings.ToLower(strings.TrimSpace(string(cfg.StorageBackend))))

	switch cfg.StorageBackend {
	case StorageMemory:
	case StorageSQLite:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			return Config{}, fmt.Errorf("SQLITE_PATH must be set when STORAGE_BACKEND=sqlite")
		}
	case StoragePostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when STORAGE_BACKEND=postgres")
		}
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be one of memory, sqlite, postgres (got %q)", cfg.StorageBackend)
	}
	return cfg, nil
}

// ParseEnv fills target from environment variables using env struct tags.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/charvault/internal/api"
	"github.com/mcoot/charvault/internal/factory"
	"github.com/mcoot/charvault/internal/services/auth"
	"github.com/mcoot/charvault/internal/storage/postgres"
	redisstorage "github.com/mcoot/charvault/internal/storage/redis"
)

// Config is the server configuration, read from the environment at startup.
type Config struct {
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT"             envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	StorageType    string `env:"STORAGE_TYPE"     envDefault:"memory"`
	RedisURL       string `env:"REDIS_URL"`
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`

	// JWTSecret is removed from the process environment once read
	JWTSecret  string        `env:"JWT_SECRET,required,unset"`
	TokenTTL   time.Duration `env:"TOKEN_TTL"   envDefault:"1h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`

	LogLevel       slog.Level `env:"LOG_LEVEL"       envDefault:"info"`
	MetricsEnabled bool       `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads configuration from the process environment and validates it.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads configuration from the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that the environment parser cannot.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}

	switch c.StorageType {
	case factory.StorageTypeMemory:
	case factory.StorageTypeRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL required when STORAGE_TYPE=redis"))
		}
	case factory.StorageTypePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL required when STORAGE_TYPE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_TYPE %q must be memory, redis or postgres", c.StorageType))
	}

	if len(c.JWTSecret) < auth.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", auth.MinSecretLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.BcryptCost < auth.MinBcryptCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be at least %d", auth.MinBcryptCost))
	}

	return errors.Join(errs...)
}

// Factory builds the application factory config
func (c *Config) Factory(logger *slog.Logger) factory.Config {
	cfg := factory.Config{
		Logger:      logger,
		StorageType: c.StorageType,
		Migrate:     c.MigrateOnStart,
		Auth: factory.AuthConfig{
			JWTSecret:  []byte(c.JWTSecret),
			TokenTTL:   c.TokenTTL,
			BcryptCost: c.BcryptCost,
		},
	}

	switch c.StorageType {
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		cfg.RedisConfig = &redisCfg
	case factory.StorageTypePostgres:
		pgCfg := postgres.DefaultConfig()
		pgCfg.URL = c.DatabaseURL
		cfg.PostgresConfig = &pgCfg
	}

	return cfg
}

// Server builds the HTTP server config
func (c *Config) Server() api.ServerConfig {
	cfg := api.DefaultServerConfig()
	cfg.Host = c.Host
	cfg.Port = c.Port
	cfg.ShutdownTimeout = c.ShutdownTimeout
	return cfg
}

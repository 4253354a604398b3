package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/charvault/internal/dependencies/clock"
	"github.com/mcoot/charvault/internal/dependencies/idgen"
	"github.com/mcoot/charvault/internal/services/auth"
	"github.com/mcoot/charvault/internal/services/character"
	"github.com/mcoot/charvault/internal/services/item"
	"github.com/mcoot/charvault/internal/storage"
	"github.com/mcoot/charvault/internal/storage/memory"
	"github.com/mcoot/charvault/internal/storage/postgres"
	redisstorage "github.com/mcoot/charvault/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage is the single store shared by every service
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   idgen.Generator

	// Services
	Tokens           *auth.TokenIssuer
	AuthService      *auth.Service
	CharacterService *character.Service
	ItemService      *item.Service
}

// AuthConfig holds the credential and token settings
type AuthConfig struct {
	// JWTSecret signs bearer tokens; at least auth.MinSecretLength bytes
	JWTSecret []byte
	// TokenTTL defaults to auth.DefaultTokenTTL when zero
	TokenTTL time.Duration
	// BcryptCost defaults to auth.MinBcryptCost when zero
	BcryptCost int
}

// Config holds configuration for the application factory
type Config struct {
	Auth AuthConfig
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds database settings (required if StorageType is "postgres")
	PostgresConfig *postgres.Config
	// Migrate applies pending schema migrations before the postgres store is used
	Migrate bool
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	clk := clock.New()
	app, err := newWithDependencies(store, clk, idgen.NewULID(clk), cfg.Auth, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return app, nil
}

func newStorage(ctx context.Context, cfg Config, logger *slog.Logger) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil

	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(ctx, *cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		return redisStore, nil

	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		if cfg.Migrate {
			if err := migrate(cfg.PostgresConfig.URL, logger); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.Connect(ctx, *cfg.PostgresConfig, logger)
		if err != nil {
			return nil, err
		}
		return postgres.New(pool), nil

	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'postgres'", storageType)
	}
}

func migrate(databaseURL string, logger *slog.Logger) (err error) {
	m, err := postgres.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, m.Close())
	}()

	if err := m.Up(); err != nil {
		return err
	}
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	logger.Info("database schema ready", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	return nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, ids idgen.Generator, authCfg AuthConfig, logger *slog.Logger) (*App, error) {
	cost := authCfg.BcryptCost
	if cost == 0 {
		cost = auth.MinBcryptCost
	}
	hasher, err := auth.NewBcryptHasher(cost)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenIssuer(authCfg.JWTSecret, authCfg.TokenTTL, clk, ids)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:          store,
		Clock:            clk,
		IDs:              ids,
		Tokens:           tokens,
		AuthService:      auth.New(store, hasher, tokens, clk, logger),
		CharacterService: character.New(store, clk, logger),
		ItemService:      item.New(store, logger),
	}, nil
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}

package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/charvault/internal/factory"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"JWT_SECRET": secret})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, factory.StorageTypeMemory, cfg.StorageType)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.MetricsEnabled)
	assert.True(t, cfg.MigrateOnStart)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"JWT_SECRET":      secret,
		"HOST":            "127.0.0.1",
		"PORT":            "9000",
		"STORAGE_TYPE":    "postgres",
		"DATABASE_URL":    "postgres://u:p@localhost:5432/charvault",
		"TOKEN_TTL":       "15m",
		"BCRYPT_COST":     "12",
		"LOG_LEVEL":       "debug",
		"METRICS_ENABLED": "false",
	})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.MetricsEnabled)

	fc := cfg.Factory(nil)
	require.NotNil(t, fc.PostgresConfig)
	assert.Equal(t, "postgres://u:p@localhost:5432/charvault", fc.PostgresConfig.URL)
	assert.Nil(t, fc.RedisConfig)
	assert.True(t, fc.Migrate)
	assert.Equal(t, []byte(secret), fc.Auth.JWTSecret)

	sc := cfg.Server()
	assert.Equal(t, "127.0.0.1", sc.Host)
	assert.Equal(t, 9000, sc.Port)
}

func TestLoadRequiresSecret(t *testing.T) {
	_, err := LoadFrom(map[string]string{})
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"short secret", map[string]string{"JWT_SECRET": "short"}, "JWT_SECRET must be at least"},
		{"weak bcrypt", map[string]string{"JWT_SECRET": secret, "BCRYPT_COST": "4"}, "BCRYPT_COST"},
		{"zero ttl", map[string]string{"JWT_SECRET": secret, "TOKEN_TTL": "0s"}, "TOKEN_TTL"},
		{"bad storage", map[string]string{"JWT_SECRET": secret, "STORAGE_TYPE": "sqlite"}, "STORAGE_TYPE"},
		{"redis without url", map[string]string{"JWT_SECRET": secret, "STORAGE_TYPE": "redis"}, "REDIS_URL"},
		{"postgres without url", map[string]string{"JWT_SECRET": secret, "STORAGE_TYPE": "postgres"}, "DATABASE_URL"},
		{"port range", map[string]string{"JWT_SECRET": secret, "PORT": "70000"}, "PORT"},
		{"bad duration", map[string]string{"JWT_SECRET": secret, "TOKEN_TTL": "soon"}, "parse env"},
		{"bad level", map[string]string{"JWT_SECRET": secret, "LOG_LEVEL": "loud"}, "parse env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.vars)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestFactoryRedis(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"JWT_SECRET":   secret,
		"STORAGE_TYPE": "redis",
		"REDIS_URL":    "redis://localhost:6379/1",
	})
	require.NoError(t, err)

	fc := cfg.Factory(nil)
	require.NotNil(t, fc.RedisConfig)
	assert.Equal(t, "redis://localhost:6379/1", fc.RedisConfig.URL)
	assert.Nil(t, fc.PostgresConfig)
}

package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOST_IP", "REST_PORT", "GIN_MODE", "LOG_LEVEL", "JWT_SECRET", "JWT_ISSUER",
		"TOKEN_TTL", "PROGRESS_BACKEND", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASS", "DB_NAME", "SQLITE_PATH", "MAZE_MAX_ATTEMPTS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_SECRET", "secret")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
		assert.Equal(t, "release", cfg.GinMode)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
		assert.Equal(t, BackendMemory, cfg.ProgressBackend)
		assert.Equal(t, 1000, cfg.MazeMaxAttempts)
	})

	t.Run("missing secret", func(t *testing.T) {
		clearEnv(t)

		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("redis backend", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("PROGRESS_BACKEND", BackendRedis)
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("REDIS_DB", "3")
		t.Setenv("TOKEN_TTL", "90m")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, 3, cfg.RedisDB)
		assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	})

	t.Run("redis backend needs an address", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("PROGRESS_BACKEND", BackendRedis)

		_, err := Load()
		assert.ErrorContains(t, err, "REDIS_ADDR")
	})

	t.Run("mongo backend", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("PROGRESS_BACKEND", BackendMongo)
		t.Setenv("DB_HOST", "db")
		t.Setenv("DB_USER", "root")
		t.Setenv("DB_PASS", "pw")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "mongodb://root:pw@db:27017", cfg.MongoURI())
		assert.Equal(t, "labirinto", cfg.DBName)
	})

	t.Run("sqlite backend", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("PROGRESS_BACKEND", BackendSQLite)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "./data/labirinto.db", cfg.SQLitePath)
	})

	t.Run("malformed values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("REST_PORT", "eighty")

		_, err := Load()
		assert.ErrorContains(t, err, "REST_PORT")

		t.Setenv("REST_PORT", "")
		t.Setenv("TOKEN_TTL", "forever")
		_, err = Load()
		assert.ErrorContains(t, err, "TOKEN_TTL")
	})

	t.Run("unknown backend", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("PROGRESS_BACKEND", "sqlite")

		_, err := Load()
		assert.ErrorContains(t, err, "PROGRESS_BACKEND")
	})
}

func TestLogger(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	require.NoError(t, SetLogLevel("INFO"))
	assert.Error(t, SetLogLevel("loud"))

	var buf bytes.Buffer
	logger := NewLoggerTo("LEVEL", &buf)
	logger.Info().Int("mazeLevel", 3).Msg("session started")
	logger.Debug().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, "[LEVEL]")
	assert.Contains(t, out, "session started")
	assert.Contains(t, out, "mazeLevel=3")
	assert.NotContains(t, out, "hidden")
}

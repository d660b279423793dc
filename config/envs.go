package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Progress store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP          string        // Host IP for the server
	RESTPort        int           // Port for the REST API
	GinMode         string        // Mode for the Gin framework (e.g., release, debug, test)
	LogLevel        string        // Minimum zerolog level (e.g., debug, info, warn)
	JWTSecret       string        // Secret key for JWT signing
	JWTIssuer       string        // Issuer claim for JWTs
	TokenTTL        time.Duration // Lifetime of issued access tokens
	ProgressBackend string        // Where players and progress live: memory, redis, mongo or sqlite
	RedisAddr       string        // host:port of the redis server
	RedisPassword   string        // Password for the redis server
	RedisDB         int           // Redis logical database
	DBHost          string        // Hostname or IP address for the database
	DBPort          int           // Port number for the database
	DBUser          string        // Username for the database
	DBPassword      string        // Password for the database
	DBName          string        // Name of the database
	SQLitePath      string        // Database file of the sqlite backend
	MazeMaxAttempts int           // Upper bound on maze generation attempts per level
}

// MongoURI returns the connection string built from the DB_* settings.
func (c *Config) MongoURI() string {
	if c.DBUser == "" {
		return fmt.Sprintf("mongodb://%s:%d", c.DBHost, c.DBPort)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%d", c.DBUser, c.DBPassword, c.DBHost, c.DBPort)
}

// Addr returns the listen address of the REST API.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HostIP, c.RESTPort)
}

// Load reads a .env file when one is present and builds the configuration
// from the environment. Missing required keys and malformed values are
// reported as errors.
func Load() (*Config, error) {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	l := &loader{}
	cfg := &Config{
		HostIP:          l.withDefault("HOST_IP", "0.0.0.0"),
		RESTPort:        l.intWithDefault("REST_PORT", 8080),
		GinMode:         l.withDefault("GIN_MODE", "release"),
		LogLevel:        l.withDefault("LOG_LEVEL", "info"),
		JWTSecret:       l.must("JWT_SECRET"),
		JWTIssuer:       l.withDefault("JWT_ISSUER", "labirinto"),
		TokenTTL:        l.durationWithDefault("TOKEN_TTL", 24*time.Hour),
		ProgressBackend: l.withDefault("PROGRESS_BACKEND", BackendMemory),
		MazeMaxAttempts: l.intWithDefault("MAZE_MAX_ATTEMPTS", 1000),
	}

	switch cfg.ProgressBackend {
	case BackendMemory:
	case BackendRedis:
		cfg.RedisAddr = l.must("REDIS_ADDR")
		cfg.RedisPassword = l.withDefault("REDIS_PASSWORD", "")
		cfg.RedisDB = l.intWithDefault("REDIS_DB", 0)
	case BackendMongo:
		cfg.DBHost = l.must("DB_HOST")
		cfg.DBPort = l.intWithDefault("DB_PORT", 27017)
		cfg.DBUser = l.withDefault("DB_USER", "")
		cfg.DBPassword = l.withDefault("DB_PASS", "")
		cfg.DBName = l.withDefault("DB_NAME", "labirinto")
	case BackendSQLite:
		cfg.SQLitePath = l.withDefault("SQLITE_PATH", "./data/labirinto.db")
	default:
		l.fail(fmt.Errorf("PROGRESS_BACKEND must be one of %s, %s, %s or %s, got %q",
			BackendMemory, BackendRedis, BackendMongo, BackendSQLite, cfg.ProgressBackend))
	}

	if l.err != nil {
		return nil, l.err
	}
	return cfg, nil
}

// loader collects the first error hit while reading the environment so Load
// can stay a flat list of keys.
type loader struct {
	err error
}

func (l *loader) fail(err error) {
	if l.err == nil {
		l.err = err
	}
}

// must retrieves the value of an environment variable or records an error if not set.
func (l *loader) must(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		l.fail(fmt.Errorf("environment variable %s is not set", key))
	}
	return value
}

// withDefault retrieves the value of an environment variable or returns a default value if not set.
func (l *loader) withDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func (l *loader) intWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		l.fail(fmt.Errorf("environment variable %s must be an integer: %w", key, err))
	}
	return value
}

func (l *loader) durationWithDefault(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		l.fail(fmt.Errorf("environment variable %s must be a duration: %w", key, err))
	}
	return value
}

package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration, populated from environment
// variables (and an optional .env file in development).
type Config struct {
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	Server  ServerConfig
	Logger  LoggerConfig
	Auth    AuthConfig
	Sources SourcesConfig
	State   StateConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
}

// Address returns the server listen address.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"` // "json" or "console"
}

// AuthConfig holds API authentication configuration. An empty key disables
// authentication; the storefront is a public browse surface by default.
type AuthConfig struct {
	APIKey string `envconfig:"API_KEY"`
}

// SourcesConfig holds the upstream catalog API endpoints. Each upstream call
// carries Timeout as a hard deadline so a hung source cannot stall a fan-out
// slot indefinitely.
type SourcesConfig struct {
	Timeout      time.Duration `envconfig:"SOURCE_TIMEOUT" default:"10s"`
	FakeStoreURL string        `envconfig:"FAKESTORE_URL" default:"https://fakestoreapi.com"`
	DummyJSONURL string        `envconfig:"DUMMYJSON_URL" default:"https://dummyjson.com"`
	PlatziURL    string        `envconfig:"PLATZI_URL" default:"https://api.escuelajs.co/api/v1"`
}

// StateConfig selects the persistence backend for cart and wishlist state.
type StateConfig struct {
	// Backend is one of "file", "redis" or "memory".
	Backend string `envconfig:"STATE_BACKEND" default:"file"`
	Dir     string `envconfig:"STATE_DIR" default:"data/state"`
	Redis   RedisConfig
}

// RedisConfig holds Redis connection settings for the redis state backend.
type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	// TTL bounds how long abandoned carts and wishlists are kept.
	TTL time.Duration `envconfig:"REDIS_STATE_TTL" default:"720h"`
}

// Load populates the configuration from the environment. A .env file is
// loaded first when present, matching local development setups.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Sources.Timeout <= 0 {
		return fmt.Errorf("source timeout must be positive")
	}
	if c.Sources.FakeStoreURL == "" || c.Sources.DummyJSONURL == "" || c.Sources.PlatziURL == "" {
		return fmt.Errorf("all source base URLs are required")
	}

	switch c.State.Backend {
	case "file":
		if c.State.Dir == "" {
			return fmt.Errorf("state directory is required for the file backend")
		}
	case "redis":
		if c.State.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis backend")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid state backend: %s (must be file, redis, or memory)", c.State.Backend)
	}

	return nil
}

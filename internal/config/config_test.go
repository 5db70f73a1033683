package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Empty(t, cfg.Auth.APIKey)
	assert.Equal(t, 10*time.Second, cfg.Sources.Timeout)
	assert.Equal(t, "https://fakestoreapi.com", cfg.Sources.FakeStoreURL)
	assert.Equal(t, "https://dummyjson.com", cfg.Sources.DummyJSONURL)
	assert.Equal(t, "https://api.escuelajs.co/api/v1", cfg.Sources.PlatziURL)
	assert.Equal(t, "file", cfg.State.Backend)
	assert.Equal(t, "data/state", cfg.State.Dir)
	assert.Equal(t, 720*time.Hour, cfg.State.Redis.TTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("API_KEY", "secret")
	t.Setenv("SOURCE_TIMEOUT", "3s")
	t.Setenv("STATE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "secret", cfg.Auth.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Sources.Timeout)
	assert.Equal(t, "redis", cfg.State.Backend)
	assert.Equal(t, "redis:6379", cfg.State.Redis.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"non-positive source timeout", "SOURCE_TIMEOUT", "0s"},
		{"empty source URL", "FAKESTORE_URL", ""},
		{"unknown state backend", "STATE_BACKEND", "dynamodb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

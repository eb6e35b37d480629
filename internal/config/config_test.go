package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/not-enough-mana/internal/config"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.RedisEndpoint)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, config.LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, time.Second, cfg.DecayInterval)
	assert.Equal(t, 15*time.Second, cfg.DecayMaxBackoff)
	assert.Equal(t, 5*time.Second, cfg.SupervisorInterval)
	assert.Empty(t, cfg.OTelEndpoint)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ARENA_REDIS_ENDPOINT", "redis:6380")
	t.Setenv("ARENA_GRPC_PORT", "9000")
	t.Setenv("ARENA_LOG_LEVEL", "debug")
	t.Setenv("ARENA_LOG_FORMAT", "text")
	t.Setenv("ARENA_DECAY_INTERVAL", "500ms")
	t.Setenv("ARENA_OTEL_ENDPOINT", "collector:4318")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "redis:6380", cfg.RedisEndpoint)
	assert.Equal(t, 9000, cfg.GRPCPort)
	assert.Equal(t, config.LogFormatText, cfg.LogFormat)
	assert.Equal(t, 500*time.Millisecond, cfg.DecayInterval)
	assert.Equal(t, "collector:4318", cfg.OTelEndpoint)
}

func TestLoad_Rejections(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unparseable port", key: "ARENA_GRPC_PORT", value: "lots"},
		{name: "port out of range", key: "ARENA_GRPC_PORT", value: "70000"},
		{name: "unknown level", key: "ARENA_LOG_LEVEL", value: "chatty"},
		{name: "unknown format", key: "ARENA_LOG_FORMAT", value: "xml"},
		{name: "zero decay interval", key: "ARENA_DECAY_INTERVAL", value: "0s"},
		{name: "backoff below interval", key: "ARENA_DECAY_MAX_BACKOFF", value: "100ms"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := config.Load()
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := config.ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = config.ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

// Package config loads process configuration from the environment
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/not-enough-mana/internal/errors"
)

// Log formats
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config is the arena process configuration
type Config struct {
	RedisEndpoint string `env:"ARENA_REDIS_ENDPOINT" envDefault:"localhost:6379"`
	GRPCPort      int    `env:"ARENA_GRPC_PORT" envDefault:"50051"`

	LogLevel  string `env:"ARENA_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"ARENA_LOG_FORMAT" envDefault:"json"`

	DecayInterval      time.Duration `env:"ARENA_DECAY_INTERVAL" envDefault:"1s"`
	DecayMaxBackoff    time.Duration `env:"ARENA_DECAY_MAX_BACKOFF" envDefault:"15s"`
	SupervisorInterval time.Duration `env:"ARENA_SUPERVISOR_INTERVAL" envDefault:"5s"`

	// OTelEndpoint enables trace export when set
	OTelEndpoint string `env:"ARENA_OTEL_ENDPOINT"`
}

// Load parses the environment and validates the result
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and enums
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("RedisEndpoint", c.RedisEndpoint, vb)
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		vb.Fieldf("GRPCPort", "must be between 1 and 65535, got %d", c.GRPCPort)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		vb.Field("LogLevel", errors.GetMessage(err))
	}
	switch c.LogFormat {
	case LogFormatJSON, LogFormatText:
	default:
		vb.Fieldf("LogFormat", "must be %q or %q", LogFormatJSON, LogFormatText)
	}
	if c.DecayInterval <= 0 {
		vb.Field("DecayInterval", "must be positive")
	}
	if c.DecayMaxBackoff < c.DecayInterval {
		vb.Field("DecayMaxBackoff", "must be at least the decay interval")
	}
	if c.SupervisorInterval <= 0 {
		vb.Field("SupervisorInterval", "must be positive")
	}

	return vb.Build()
}

// ParseLevel maps a level name to an slog level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.InvalidArgumentf("unknown log level %q", level)
	}
}

package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the translation relay
type Config struct {
	// Server configuration
	HTTPPort int    `env:"RELAY_HTTP_PORT" envDefault:"5000"`
	GRPCPort int    `env:"RELAY_GRPC_PORT" envDefault:"0"` // 0 disables the gRPC health server
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upstream translation API
	Upstream UpstreamConfig

	// Translation events
	Events EventsConfig

	// Redis configuration (events backend)
	Redis RedisConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// UpstreamConfig holds the upstream translation provider configuration
type UpstreamConfig struct {
	Provider string        `env:"UPSTREAM_PROVIDER" envDefault:"mymemory"`
	BaseURL  string        `env:"UPSTREAM_BASE_URL" envDefault:"https://api.mymemory.translated.net/get"`
	Timeout  time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	// Email sent as the MyMemory "de" parameter; raises the anonymous daily quota
	Email string `env:"UPSTREAM_EMAIL"`
}

// EventsConfig selects the translation event bus
type EventsConfig struct {
	Backend string `env:"EVENTS_BACKEND" envDefault:"memory"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`

	// Approximate number of entries kept in the events stream
	StreamMaxLen int64 `env:"REDIS_STREAM_MAXLEN" envDefault:"1000"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	ShutdownTimeout time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server ports
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}
	if c.GRPCPort != 0 && c.GRPCPort == c.HTTPPort {
		return fmt.Errorf("gRPC port %d collides with HTTP port", c.GRPCPort)
	}

	// Validate upstream config
	if c.Upstream.Provider != "mymemory" {
		return fmt.Errorf("unsupported upstream provider: %s (only 'mymemory' is supported)", c.Upstream.Provider)
	}
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid upstream base URL: %q", c.Upstream.BaseURL)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive")
	}

	// Validate events config
	switch c.Events.Backend {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis events backend")
		}
	default:
		return fmt.Errorf("invalid events backend: %s (must be memory or redis)", c.Events.Backend)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// GetGRPCAddr returns the gRPC server address
func (c *Config) GetGRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

// GRPCEnabled reports whether the gRPC health server should be started
func (c *Config) GRPCEnabled() bool {
	return c.GRPCPort > 0
}

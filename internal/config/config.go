// Package config loads host configuration from the environment (optionally
// seeded from a .env file) and per-module settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds every knob the host and its modules read at startup.
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	Database  DatabaseConfig
	Redis     RedisConfig

	ModulesConfigPath string `env:"MODULES_CONFIG,default=config/modules.yaml"`
	Modules           *ModulesConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `env:"HTTP_ADDR,default=:8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=15s"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT,default=10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT,default=30s"`
	// TrustedProxies lists proxy IPs or CIDRs (semicolon separated) whose
	// X-Forwarded-For and X-Real-IP headers are honoured. Empty ignores them.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig mirrors logger.LoggingConfig.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL,default=info"`
	Format string `env:"LOG_FORMAT,default=json"`
	Output string `env:"LOG_OUTPUT,default=stdout"`
}

// RateLimitConfig configures the per-client request limiter.
type RateLimitConfig struct {
	RequestsPerSecond int           `env:"RATE_LIMIT_RPS,default=50"`
	Burst             int           `env:"RATE_LIMIT_BURST,default=50"`
	CleanupSchedule   string        `env:"RATE_LIMIT_CLEANUP,default=@every 5m"`
	IdleAfter         time.Duration `env:"RATE_LIMIT_IDLE_AFTER,default=10m"`
}

// AuthConfig enables bearer token checks on mutating requests when a secret is set.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET"`
}

// Enabled reports whether request authentication is configured.
func (a AuthConfig) Enabled() bool {
	return strings.TrimSpace(a.JWTSecret) != ""
}

// DatabaseConfig points modules at PostgreSQL. An empty URL keeps modules on
// their in-memory stores.
type DatabaseConfig struct {
	URL         string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"DATABASE_AUTO_MIGRATE,default=true"`
	MaxOpen     int    `env:"DATABASE_MAX_OPEN_CONNS,default=10"`
}

// RedisConfig enables read-through caching when Addr is set.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,default=0"`
	TTL      time.Duration `env:"CACHE_TTL,default=5m"`
}

// Load reads .env (when present), decodes the environment and loads the
// modules file. A missing modules file enables every module.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	modules, err := LoadModulesConfigFromPath(cfg.ModulesConfigPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg.Modules = DefaultModulesConfig()
	case err != nil:
		return nil, err
	default:
		cfg.Modules = modules
	}
	return &cfg, nil
}

// Validate rejects settings the host cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: HTTP_ADDR is required")
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_RPS must be positive, got %d", c.RateLimit.RequestsPerSecond)
	}
	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_BURST must be positive, got %d", c.RateLimit.Burst)
	}
	return nil
}

// ModuleEnabled reports whether the named module should be loaded.
func (c *Config) ModuleEnabled(name string) bool {
	if c == nil || c.Modules == nil {
		return true
	}
	return c.Modules.IsEnabled(name)
}

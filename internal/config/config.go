// Package config provides centralized configuration management for the
// validation server. It loads configuration from environment variables with
// sensible defaults, optionally merges a YAML rules file, and validates all
// settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Validation ValidationConfig
	History    HistoryConfig
	Rate       RateLimitConfig
	Security   SecurityConfig
	Logging    LoggingConfig

	// Rules is read from Validation.RulesFile when one is set.
	Rules Rules
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request body (default: 60s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"60s"`

	// WriteTimeout is the maximum duration for writing the response (default: 0, bounded by RequestTimeout)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 10m)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"10m"`
}

// DatabaseConfig holds run history database settings. With no URL, run
// history is kept in memory.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (optional)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ValidationConfig holds feed validation settings.
type ValidationConfig struct {
	// Workers is how many validators run at once; 0 means GOMAXPROCS (default: 0)
	Workers int `env:"VALIDATION_WORKERS" default:"0"`

	// LoadWorkers is how many tables load at once; 0 means GOMAXPROCS (default: 0)
	LoadWorkers int `env:"VALIDATION_LOAD_WORKERS" default:"0"`

	// MaxFeedSize is the maximum accepted feed archive size in bytes (default: 512MB)
	MaxFeedSize int64 `env:"VALIDATION_MAX_FEED_SIZE" default:"536870912"`

	// RunTimeout bounds a whole validation run (default: 5m)
	RunTimeout time.Duration `env:"VALIDATION_RUN_TIMEOUT" default:"5m"`

	// MaxConcurrentRuns is the maximum number of parallel runs (default: 4)
	MaxConcurrentRuns int `env:"VALIDATION_MAX_CONCURRENT_RUNS" default:"4"`

	// MaxWaitTime is how long a run waits for a slot (default: 30s)
	MaxWaitTime time.Duration `env:"VALIDATION_MAX_WAIT_TIME" default:"30s"`

	// CountryCode is the default ISO 3166 region for phone number checks
	CountryCode string `env:"VALIDATION_COUNTRY_CODE"`

	// RulesFile is an optional YAML file of validator settings
	RulesFile string `env:"VALIDATION_RULES_FILE"`
}

// HistoryConfig holds run history retention settings.
type HistoryConfig struct {
	// Capacity is how many runs the in-memory history keeps (default: 100)
	Capacity int `env:"HISTORY_CAPACITY" default:"100"`

	// Retention is how long runs are kept before pruning (default: 720h)
	Retention time.Duration `env:"HISTORY_RETENTION" default:"720h"`

	// PruneInterval is how often old runs are pruned (default: 24h)
	PruneInterval time.Duration `env:"HISTORY_PRUNE_INTERVAL" default:"24h"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// ValidateLimit is requests per minute per IP for feed submissions (default: 10)
	ValidateLimit int `env:"RATE_LIMIT_VALIDATE" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// APIKeys is a comma-separated list of accepted X-API-Key values
	APIKeys []string `env:"API_KEYS"`

	// RequireAPIKey enables API key authentication on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

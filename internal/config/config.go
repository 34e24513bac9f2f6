// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Dispatch DispatchConfig
	Analyze  AnalyzeConfig
	History  HistoryConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	LLM      LLMConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 5001)
	Port int `env:"SERVER_PORT" default:"5001"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// MaxBodySize caps JSON request bodies in bytes (default: 10MB)
	MaxBodySize int64 `env:"SERVER_MAX_BODY_SIZE" default:"10485760"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Empty disables persistence.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// Enabled reports whether a database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// DispatchConfig controls how operations are fanned out within one request.
type DispatchConfig struct {
	// OperationTimeout bounds a single capability invocation (default: 10s)
	OperationTimeout time.Duration `env:"DISPATCH_OPERATION_TIMEOUT" default:"10s"`

	// MaxParallel is how many operations of one request run at once (default: 4)
	MaxParallel int `env:"DISPATCH_MAX_PARALLEL" default:"4"`

	// CacheSize is the number of capability outputs kept in memory; 0 disables (default: 512)
	CacheSize int `env:"DISPATCH_CACHE_SIZE" default:"512"`
}

// AnalyzeConfig limits concurrent analyze requests across the process.
type AnalyzeConfig struct {
	// MaxConcurrent is the maximum number of in-flight analyze calls (default: 8)
	MaxConcurrent int `env:"ANALYZE_MAX_CONCURRENT" default:"8"`

	// MaxWaitTime is how long to wait for a slot (default: 10s)
	MaxWaitTime time.Duration `env:"ANALYZE_MAX_WAIT_TIME" default:"10s"`
}

// HistoryConfig controls pruning of old processing history.
type HistoryConfig struct {
	// RetentionDays is how long history rows are kept; 0 keeps them forever (default: 90)
	RetentionDays int `env:"HISTORY_RETENTION_DAYS" default:"90"`

	// BatchSize is the maximum number of rows deleted per statement (default: 5000)
	BatchSize int `env:"HISTORY_PRUNE_BATCH_SIZE" default:"5000"`

	// CheckInterval is how often the retention job runs (default: 24h)
	CheckInterval time.Duration `env:"HISTORY_PRUNE_INTERVAL" default:"24h"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey enables X-API-Key checks on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LLMConfig configures the optional OpenRouter-backed summarizer.
type LLMConfig struct {
	// APIKey enables LLM summarization when set
	APIKey string `env:"OPENROUTER_API_KEY"`

	// Model is the OpenRouter model id
	Model string `env:"OPENROUTER_MODEL" default:"google/gemini-2.0-flash-001"`

	// BaseURL is the OpenRouter API root
	BaseURL string `env:"OPENROUTER_BASE_URL" default:"https://openrouter.ai/api/v1"`

	// Timeout bounds a single HTTP call (default: 30s)
	Timeout time.Duration `env:"OPENROUTER_TIMEOUT" default:"30s"`

	// MaxRetries is how many times a failed call is retried (default: 2)
	MaxRetries int `env:"OPENROUTER_MAX_RETRIES" default:"2"`
}

// Enabled reports whether an API key is configured.
func (c *LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File is an optional path; when set logs go to a rotating file instead of stdout
	File string `env:"LOG_FILE"`

	// MaxSizeMB is the size at which the log file rotates (default: 100)
	MaxSizeMB int `env:"LOG_MAX_SIZE_MB" default:"100"`

	// MaxBackups is how many rotated files are kept (default: 3)
	MaxBackups int `env:"LOG_MAX_BACKUPS" default:"3"`

	// MaxAgeDays is how long rotated files are kept (default: 28)
	MaxAgeDays int `env:"LOG_MAX_AGE_DAYS" default:"28"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

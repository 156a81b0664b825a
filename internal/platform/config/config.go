// Package config provides configuration loading and validation for the service.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the service.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Log        LogConfig        `koanf:"log"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
	Store      StoreConfig      `koanf:"store"`
	EventBus   EventBusConfig   `koanf:"eventbus"`
	Assignment AssignmentConfig `koanf:"assignment"`
	Broker     BrokerConfig     `koanf:"broker"`
	Directory  DirectoryConfig  `koanf:"directory"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string        `koanf:"host"`
	Port               int           `koanf:"port"`
	ReadTimeout        time.Duration `koanf:"read_timeout"`
	WriteTimeout       time.Duration `koanf:"write_timeout"`
	IdleTimeout        time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout"`
	RequestTimeout     time.Duration `koanf:"request_timeout"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// StoreConfig selects and tunes the document store.
type StoreConfig struct {
	Driver          string        `koanf:"driver"`
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// EventBusConfig sizes the asynchronous dispatcher.
type EventBusConfig struct {
	Workers   int `koanf:"workers"`
	QueueSize int `koanf:"queue_size"`

	// HandlerTimeout bounds one subscriber call. Zero disables the bound.
	HandlerTimeout time.Duration `koanf:"handler_timeout"`
}

// AssignmentConfig tunes round-robin lead assignment.
type AssignmentConfig struct {
	// MaxAttempts bounds retries when another process stamps the same rep
	// concurrently.
	MaxAttempts int `koanf:"max_attempts"`
}

// BrokerConfig holds the RabbitMQ relay settings.
type BrokerConfig struct {
	Enabled        bool                 `koanf:"enabled"`
	URL            string               `koanf:"url"`
	Exchange       string               `koanf:"exchange"`
	PublishTimeout time.Duration        `koanf:"publish_timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds token bucket settings. A zero RequestsPerSecond
// disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// DirectoryConfig lists actors created at startup when they do not exist yet.
type DirectoryConfig struct {
	Seed []SeedActor `koanf:"seed"`
}

// SeedActor describes one directory entry to create on boot.
type SeedActor struct {
	ID        string `koanf:"id"`
	Name      string `koanf:"name"`
	Email     string `koanf:"email"`
	Role      string `koanf:"role"`
	ManagerID string `koanf:"manager_id"`
}

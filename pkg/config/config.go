// Package config loads doable configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/felixgeelhaar/doable/internal/shared/infrastructure/convert"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	Version   string
	LogLevel  string
	LogFormat string

	// Database. An empty DatabaseURL selects the local SQLite file.
	DatabaseURL      string
	SQLitePath       string
	DatabaseMaxConns int
	DataLoadTimeout  time.Duration

	// Report cache, enabled when RedisURL is set and ReportCacheTTL > 0.
	RedisURL       string
	ReportCacheTTL time.Duration

	// Events. With EventsEnabled and no RabbitMQURL events stay in process.
	RabbitMQURL   string
	EventsEnabled bool

	// Circuit breaker around the data source
	BreakerEnabled          bool
	BreakerMaxRequests      uint32
	BreakerInterval         time.Duration
	BreakerTimeout          time.Duration
	BreakerFailureThreshold uint32

	// Reports. Zero ReportDefaultWindowDays means one calendar month.
	ReportDefaultWindowDays int

	// MCP server and metrics endpoint
	MCPAddr      string
	MCPAuthToken string
	MetricsAddr  string
}

// Load reads configuration from the environment after loading an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		Version:   getEnv("DOABLE_VERSION", "dev"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SQLitePath:       getEnv("SQLITE_PATH", ""),
		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 10),
		DataLoadTimeout:  getDurationEnv("DATA_LOAD_TIMEOUT", 30*time.Second),

		RedisURL:       getEnv("REDIS_URL", ""),
		ReportCacheTTL: getDurationEnv("REPORT_CACHE_TTL", 0),

		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),
		EventsEnabled: getBoolEnv("EVENTS_ENABLED", true),

		BreakerEnabled:          getBoolEnv("BREAKER_ENABLED", true),
		BreakerInterval:         getDurationEnv("BREAKER_INTERVAL", time.Minute),
		BreakerTimeout:          getDurationEnv("BREAKER_TIMEOUT", 30*time.Second),

		ReportDefaultWindowDays: getIntEnv("REPORT_DEFAULT_WINDOW_DAYS", 0),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
		MetricsAddr:  getEnv("METRICS_ADDR", "0.0.0.0:9090"),
	}

	var maxReqErr, thresholdErr error
	cfg.BreakerMaxRequests, maxReqErr = getUint32Env("BREAKER_MAX_REQUESTS", 1)
	cfg.BreakerFailureThreshold, thresholdErr = getUint32Env("BREAKER_FAILURE_THRESHOLD", 5)

	if err := errors.Join(maxReqErr, thresholdErr); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseMaxConns < 1 {
		errs = append(errs, fmt.Errorf("DATABASE_MAX_CONNS must be positive, got %d", c.DatabaseMaxConns))
	}
	if c.DataLoadTimeout < 0 {
		errs = append(errs, fmt.Errorf("DATA_LOAD_TIMEOUT must not be negative, got %s", c.DataLoadTimeout))
	}
	if c.ReportCacheTTL < 0 {
		errs = append(errs, fmt.Errorf("REPORT_CACHE_TTL must not be negative, got %s", c.ReportCacheTTL))
	}
	if c.ReportDefaultWindowDays < 0 {
		errs = append(errs, fmt.Errorf("REPORT_DEFAULT_WINDOW_DAYS must not be negative, got %d", c.ReportDefaultWindowDays))
	}
	if c.BreakerEnabled && c.BreakerFailureThreshold == 0 {
		errs = append(errs, errors.New("BREAKER_FAILURE_THRESHOLD must be positive when the breaker is enabled"))
	}
	return errors.Join(errs...)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// CacheEnabled reports whether the Redis report cache should be used.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != "" && c.ReportCacheTTL > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getUint32Env parses an integer setting that must fit in a uint32.
func getUint32Env(key string, defaultValue uint32) (uint32, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, nil
	}
	v, err := convert.IntToUint32(i)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

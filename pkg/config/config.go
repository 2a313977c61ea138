package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

// Environment name constants used in ENVIRONMENT config field.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// defaultDBPassword is the shipped development password; rejected in production.
const defaultDBPassword = "changeme"

// Config holds all configuration for the application
type Config struct {
	// HTTP
	Port int `conf:"default:8080,env:PORT"`

	// Database (libpq-style variable names)
	DBHost     string `conf:"default:postgres,env:PGHOST"`
	DBUser     string `conf:"default:appuser,env:PGUSER"`
	DBPassword string `conf:"default:changeme,env:PGPASSWORD,mask"`
	DBName     string `conf:"default:appdb,env:PGDATABASE"`
	DBPort     int    `conf:"default:5432,env:PGPORT"`
	DBSSLMode  string `conf:"default:disable,env:PGSSLMODE"`

	// Pool
	DBMaxConns    int32         `conf:"default:10,env:DB_MAX_CONNS"`
	DBIdleTimeout time.Duration `conf:"default:30s,env:DB_IDLE_TIMEOUT"`

	// Per-IP requests per minute; 0 disables rate limiting
	RateLimitRPM int `conf:"default:0,env:RATE_LIMIT_RPM"`

	// Redis: empty disables the recent-items cache
	RedisURL string `conf:"env:REDIS_URL"`

	// Events: publish item.created through the Watermill SQL outbox
	EventsEnabled bool `conf:"default:false,env:EVENTS_ENABLED"`

	// Application
	LogLevel    string `conf:"default:info,env:LOG_LEVEL"`
	Environment string `conf:"default:development,enum:development|testing|production,env:ENVIRONMENT"`

	// CORS: comma-separated list of allowed origins; use * to allow all (dev only)
	CORSAllowedOrigins string `conf:"default:*,env:CORS_ALLOWED_ORIGINS"`

	// Observability
	ServiceName    string `conf:"default:items-api,env:SERVICE_NAME"`
	ServiceVersion string `conf:"default:dev,env:SERVICE_VERSION"`
	OtelEndpoint   string `conf:"env:OTEL_ENDPOINT"`
	SentryDSN      string `conf:"env:SENTRY_DSN,noprint"`
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	var cfg Config
	_ = godotenv.Load()
	if _, err := conf.Parse("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// DatabaseURL assembles a postgres:// connection string from the PG* settings.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:   "/" + c.DBName,
	}
	if c.DBSSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.DBSSLMode}}.Encode()
	}
	return u.String()
}

// ValidateForProduction enforces security requirements when ENVIRONMENT=production.
// Returns an error if any critical settings are missing or unsafe.
// No-ops for non-production environments.
func ValidateForProduction(cfg *Config) error {
	if cfg.Environment != EnvProduction {
		return nil
	}

	var errs []string

	if cfg.DBPassword == defaultDBPassword {
		errs = append(errs, "PGPASSWORD must not use the default development password in production")
	}

	if cfg.LogLevel == "debug" {
		errs = append(errs, "LOG_LEVEL must not be 'debug' in production (may leak sensitive data)")
	}

	if cfg.CORSAllowedOrigins == "*" {
		errs = append(errs, "CORS_ALLOWED_ORIGINS must list explicit origins in production")
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("production config validation failed: %s", strings.Join(errs, "; "))
}

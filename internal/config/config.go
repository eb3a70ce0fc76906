// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/matchctl.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Feed transports
// --------------------------------------------------------------------------

const (
	TransportLocal    = "local"
	TransportPostgres = "postgres"
	TransportRedis    = "redis"
	TransportNATS     = "nats"
	TransportNone     = "none"
)

// --------------------------------------------------------------------------
// Table names (must match schema.sql)
// --------------------------------------------------------------------------

const (
	MatchesTable    = "matches"
	CommentaryTable = "commentary"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration
	DBAutoMigrate  bool

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	LogLevel    slog.Level
	LogFormat   string // text, json

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool

	// Live feed
	FeedTransport      string
	FeedPublishTimeout time.Duration
	RedisURL           string
	RedisPassword      string
	NATSURL            string

	// Maintenance
	StatusSweepInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	cfg := &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,
		DBAutoMigrate:  envBool("DB_AUTO_MIGRATE", true),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    envLevel("LOG_LEVEL", slog.LevelInfo),
		LogFormat:   strings.ToLower(envOr("LOG_FORMAT", "text")),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		FeedTransport:      strings.ToLower(envOr("FEED_TRANSPORT", TransportLocal)),
		FeedPublishTimeout: time.Duration(envInt("FEED_PUBLISH_TIMEOUT_MS", 3000)) * time.Millisecond,
		RedisURL:           envOr("REDIS_URL", ""),
		RedisPassword:      envOr("REDIS_PASSWORD", ""),
		NATSURL:            envOr("NATS_URL", ""),

		StatusSweepInterval: time.Duration(envInt("STATUS_SWEEP_INTERVAL_SECONDS", 60)) * time.Second,
	}

	if err := cfg.validateFeed(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) validateFeed() error {
	switch c.FeedTransport {
	case TransportLocal, TransportPostgres, TransportNone:
		return nil
	case TransportRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL must be set when FEED_TRANSPORT=redis")
		}
		return nil
	case TransportNATS:
		if c.NATSURL == "" {
			return fmt.Errorf("NATS_URL must be set when FEED_TRANSPORT=nats")
		}
		return nil
	default:
		return fmt.Errorf("unknown FEED_TRANSPORT %q (want local, postgres, redis, nats or none)", c.FeedTransport)
	}
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			return lvl
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

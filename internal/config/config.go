// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config struct — populated from environment variables.
type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitBurst    int
	RateLimitWindow   time.Duration

	// Session engine
	SessionDataDir    string        // file store fallback when no database is configured
	SessionTickEvery  time.Duration // day-boundary check granularity
	SessionIdleSweep  time.Duration // how often idle sessions are swept
	SessionMaxIdle    time.Duration // inactivity window before a session is swept
	SessionCookieName string

	// Upstream game API (empty = serve evaluation locally from Postgres)
	GameAPIURL       string
	GameAPIRateLimit int // requests per minute against the upstream API

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible
// defaults. The database is optional: without one the session engine
// runs on the file store and evaluation must come from GAME_API_URL.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"https://www.volleydle.com",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitBurst:    envInt("RATE_LIMIT_BURST", 20),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		SessionDataDir:    envOr("SESSION_DATA_DIR", "./data"),
		SessionTickEvery:  time.Duration(envInt("SESSION_TICK_SECONDS", 30)) * time.Second,
		SessionIdleSweep:  time.Duration(envInt("SESSION_SWEEP_MINUTES", 15)) * time.Minute,
		SessionMaxIdle:    time.Duration(envInt("SESSION_MAX_IDLE_MINUTES", 120)) * time.Minute,
		SessionCookieName: envOr("SESSION_COOKIE_NAME", "volleydle_session"),

		GameAPIURL:       envOr("GAME_API_URL", ""),
		GameAPIRateLimit: envInt("GAME_API_RATE_LIMIT", 120),

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}

	if cfg.DatabaseURL == "" && cfg.GameAPIURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or GAME_API_URL must be set")
	}
	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
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

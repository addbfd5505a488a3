// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/recon.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// League registry
// --------------------------------------------------------------------------

type LeagueConfig struct {
	ID            string
	Name          string
	CurrentSeason int
}

var LeagueRegistry = map[string]LeagueConfig{
	"NCAAF": {ID: "NCAAF", Name: "NCAA Division I FBS Football", CurrentSeason: 2026},
}

// --------------------------------------------------------------------------
// Table names — single source of truth, matches schema.sql
// --------------------------------------------------------------------------

const (
	TeamsTable          = "teams"
	GamesTable          = "games"
	ProviderEventsTable = "provider_events"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

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
	RateLimitWindow   time.Duration

	// Canonical mapping resource. Empty means search the conventional
	// locations.
	CanonConfigPath string

	// Canonical index
	IndexFloor     int
	HistorySeasons int

	// Resolver
	FuzzyThreshold float64

	// Matcher windows (days)
	NarrowWindowDays     int
	WideWindowDays       int
	SeasonWindowDays     int
	TransitionWindowDays int
	SeasonFallback       bool
	TransitionPairs      []string

	// Batch runs
	BatchWorkers int
	BatchLimit   int
	LoadTimeout  time.Duration

	// Audit reports
	ReportsDir       string
	ReportMaxAgeDays int

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("GRIDLINE_DATABASE_URL", envOr("DATABASE_URL", ""))
	if dbURL == "" {
		return nil, fmt.Errorf("GRIDLINE_DATABASE_URL or DATABASE_URL must be set")
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CanonConfigPath: envOr("GRIDLINE_CANON_CONFIG", ""),

		IndexFloor:     envInt("INDEX_FLOOR", 120),
		HistorySeasons: envInt("INDEX_HISTORY_SEASONS", 3),

		FuzzyThreshold: envFloat("FUZZY_THRESHOLD", 0.9),

		NarrowWindowDays:     envInt("MATCH_NARROW_WINDOW_DAYS", 2),
		WideWindowDays:       envInt("MATCH_WIDE_WINDOW_DAYS", 6),
		SeasonWindowDays:     envInt("MATCH_SEASON_WINDOW_DAYS", 8),
		TransitionWindowDays: envInt("MATCH_TRANSITION_WINDOW_DAYS", 14),
		SeasonFallback:       envBool("MATCH_SEASON_FALLBACK", false),
		TransitionPairs:      envList("MATCH_TRANSITION_PAIRS", nil),

		BatchWorkers: envInt("BATCH_WORKERS", 8),
		BatchLimit:   envInt("BATCH_LIMIT", 5000),
		LoadTimeout:  time.Duration(envInt("LOAD_TIMEOUT_SECONDS", 30)) * time.Second,

		ReportsDir:       envOr("REPORTS_DIR", "reports"),
		ReportMaxAgeDays: envInt("REPORT_MAX_AGE_DAYS", 90),

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MatcherOptions converts the day-based window settings into the matcher's
// durations.
func (c *Config) MatcherOptions() (narrow, wide, season, transition time.Duration) {
	day := 24 * time.Hour
	return time.Duration(c.NarrowWindowDays) * day,
		time.Duration(c.WideWindowDays) * day,
		time.Duration(c.SeasonWindowDays) * day,
		time.Duration(c.TransitionWindowDays) * day
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

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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

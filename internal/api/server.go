package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/mhalvorsen/gridline-data/internal/api/handler"
	"github.com/mhalvorsen/gridline-data/internal/cache"
	"github.com/mhalvorsen/gridline-data/internal/canon"
	"github.com/mhalvorsen/gridline-data/internal/config"
	"github.com/mhalvorsen/gridline-data/internal/db"
	"github.com/mhalvorsen/gridline-data/internal/schedule"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(pool *db.Pool, appCache *cache.Cache, cfg *config.Config, resolver *canon.Resolver, matcher *schedule.Matcher) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "Link", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, appCache, cfg, resolver, matcher)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Reconciliation
		r.Get("/resolve", h.Resolve)
		r.Get("/match", h.MatchGame)

		// Canonical teams
		r.Get("/teams/{teamID}", h.GetTeam)

		// Audit reports
		r.Get("/reports", h.ListReports)
		r.Get("/reports/{name}", h.GetReport)
	})

	return r
}

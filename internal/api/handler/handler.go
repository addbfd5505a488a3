// Package handler provides HTTP handlers for all API endpoints.
// Handlers hold the run-scoped resolver and matcher plus the shared pool;
// there is no service layer in between.
package handler

import (
	"net/http"
	"time"

	"github.com/mhalvorsen/gridline-data/internal/api/respond"
	"github.com/mhalvorsen/gridline-data/internal/cache"
	"github.com/mhalvorsen/gridline-data/internal/canon"
	"github.com/mhalvorsen/gridline-data/internal/config"
	"github.com/mhalvorsen/gridline-data/internal/db"
	"github.com/mhalvorsen/gridline-data/internal/schedule"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool     *db.Pool
	cache    *cache.Cache
	cfg      *config.Config
	resolver *canon.Resolver
	matcher  *schedule.Matcher
}

// New creates a Handler with shared dependencies.
func New(pool *db.Pool, c *cache.Cache, cfg *config.Config, resolver *canon.Resolver, matcher *schedule.Matcher) *Handler {
	return &Handler{
		pool:     pool,
		cache:    c,
		cfg:      cfg,
		resolver: resolver,
		matcher:  matcher,
	}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Gridline Data API",
		"version": "1.0.0",
		"status":  "running",
		"optimizations": []string{
			"pgxpool_connection_pooling",
			"prepared_statements",
			"gzip_compression",
			"in_memory_cache",
			"etag_support",
		},
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

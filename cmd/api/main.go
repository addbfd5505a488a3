// Command api is the Gridline Data API server.
//
// Usage:
//
//	gridline-api
//	API_PORT=8080 gridline-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/mhalvorsen/gridline-data/internal/api"
	"github.com/mhalvorsen/gridline-data/internal/audit"
	"github.com/mhalvorsen/gridline-data/internal/batch"
	"github.com/mhalvorsen/gridline-data/internal/cache"
	"github.com/mhalvorsen/gridline-data/internal/config"
	"github.com/mhalvorsen/gridline-data/internal/db"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Build the resolver and matcher. A failed load is fatal: serving
	// resolution endpoints without a validated index would hand out wrong
	// ids, not degraded ones.
	league := "NCAAF"
	season := config.LeagueRegistry[league].CurrentSeason
	resolver, matcher, err := batch.Bootstrap(ctx, cfg, pool, league, season, logger)
	if err != nil {
		logger.Error("Failed to build reconciliation state", "error", err)
		os.Exit(1)
	}

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Start the report retention sweeper
	retention := audit.DefaultRetention(cfg.ReportsDir)
	retention.MaxAge = time.Duration(cfg.ReportMaxAgeDays) * 24 * time.Hour
	go audit.StartRetention(ctx, retention, logger)

	// Create router
	router := api.NewRouter(pool, appCache, cfg, resolver, matcher)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Gridline Data API",
			"addr", addr,
			"environment", cfg.Environment,
			"season", season)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

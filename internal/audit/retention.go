package audit

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// RetentionConfig controls the report retention sweeper. A zero interval
// disables it.
type RetentionConfig struct {
	Dir      string
	MaxAge   time.Duration
	Interval time.Duration
}

// DefaultRetention returns production defaults: keep 90 days of reports,
// sweep daily.
func DefaultRetention(dir string) RetentionConfig {
	return RetentionConfig{
		Dir:      dir,
		MaxAge:   90 * 24 * time.Hour,
		Interval: 24 * time.Hour,
	}
}

// StartRetention sweeps expired report artifacts on a ticker. Blocks until
// ctx is cancelled. Intended to be called with `go`.
func StartRetention(ctx context.Context, cfg RetentionConfig, logger *slog.Logger) {
	if cfg.Interval <= 0 || cfg.MaxAge <= 0 {
		return
	}
	logger.Info("Report retention sweeper started", "dir", cfg.Dir, "max_age", cfg.MaxAge, "interval", cfg.Interval)

	t := time.NewTicker(cfg.Interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			sweepReports(cfg, logger)
		case <-ctx.Done():
			logger.Info("Report retention sweeper stopped")
			return
		}
	}
}

// sweepReports removes report files older than the retention horizon.
func sweepReports(cfg RetentionConfig, logger *slog.Logger) {
	cutoff := time.Now().Add(-cfg.MaxAge)
	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Retention: failed to read reports dir", "error", err)
		}
		return
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(cfg.Dir, e.Name())); err != nil {
			logger.Warn("Retention: failed to remove report", "file", e.Name(), "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Info("Retention: purged expired reports", "count", removed)
	}
}

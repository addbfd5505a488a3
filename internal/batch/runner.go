package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mhalvorsen/gridline-data/internal/audit"
	"github.com/mhalvorsen/gridline-data/internal/canon"
	"github.com/mhalvorsen/gridline-data/internal/schedule"
)

// Result tracks counts and errors from one reconciliation run.
type Result struct {
	EventsFound     int
	EventsProcessed int
	Reconciled      int
	Missed          int
	Errors          []string
	Duration        time.Duration
	Stats           *audit.Stats
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"events=%d processed=%d reconciled=%d missed=%d errors=%d duration=%s",
		r.EventsFound, r.EventsProcessed, r.Reconciled, r.Missed,
		len(r.Errors), r.Duration.Round(time.Millisecond),
	)
}

// Runner drives one batch run over staged provider events. The resolver
// and matcher are built once before the run and shared read-only across
// workers; each worker keeps its own stats, merged at the end.
type Runner struct {
	resolver *canon.Resolver
	matcher  *schedule.Matcher
	source   EventSource
	workers  int
	logger   *slog.Logger
}

func NewRunner(resolver *canon.Resolver, matcher *schedule.Matcher, source EventSource, workers int, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		resolver: resolver,
		matcher:  matcher,
		source:   source,
		workers:  workers,
		logger:   logger,
	}
}

// Run drains up to limit pending events for (season, week) and reconciles
// each one. Per-event failures are ordinary outcomes, not errors; the run
// only errors when the event source itself fails.
func (r *Runner) Run(ctx context.Context, season, week, limit int) (*Result, error) {
	start := time.Now()
	result := &Result{Stats: audit.NewStats()}

	events, err := r.source.PendingEvents(ctx, season, week, limit)
	if err != nil {
		return nil, fmt.Errorf("drain pending events: %w", err)
	}
	result.EventsFound = len(events)
	if len(events) == 0 {
		r.logger.Info("No pending provider events", "season", season, "week", week)
		result.Duration = time.Since(start)
		return result, nil
	}
	r.logger.Info("Found pending provider events", "count", len(events), "season", season, "week", week)

	workers := r.workers
	if workers > len(events) {
		workers = len(events)
	}

	ch := make(chan Event, len(events))
	for _, e := range events {
		ch <- e
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats := audit.NewStats()
			var (
				processed, reconciled, missed int
				errs                          []string
			)
			for e := range ch {
				ok, err := r.reconcile(ctx, e, stats)
				processed++
				if err != nil {
					errs = append(errs, fmt.Sprintf("event %d: %v", e.ID, err))
					continue
				}
				if ok {
					reconciled++
				} else {
					missed++
				}
			}
			mu.Lock()
			result.Stats.Merge(stats)
			result.EventsProcessed += processed
			result.Reconciled += reconciled
			result.Missed += missed
			result.Errors = append(result.Errors, errs...)
			mu.Unlock()
		}()
	}

	wg.Wait()
	result.Duration = time.Since(start)

	r.logger.Info("Reconciliation run complete", "summary", result.Summary(), "stats", result.Stats.Summary())
	return result, nil
}

// reconcile handles one event end to end. The returned bool reports whether
// the event landed on a canonical game; the error covers write-back
// failures only.
func (r *Runner) reconcile(ctx context.Context, e Event, stats *audit.Stats) (bool, error) {
	home := r.resolver.Resolve(e.HomeName, e.League)
	stats.RecordResolution(e.HomeName, e.League, home)
	away := r.resolver.Resolve(e.AwayName, e.League)
	stats.RecordResolution(e.AwayName, e.League, away)

	if !home.Matched() || !away.Matched() {
		reason := "unresolved_home"
		if home.Matched() {
			reason = "unresolved_away"
		} else if !away.Matched() {
			reason = "unresolved_both"
		}
		return false, r.source.RecordMiss(ctx, e.ID, reason)
	}

	outcome, err := r.matcher.Lookup(ctx, e.Season, e.Week, home.TeamID, away.TeamID, e.EventTime)
	if err != nil {
		return false, fmt.Errorf("lookup game: %w", err)
	}
	stats.RecordLookup(e.Season, e.Week, home.TeamID, away.TeamID, outcome)

	if !outcome.Matched() {
		return false, r.source.RecordMiss(ctx, e.ID, string(outcome.Reason))
	}
	return true, r.source.MarkReconciled(ctx, e.ID, outcome.GameID, home.TeamID, away.TeamID)
}

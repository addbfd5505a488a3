package batch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mhalvorsen/gridline-data/internal/canon"
	"github.com/mhalvorsen/gridline-data/internal/config"
	"github.com/mhalvorsen/gridline-data/internal/db"
	"github.com/mhalvorsen/gridline-data/internal/schedule"
)

// Bootstrap builds the run-scoped read-only state: the canonical mapping
// file, denylist, index, alias table, resolver and matcher. Any failure
// here is fatal for the run; the load runs under the configured timeout so
// a hung store aborts instead of hanging.
func Bootstrap(ctx context.Context, cfg *config.Config, pool *db.Pool, league string, season int, logger *slog.Logger) (*canon.Resolver, *schedule.Matcher, error) {
	path, err := canon.Locate(cfg.CanonConfigPath)
	if err != nil {
		return nil, nil, err
	}
	file, err := canon.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Loaded canonical mapping file", "path", path,
		"aliases", len(file.Aliases), "denylist", len(file.Denylist))

	deny := canon.NewDenylist(file.Denylist, file.DenySuffix, file.DenySuffixExceptions)

	loadCtx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	defer cancel()

	builder := &canon.IndexBuilder{
		Registry:       db.NewTeamRegistry(pool, league),
		History:        db.NewGameHistory(pool),
		Deny:           deny,
		Floor:          cfg.IndexFloor,
		HistorySeasons: cfg.HistorySeasons,
		Logger:         logger,
	}
	idx, err := builder.Build(loadCtx, season)
	if err != nil {
		return nil, nil, fmt.Errorf("build canonical index: %w", err)
	}

	aliases, err := canon.NewAliasTable(file.Aliases, idx, deny, file.Renames)
	if err != nil {
		return nil, nil, fmt.Errorf("validate alias table: %w", err)
	}

	resolver := canon.NewResolver(league, idx, deny, aliases, file.ParityExceptions, cfg.FuzzyThreshold, logger)

	narrow, wide, seasonWindow, transition := cfg.MatcherOptions()
	matcher := schedule.NewMatcher(schedule.NewPGStore(pool), schedule.Options{
		NarrowWindow:     narrow,
		WideWindow:       wide,
		SeasonFallback:   cfg.SeasonFallback,
		SeasonWindow:     seasonWindow,
		TransitionWindow: transition,
		TransitionPairs:  cfg.TransitionPairs,
	}, logger)

	return resolver, matcher, nil
}

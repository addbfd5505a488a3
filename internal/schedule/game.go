// Package schedule provides read access to the canonical game schedule and
// the temporal matcher that maps provider event references onto canonical
// game rows.
package schedule

import (
	"context"
	"time"
)

// Game is a canonical schedule row. This subsystem never writes games; the
// schedule is owned by the ingestion side of the store.
type Game struct {
	ID         int64
	Season     int
	Week       int
	HomeTeamID string
	AwayTeamID string
	Kickoff    time.Time
}

// Store is the read surface the matcher needs. Both queries return games in
// stored order (kickoff ascending, then id) so tie handling is stable.
type Store interface {
	// GamesByWeek returns games with the exact (season, week, home, away) key.
	GamesByWeek(ctx context.Context, season, week int, homeID, awayID string) ([]Game, error)

	// GamesByPair returns every game in the season with the given venue
	// assignment, any week.
	GamesByPair(ctx context.Context, season int, homeID, awayID string) ([]Game, error)
}

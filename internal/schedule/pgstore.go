package schedule

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mhalvorsen/gridline-data/internal/db"
)

// PGStore reads the canonical schedule through the shared pool's prepared
// statements. It satisfies Store.
type PGStore struct {
	pool *db.Pool
}

func NewPGStore(pool *db.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) GamesByWeek(ctx context.Context, season, week int, homeID, awayID string) ([]Game, error) {
	rows, err := s.pool.Query(ctx, "games_by_week", season, week, homeID, awayID)
	if err != nil {
		return nil, fmt.Errorf("games by week: %w", err)
	}
	defer rows.Close()
	return scanGames(rows)
}

func (s *PGStore) GamesByPair(ctx context.Context, season int, homeID, awayID string) ([]Game, error) {
	rows, err := s.pool.Query(ctx, "games_by_pair", season, homeID, awayID)
	if err != nil {
		return nil, fmt.Errorf("games by pair: %w", err)
	}
	defer rows.Close()
	return scanGames(rows)
}

func scanGames(rows pgx.Rows) ([]Game, error) {
	var games []Game
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.Season, &g.Week, &g.HomeTeamID, &g.AwayTeamID, &g.Kickoff); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}

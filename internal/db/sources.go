package db

import (
	"context"
	"fmt"

	"github.com/mhalvorsen/gridline-data/internal/canon"
)

// TeamRegistry reads the per-season authoritative team rows for one league.
// It satisfies canon.RegistrySource.
type TeamRegistry struct {
	pool   *Pool
	league string
}

func NewTeamRegistry(pool *Pool, league string) *TeamRegistry {
	return &TeamRegistry{pool: pool, league: league}
}

func (r *TeamRegistry) Teams(ctx context.Context, season int) ([]canon.Team, error) {
	rows, err := r.pool.Query(ctx, "registry_teams", r.league, season)
	if err != nil {
		return nil, fmt.Errorf("registry teams: %w", err)
	}
	defer rows.Close()

	var teams []canon.Team
	for rows.Next() {
		var t canon.Team
		if err := rows.Scan(&t.ID, &t.School, &t.Mascot); err != nil {
			return nil, fmt.Errorf("scan registry team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registry teams: %w", err)
	}
	return teams, nil
}

// GameHistory reads distinct team ids out of historical schedule rows. It
// satisfies canon.HistorySource.
type GameHistory struct {
	pool *Pool
}

func NewGameHistory(pool *Pool) *GameHistory {
	return &GameHistory{pool: pool}
}

func (h *GameHistory) TeamIDs(ctx context.Context, from, to int) ([]string, error) {
	rows, err := h.pool.Query(ctx, "history_team_ids", from, to)
	if err != nil {
		return nil, fmt.Errorf("history team ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan history team id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history team ids: %w", err)
	}
	return ids, nil
}

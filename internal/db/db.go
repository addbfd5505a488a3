// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mhalvorsen/gridline-data/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the API and batch
// layers use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Canonical index sources
		"registry_teams":   "SELECT id, school, mascot FROM teams WHERE league = $1 AND season = $2 ORDER BY id",
		"history_team_ids": "SELECT DISTINCT team_id FROM (SELECT home_team_id AS team_id FROM games WHERE season BETWEEN $1 AND $2 UNION SELECT away_team_id FROM games WHERE season BETWEEN $1 AND $2) t ORDER BY team_id",

		// Schedule lookups
		"games_by_week": "SELECT id, season, week, home_team_id, away_team_id, kickoff FROM games WHERE season = $1 AND week = $2 AND home_team_id = $3 AND away_team_id = $4 ORDER BY kickoff, id",
		"games_by_pair": "SELECT id, season, week, home_team_id, away_team_id, kickoff FROM games WHERE season = $1 AND home_team_id = $2 AND away_team_id = $3 ORDER BY kickoff, id",

		// Provider event staging
		"pending_provider_events": "SELECT id, provider, league, season, week, home_name, away_name, event_time FROM provider_events WHERE season = $1 AND week = $2 AND status = 'pending' ORDER BY id LIMIT $3",
		"mark_event_reconciled":   "UPDATE provider_events SET status = 'reconciled', game_id = $2, home_team_id = $3, away_team_id = $4, updated_at = NOW() WHERE id = $1",
		"record_event_miss":       "UPDATE provider_events SET status = 'unmatched', miss_reason = $2, updated_at = NOW() WHERE id = $1",

		// API: team lookup
		"team_by_id": "SELECT id, school, mascot FROM teams WHERE id = $1 AND league = $2 ORDER BY season DESC LIMIT 1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}

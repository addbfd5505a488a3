// Package batch orchestrates one reconciliation run: it drains staged
// provider events, resolves both team names, looks up the canonical game,
// and writes the outcome back plus the audit report.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/mhalvorsen/gridline-data/internal/db"
)

// Event is one staged provider record awaiting reconciliation. EventTime is
// zero when the provider posted no timestamp.
type Event struct {
	ID        int64
	Provider  string
	League    string
	Season    int
	Week      int
	HomeName  string
	AwayName  string
	EventTime time.Time
}

// EventSource stages provider events and records reconciliation outcomes.
type EventSource interface {
	// PendingEvents returns unreconciled events for the run's season and
	// week, oldest first, up to limit.
	PendingEvents(ctx context.Context, season, week, limit int) ([]Event, error)

	// MarkReconciled writes the resolved ids and matched game back.
	MarkReconciled(ctx context.Context, eventID, gameID int64, homeID, awayID string) error

	// RecordMiss stores the failure reason so the event is not re-drained
	// every run.
	RecordMiss(ctx context.Context, eventID int64, reason string) error
}

// PGSource is the pgx-backed EventSource over the provider_events staging
// table.
type PGSource struct {
	pool *db.Pool
}

func NewPGSource(pool *db.Pool) *PGSource {
	return &PGSource{pool: pool}
}

func (s *PGSource) PendingEvents(ctx context.Context, season, week, limit int) ([]Event, error) {
	rows, err := s.pool.Query(ctx, "pending_provider_events", season, week, limit)
	if err != nil {
		return nil, fmt.Errorf("pending provider events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e         Event
			eventTime *time.Time
		)
		if err := rows.Scan(&e.ID, &e.Provider, &e.League, &e.Season, &e.Week, &e.HomeName, &e.AwayName, &eventTime); err != nil {
			return nil, fmt.Errorf("scan provider event: %w", err)
		}
		if eventTime != nil {
			e.EventTime = *eventTime
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate provider events: %w", err)
	}
	return events, nil
}

func (s *PGSource) MarkReconciled(ctx context.Context, eventID, gameID int64, homeID, awayID string) error {
	_, err := s.pool.Exec(ctx, "mark_event_reconciled", eventID, gameID, homeID, awayID)
	if err != nil {
		return fmt.Errorf("mark event %d reconciled: %w", eventID, err)
	}
	return nil
}

func (s *PGSource) RecordMiss(ctx context.Context, eventID int64, reason string) error {
	_, err := s.pool.Exec(ctx, "record_event_miss", eventID, reason)
	if err != nil {
		return fmt.Errorf("record event %d miss: %w", eventID, err)
	}
	return nil
}

package batch

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mhalvorsen/gridline-data/internal/canon"
	"github.com/mhalvorsen/gridline-data/internal/schedule"
)

type memRegistry struct {
	teams []canon.Team
}

func (m memRegistry) Teams(ctx context.Context, season int) ([]canon.Team, error) {
	return m.teams, nil
}

type memHistory struct{}

func (memHistory) TeamIDs(ctx context.Context, from, to int) ([]string, error) {
	return nil, nil
}

type memGames struct {
	games []schedule.Game
}

func (m memGames) GamesByWeek(ctx context.Context, season, week int, homeID, awayID string) ([]schedule.Game, error) {
	var out []schedule.Game
	for _, g := range m.games {
		if g.Season == season && g.Week == week && g.HomeTeamID == homeID && g.AwayTeamID == awayID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m memGames) GamesByPair(ctx context.Context, season int, homeID, awayID string) ([]schedule.Game, error) {
	var out []schedule.Game
	for _, g := range m.games {
		if g.Season == season && g.HomeTeamID == homeID && g.AwayTeamID == awayID {
			out = append(out, g)
		}
	}
	return out, nil
}

type memSource struct {
	mu         sync.Mutex
	events     []Event
	reconciled map[int64]int64  // event id -> game id
	missed     map[int64]string // event id -> reason
}

func newMemSource(events ...Event) *memSource {
	return &memSource{
		events:     events,
		reconciled: make(map[int64]int64),
		missed:     make(map[int64]string),
	}
}

func (s *memSource) PendingEvents(ctx context.Context, season, week, limit int) ([]Event, error) {
	if limit < len(s.events) {
		return s.events[:limit], nil
	}
	return s.events, nil
}

func (s *memSource) MarkReconciled(ctx context.Context, eventID, gameID int64, homeID, awayID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconciled[eventID] = gameID
	return nil
}

func (s *memSource) RecordMiss(ctx context.Context, eventID int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missed[eventID] = reason
	return nil
}

func newTestRunner(t *testing.T, source EventSource, games []schedule.Game) *Runner {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deny := canon.NewDenylist(nil, "", nil)
	b := &canon.IndexBuilder{
		Registry: memRegistry{teams: []canon.Team{
			{ID: "georgia", School: "Georgia", Mascot: "Bulldogs"},
			{ID: "alabama", School: "Alabama", Mascot: "Crimson Tide"},
			{ID: "auburn", School: "Auburn", Mascot: "Tigers"},
		}},
		History: memHistory{},
		Deny:    deny,
		Floor:   10,
		Logger:  logger,
	}
	idx, err := b.Build(context.Background(), 2024)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	aliases, err := canon.NewAliasTable(nil, idx, deny, nil)
	if err != nil {
		t.Fatalf("NewAliasTable: %v", err)
	}
	resolver := canon.NewResolver("NCAAF", idx, deny, aliases, nil, 0.9, logger)
	matcher := schedule.NewMatcher(memGames{games: games}, schedule.Options{}, logger)
	return NewRunner(resolver, matcher, source, 2, logger)
}

func TestRunReconcilesEvents(t *testing.T) {
	kickoff := time.Date(2024, 9, 21, 19, 0, 0, 0, time.UTC)
	games := []schedule.Game{
		{ID: 42, Season: 2024, Week: 3, HomeTeamID: "georgia", AwayTeamID: "alabama", Kickoff: kickoff},
	}
	source := newMemSource(
		Event{ID: 1, Provider: "oddsfeed", League: "NCAAF", Season: 2024, Week: 3,
			HomeName: "Georgia Bulldogs", AwayName: "Alabama Crimson Tide", EventTime: kickoff.Add(30 * time.Minute)},
		Event{ID: 2, Provider: "oddsfeed", League: "NCAAF", Season: 2024, Week: 3,
			HomeName: "Unknown Wanderers", AwayName: "Alabama Crimson Tide"},
		Event{ID: 3, Provider: "oddsfeed", League: "NCAAF", Season: 2024, Week: 3,
			HomeName: "Georgia Bulldogs", AwayName: "Auburn Tigers", EventTime: kickoff},
	)

	r := newTestRunner(t, source, games)
	result, err := r.Run(context.Background(), 2024, 3, 100)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.EventsFound != 3 || result.EventsProcessed != 3 {
		t.Errorf("found=%d processed=%d, want 3/3", result.EventsFound, result.EventsProcessed)
	}
	if result.Reconciled != 1 || result.Missed != 2 {
		t.Errorf("reconciled=%d missed=%d, want 1/2", result.Reconciled, result.Missed)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}

	if source.reconciled[1] != 42 {
		t.Errorf("event 1 should land on game 42, got %d", source.reconciled[1])
	}
	if source.missed[2] != "unresolved_home" {
		t.Errorf("event 2 reason = %q, want unresolved_home", source.missed[2])
	}
	if source.missed[3] != string(schedule.ReasonNoCandidates) {
		t.Errorf("event 3 reason = %q, want %s", source.missed[3], schedule.ReasonNoCandidates)
	}

	// Every resolution and lookup lands in the stats: 6 name resolutions
	// (5 resolved, 1 not), 2 lookups (1 matched, 1 not).
	if result.Stats.Resolved != 5 || result.Stats.Unresolved != 1 {
		t.Errorf("stats resolved=%d unresolved=%d", result.Stats.Resolved, result.Stats.Unresolved)
	}
	if result.Stats.Matched != 1 || result.Stats.Unmatched != 1 {
		t.Errorf("stats matched=%d unmatched=%d", result.Stats.Matched, result.Stats.Unmatched)
	}
}

func TestRunEmpty(t *testing.T) {
	r := newTestRunner(t, newMemSource(), nil)
	result, err := r.Run(context.Background(), 2024, 3, 100)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.EventsFound != 0 || result.EventsProcessed != 0 {
		t.Errorf("empty run should process nothing: %s", result.Summary())
	}
}

package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// Strategy identifies which step of the matcher cascade produced a game.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyExact
	StrategyNarrow
	StrategyWide
	StrategySwapped
	StrategySeasonNearest
)

var strategyNames = [...]string{
	StrategyNone:          "none",
	StrategyExact:         "exact",
	StrategyNarrow:        "week_flex_narrow",
	StrategyWide:          "week_flex_wide",
	StrategySwapped:       "swapped_venue",
	StrategySeasonNearest: "season_nearest",
}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// AllStrategies lists every strategy in cascade order, for stats reporting.
func AllStrategies() []Strategy {
	return []Strategy{StrategyExact, StrategyNarrow, StrategyWide, StrategySwapped, StrategySeasonNearest}
}

// Reason distinguishes the two failure modes. Missing schedule rows and
// out-of-tolerance dates need different remediation, so the report keeps
// them apart.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonNoCandidates     Reason = "no_candidate_games"
	ReasonOutsideTolerance Reason = "outside_tolerance"
)

// Outcome is the result of one lookup. GameID is zero on a miss; Delta is
// the kickoff-to-event distance of the accepted game when an event time was
// supplied.
type Outcome struct {
	GameID   int64         `json:"gameId,omitempty"`
	Strategy Strategy      `json:"-"`
	Delta    time.Duration `json:"-"`
	Reason   Reason        `json:"reason,omitempty"`
}

// Matched reports whether the cascade produced a game.
func (o Outcome) Matched() bool { return o.GameID != 0 }

// Options tunes the matcher windows. Zero values get the observed defaults.
type Options struct {
	NarrowWindow time.Duration // week-flexible, same venue
	WideWindow   time.Duration // absorbs providers a full week off

	// SeasonFallback gates the season-only single-candidate strategy.
	SeasonFallback   bool
	SeasonWindow     time.Duration
	TransitionWindow time.Duration

	// TransitionPairs flags matchups with irregular scheduling (realignment
	// seasons). Entries are "teamA:teamB", venue-insensitive.
	TransitionPairs []string
}

const (
	defaultNarrowWindow     = 2 * 24 * time.Hour
	defaultWideWindow       = 6 * 24 * time.Hour
	defaultSeasonWindow     = 8 * 24 * time.Hour
	defaultTransitionWindow = 14 * 24 * time.Hour
)

// Matcher maps (season, week, home, away, optional event time) onto a
// canonical game via an ordered strategy cascade. It holds no mutable
// state and is safe for concurrent use.
type Matcher struct {
	store      Store
	opts       Options
	transition map[string]struct{}
	logger     *slog.Logger
}

func NewMatcher(store Store, opts Options, logger *slog.Logger) *Matcher {
	if opts.NarrowWindow <= 0 {
		opts.NarrowWindow = defaultNarrowWindow
	}
	if opts.WideWindow <= 0 {
		opts.WideWindow = defaultWideWindow
	}
	if opts.SeasonWindow <= 0 {
		opts.SeasonWindow = defaultSeasonWindow
	}
	if opts.TransitionWindow <= 0 {
		opts.TransitionWindow = defaultTransitionWindow
	}
	transition := make(map[string]struct{}, len(opts.TransitionPairs))
	for _, p := range opts.TransitionPairs {
		a, b, ok := strings.Cut(p, ":")
		if !ok {
			logger.Warn("ignoring malformed transition pair", "entry", p)
			continue
		}
		transition[pairKey(a, b)] = struct{}{}
	}
	return &Matcher{store: store, opts: opts, transition: transition, logger: logger}
}

// Lookup runs the strategy cascade. A zero eventTime means the provider
// supplied no timestamp; every strategy past the exact one needs a
// timestamp to window against and is skipped without one.
func (m *Matcher) Lookup(ctx context.Context, season, week int, homeID, awayID string, eventTime time.Time) (Outcome, error) {
	exact, err := m.store.GamesByWeek(ctx, season, week, homeID, awayID)
	if err != nil {
		return Outcome{}, fmt.Errorf("games by week: %w", err)
	}
	if len(exact) > 0 {
		return m.pickExact(exact, season, week, homeID, awayID, eventTime), nil
	}

	pair, err := m.store.GamesByPair(ctx, season, homeID, awayID)
	if err != nil {
		return Outcome{}, fmt.Errorf("games by pair: %w", err)
	}
	swapped, err := m.store.GamesByPair(ctx, season, awayID, homeID)
	if err != nil {
		return Outcome{}, fmt.Errorf("games by pair (swapped): %w", err)
	}

	if eventTime.IsZero() {
		return m.miss(len(pair)+len(swapped), homeID, awayID), nil
	}

	if g, delta, ok := nearestWithin(pair, eventTime, m.opts.NarrowWindow); ok {
		return Outcome{GameID: g.ID, Strategy: StrategyNarrow, Delta: delta}, nil
	}
	if g, delta, ok := nearestWithin(pair, eventTime, m.opts.WideWindow); ok {
		return Outcome{GameID: g.ID, Strategy: StrategyWide, Delta: delta}, nil
	}

	// Venue misreports: retry both windows with home and away exchanged.
	if g, delta, ok := nearestWithin(swapped, eventTime, m.opts.NarrowWindow); ok {
		return Outcome{GameID: g.ID, Strategy: StrategySwapped, Delta: delta}, nil
	}
	if g, delta, ok := nearestWithin(swapped, eventTime, m.opts.WideWindow); ok {
		return Outcome{GameID: g.ID, Strategy: StrategySwapped, Delta: delta}, nil
	}

	if m.opts.SeasonFallback {
		if o, ok := m.seasonNearest(pair, swapped, homeID, awayID, eventTime); ok {
			return o, nil
		}
	}

	return m.miss(len(pair)+len(swapped), homeID, awayID), nil
}

// pickExact handles the exact (season, week, home, away) hit, including the
// duplicate-row anomaly.
func (m *Matcher) pickExact(games []Game, season, week int, homeID, awayID string, eventTime time.Time) Outcome {
	g := games[0]
	var delta time.Duration
	if len(games) == 1 {
		if !eventTime.IsZero() {
			delta = absDelta(g.Kickoff, eventTime)
		}
		return Outcome{GameID: g.ID, Strategy: StrategyExact, Delta: delta}
	}

	// Duplicate rows for one matchup-week are a data-quality anomaly.
	// With an event time we can pick the nearest kickoff; without one we
	// take stored order, which is a known limitation rather than a guess.
	m.logger.Warn("duplicate schedule rows for exact key",
		"season", season, "week", week, "home", homeID, "away", awayID, "count", len(games))
	if eventTime.IsZero() {
		return Outcome{GameID: g.ID, Strategy: StrategyExact}
	}
	for _, c := range games[1:] {
		if absDelta(c.Kickoff, eventTime) < absDelta(g.Kickoff, eventTime) {
			g = c
		}
	}
	return Outcome{GameID: g.ID, Strategy: StrategyExact, Delta: absDelta(g.Kickoff, eventTime)}
}

// seasonNearest accepts the single season-wide meeting of the two teams if
// it falls within the fallback window. Pairs flagged as transitional get
// the wider window.
func (m *Matcher) seasonNearest(pair, swapped []Game, homeID, awayID string, eventTime time.Time) (Outcome, bool) {
	all := make([]Game, 0, len(pair)+len(swapped))
	all = append(all, pair...)
	all = append(all, swapped...)
	if len(all) != 1 {
		return Outcome{}, false
	}

	window := m.opts.SeasonWindow
	if _, ok := m.transition[pairKey(homeID, awayID)]; ok {
		window = m.opts.TransitionWindow
	}
	delta := absDelta(all[0].Kickoff, eventTime)
	if delta > window {
		return Outcome{}, false
	}
	m.logger.Info("season-only fallback accepted",
		"game_id", all[0].ID, "home", homeID, "away", awayID,
		"day_delta", delta.Hours()/24)
	return Outcome{GameID: all[0].ID, Strategy: StrategySeasonNearest, Delta: delta}, true
}

func (m *Matcher) miss(candidates int, homeID, awayID string) Outcome {
	reason := ReasonNoCandidates
	if candidates > 0 {
		reason = ReasonOutsideTolerance
	}
	m.logger.Debug("no game matched", "home", homeID, "away", awayID, "reason", string(reason))
	return Outcome{Reason: reason}
}

// nearestWithin returns the game whose kickoff is closest to eventTime,
// provided it is inside the window.
func nearestWithin(games []Game, eventTime time.Time, window time.Duration) (Game, time.Duration, bool) {
	var (
		best      Game
		bestDelta time.Duration
		found     bool
	)
	for _, g := range games {
		d := absDelta(g.Kickoff, eventTime)
		if d > window {
			continue
		}
		if !found || d < bestDelta {
			best, bestDelta, found = g, d, true
		}
	}
	return best, bestDelta, found
}

func absDelta(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d
}

func pairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return ids[0] + "|" + ids[1]
}

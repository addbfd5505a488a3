// Package audit accumulates per-run reconciliation statistics and emits the
// end-of-run report operators use to curate the alias table and denylist.
// Nothing here feeds back into resolution decisions.
package audit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mhalvorsen/gridline-data/internal/canon"
	"github.com/mhalvorsen/gridline-data/internal/schedule"
)

// UnmatchedName is one deduplicated provider string no resolver pass could
// place, with the near-miss candidates for human review.
type UnmatchedName struct {
	RawName    string            `json:"rawName"`
	League     string            `json:"league"`
	Candidates []canon.Candidate `json:"candidates,omitempty"`
	Count      int               `json:"count"`
}

// UnmatchedGame is one deduplicated event reference no matcher strategy
// could place. Reason separates missing schedule rows from date problems.
type UnmatchedGame struct {
	Season int             `json:"season"`
	Week   int             `json:"week"`
	HomeID string          `json:"homeId"`
	AwayID string          `json:"awayId"`
	Reason schedule.Reason `json:"reason"`
	Count  int             `json:"count"`
}

// Stats tracks counts and unmatched entities for one batch run. It is not
// safe for concurrent use; workers keep their own Stats and merge at the
// end of the run.
type Stats struct {
	Resolved   int
	Unresolved int
	Matched    int
	Unmatched  int

	passCounts     map[canon.Pass]int
	strategyCounts map[schedule.Strategy]int
	unmatchedNames map[string]*UnmatchedName
	unmatchedGames map[string]*UnmatchedGame
}

func NewStats() *Stats {
	return &Stats{
		passCounts:     make(map[canon.Pass]int),
		strategyCounts: make(map[schedule.Strategy]int),
		unmatchedNames: make(map[string]*UnmatchedName),
		unmatchedGames: make(map[string]*UnmatchedGame),
	}
}

// RecordResolution tallies one resolver outcome.
func (s *Stats) RecordResolution(rawName, league string, o canon.Outcome) {
	if o.Matched() {
		s.Resolved++
		s.passCounts[o.Pass]++
		return
	}
	s.Unresolved++
	key := league + "|" + strings.ToLower(strings.TrimSpace(rawName))
	if u, ok := s.unmatchedNames[key]; ok {
		u.Count++
		return
	}
	s.unmatchedNames[key] = &UnmatchedName{
		RawName:    rawName,
		League:     league,
		Candidates: o.Candidates,
		Count:      1,
	}
}

// RecordLookup tallies one matcher outcome.
func (s *Stats) RecordLookup(season, week int, homeID, awayID string, o schedule.Outcome) {
	if o.Matched() {
		s.Matched++
		s.strategyCounts[o.Strategy]++
		return
	}
	s.Unmatched++
	key := fmt.Sprintf("%d|%d|%s|%s", season, week, homeID, awayID)
	if u, ok := s.unmatchedGames[key]; ok {
		u.Count++
		return
	}
	s.unmatchedGames[key] = &UnmatchedGame{
		Season: season,
		Week:   week,
		HomeID: homeID,
		AwayID: awayID,
		Reason: o.Reason,
		Count:  1,
	}
}

// Merge folds another worker's Stats into this one.
func (s *Stats) Merge(other *Stats) {
	s.Resolved += other.Resolved
	s.Unresolved += other.Unresolved
	s.Matched += other.Matched
	s.Unmatched += other.Unmatched
	for p, n := range other.passCounts {
		s.passCounts[p] += n
	}
	for st, n := range other.strategyCounts {
		s.strategyCounts[st] += n
	}
	for key, u := range other.unmatchedNames {
		if have, ok := s.unmatchedNames[key]; ok {
			have.Count += u.Count
		} else {
			cp := *u
			s.unmatchedNames[key] = &cp
		}
	}
	for key, u := range other.unmatchedGames {
		if have, ok := s.unmatchedGames[key]; ok {
			have.Count += u.Count
		} else {
			cp := *u
			s.unmatchedGames[key] = &cp
		}
	}
}

// PassCount returns the tally for one resolver pass.
func (s *Stats) PassCount(p canon.Pass) int { return s.passCounts[p] }

// StrategyCount returns the tally for one matcher strategy.
func (s *Stats) StrategyCount(st schedule.Strategy) int { return s.strategyCounts[st] }

// UnmatchedNames returns the deduplicated unmatched provider strings,
// most frequent first.
func (s *Stats) UnmatchedNames() []UnmatchedName {
	out := make([]UnmatchedName, 0, len(s.unmatchedNames))
	for _, u := range s.unmatchedNames {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].RawName < out[j].RawName
	})
	return out
}

// UnmatchedGames returns the deduplicated unmatched event references,
// most frequent first.
func (s *Stats) UnmatchedGames() []UnmatchedGame {
	out := make([]UnmatchedGame, 0, len(s.unmatchedGames))
	for _, u := range s.unmatchedGames {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].HomeID < out[j].HomeID
	})
	return out
}

// Summary returns a one-line run summary for logs.
func (s *Stats) Summary() string {
	return fmt.Sprintf(
		"resolved=%d unresolved=%d matched=%d unmatched=%d unique_unmatched_names=%d unique_unmatched_games=%d",
		s.Resolved, s.Unresolved, s.Matched, s.Unmatched,
		len(s.unmatchedNames), len(s.unmatchedGames),
	)
}

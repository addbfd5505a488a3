package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mhalvorsen/gridline-data/internal/canon"
	"github.com/mhalvorsen/gridline-data/internal/schedule"
)

// Report is the per-run artifact written for offline review. Counts are
// keyed by pass and strategy name so the file reads without the code.
type Report struct {
	GeneratedAt    time.Time       `json:"generatedAt"`
	Season         int             `json:"season"`
	Week           int             `json:"week"`
	Resolved       int             `json:"resolved"`
	Unresolved     int             `json:"unresolved"`
	Matched        int             `json:"matched"`
	Unmatched      int             `json:"unmatched"`
	PassCounts     map[string]int  `json:"passCounts"`
	StrategyCounts map[string]int  `json:"strategyCounts"`
	UnmatchedNames []UnmatchedName `json:"unmatchedNames"`
	UnmatchedGames []UnmatchedGame `json:"unmatchedGames"`
}

// BuildReport snapshots the merged run stats into a report.
func BuildReport(season, week int, stats *Stats, now time.Time) *Report {
	passCounts := make(map[string]int, len(canon.AllPasses()))
	for _, p := range canon.AllPasses() {
		if n := stats.PassCount(p); n > 0 {
			passCounts[p.String()] = n
		}
	}
	strategyCounts := make(map[string]int, len(schedule.AllStrategies()))
	for _, st := range schedule.AllStrategies() {
		if n := stats.StrategyCount(st); n > 0 {
			strategyCounts[st.String()] = n
		}
	}
	return &Report{
		GeneratedAt:    now.UTC(),
		Season:         season,
		Week:           week,
		Resolved:       stats.Resolved,
		Unresolved:     stats.Unresolved,
		Matched:        stats.Matched,
		Unmatched:      stats.Unmatched,
		PassCounts:     passCounts,
		StrategyCounts: strategyCounts,
		UnmatchedNames: stats.UnmatchedNames(),
		UnmatchedGames: stats.UnmatchedGames(),
	}
}

// Filename returns the report's artifact name, sortable by time.
func (r *Report) Filename() string {
	return fmt.Sprintf("recon_%d_w%02d_%s.json", r.Season, r.Week, r.GeneratedAt.Format("20060102T150405Z"))
}

// Write serializes the report into dir, creating it if needed, and returns
// the written path.
func (r *Report) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	path := filepath.Join(dir, r.Filename())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// ReadReport loads a previously written artifact.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &r, nil
}

// ListReports returns report filenames in dir, newest first.
func ListReports(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list reports: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	// Timestamped names sort chronologically; reverse for newest first.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names, nil
}

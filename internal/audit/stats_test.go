package audit

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mhalvorsen/gridline-data/internal/canon"
	"github.com/mhalvorsen/gridline-data/internal/schedule"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStatsRecordResolution(t *testing.T) {
	s := NewStats()
	s.RecordResolution("Alabama", "NCAAF", canon.Outcome{TeamID: "alabama", Pass: canon.PassExactID})
	s.RecordResolution("Ole Miss Rebels", "NCAAF", canon.Outcome{TeamID: "mississippi", Pass: canon.PassAlias})
	s.RecordResolution("Nowhere FC", "NCAAF", canon.Outcome{
		Candidates: []canon.Candidate{{ID: "somewhere", Score: 0.6}},
	})
	s.RecordResolution("Nowhere FC", "NCAAF", canon.Outcome{})

	if s.Resolved != 2 || s.Unresolved != 2 {
		t.Errorf("resolved=%d unresolved=%d, want 2/2", s.Resolved, s.Unresolved)
	}
	if s.PassCount(canon.PassExactID) != 1 || s.PassCount(canon.PassAlias) != 1 {
		t.Error("pass counts not tallied")
	}

	names := s.UnmatchedNames()
	if len(names) != 1 {
		t.Fatalf("unmatched names should dedup, got %d", len(names))
	}
	if names[0].RawName != "Nowhere FC" || names[0].Count != 2 {
		t.Errorf("got %+v", names[0])
	}
	if len(names[0].Candidates) != 1 || names[0].Candidates[0].ID != "somewhere" {
		t.Errorf("candidates from the first sighting should be kept: %+v", names[0].Candidates)
	}
}

func TestStatsRecordLookup(t *testing.T) {
	s := NewStats()
	s.RecordLookup(2024, 3, "georgia", "alabama", schedule.Outcome{GameID: 1, Strategy: schedule.StrategyExact})
	s.RecordLookup(2024, 4, "georgia", "auburn", schedule.Outcome{Reason: schedule.ReasonNoCandidates})
	s.RecordLookup(2024, 4, "georgia", "auburn", schedule.Outcome{Reason: schedule.ReasonNoCandidates})

	if s.Matched != 1 || s.Unmatched != 2 {
		t.Errorf("matched=%d unmatched=%d, want 1/2", s.Matched, s.Unmatched)
	}
	games := s.UnmatchedGames()
	if len(games) != 1 || games[0].Count != 2 || games[0].Reason != schedule.ReasonNoCandidates {
		t.Errorf("got %+v", games)
	}
}

func TestStatsMerge(t *testing.T) {
	a := NewStats()
	a.RecordResolution("Alabama", "NCAAF", canon.Outcome{TeamID: "alabama", Pass: canon.PassExactID})
	a.RecordResolution("Nowhere FC", "NCAAF", canon.Outcome{})

	b := NewStats()
	b.RecordResolution("Georgia", "NCAAF", canon.Outcome{TeamID: "georgia", Pass: canon.PassExactID})
	b.RecordResolution("Nowhere FC", "NCAAF", canon.Outcome{})
	b.RecordLookup(2024, 3, "georgia", "alabama", schedule.Outcome{GameID: 1, Strategy: schedule.StrategyNarrow})

	a.Merge(b)

	if a.Resolved != 2 || a.Unresolved != 2 || a.Matched != 1 {
		t.Errorf("merged totals wrong: %s", a.Summary())
	}
	if a.PassCount(canon.PassExactID) != 2 {
		t.Errorf("pass count = %d, want 2", a.PassCount(canon.PassExactID))
	}
	names := a.UnmatchedNames()
	if len(names) != 1 || names[0].Count != 2 {
		t.Errorf("merge should combine duplicate unmatched names: %+v", names)
	}
	if a.StrategyCount(schedule.StrategyNarrow) != 1 {
		t.Error("strategy counts not merged")
	}
}

func TestUnmatchedNamesOrdering(t *testing.T) {
	s := NewStats()
	for i := 0; i < 3; i++ {
		s.RecordResolution("Busy Name", "NCAAF", canon.Outcome{})
	}
	s.RecordResolution("Another", "NCAAF", canon.Outcome{})
	s.RecordResolution("Zeta", "NCAAF", canon.Outcome{})

	names := s.UnmatchedNames()
	if names[0].RawName != "Busy Name" {
		t.Errorf("most frequent should come first: %+v", names)
	}
	if names[1].RawName != "Another" || names[2].RawName != "Zeta" {
		t.Errorf("equal counts should order by name: %+v", names)
	}
}

func TestReportRoundTrip(t *testing.T) {
	s := NewStats()
	s.RecordResolution("Alabama", "NCAAF", canon.Outcome{TeamID: "alabama", Pass: canon.PassExactID})
	s.RecordResolution("Nowhere FC", "NCAAF", canon.Outcome{})
	s.RecordLookup(2024, 3, "georgia", "alabama", schedule.Outcome{GameID: 1, Strategy: schedule.StrategyExact})

	now := time.Date(2024, 9, 21, 19, 0, 0, 0, time.UTC)
	r := BuildReport(2024, 3, s, now)
	if r.PassCounts["exact_id"] != 1 || r.StrategyCounts["exact"] != 1 {
		t.Errorf("counts keyed by name: %+v %+v", r.PassCounts, r.StrategyCounts)
	}

	dir := t.TempDir()
	path, err := r.Write(dir)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "recon_2024_w03_") {
		t.Errorf("unexpected artifact name %s", filepath.Base(path))
	}

	got, err := ReadReport(path)
	if err != nil {
		t.Fatalf("ReadReport: %v", err)
	}
	if got.Season != 2024 || got.Week != 3 || got.Unresolved != 1 {
		t.Errorf("round trip lost data: %+v", got)
	}
	if len(got.UnmatchedNames) != 1 || got.UnmatchedNames[0].RawName != "Nowhere FC" {
		t.Errorf("unmatched names lost: %+v", got.UnmatchedNames)
	}
}

func TestListReports(t *testing.T) {
	dir := t.TempDir()

	if names, err := ListReports(dir); err != nil || len(names) != 0 {
		t.Fatalf("empty dir: %v %v", names, err)
	}

	for _, name := range []string{"recon_2024_w01_20240901T000000Z.json", "recon_2024_w02_20240908T000000Z.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// Non-report files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := ListReports(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "recon_2024_w02_20240908T000000Z.json" {
		t.Errorf("want newest first, got %v", names)
	}
}

func TestSweepReports(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "recon_2023_w01_20230901T000000Z.json")
	fresh := filepath.Join(dir, "recon_2024_w03_20240921T000000Z.json")
	for _, p := range []string{old, fresh} {
		if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	cfg := RetentionConfig{Dir: dir, MaxAge: 24 * time.Hour, Interval: time.Hour}
	sweepReports(cfg, testLogger())

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("expired report should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh report should survive the sweep")
	}
}

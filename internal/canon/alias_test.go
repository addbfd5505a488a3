package canon

import (
	"strings"
	"testing"
)

func TestAliasTableValidLoad(t *testing.T) {
	idx := buildTestIndex(t)
	raw := map[string]string{
		"Ole Miss":        "mississippi",
		"Ole Miss Rebels": "mississippi",
		"UL Monroe":       "louisiana-monroe",
		"USC":             "southern-california",
	}
	table, err := NewAliasTable(raw, idx, testDeny(), nil)
	if err != nil {
		t.Fatalf("NewAliasTable: %v", err)
	}
	if table.Len() != 4 {
		t.Errorf("Len = %d, want 4", table.Len())
	}
	if id, ok := table.Lookup("ole miss"); !ok || id != "mississippi" {
		t.Errorf("Lookup(ole miss) = %q, %v", id, ok)
	}
}

func TestAliasTableDenylistedTargetFailsWholeLoad(t *testing.T) {
	idx := buildTestIndex(t, "grambling")
	raw := map[string]string{
		"Ole Miss":    "mississippi",
		"Florida A&M": "florida-am",
	}
	table, err := NewAliasTable(raw, idx, testDeny(), nil)
	if err == nil {
		t.Fatal("denylisted alias target must fail the load")
	}
	if !strings.Contains(err.Error(), "florida-am") {
		t.Errorf("error should identify the offending entry: %v", err)
	}
	if table != nil {
		t.Error("no aliases may be made available on a failed load")
	}
}

func TestAliasTableEnumeratesEveryViolation(t *testing.T) {
	idx := buildTestIndex(t)
	raw := map[string]string{
		"Good":     "alabama",
		"Bad One":  "no-such-team",
		"Bad Two":  "also-missing",
	}
	_, err := NewAliasTable(raw, idx, testDeny(), nil)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	for _, want := range []string{"no-such-team", "also-missing"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should enumerate %q: %v", want, err)
		}
	}
}

func TestAliasTableRenameSoftening(t *testing.T) {
	idx := buildTestIndex(t)
	renames := map[string]string{"ul-lafayette": "louisiana"}
	table, err := NewAliasTable(map[string]string{"Cajuns": "ul-lafayette"}, idx, testDeny(), renames)
	if err != nil {
		t.Fatalf("NewAliasTable: %v", err)
	}
	if id, _ := table.Lookup("cajuns"); id != "louisiana" {
		t.Errorf("renamed target = %q, want louisiana", id)
	}
}

func TestAliasTableASCIIFoldSoftening(t *testing.T) {
	idx := buildTestIndex(t)
	// san-jose-state is in the snapshot; the configured target carries a
	// diacritic variant of the same slug.
	table, err := NewAliasTable(map[string]string{"SJSU": "san-josé-state"}, idx, testDeny(), nil)
	if err != nil {
		t.Fatalf("NewAliasTable: %v", err)
	}
	if id, _ := table.Lookup("sjsu"); id != "san-jose-state" {
		t.Errorf("folded target = %q, want san-jose-state", id)
	}
}

func TestAliasTableConflictingKeys(t *testing.T) {
	idx := buildTestIndex(t)
	raw := map[string]string{
		"Ole Miss":  "mississippi",
		"ole  miss": "alabama", // normalizes to the same key, different target
	}
	_, err := NewAliasTable(raw, idx, testDeny(), nil)
	if err == nil || !strings.Contains(err.Error(), "conflicting") {
		t.Fatalf("conflicting alias keys should fail, got %v", err)
	}
}

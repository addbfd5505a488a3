package canon

import (
	"reflect"
	"testing"
)

func buildTestResolver(t *testing.T, extraHistory ...string) *Resolver {
	t.Helper()
	idx := buildTestIndex(t, extraHistory...)
	aliases, err := NewAliasTable(map[string]string{
		"Ole Miss":        "mississippi",
		"Ole Miss Rebels": "mississippi",
		"Louisiana State": "lsu",
		"UL Monroe":       "louisiana-monroe",
	}, idx, testDeny(), nil)
	if err != nil {
		t.Fatalf("NewAliasTable: %v", err)
	}
	exceptions := map[string]string{
		"Louisiana": "louisiana",
		"USC":       "southern-california",
	}
	return NewResolver("NCAAF", idx, testDeny(), aliases, exceptions, 0.9, testLogger())
}

func TestResolveExactID(t *testing.T) {
	r := buildTestResolver(t)
	o := r.Resolve("  alabama ", "NCAAF")
	if o.TeamID != "alabama" || o.Pass != PassExactID {
		t.Errorf("got %q via %s, want alabama via exact_id", o.TeamID, o.Pass)
	}
}

func TestResolveExceptionTable(t *testing.T) {
	r := buildTestResolver(t)

	o := r.Resolve("USC", "NCAAF")
	if o.TeamID != "southern-california" || o.Pass != PassException {
		t.Errorf("USC: got %q via %s", o.TeamID, o.Pass)
	}

	// The exception table outranks the slug pass even when the slug
	// would resolve to the same program.
	o = r.Resolve("Louisiana", "NCAAF")
	if o.TeamID != "louisiana" || o.Pass != PassException {
		t.Errorf("Louisiana: got %q via %s", o.TeamID, o.Pass)
	}
}

func TestResolveSlug(t *testing.T) {
	r := buildTestResolver(t)
	o := r.Resolve("Oklahoma State University", "NCAAF")
	if o.TeamID != "oklahoma-state" || o.Pass != PassSlug {
		t.Errorf("got %q via %s, want oklahoma-state via slug", o.TeamID, o.Pass)
	}
}

// The end-to-end scenario: "Ole Miss Rebels" alias-maps to mississippi.
func TestResolveAlias(t *testing.T) {
	r := buildTestResolver(t)
	o := r.Resolve("Ole Miss Rebels", "NCAAF")
	if o.TeamID != "mississippi" || o.Pass != PassAlias {
		t.Errorf("got %q via %s, want mississippi via alias", o.TeamID, o.Pass)
	}
}

// Alias hits are authoritative: "Louisiana State" maps to lsu by alias,
// although the generic mascot strip would otherwise land on louisiana.
func TestResolveAliasAuthority(t *testing.T) {
	r := buildTestResolver(t)
	o := r.Resolve("Louisiana State", "NCAAF")
	if o.TeamID != "lsu" || o.Pass != PassAlias {
		t.Errorf("got %q via %s, want lsu via alias", o.TeamID, o.Pass)
	}
}

// Without the alias, "Louisiana State" must resolve to nothing at all:
// the tail strip produces louisiana, and the parity guard (raw name has
// the state marker, the candidate does not) rejects it.
func TestResolveStripGuardedByParity(t *testing.T) {
	idx := buildTestIndex(t)
	empty, err := NewAliasTable(nil, idx, testDeny(), nil)
	if err != nil {
		t.Fatalf("NewAliasTable: %v", err)
	}
	r := NewResolver("NCAAF", idx, testDeny(), empty, nil, 0.9, testLogger())

	o := r.Resolve("Louisiana State", "NCAAF")
	if o.Matched() {
		t.Fatalf("Louisiana State resolved to %q via %s; want no match", o.TeamID, o.Pass)
	}
}

// A validated alias is still re-checked against the run's denylist.
func TestResolveAliasDenyRecheck(t *testing.T) {
	idx := buildTestIndex(t)
	aliases, err := NewAliasTable(map[string]string{"UL Monroe": "louisiana-monroe"}, idx, testDeny(), nil)
	if err != nil {
		t.Fatalf("NewAliasTable: %v", err)
	}
	stricter := NewDenylist([]string{"louisiana-monroe"}, "-am", []string{"texas-am"})
	r := NewResolver("NCAAF", idx, stricter, aliases, nil, 0.9, testLogger())

	if o := r.Resolve("UL Monroe", "NCAAF"); o.Matched() {
		t.Errorf("denylisted alias target must not resolve, got %q via %s", o.TeamID, o.Pass)
	}
}

func TestResolveMascotStrip(t *testing.T) {
	r := buildTestResolver(t)

	tests := []struct {
		in   string
		want string
	}{
		{"Alabama Crimson Tide", "alabama"},
		{"Oklahoma State Cowboys", "oklahoma-state"},
		{"Texas A&M Aggies", "texas-am"},
	}
	for _, tt := range tests {
		o := r.Resolve(tt.in, "NCAAF")
		if o.TeamID != tt.want || o.Pass != PassMascotStrip {
			t.Errorf("Resolve(%q) = %q via %s, want %s via mascot_strip", tt.in, o.TeamID, o.Pass, tt.want)
		}
	}
}

// The two Miamis share an ambiguous school slug; only the combined
// name+mascot key can place them.
func TestResolveNameMascot(t *testing.T) {
	r := buildTestResolver(t)

	o := r.Resolve("Miami RedHawks", "NCAAF")
	if o.TeamID != "miami-oh" || o.Pass != PassNameMascot {
		t.Errorf("Miami RedHawks: got %q via %s, want miami-oh via name_mascot", o.TeamID, o.Pass)
	}
	o = r.Resolve("Miami Hurricanes", "NCAAF")
	if o.TeamID != "miami-fl" || o.Pass != PassNameMascot {
		t.Errorf("Miami Hurricanes: got %q via %s, want miami-fl via name_mascot", o.TeamID, o.Pass)
	}
}

func TestResolveFuzzy(t *testing.T) {
	r := buildTestResolver(t)

	// Token order scrambled: only token-set similarity can place it.
	o := r.Resolve("Monroe Louisiana", "NCAAF")
	if o.TeamID != "louisiana-monroe" || o.Pass != PassFuzzy {
		t.Errorf("got %q via %s, want louisiana-monroe via fuzzy", o.TeamID, o.Pass)
	}
	if len(o.Candidates) == 0 || o.Candidates[0].ID != "louisiana-monroe" {
		t.Errorf("fuzzy candidates should lead with the winner: %+v", o.Candidates)
	}
}

func TestResolveFuzzyTieRejected(t *testing.T) {
	r := buildTestResolver(t, "bravo-alfa-charlie", "charlie-alfa-bravo")

	o := r.Resolve("Alfa Bravo Charlie", "NCAAF")
	if o.Matched() {
		t.Fatalf("identical top scores must be ambiguous, got %q via %s", o.TeamID, o.Pass)
	}
	if len(o.Candidates) < 2 {
		t.Errorf("both tied candidates should be retained: %+v", o.Candidates)
	}
}

func TestResolveFuzzyGuardedByParity(t *testing.T) {
	const id = "alfa-bravo-charlie-delta-echo-foxtrot-golf-hotel-india"
	r := buildTestResolver(t, id)

	o := r.Resolve("Alfa Bravo Charlie Delta Echo Foxtrot Golf Hotel India State", "NCAAF")
	if o.Matched() {
		t.Fatalf("parity mismatch must block the fuzzy pass, got %q via %s", o.TeamID, o.Pass)
	}
	if len(o.Candidates) == 0 || o.Candidates[0].ID != id {
		t.Errorf("blocked candidate should still be reported: %+v", o.Candidates)
	}
}

func TestResolveCandidatesCappedAtThree(t *testing.T) {
	r := buildTestResolver(t, "zulu-aa", "zulu-bb", "zulu-cc", "zulu-dd")

	o := r.Resolve("Zulu", "NCAAF")
	if o.Matched() {
		t.Fatalf("no clear winner expected, got %q", o.TeamID)
	}
	if len(o.Candidates) != 3 {
		t.Errorf("candidates = %d, want cap of 3: %+v", len(o.Candidates), o.Candidates)
	}
}

func TestResolveNoMatch(t *testing.T) {
	r := buildTestResolver(t)
	o := r.Resolve("Sydney Roosters", "NCAAF")
	if o.Matched() || o.Pass != PassNone {
		t.Errorf("got %q via %s, want no match", o.TeamID, o.Pass)
	}
}

func TestResolveWrongLeague(t *testing.T) {
	r := buildTestResolver(t)
	if o := r.Resolve("Alabama", "NBA"); o.Matched() {
		t.Errorf("wrong league must not resolve, got %q", o.TeamID)
	}
}

func TestResolveIdempotent(t *testing.T) {
	r := buildTestResolver(t)
	for _, name := range []string{"Ole Miss Rebels", "Monroe Louisiana", "Nowhere FC"} {
		a := r.Resolve(name, "NCAAF")
		b := r.Resolve(name, "NCAAF")
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Resolve(%q) not idempotent: %+v vs %+v", name, a, b)
		}
	}
}

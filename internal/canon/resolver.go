package canon

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/mhalvorsen/gridline-data/internal/names"
)

// Pass identifies which resolver pass produced a match.
type Pass int

// Passes in cascade order. First hit wins; later passes are more
// permissive and therefore guarded.
const (
	PassNone Pass = iota
	PassExactID
	PassException
	PassSlug
	PassAlias
	PassMascotStrip
	PassNameMascot
	PassFuzzy
)

var passNames = map[Pass]string{
	PassNone:        "none",
	PassExactID:     "exact_id",
	PassException:   "exception_table",
	PassSlug:        "slug",
	PassAlias:       "alias",
	PassMascotStrip: "mascot_strip",
	PassNameMascot:  "name_mascot",
	PassFuzzy:       "fuzzy",
}

func (p Pass) String() string {
	if s, ok := passNames[p]; ok {
		return s
	}
	return "unknown"
}

// AllPasses lists every matching pass in cascade order, for stable
// report output.
func AllPasses() []Pass {
	return []Pass{PassExactID, PassException, PassSlug, PassAlias,
		PassMascotStrip, PassNameMascot, PassFuzzy}
}

// Candidate is a near-miss retained for human review.
type Candidate struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Outcome is the result of one resolution. TeamID is empty when no pass
// matched; Candidates carry the best-scoring near misses (capped at 3)
// for the audit report.
type Outcome struct {
	TeamID     string
	Pass       Pass
	Candidates []Candidate
}

// Matched reports whether a canonical id was resolved.
func (o Outcome) Matched() bool { return o.TeamID != "" }

// Resolver maps free-text provider names to canonical team ids through
// an ordered cascade of increasingly permissive passes. Resolve never
// fails with an error for "no match" — an unresolved name is an ordinary
// outcome of noisy provider data.
//
// A Resolver is built once per run from immutable parts and is safe for
// concurrent use.
type Resolver struct {
	league     string
	idx        *Index
	deny       *Denylist
	aliases    *AliasTable
	exceptions map[string]string
	threshold  float64
	logger     *slog.Logger
}

// NewResolver assembles a resolver from validated, immutable parts.
// exceptions is the curated token-parity exception table; keys are
// normalized here so config spelling does not matter.
func NewResolver(
	league string,
	idx *Index,
	deny *Denylist,
	aliases *AliasTable,
	exceptions map[string]string,
	fuzzyThreshold float64,
	logger *slog.Logger,
) *Resolver {
	normalized := make(map[string]string, len(exceptions))
	for k, v := range exceptions {
		normalized[names.Normalize(k)] = v
	}
	return &Resolver{
		league:     league,
		idx:        idx,
		deny:       deny,
		aliases:    aliases,
		exceptions: normalized,
		threshold:  fuzzyThreshold,
		logger:     logger,
	}
}

// League returns the league this resolver was built for.
func (r *Resolver) League() string { return r.league }

// Resolve maps one raw provider name to zero-or-one canonical id.
func (r *Resolver) Resolve(rawName, league string) Outcome {
	if league != "" && !strings.EqualFold(league, r.league) {
		r.logger.Warn("Resolve called for wrong league",
			"want", r.league, "got", league, "name", rawName)
		return Outcome{Pass: PassNone}
	}

	// Pass 1: raw string already is a canonical id. Cheap short circuit
	// for round-tripped data.
	trimmed := strings.TrimSpace(rawName)
	if r.idx.Has(trimmed) {
		return Outcome{TeamID: trimmed, Pass: PassExactID}
	}

	normalized := names.Normalize(rawName)
	if normalized == "" {
		return Outcome{Pass: PassNone}
	}

	// Pass 2: curated exception table. Authoritative — these are the
	// schools whose names break the State/Tech convention, and a later
	// heuristic must never override them.
	if id, ok := r.exceptions[normalized]; ok && r.idx.Has(id) {
		return Outcome{TeamID: id, Pass: PassException}
	}

	// Pass 3: exact normalized slug, parity-guarded.
	slug := hyphenate(normalized)
	if id, ok := r.idx.LookupSlug(slug); ok && !ViolatesParity(rawName, id) {
		return Outcome{TeamID: id, Pass: PassSlug}
	}

	// Pass 4: alias table. Aliases are explicit human decisions and
	// bypass the parity guard; the denylist re-check is defense in depth
	// against an index/config drift within a run.
	if id, ok := r.aliases.Lookup(normalized); ok && !r.deny.Rejected(id) {
		return Outcome{TeamID: id, Pass: PassAlias}
	}

	// Pass 5: mascot stripping. Known multi-word mascots first (longest
	// wins), then a generic single trailing token.
	if id, ok := r.stripMascot(rawName, normalized); ok {
		return Outcome{TeamID: id, Pass: PassMascotStrip}
	}

	// Pass 6: combined school+mascot key, for providers that concatenate
	// both.
	if id, ok := r.idx.LookupNameMascot(slug); ok && !ViolatesParity(rawName, id) {
		return Outcome{TeamID: id, Pass: PassNameMascot}
	}

	// Pass 7: conservative fuzzy.
	return r.fuzzy(rawName, normalized)
}

// stripMascot removes a known mascot suffix, then a generic trailing
// token, re-attempting the slug lookup after each strip. The parity
// guard runs against the ORIGINAL raw name: the generic strip can eat a
// structural token ("Louisiana State" -> "louisiana"), and only the
// unstripped form still carries the evidence to reject that.
func (r *Resolver) stripMascot(rawName, normalized string) (string, bool) {
	for _, mascot := range r.idx.Mascots() {
		stripped, ok := strings.CutSuffix(normalized, " "+mascot)
		if !ok {
			continue
		}
		if id, ok := r.idx.LookupSlug(hyphenate(stripped)); ok && !ViolatesParity(rawName, id) {
			return id, true
		}
	}

	tokens := strings.Fields(normalized)
	if len(tokens) >= 2 {
		stripped := strings.Join(tokens[:len(tokens)-1], " ")
		if id, ok := r.idx.LookupSlug(hyphenate(stripped)); ok && !ViolatesParity(rawName, id) {
			return id, true
		}
	}
	return "", false
}

// fuzzy scores every index candidate by token-set similarity and accepts
// only a clear winner: top score at or above the threshold AND strictly
// greater than the runner-up. An exact tie between two candidates is
// ambiguity, not a coin flip. The top three candidates scoring >= 0.5
// are retained for the audit report whatever the outcome.
func (r *Resolver) fuzzy(rawName, normalized string) Outcome {
	rawTokens := tokenSet(strings.Fields(normalized))

	type scored struct {
		id    string
		score float64
	}
	var all []scored
	for _, id := range r.idx.IDs() {
		s := jaccard(rawTokens, tokenSet(names.SlugTokens(id)))
		if s > 0 {
			all = append(all, scored{id, s})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].id < all[j].id
	})

	var candidates []Candidate
	for _, s := range all {
		if s.score < 0.5 || len(candidates) == 3 {
			break
		}
		candidates = append(candidates, Candidate{ID: s.id, Score: s.score})
	}

	if len(all) == 0 || all[0].score < r.threshold {
		return Outcome{Pass: PassNone, Candidates: candidates}
	}
	if len(all) > 1 && all[1].score == all[0].score {
		// Two candidates at identical top similarity: ambiguous.
		r.logger.Debug("Fuzzy tie rejected",
			"name", rawName, "a", all[0].id, "b", all[1].id, "score", all[0].score)
		return Outcome{Pass: PassNone, Candidates: candidates}
	}
	if ViolatesParity(rawName, all[0].id) {
		return Outcome{Pass: PassNone, Candidates: candidates}
	}
	return Outcome{TeamID: all[0].id, Pass: PassFuzzy, Candidates: candidates}
}

func hyphenate(normalized string) string {
	return strings.ReplaceAll(normalized, " ", "-")
}

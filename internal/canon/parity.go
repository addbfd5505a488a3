package canon

import "github.com/mhalvorsen/gridline-data/internal/names"

// parityTokens are the structural naming tokens whose presence must agree
// between a raw provider name and a candidate id. High-similarity fuzzy
// passes otherwise collapse pairs like oklahoma / oklahoma-state — the
// single most common fuzzy failure in this domain. "am" is what "A&M"
// normalizes to.
var parityTokens = [...]string{"state", "tech", "am"}

// ViolatesParity reports whether rawName and candidateID disagree on the
// presence of any structural token. Consulted by the slug, mascot-strip,
// combined and fuzzy passes; never by the exact-id or exception passes,
// which are authoritative by construction.
func ViolatesParity(rawName, candidateID string) bool {
	raw := tokenSet(names.Tokens(rawName))
	cand := tokenSet(names.SlugTokens(candidateID))
	for _, tok := range parityTokens {
		_, inRaw := raw[tok]
		_, inCand := cand[tok]
		if inRaw != inCand {
			return true
		}
	}
	return false
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

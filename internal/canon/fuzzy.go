package canon

// jaccard is token-set similarity: |a ∩ b| / |a ∪ b|.
//
// No stemming, no edit distance — token overlap is deliberate. Provider
// names diverge by whole tokens (mascots, abbreviations, campus
// markers), and character-level similarity is exactly what collapses
// oklahoma into oklahoma-state.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

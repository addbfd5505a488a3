package canon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mhalvorsen/gridline-data/internal/names"
)

// AliasTable is the validated provider-string -> canonical-id mapping.
// It is produced by a pure load-then-validate function and never mutated
// after construction; alias hits are explicit human decisions and rank
// above every heuristic pass except the exact-id short circuit and the
// curated exception table.
type AliasTable struct {
	entries map[string]string // normalized provider string -> canonical id
}

// NewAliasTable validates every alias target against the index and
// denylist. Any violation fails the whole load with every offending
// entry enumerated — a partial alias table silently redirects odds data,
// which is worse than a hard stop.
//
// Before declaring a target missing, the loader tries the ASCII-folded
// slug variant and the historical rename table, so a config written
// against an older season's spelling keeps working.
func NewAliasTable(raw map[string]string, idx *Index, deny *Denylist, renames map[string]string) (*AliasTable, error) {
	entries := make(map[string]string, len(raw))
	var violations []string

	for provider, target := range raw {
		key := names.Normalize(provider)
		if key == "" {
			violations = append(violations, fmt.Sprintf("alias %q: empty after normalization", provider))
			continue
		}

		resolved, ok := resolveTarget(target, idx, renames)
		if !ok {
			violations = append(violations, fmt.Sprintf("alias %q -> %q: target not in canonical index", provider, target))
			continue
		}
		if deny.Rejected(resolved) {
			violations = append(violations, fmt.Sprintf("alias %q -> %q: target is denylisted", provider, resolved))
			continue
		}
		if prev, dup := entries[key]; dup && prev != resolved {
			violations = append(violations, fmt.Sprintf("alias %q: conflicting targets %q and %q", provider, prev, resolved))
			continue
		}
		entries[key] = resolved
	}

	if len(violations) > 0 {
		sort.Strings(violations)
		return nil, fmt.Errorf("alias table validation failed (%d entries):\n  %s",
			len(violations), strings.Join(violations, "\n  "))
	}
	return &AliasTable{entries: entries}, nil
}

// resolveTarget maps a configured target to an id present in the index,
// trying the literal slug, its ASCII-folded variant, then one hop
// through the rename table.
func resolveTarget(target string, idx *Index, renames map[string]string) (string, bool) {
	if idx.Has(target) {
		return target, true
	}
	if v := slugVariant(target); idx.Has(v) {
		return v, true
	}
	if renamed, ok := renames[target]; ok && idx.Has(renamed) {
		return renamed, true
	}
	return "", false
}

// Lookup resolves a normalized provider string. Callers normalize via
// names.Normalize before calling.
func (t *AliasTable) Lookup(normalized string) (string, bool) {
	id, ok := t.entries[normalized]
	return id, ok
}

// Len returns the number of validated aliases.
func (t *AliasTable) Len() int { return len(t.entries) }

package canon

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mhalvorsen/gridline-data/internal/names"
)

// Team is a row from the primary team registry.
type Team struct {
	ID     string // canonical slug
	School string // display name, e.g. "Ole Miss"
	Mascot string // e.g. "Rebels"
}

// RegistrySource yields the primary team registry for a season.
type RegistrySource interface {
	Teams(ctx context.Context, season int) ([]Team, error)
}

// HistorySource yields every team id appearing in stored game rows over
// a season range. This catches programs the registry missed, at the cost
// of also surfacing lower-tier opponents — which is what the denylist
// filter is for.
type HistorySource interface {
	TeamIDs(ctx context.Context, fromSeason, toSeason int) ([]string, error)
}

// Index is the immutable-after-build set of valid canonical team ids for
// one season, plus the lookup maps the resolver passes key into. Safe
// for concurrent reads once built.
type Index struct {
	season       int
	ids          map[string]struct{}
	bySlug       map[string]string // normalized school slug -> id
	byNameMascot map[string]string // school+mascot slug -> id
	mascots      []string          // normalized mascot names, longest first
}

// IndexBuilder unions the backing sources into an Index.
type IndexBuilder struct {
	Registry RegistrySource
	History  HistorySource
	Deny     *Denylist

	// Floor is the minimum admissible index size. An index below the
	// floor is treated as silent data corruption and aborts the run.
	Floor int

	// HistorySeasons is how many seasons back the history source scans.
	HistorySeasons int

	Logger *slog.Logger
}

// Build constructs the canonical index for a season or fails fatally.
func (b *IndexBuilder) Build(ctx context.Context, season int) (*Index, error) {
	idx := &Index{
		season:       season,
		ids:          make(map[string]struct{}),
		bySlug:       make(map[string]string),
		byNameMascot: make(map[string]string),
	}

	filtered := 0
	admit := func(id string) bool {
		if id == "" {
			return false
		}
		if b.Deny.Rejected(id) {
			filtered++
			return false
		}
		idx.ids[id] = struct{}{}
		return true
	}

	// A key mapping to two different programs is ambiguous and is
	// dropped from the map entirely: "miami" must not silently pick one
	// of miami-fl / miami-oh. The combined name+mascot key still
	// disambiguates those.
	keySetter := func(m map[string]string) func(key, id string) {
		ambiguous := make(map[string]struct{})
		return func(key, id string) {
			if key == "" {
				return
			}
			if _, bad := ambiguous[key]; bad {
				return
			}
			if prev, ok := m[key]; ok && prev != id {
				delete(m, key)
				ambiguous[key] = struct{}{}
				return
			}
			m[key] = id
		}
	}
	setSlug := keySetter(idx.bySlug)
	setCombined := keySetter(idx.byNameMascot)

	// Source 1: primary team registry. Only the registry carries school
	// and mascot strings, so it alone feeds the name and mascot maps.
	teams, err := b.Registry.Teams(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("index registry source: %w", err)
	}
	mascotSet := make(map[string]struct{})
	for _, t := range teams {
		if !admit(t.ID) {
			continue
		}
		setSlug(names.Slugify(t.School), t.ID)
		if t.Mascot != "" {
			mascotSet[names.Normalize(t.Mascot)] = struct{}{}
			setCombined(names.Slugify(t.School+" "+t.Mascot), t.ID)
		}
	}
	registryCount := len(idx.ids)

	// Source 2: historical game rows for the trailing season range.
	from := season - b.HistorySeasons
	if b.HistorySeasons <= 0 {
		from = season
	}
	histIDs, err := b.History.TeamIDs(ctx, from, season)
	if err != nil {
		return nil, fmt.Errorf("index history source: %w", err)
	}
	for _, id := range histIDs {
		admit(id)
	}
	historyCount := len(idx.ids) - registryCount

	// Source 3: checked-in snapshot.
	for _, id := range snapshotTeams {
		admit(id)
	}
	snapshotCount := len(idx.ids) - registryCount - historyCount

	// Canary injection: these bypass the sources but not sanity — a
	// denylisted canary would be a config bug worth failing on loudly.
	canaries := 0
	for _, id := range canaryTeams {
		if b.Deny.Rejected(id) {
			return nil, fmt.Errorf("canary team %q is denylisted; fix the canon config", id)
		}
		if _, ok := idx.ids[id]; !ok {
			idx.ids[id] = struct{}{}
			canaries++
		}
	}

	// Every known id also resolves as its own slug key, unless that key
	// was already claimed or went ambiguous.
	for id := range idx.ids {
		if _, ok := idx.bySlug[id]; !ok {
			setSlug(id, id)
		}
	}

	idx.mascots = make([]string, 0, len(mascotSet))
	for m := range mascotSet {
		idx.mascots = append(idx.mascots, m)
	}
	// Longest first so multi-word mascots strip before their tail word.
	sort.Slice(idx.mascots, func(i, j int) bool {
		if len(idx.mascots[i]) != len(idx.mascots[j]) {
			return len(idx.mascots[i]) > len(idx.mascots[j])
		}
		return idx.mascots[i] < idx.mascots[j]
	})

	b.Logger.Info("Canonical index built",
		"season", season,
		"registry", registryCount,
		"history_new", historyCount,
		"snapshot_new", snapshotCount,
		"canaries_injected", canaries,
		"denylist_filtered", filtered,
		"total", len(idx.ids))

	if len(idx.ids) < b.Floor {
		return nil, fmt.Errorf(
			"canonical index undersized: %d teams < floor %d (season %d); refusing to run against a corrupt index",
			len(idx.ids), b.Floor, season)
	}
	return idx, nil
}

// Season returns the season the index was built for.
func (i *Index) Season() int { return i.season }

// Size returns the number of canonical ids.
func (i *Index) Size() int { return len(i.ids) }

// Has reports whether id is a valid canonical id.
func (i *Index) Has(id string) bool {
	_, ok := i.ids[id]
	return ok
}

// LookupSlug resolves a normalized school slug to a canonical id.
func (i *Index) LookupSlug(slug string) (string, bool) {
	id, ok := i.bySlug[slug]
	return id, ok
}

// LookupNameMascot resolves a combined school+mascot slug.
func (i *Index) LookupNameMascot(slug string) (string, bool) {
	id, ok := i.byNameMascot[slug]
	return id, ok
}

// Mascots returns known mascot names, normalized, longest first.
func (i *Index) Mascots() []string { return i.mascots }

// IDs returns all canonical ids in sorted order. Sorted so fuzzy scoring
// visits candidates deterministically.
func (i *Index) IDs() []string {
	out := make([]string, 0, len(i.ids))
	for id := range i.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// slugVariant returns the ASCII-folded slug form of an id, used by the
// alias loader to absorb diacritic drift between config and index.
func slugVariant(id string) string {
	return names.Slugify(strings.ReplaceAll(id, "-", " "))
}

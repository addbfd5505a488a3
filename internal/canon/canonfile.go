// Package canon implements canonical team identity for the reconciliation
// pipeline: the season-scoped canonical index, the denylist, the curated
// alias table, and the multi-pass resolver that maps free-text provider
// names onto canonical ids.
//
// Everything here is built once per batch run and read-only afterwards.
// The index, denylist and alias table are plain values threaded into the
// resolver — there is no package-level mutable state.
package canon

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigLocations are tried in order when no explicit override
// path is configured.
var DefaultConfigLocations = []string{
	"canon.yaml",
	filepath.Join("config", "canon.yaml"),
}

// File is the human-edited canonical mapping resource. Aliases and the
// denylist live in the same structured file — identifiers are never
// scraped out of program source.
type File struct {
	// Aliases maps a provider string (normalized at load) to a canonical id.
	Aliases map[string]string `yaml:"aliases"`

	// Denylist is the exact rejection set: known-confusable lower-tier
	// program slugs that must never enter the index or be an alias target.
	Denylist []string `yaml:"denylist"`

	// DenySuffix is a slug suffix that signals a lower-tier program.
	// DenySuffixExceptions names the rare top-tier programs that
	// legitimately carry it.
	DenySuffix           string   `yaml:"deny_suffix"`
	DenySuffixExceptions []string `yaml:"deny_suffix_exceptions"`

	// ParityExceptions is the curated table of provider names whose
	// official school name breaks the State/Tech naming convention.
	// Checked before every generic pass; never overridden by heuristics.
	ParityExceptions map[string]string `yaml:"parity_exceptions"`

	// Renames maps retired canonical slugs to their current form.
	Renames map[string]string `yaml:"renames"`
}

// Locate returns the first existing config path. The override path, when
// set, must exist — a configured-but-missing resource is an operator
// error, not a fallthrough.
func Locate(override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", fmt.Errorf("canon config %s: %w", override, err)
		}
		return override, nil
	}
	for _, p := range DefaultConfigLocations {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("canon config not found (tried %v); set GRIDLINE_CANON_CONFIG", DefaultConfigLocations)
}

// LoadFile parses the canonical mapping resource at path. Parsing is
// deliberately separate from validation: a well-formed file always
// parses, and alias targets are validated against the index and denylist
// in NewAliasTable so config errors surface with every offending entry
// enumerated.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read canon config: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse canon config %s: %w", path, err)
	}
	return &f, nil
}

package canon

import "strings"

// Denylist rejects canonical ids that belong to lower-tier programs with
// confusable names. Two independent checks, OR'd: exact membership in the
// maintained rejection set, and a slug-suffix pattern with an explicit
// exception allowlist.
//
// New collisions are added to the exact set, not by broadening the
// pattern — a wider pattern causes collateral rejections.
type Denylist struct {
	exact      map[string]struct{}
	suffix     string
	exceptions map[string]struct{}
}

// NewDenylist builds a Denylist from the config resource fields.
func NewDenylist(exact []string, suffix string, exceptions []string) *Denylist {
	d := &Denylist{
		exact:      make(map[string]struct{}, len(exact)),
		suffix:     suffix,
		exceptions: make(map[string]struct{}, len(exceptions)),
	}
	for _, id := range exact {
		d.exact[id] = struct{}{}
	}
	for _, id := range exceptions {
		d.exceptions[id] = struct{}{}
	}
	return d
}

// Rejected reports whether the candidate id is denylisted.
func (d *Denylist) Rejected(id string) bool {
	if _, ok := d.exact[id]; ok {
		return true
	}
	if d.suffix != "" && strings.HasSuffix(id, d.suffix) {
		if _, allowed := d.exceptions[id]; !allowed {
			return true
		}
	}
	return false
}

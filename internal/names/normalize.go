// Package names provides pure string normalization for provider team names.
// Normalization is the shared front door for every index key and resolver
// pass: lowercase, fold accents to base Latin letters, drop punctuation,
// drop institutional filler words, collapse whitespace.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, removes combining marks, recomposes.
// "San José" -> "San Jose", "Hawaiʻi" -> "Hawaii".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stopWords are institutional filler tokens that carry no identity.
// "state" is deliberately NOT in this set: it is the single most common
// true disambiguator between otherwise-identical program names
// (oklahoma vs oklahoma-state), and stripping it is a known matching bug.
var stopWords = map[string]struct{}{
	"university": {},
	"univ":       {},
	"college":    {},
	"the":        {},
	"of":         {},
}

// FoldASCII lowercases and strips diacritics.
func FoldASCII(s string) string {
	out, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// Normalize returns the canonical space-separated form of a raw provider
// name. Punctuation is deleted without inserting a space, so "A&M" folds
// to "am" and "St." to "st". Internal hyphens survive; everything else
// non-alphanumeric is dropped or collapsed.
func Normalize(raw string) string {
	s := FoldASCII(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	kept := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "-")
		if f == "" {
			continue
		}
		if _, skip := stopWords[f]; skip {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// Slugify composes Normalize with hyphen-joining for index-key use.
// "Ole Miss" -> "ole-miss", "Texas A&M" -> "texas-am".
func Slugify(raw string) string {
	return strings.ReplaceAll(Normalize(raw), " ", "-")
}

// Tokens returns the normalized token list of a raw name.
func Tokens(raw string) []string {
	return strings.Fields(Normalize(raw))
}

// SlugTokens splits an already-canonical slug into its hyphen tokens.
func SlugTokens(slug string) []string {
	return strings.Split(slug, "-")
}

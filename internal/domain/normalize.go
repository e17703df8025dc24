package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Extra characters kept verbatim by NormalizeKey, per entity kind.
const (
	KitKeyRunes         = ":/,-()"
	ProficiencyKeyRunes = ""
	SpellKeyRunes       = "'"
)

// IdentityKey returns the canonical matching key for a human-readable name.
// "Gem-Cutting", "gem cutting" and "Gem  Cutting." all yield "gem cutting".
func IdentityKey(name string) string {
	return NormalizeKey(name, "")
}

// NormalizeKey folds s into a matching key: NFKD decomposition, combining
// marks removed, curly apostrophes turned into "'", lowercased, and every run
// of characters that are neither letters, digits nor listed in extra
// collapsed into a single space.
func NormalizeKey(s, extra string) string {
	// A transform.Chain keeps state, so it is built per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), runes.Map(foldApostrophe))
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	gap := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || (extra != "" && strings.ContainsRune(extra, r)) {
			if gap && b.Len() > 0 {
				b.WriteByte(' ')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}

func foldApostrophe(r rune) rune {
	switch r {
	case '\u2018', '\u2019', '\u02bc':
		return '\''
	}
	return r
}

// CompositeKey joins already-meaningful parts into one identity key.
// String parts are passed through IdentityKey; the separator cannot occur
// inside a normalized part.
func CompositeKey(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = IdentityKey(p)
	}
	return strings.Join(normalized, "|")
}

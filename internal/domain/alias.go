package domain

// AliasKind names the entity family an AliasTable belongs to.
type AliasKind string

const (
	AliasKindKit         AliasKind = "kit"
	AliasKindProficiency AliasKind = "proficiency"
	AliasKindSpell       AliasKind = "spell"
	AliasKindRace        AliasKind = "race"
	AliasKindAbility     AliasKind = "ability"
)

// AliasTable maps a normalized variant spelling to its normalized canonical
// spelling. Tables are versioned so every consumer of one entity kind resolves
// names the same way.
type AliasTable struct {
	Kind    AliasKind
	Version int

	extra   string
	entries map[string]string
}

// NewAliasTable builds a table from raw variant → canonical pairs. Both sides
// are normalized with NormalizeKey(…, extra). Pairs that normalize to the same
// key on both sides are dropped.
func NewAliasTable(kind AliasKind, version int, extra string, pairs map[string]string) *AliasTable {
	entries := make(map[string]string, len(pairs))
	for variant, canonical := range pairs {
		v := NormalizeKey(variant, extra)
		c := NormalizeKey(canonical, extra)
		if v == "" || c == "" || v == c {
			continue
		}
		entries[v] = c
	}
	return &AliasTable{Kind: kind, Version: version, extra: extra, entries: entries}
}

// Key normalizes name with the table's character allow-list.
func (t *AliasTable) Key(name string) string {
	return NormalizeKey(name, t.extra)
}

// Resolve returns the canonical key for a normalized variant.
func (t *AliasTable) Resolve(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	c, ok := t.entries[key]
	return c, ok
}

// Canonical returns the canonical key for key, or key itself when no alias exists.
func (t *AliasTable) Canonical(key string) string {
	if c, ok := t.Resolve(key); ok {
		return c
	}
	return key
}

// Len returns the number of aliases in the table.
func (t *AliasTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// LookupWithAlias looks key up in m directly and consults aliases only after
// a direct miss.
func LookupWithAlias[T any](m map[string]T, key string, aliases *AliasTable) (T, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	if canonical, ok := aliases.Resolve(key); ok {
		v, ok := m[canonical]
		return v, ok
	}
	var zero T
	return zero, false
}

package domain

import (
	"strconv"
	"time"
)

// SpellReference is one row of the curated spell list (class, group, name,
// level, source). Everything except Name defines identity.
type SpellReference struct {
	ID             int64
	Name           string
	NormalizedName string
	Class          SpellClass
	Group          string
	Level          int
	Source         string
}

// Key is the composite identity of the reference row.
func (r SpellReference) Key() string {
	return SpellReferenceKey(r.NormalizedName, r.Class, r.Group, r.Level, r.Source)
}

// SpellReferenceKey builds the composite key normalized name|class|group|level|source.
func SpellReferenceKey(normalizedName string, class SpellClass, group string, level int, source string) string {
	return normalizedName + "|" + CompositeKey(string(class), group, strconv.Itoa(level), source)
}

// SpellName normalizes a spell name for matching, resolving known aliases.
func SpellName(name string) string {
	return SpellAliases.Canonical(SpellAliases.Key(name))
}

// Spell is a fully described spell saved from an accepted wiki source.
type Spell struct {
	ID             int64
	Name           string
	NormalizedName string
	Class          SpellClass
	Level          int
	Group          string
	Source         string
	Range          string
	Duration       string
	CastingTime    string
	Components     string
	AreaOfEffect   string
	SavingThrow    string
	Description    string
	SourceURL      string
	UpdatedAt      time.Time
}

// Key is the identity key of a saved spell: normalized name and class.
func (s Spell) Key() string {
	return s.NormalizedName + "|" + string(s.Class)
}

// MissingEntry is a spell the hydrator could not resolve. It is unique per
// (NormalizedName, Class) and removed once the spell is saved.
type MissingEntry struct {
	NormalizedName  string
	DisplayName     string
	Class           SpellClass
	ReferenceSource string
	Reason          string
	LastURL         string
	AttemptCount    int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MissingFailure is the input of one failed resolution attempt.
type MissingFailure struct {
	NormalizedName  string
	DisplayName     string
	Class           SpellClass
	ReferenceSource string
	Reason          string
	LastURL         string
}

// SpellReferenceUpdate renames an existing reference row. Only the display
// name is mutable; every other field is part of the identity.
type SpellReferenceUpdate struct {
	ID   int64
	From string
	To   string
}

// SpellReferenceDelta is the change set that makes the stored spell list
// mirror an incoming CSV list.
type SpellReferenceDelta struct {
	Created []SpellReference
	Updated []SpellReferenceUpdate
	Deleted []SpellReference
}

// IsEmpty reports whether the delta changes nothing.
func (d SpellReferenceDelta) IsEmpty() bool {
	return len(d.Created) == 0 && len(d.Updated) == 0 && len(d.Deleted) == 0
}

// ExtractedSpell is a structured spell description produced from page text.
// It is only trusted after boundary validation.
type ExtractedSpell struct {
	Name         string
	Class        SpellClass
	Level        int
	School       string
	Range        string
	Duration     string
	CastingTime  string
	Components   string
	AreaOfEffect string
	SavingThrow  string
	Description  string
}

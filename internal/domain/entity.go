package domain

// Identity-bearing entities are matched across runs by their key and keep
// their row ids, because characters reference them.

// Kit is a character kit.
type Kit struct {
	ID           int64
	Name         string
	Class        KitClass
	Source       string
	Description  string
	DisplayOrder int
	SourceURL    string
}

// Key returns the identity key of the kit, alias-resolved.
func (k Kit) Key() string {
	return KitAliases.Canonical(KitAliases.Key(k.Name))
}

// Proficiency is a nonweapon proficiency.
type Proficiency struct {
	ID           int64
	Name         string
	Slots        int
	Ability      string
	Modifier     int
	Group        ProficiencyGroup
	DisplayOrder int
	SourceURL    string
}

// Key returns the identity key of the proficiency, alias-resolved.
func (p Proficiency) Key() string {
	return ProficiencyAliases.Canonical(ProficiencyAliases.Key(p.Name))
}

// AbilityAdjustment is a racial modifier to one ability score.
type AbilityAdjustment struct {
	Ability  string
	Modifier int
}

// RaceSection is a labelled block of a race's full text.
type RaceSection struct {
	Label        string
	Body         string
	DisplayOrder int
}

// Race is a playable race with its full-text description.
type Race struct {
	ID           int64
	Name         string
	Intro        string
	Sections     []RaceSection
	Adjustments  []AbilityAdjustment
	DisplayOrder int
	SourceURL    string
}

// Key returns the identity key of the race, alias-resolved.
func (r Race) Key() string {
	return RaceAliases.Canonical(RaceAliases.Key(r.Name))
}

// UpsertOutcome counts what an identity upsert did. Merged is the number of
// duplicate rows folded into a canonical row.
type UpsertOutcome struct {
	Inserted int
	Updated  int
	Merged   int
}

// Add accumulates o2 into o.
func (o *UpsertOutcome) Add(o2 UpsertOutcome) {
	o.Inserted += o2.Inserted
	o.Updated += o2.Updated
	o.Merged += o2.Merged
}

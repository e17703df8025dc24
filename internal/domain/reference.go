package domain

// Reference records are rebuilt from scratch on every run (replace-all sync).
// Rows carry their provenance URL and a per-table display order.

// EquipmentCategory is one captioned table of the equipment page.
type EquipmentCategory struct {
	Name         string
	DisplayOrder int
	SourceURL    string
}

// EquipmentItem is a priced item inside an equipment category.
type EquipmentItem struct {
	Category     string
	Name         string
	CostText     string
	CostCopper   *int
	WeightText   string
	DisplayOrder int
	SourceURL    string
}

// Weapon is a row of the weapons table.
type Weapon struct {
	Name         string
	CostText     string
	CostCopper   *int
	WeightLb     *int
	Size         WeaponSize
	DamageType   string
	SpeedFactor  int
	DamageSM     string
	DamageL      string
	DisplayOrder int
	SourceURL    string
}

// Armor is a row of the armor table.
type Armor struct {
	Name         string
	CostText     string
	CostCopper   *int
	WeightLb     *int
	ArmorClass   int
	DisplayOrder int
	SourceURL    string
}

// EquipmentCatalog is everything mapped from the equipment page.
type EquipmentCatalog struct {
	Categories []EquipmentCategory
	Items      []EquipmentItem
	Weapons    []Weapon
	Armor      []Armor
}

// WeaponGroup is a broad or tight weapon group. Parent is empty for broad groups.
type WeaponGroup struct {
	Name         string
	Kind         WeaponGroupKind
	Parent       string
	DisplayOrder int
	SourceURL    string
}

// Key identifies a group within its parent.
func (g WeaponGroup) Key() string {
	return CompositeKey(g.Parent, g.Name)
}

// WeaponGroupMember attaches a weapon to a broad group and, optionally, a tight group.
type WeaponGroupMember struct {
	Weapon       string
	Broad        string
	Tight        string
	DisplayOrder int
}

// WeaponGroupCatalog is everything mapped from the weapon groups page.
type WeaponGroupCatalog struct {
	Groups  []WeaponGroup
	Members []WeaponGroupMember
}

// ProficiencyRate is a class group's proficiency slot progression.
type ProficiencyRate struct {
	Group            ProficiencyGroup
	InitialWeapon    int
	WeaponLevels     int
	Penalty          int
	InitialNonweapon int
	NonweaponLevels  int
	DisplayOrder     int
	SourceURL        string
}

// Trait is a character trait or a disadvantage. SevereCost is set only for
// disadvantages that list a severe variant.
type Trait struct {
	Kind         TraitKind
	Name         string
	Cost         int
	SevereCost   *int
	Description  string
	DisplayOrder int
	SourceURL    string
}

// Attribute is one of the six ability scores with its full-text description.
type Attribute struct {
	Name         string
	Abbreviation string
	Description  string
	DisplayOrder int
	SourceURL    string
}

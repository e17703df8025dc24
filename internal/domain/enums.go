package domain

import "strings"

// SpellClass is the caster family a spell belongs to.
type SpellClass string

const (
	SpellClassWizard SpellClass = "wizard"
	SpellClassPriest SpellClass = "priest"
)

func (c SpellClass) String() string { return string(c) }

func (c SpellClass) IsValid() bool {
	switch c {
	case SpellClassWizard, SpellClassPriest:
		return true
	}
	return false
}

// ParseSpellClass maps free-text class labels onto a SpellClass.
// Mage and cleric spellings are accepted.
func ParseSpellClass(s string) (SpellClass, bool) {
	switch IdentityKey(s) {
	case "wizard", "mage", "magic user", "wizard spell", "wizard spells":
		return SpellClassWizard, true
	case "priest", "cleric", "druid", "priest spell", "priest spells":
		return SpellClassPriest, true
	}
	return "", false
}

// KitClass is the class a kit is written for.
type KitClass string

const (
	KitClassWarrior   KitClass = "warrior"
	KitClassFighter   KitClass = "fighter"
	KitClassRanger    KitClass = "ranger"
	KitClassPaladin   KitClass = "paladin"
	KitClassWizard    KitClass = "wizard"
	KitClassPriest    KitClass = "priest"
	KitClassCleric    KitClass = "cleric"
	KitClassDruid     KitClass = "druid"
	KitClassRogue     KitClass = "rogue"
	KitClassThief     KitClass = "thief"
	KitClassBard      KitClass = "bard"
	KitClassUniversal KitClass = "universal"
)

var kitClasses = []KitClass{
	KitClassWarrior, KitClassFighter, KitClassRanger, KitClassPaladin,
	KitClassWizard, KitClassPriest, KitClassCleric, KitClassDruid,
	KitClassRogue, KitClassThief, KitClassBard,
}

func (c KitClass) String() string { return string(c) }

// ParseKitClass matches a class column case-insensitively. "Mage" reads as
// wizard. Unknown values fall back to KitClassUniversal.
func ParseKitClass(s string) KitClass {
	key := IdentityKey(s)
	if key == "mage" || key == "magic user" {
		return KitClassWizard
	}
	for _, c := range kitClasses {
		if key == string(c) || strings.TrimSuffix(key, " kit") == string(c) {
			return c
		}
	}
	return KitClassUniversal
}

// ProficiencyGroup is the class group a nonweapon proficiency is listed under.
type ProficiencyGroup string

const (
	ProficiencyGroupGeneral ProficiencyGroup = "general"
	ProficiencyGroupPriest  ProficiencyGroup = "priest"
	ProficiencyGroupRogue   ProficiencyGroup = "rogue"
	ProficiencyGroupWarrior ProficiencyGroup = "warrior"
	ProficiencyGroupWizard  ProficiencyGroup = "wizard"
)

func (g ProficiencyGroup) String() string { return string(g) }

// ParseProficiencyGroup matches a group label case-insensitively. There is
// no fallback: unknown groups are reported as not ok.
func ParseProficiencyGroup(s string) (ProficiencyGroup, bool) {
	switch IdentityKey(s) {
	case "general":
		return ProficiencyGroupGeneral, true
	case "priest":
		return ProficiencyGroupPriest, true
	case "rogue":
		return ProficiencyGroupRogue, true
	case "warrior":
		return ProficiencyGroupWarrior, true
	case "wizard":
		return ProficiencyGroupWizard, true
	}
	return "", false
}

// TraitKind distinguishes traits from disadvantages.
type TraitKind string

const (
	TraitKindTrait        TraitKind = "trait"
	TraitKindDisadvantage TraitKind = "disadvantage"
)

func (k TraitKind) String() string { return string(k) }

// WeaponSize is the S/M/L/H/G size category of a weapon.
type WeaponSize string

const (
	WeaponSizeSmall      WeaponSize = "S"
	WeaponSizeMedium     WeaponSize = "M"
	WeaponSizeLarge      WeaponSize = "L"
	WeaponSizeHuge       WeaponSize = "H"
	WeaponSizeGargantuan WeaponSize = "G"
)

// ParseWeaponSize accepts a size letter or its full name.
func ParseWeaponSize(s string) (WeaponSize, bool) {
	switch IdentityKey(s) {
	case "s", "small":
		return WeaponSizeSmall, true
	case "m", "medium":
		return WeaponSizeMedium, true
	case "l", "large":
		return WeaponSizeLarge, true
	case "h", "huge":
		return WeaponSizeHuge, true
	case "g", "gargantuan":
		return WeaponSizeGargantuan, true
	}
	return "", false
}

// WeaponGroupKind is the level of a weapon group in the hierarchy.
type WeaponGroupKind string

const (
	WeaponGroupBroad WeaponGroupKind = "broad"
	WeaponGroupTight WeaponGroupKind = "tight"
)

// RetryOrder selects how the missing ledger is drained.
type RetryOrder string

const (
	RetryOrderOldest RetryOrder = "oldest"
	RetryOrderNewest RetryOrder = "newest"
)

func (o RetryOrder) IsValid() bool {
	return o == RetryOrderOldest || o == RetryOrderNewest
}

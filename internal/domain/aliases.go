package domain

// Alias tables shared by every hydration path. Bump the version when an entry
// changes meaning.

// KitAliases resolves alternate kit spellings found across wiki pages.
var KitAliases = NewAliasTable(AliasKindKit, 2, KitKeyRunes, map[string]string{
	"Swashbuckler (Fighter)":  "Swashbuckler",
	"Peasant-Hero":            "Peasant Hero",
	"Peasant hero (fighter)":  "Peasant Hero",
	"Noble-warrior":           "Noble Warrior",
	"Wilderness warrior":      "Wilderness Warrior",
	"Mystic (Priest)":         "Mystic",
	"Savage (Fighter)":        "Savage",
	"Militant wizard":         "Militant Wizard",
	"Patrician (Wizard)":      "Patrician",
	"Pugilist (Fighter)":      "Pugilist",
	"Myrmidon (Fighter)":      "Myrmidon",
	"Acrobat (Thief)":         "Acrobat",
	"Scout (Thief)":           "Scout",
	"Jester (Bard)":           "Jester",
	"True bard":               "True Bard",
	"Blade (Bard)":            "Blade",
	"Amazon warrior":          "Amazon",
	"Barbarian (Fighter kit)": "Barbarian",
})

// ProficiencyAliases resolves hyphenation and plural drift in proficiency names.
var ProficiencyAliases = NewAliasTable(AliasKindProficiency, 1, ProficiencyKeyRunes, map[string]string{
	"Blindfighting":   "Blind-fighting",
	"Gemcutting":      "Gem Cutting",
	"Reading Lips":    "Reading/Lip Reading",
	"Lip Reading":     "Reading/Lip Reading",
	"Spell craft":     "Spellcraft",
	"Healing (nwp)":   "Healing",
	"Riding, land":    "Riding, Land-based",
	"Riding (land)":   "Riding, Land-based",
	"Riding (air)":    "Riding, Airborne",
	"Weapon Smithing": "Weaponsmithing",
	"Armour Smithing": "Armorer",
	"Armorsmithing":   "Armorer",
})

// SpellAliases resolves spell names whose wiki titles differ from the
// sourcebook spelling.
var SpellAliases = NewAliasTable(AliasKindSpell, 1, SpellKeyRunes, map[string]string{
	"Tenser's Floating Disc":        "Floating Disc",
	"Bigby's Interposing Hand":      "Interposing Hand",
	"Melf's Acid Arrow":             "Acid Arrow",
	"Nystul's Magic Aura":           "Magic Aura",
	"Leomund's Tiny Hut":            "Tiny Hut",
	"Otiluke's Resilient Sphere":    "Resilient Sphere",
	"Mordenkainen's Faithful Hound": "Faithful Hound",
	"Cure Light Wound":              "Cure Light Wounds",
	"Magic Missle":                  "Magic Missile",
})

// RaceAliases resolves race page titles to canonical race names.
var RaceAliases = NewAliasTable(AliasKindRace, 1, "", map[string]string{
	"Dwarves":    "Dwarf",
	"Elves":      "Elf",
	"Gnomes":     "Gnome",
	"Half-Elves": "Half-Elf",
	"Halflings":  "Halfling",
	"Humans":     "Human",
	"Hobbit":     "Halfling",
})

// AbilityAliases resolves ability score abbreviations and older names.
var AbilityAliases = NewAliasTable(AliasKindAbility, 1, "", map[string]string{
	"Str":       "Strength",
	"Dex":       "Dexterity",
	"Con":       "Constitution",
	"Int":       "Intelligence",
	"Wis":       "Wisdom",
	"Cha":       "Charisma",
	"Chr":       "Charisma",
	"Intellect": "Intelligence",
})

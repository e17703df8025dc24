package mapper

import (
	"slices"
	"strings"

	"github.com/heartmarshall/grimoire-backend/internal/app/hydrate/wikitext"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// Captions of the equipment tables with a dedicated shape.
const (
	WeaponsCaption = "Weapons"
	ArmorCaption   = "Armor"
)

// Weapons columns: Item, Cost, Weight, Size, Type, Speed Factor, Damage S-M, Damage L.
const weaponColumns = 8

// Armor columns: Armor, Cost, Weight, AC.
const armorColumns = 4

// MapEquipment maps the equipment page. The weapons and armor tables are
// required; every other captioned table becomes a generic item category.
func MapEquipment(page domain.WikiPage) (domain.EquipmentCatalog, error) {
	tables := wikitext.ParseTables(page.Wikitext)

	weapons, err := Require(page, tables, WeaponsCaption)
	if err != nil {
		return domain.EquipmentCatalog{}, err
	}
	armor, err := Require(page, tables, ArmorCaption)
	if err != nil {
		return domain.EquipmentCatalog{}, err
	}

	var catalog domain.EquipmentCatalog

	var weaponOrder Counter
	for _, row := range weapons.Rows {
		if w, ok := mapWeapon(row, &weaponOrder, page.URL); ok {
			catalog.Weapons = append(catalog.Weapons, w)
		}
	}

	var armorOrder Counter
	for _, row := range armor.Rows {
		if a, ok := mapArmor(row, &armorOrder, page.URL); ok {
			catalog.Armor = append(catalog.Armor, a)
		}
	}

	// Tables already mapped as weapons or armor are not categories.
	seen := map[string]bool{
		domain.IdentityKey(WeaponsCaption): true,
		domain.IdentityKey(ArmorCaption):   true,
		captionKey(weapons):                true,
		captionKey(armor):                  true,
	}

	var categoryOrder, itemOrder Counter
	for _, t := range tables {
		name := captionName(t.Caption)
		key := domain.IdentityKey(name)
		if key == "" || seen[key] {
			continue
		}

		var items []domain.EquipmentItem
		for _, row := range t.Rows {
			if it, ok := mapItem(row, name, &itemOrder, page.URL); ok {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			continue
		}

		seen[key] = true
		catalog.Categories = append(catalog.Categories, domain.EquipmentCategory{
			Name:         name,
			DisplayOrder: categoryOrder.Next(),
			SourceURL:    page.URL,
		})
		catalog.Items = append(catalog.Items, items...)
	}

	return catalog, nil
}

func mapWeapon(row []string, order *Counter, sourceURL string) (domain.Weapon, bool) {
	if len(row) < weaponColumns {
		return domain.Weapon{}, false
	}
	name := cell(row, 0)
	if name == "" {
		return domain.Weapon{}, false
	}
	size, ok := domain.ParseWeaponSize(cell(row, 3))
	if !ok {
		return domain.Weapon{}, false
	}
	speed, ok := ParseInt(cell(row, 5))
	if !ok {
		return domain.Weapon{}, false
	}

	return domain.Weapon{
		Name:         name,
		CostText:     cell(row, 1),
		CostCopper:   CostInCopper(cell(row, 1)),
		WeightLb:     optionalInt(cell(row, 2)),
		Size:         size,
		DamageType:   damageType(cell(row, 4)),
		SpeedFactor:  speed,
		DamageSM:     cell(row, 6),
		DamageL:      cell(row, 7),
		DisplayOrder: order.Next(),
		SourceURL:    sourceURL,
	}, true
}

func mapArmor(row []string, order *Counter, sourceURL string) (domain.Armor, bool) {
	if len(row) < armorColumns {
		return domain.Armor{}, false
	}
	name := cell(row, 0)
	if name == "" {
		return domain.Armor{}, false
	}
	ac, ok := ParseInt(cell(row, 3))
	if !ok {
		return domain.Armor{}, false
	}

	return domain.Armor{
		Name:         name,
		CostText:     cell(row, 1),
		CostCopper:   CostInCopper(cell(row, 1)),
		WeightLb:     optionalInt(cell(row, 2)),
		ArmorClass:   ac,
		DisplayOrder: order.Next(),
		SourceURL:    sourceURL,
	}, true
}

// mapItem reads a generic Item, Cost[, Weight] row.
func mapItem(row []string, category string, order *Counter, sourceURL string) (domain.EquipmentItem, bool) {
	if len(row) < 2 {
		return domain.EquipmentItem{}, false
	}
	name := cell(row, 0)
	if name == "" {
		return domain.EquipmentItem{}, false
	}
	weight := cell(row, 2)
	if isPlaceholder(weight) {
		weight = ""
	}

	return domain.EquipmentItem{
		Category:     category,
		Name:         name,
		CostText:     cell(row, 1),
		CostCopper:   CostInCopper(cell(row, 1)),
		WeightText:   weight,
		DisplayOrder: order.Next(),
		SourceURL:    sourceURL,
	}, true
}

// damageType keeps a P/B/S damage type such as "P", "P/B" or "P or S".
// Anything outside those letters yields "".
func damageType(s string) string {
	s = strings.ReplaceAll(strings.ToUpper(s), " OR ", "/")

	var letters []string
	for _, r := range s {
		switch r {
		case 'P', 'B', 'S':
			if l := string(r); !slices.Contains(letters, l) {
				letters = append(letters, l)
			}
		case '/', ',', ' ':
		default:
			return ""
		}
	}
	return strings.Join(letters, "/")
}

package mapper

import (
	"github.com/heartmarshall/grimoire-backend/internal/app/hydrate/wikitext"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// Captions of the proficiency page tables.
const (
	ProficienciesCaption    = "Nonweapon Proficiencies"
	ProficiencyRatesCaption = "Proficiency Slots"
)

// Proficiencies maps both tables of the proficiency page.
type Proficiencies struct {
	Proficiencies []domain.Proficiency
	Rates         []domain.ProficiencyRate
}

// MapProficiencies maps the nonweapon proficiency list (Proficiency, Slots,
// Ability, Modifier, Group) and the slot progression table (Group, Initial
// Weapon, Weapon Levels, Penalty, Initial Nonweapon, Nonweapon Levels).
//
// Slots and group are required; a missing modifier reads as 0. Every rate
// column is required.
func MapProficiencies(page domain.WikiPage) (Proficiencies, error) {
	tables := wikitext.ParseTables(page.Wikitext)

	list, err := Require(page, tables, ProficienciesCaption)
	if err != nil {
		return Proficiencies{}, err
	}
	rates, err := Require(page, tables, ProficiencyRatesCaption)
	if err != nil {
		return Proficiencies{}, err
	}

	var out Proficiencies

	var order Counter
	seen := make(map[string]bool)
	for _, row := range list.Rows {
		p, ok := mapProficiency(row, page.URL)
		if !ok {
			continue
		}
		key := p.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		p.DisplayOrder = order.Next()
		out.Proficiencies = append(out.Proficiencies, p)
	}

	var rateOrder Counter
	for _, row := range rates.Rows {
		if r, ok := mapProficiencyRate(row, &rateOrder, page.URL); ok {
			out.Rates = append(out.Rates, r)
		}
	}

	return out, nil
}

func mapProficiency(row []string, sourceURL string) (domain.Proficiency, bool) {
	if len(row) < 5 {
		return domain.Proficiency{}, false
	}
	name := cell(row, 0)
	if domain.IdentityKey(name) == "" {
		return domain.Proficiency{}, false
	}
	slots, ok := ParseInt(cell(row, 1))
	if !ok {
		return domain.Proficiency{}, false
	}
	group, ok := domain.ParseProficiencyGroup(cell(row, 4))
	if !ok {
		return domain.Proficiency{}, false
	}
	modifier, ok := ParseInt(cell(row, 3))
	if !ok {
		modifier = 0
	}

	return domain.Proficiency{
		Name:      name,
		Slots:     slots,
		Ability:   cell(row, 2),
		Modifier:  modifier,
		Group:     group,
		SourceURL: sourceURL,
	}, true
}

func mapProficiencyRate(row []string, order *Counter, sourceURL string) (domain.ProficiencyRate, bool) {
	if len(row) < 6 {
		return domain.ProficiencyRate{}, false
	}
	group, ok := domain.ParseProficiencyGroup(cell(row, 0))
	if !ok {
		return domain.ProficiencyRate{}, false
	}

	var nums [5]int
	for i := range nums {
		n, ok := ParseInt(cell(row, i+1))
		if !ok {
			return domain.ProficiencyRate{}, false
		}
		nums[i] = n
	}

	return domain.ProficiencyRate{
		Group:            group,
		InitialWeapon:    nums[0],
		WeaponLevels:     nums[1],
		Penalty:          nums[2],
		InitialNonweapon: nums[3],
		NonweaponLevels:  nums[4],
		DisplayOrder:     order.Next(),
		SourceURL:        sourceURL,
	}, true
}

package mapper

import (
	"github.com/heartmarshall/grimoire-backend/internal/app/hydrate/wikitext"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// abilities lists the six ability scores with their abbreviations.
var abilities = []struct {
	Name string
	Abbr string
}{
	{"Strength", "Str"},
	{"Dexterity", "Dex"},
	{"Constitution", "Con"},
	{"Intelligence", "Int"},
	{"Wisdom", "Wis"},
	{"Charisma", "Cha"},
}

// abilityIndex maps the identity key of each full ability name to the name.
var abilityIndex = func() map[string]string {
	m := make(map[string]string, len(abilities))
	for _, a := range abilities {
		m[domain.IdentityKey(a.Name)] = a.Name
	}
	return m
}()

// abilityByName resolves a full name, or through domain.AbilityAliases an
// abbreviation, to the full name.
func abilityByName(s string) (string, bool) {
	return domain.LookupWithAlias(abilityIndex, domain.IdentityKey(s), domain.AbilityAliases)
}

// MapAttributes maps the ability scores page, segmented by level-2
// headings. Only the six abilities are kept, and all six must be present.
func MapAttributes(page domain.WikiPage) ([]domain.Attribute, error) {
	parsed := wikitext.ParseSections(page.Wikitext, wikitext.HeadingSegmenter{Level: 2})

	var (
		out   []domain.Attribute
		order Counter
		found = make(map[string]bool)
	)
	for _, sec := range parsed.Sections {
		name, ok := abilityByName(sec.Label)
		if !ok || found[name] {
			continue
		}
		found[name] = true
		out = append(out, domain.Attribute{
			Name:         name,
			Abbreviation: abbreviation(name),
			Description:  wikitext.CleanBlock(sec.Body),
			DisplayOrder: order.Next(),
			SourceURL:    page.URL,
		})
	}

	for _, a := range abilities {
		if !found[a.Name] {
			return nil, domain.NewMissingTableError(page.Title, a.Name)
		}
	}

	return out, nil
}

func abbreviation(name string) string {
	for _, a := range abilities {
		if a.Name == name {
			return a.Abbr
		}
	}
	return ""
}

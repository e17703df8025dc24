package mapper

import (
	"github.com/heartmarshall/grimoire-backend/internal/app/hydrate/wikitext"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// Captions of the traits page tables.
const (
	TraitsCaption        = "Traits"
	DisadvantagesCaption = "Disadvantages"
)

// MapTraits maps the traits table (Trait, Cost, Description) and the
// disadvantages table (Disadvantage, Moderate, Severe, Description) into one
// list. Both kinds share a display order sequence because they share a table.
func MapTraits(page domain.WikiPage) ([]domain.Trait, error) {
	tables := wikitext.ParseTables(page.Wikitext)

	traits, err := Require(page, tables, TraitsCaption)
	if err != nil {
		return nil, err
	}
	disadvantages, err := Require(page, tables, DisadvantagesCaption)
	if err != nil {
		return nil, err
	}

	var (
		out   []domain.Trait
		order Counter
	)

	for _, row := range traits.Rows {
		if len(row) < 2 || cell(row, 0) == "" {
			continue
		}
		cost, ok := ParseInt(cell(row, 1))
		if !ok {
			continue
		}
		out = append(out, domain.Trait{
			Kind:         domain.TraitKindTrait,
			Name:         cell(row, 0),
			Cost:         cost,
			Description:  cell(row, 2),
			DisplayOrder: order.Next(),
			SourceURL:    page.URL,
		})
	}

	for _, row := range disadvantages.Rows {
		if len(row) < 2 || cell(row, 0) == "" {
			continue
		}
		moderate, ok := ParseInt(cell(row, 1))
		if !ok {
			continue
		}
		var severe *int
		if n, ok := ParseInt(cell(row, 2)); ok {
			severe = &n
		}
		out = append(out, domain.Trait{
			Kind:         domain.TraitKindDisadvantage,
			Name:         cell(row, 0),
			Cost:         moderate,
			SevereCost:   severe,
			Description:  cell(row, 3),
			DisplayOrder: order.Next(),
			SourceURL:    page.URL,
		})
	}

	return out, nil
}

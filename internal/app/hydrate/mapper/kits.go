package mapper

import (
	"github.com/heartmarshall/grimoire-backend/internal/app/hydrate/wikitext"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// KitsCaption is the caption of the kit list table: Kit, Class, Source, Description.
const KitsCaption = "Kits"

// MapKits maps the kit list. Columns are located by header, so reordered
// tables map the same. Unknown classes fall back to universal. Kits that
// resolve to the same identity key as an earlier row are dropped.
func MapKits(page domain.WikiPage) ([]domain.Kit, error) {
	table, err := Require(page, wikitext.ParseTables(page.Wikitext), KitsCaption)
	if err != nil {
		return nil, err
	}

	col := columns(table, "Kit", "Class", "Source", "Description")

	var (
		kits  []domain.Kit
		order Counter
		seen  = make(map[string]bool)
	)
	for _, row := range table.Rows {
		if len(row) < 2 {
			continue
		}
		kit := domain.Kit{
			Name:        cell(row, col[0]),
			Class:       domain.ParseKitClass(cell(row, col[1])),
			Source:      cell(row, col[2]),
			Description: cell(row, col[3]),
			SourceURL:   page.URL,
		}
		key := kit.Key()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		kit.DisplayOrder = order.Next()
		kits = append(kits, kit)
	}

	return kits, nil
}

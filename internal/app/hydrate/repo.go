// Package hydrate orchestrates the reference hydration pipeline: each phase
// fetches wiki pages, maps their tables and sections into domain records and
// syncs them into the store.
package hydrate

import (
	"context"

	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// WikiSource is the page source consumed by the pipeline.
// Implemented by mediawiki.Client.
type WikiSource interface {
	FetchWikitext(ctx context.Context, title string) (domain.WikiPage, error)
	FetchHTML(ctx context.Context, title string) (domain.WikiPage, error)
	FetchPages(ctx context.Context, titles []string, limit int) ([]domain.WikiPage, error)
	CategoryMembers(ctx context.Context, category string, limit int) ([]string, error)
}

// ReferenceStore replaces the contents of the plain reference tables.
// Each method deletes and reinserts inside one transaction.
// Implemented by reference.Repo.
type ReferenceStore interface {
	ReplaceEquipment(ctx context.Context, catalog domain.EquipmentCatalog) (int, error)
	ReplaceWeaponGroups(ctx context.Context, catalog domain.WeaponGroupCatalog) (int, error)
	ReplaceProficiencyRates(ctx context.Context, rates []domain.ProficiencyRate) (int, error)
	ReplaceTraits(ctx context.Context, traits []domain.Trait) (int, error)
	ReplaceAttributes(ctx context.Context, attributes []domain.Attribute) (int, error)
}

// CatalogStore upserts identity-bearing rows, keeping ids stable across runs.
// Implemented by catalog.Repo.
type CatalogStore interface {
	UpsertKits(ctx context.Context, kits []domain.Kit) (domain.UpsertOutcome, error)
	UpsertProficiencies(ctx context.Context, profs []domain.Proficiency) (domain.UpsertOutcome, error)
	UpsertRaces(ctx context.Context, races []domain.Race) (domain.UpsertOutcome, error)
}

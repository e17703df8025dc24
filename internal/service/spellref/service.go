// Package spellref keeps the curated spell reference list in sync with its
// CSV source and hydrates full spell descriptions for reference rows from the
// wiki, recording the ones it cannot resolve in the missing ledger.
package spellref

import (
	"context"

	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks_test.go -package=spellref

type referenceRepo interface {
	List(ctx context.Context) ([]domain.SpellReference, error)
	FindByName(ctx context.Context, normalizedName string, class domain.SpellClass) ([]domain.SpellReference, error)
	ListUnsaved(ctx context.Context, limit int) ([]domain.SpellReference, error)
	ApplyDelta(ctx context.Context, delta domain.SpellReferenceDelta) error
}

type spellRepo interface {
	Save(ctx context.Context, s domain.Spell) (int64, domain.UpsertOutcome, error)
	Exists(ctx context.Context, normalizedName string, class domain.SpellClass) (bool, error)
}

type missingLedger interface {
	RecordFailure(ctx context.Context, f domain.MissingFailure) (*domain.MissingEntry, error)
	Clear(ctx context.Context, normalizedName string, class domain.SpellClass) error
	List(ctx context.Context, order domain.RetryOrder, limit int) ([]domain.MissingEntry, error)
}

type wikiSource interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
	FetchPage(ctx context.Context, title string) (domain.WikiPage, error)
}

type extractor interface {
	Extract(ctx context.Context, text string, expected domain.SpellReference) (domain.ExtractedSpell, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const (
	// MaxLimit caps the candidates one hydration run processes.
	MaxLimit = 10
	// DefaultLimit applies when a request names no limit.
	DefaultLimit = 1
	// LedgerPageSize is how many ledger rows a response carries.
	LedgerPageSize = 100
)

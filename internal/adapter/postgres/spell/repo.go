// Package spell persists fully described spells. Spells are referenced by
// character spellbooks, so they are reconciled by identity and keep their ids.
package spell

import (
	"context"
	"fmt"
	"slices"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/grimoire-backend/internal/adapter/postgres"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres/merge"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

var entity = merge.Entity{
	Table: "spells",
	Columns: []string{
		"name", "normalized_name", "spell_class", "spell_level", "spell_group", "source",
		"range_text", "duration", "casting_time", "components", "area_of_effect", "saving_throw",
		"description", "source_url",
	},
	TouchedAt:  "updated_at",
	Dependents: []merge.Dependent{{Table: "character_spells", Column: "spell_id"}},
}

var selectColumns = slices.Concat([]string{"id"}, entity.Columns, []string{"updated_at"})

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repo provides spell persistence backed by PostgreSQL.
type Repo struct {
	pool   *pgxpool.Pool
	merger *merge.Engine
}

// New creates a new spell repository.
func New(pool *pgxpool.Pool, txm txManager) *Repo {
	return &Repo{pool: pool, merger: merge.New(pool, txm)}
}

// Save reconciles s by (normalized name, class) and returns the surviving id.
func (r *Repo) Save(ctx context.Context, s domain.Spell) (int64, merge.Outcome, error) {
	return r.merger.Upsert(ctx, entity, merge.Record{
		Key: s.Key(),
		Values: []any{
			s.Name, s.NormalizedName, string(s.Class), s.Level, s.Group, s.Source,
			s.Range, s.Duration, s.CastingTime, s.Components, s.AreaOfEffect, s.SavingThrow,
			s.Description, s.SourceURL,
		},
	})
}

// Get returns the saved spell for (normalized name, class).
// Returns domain.ErrNotFound when none is saved.
func (r *Repo) Get(ctx context.Context, normalizedName string, class domain.SpellClass) (*domain.Spell, error) {
	key := domain.Spell{NormalizedName: normalizedName, Class: class}.Key()

	query, args, err := postgres.Builder.
		Select(selectColumns...).
		From("spells").
		Where(squirrel.Eq{merge.DefaultKeyColumn: key}).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var (
		s        domain.Spell
		rowClass string
	)
	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.Name, &s.NormalizedName, &rowClass, &s.Level, &s.Group, &s.Source,
		&s.Range, &s.Duration, &s.CastingTime, &s.Components, &s.AreaOfEffect, &s.SavingThrow,
		&s.Description, &s.SourceURL, &s.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "spell", key)
	}
	s.Class = domain.SpellClass(rowClass)
	return &s, nil
}

// Exists reports whether a spell is saved for (normalized name, class).
func (r *Repo) Exists(ctx context.Context, normalizedName string, class domain.SpellClass) (bool, error) {
	key := domain.Spell{NormalizedName: normalizedName, Class: class}.Key()

	var exists bool
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM spells WHERE identity_key = $1)`, key,
	).Scan(&exists)
	if err != nil {
		return false, postgres.MapError(err, "spell", key)
	}
	return exists, nil
}

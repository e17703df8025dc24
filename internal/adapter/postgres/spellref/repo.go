// Package spellref persists the curated spell reference list synced from CSV.
package spellref

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/grimoire-backend/internal/adapter/postgres"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

var columns = []string{"id", "name", "normalized_name", "spell_class", "spell_group", "spell_level", "source"}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repo provides spell reference persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  txManager
}

// New creates a new spell reference repository.
func New(pool *pgxpool.Pool, txm txManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

// List returns every stored reference row in id order.
func (r *Repo) List(ctx context.Context) ([]domain.SpellReference, error) {
	stmt := postgres.Builder.Select(columns...).From("spell_references").OrderBy("id ASC")
	return r.query(ctx, stmt)
}

// FindByName returns reference rows for a normalized name, optionally
// restricted to one class.
func (r *Repo) FindByName(ctx context.Context, normalizedName string, class domain.SpellClass) ([]domain.SpellReference, error) {
	where := squirrel.Eq{"normalized_name": normalizedName}
	if class != "" {
		where["spell_class"] = string(class)
	}
	stmt := postgres.Builder.Select(columns...).From("spell_references").Where(where).OrderBy("spell_level ASC", "id ASC")
	return r.query(ctx, stmt)
}

// ListUnsaved returns up to limit reference rows that have no saved spell and
// no missing-ledger entry for the same (normalized name, class), ordered by
// class, level and name. Ledger entries are drained by retry runs instead.
func (r *Repo) ListUnsaved(ctx context.Context, limit int) ([]domain.SpellReference, error) {
	stmt := postgres.Builder.
		Select(prefixed("r", columns)...).
		From("spell_references r").
		Where(`NOT EXISTS (SELECT 1 FROM spells s WHERE s.normalized_name = r.normalized_name AND s.spell_class = r.spell_class)`).
		Where(`NOT EXISTS (SELECT 1 FROM spell_reference_missing m WHERE m.normalized_name = r.normalized_name AND m.spell_class = r.spell_class)`).
		OrderBy("r.spell_class ASC", "r.spell_level ASC", "r.normalized_name ASC", "r.id ASC").
		Limit(uint64(max(limit, 0)))
	return r.query(ctx, stmt)
}

// ApplyDelta writes a spell reference delta in one transaction: deletes
// first, then renames, then inserts.
func (r *Repo) ApplyDelta(ctx context.Context, delta domain.SpellReferenceDelta) error {
	return r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.pool)

		if len(delta.Deleted) > 0 {
			ids := make([]int64, 0, len(delta.Deleted))
			for _, d := range delta.Deleted {
				ids = append(ids, d.ID)
			}
			stmt := postgres.Builder.Delete("spell_references").Where(squirrel.Eq{"id": ids})
			if _, err := postgres.ExecSqlizer(txCtx, q, stmt); err != nil {
				return postgres.MapError(err, "spell_references", "")
			}
		}

		batch := &pgx.Batch{}
		for _, u := range delta.Updated {
			batch.Queue(`UPDATE spell_references SET name = $1 WHERE id = $2`, u.To, u.ID)
		}
		for _, c := range delta.Created {
			batch.Queue(
				`INSERT INTO spell_references (identity_key, name, normalized_name, spell_class, spell_group, spell_level, source)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				c.Key(), c.Name, c.NormalizedName, string(c.Class), c.Group, c.Level, c.Source,
			)
		}
		if _, err := postgres.SendBatchExec(txCtx, q, batch); err != nil {
			return postgres.MapError(err, "spell_references", "")
		}
		return nil
	})
}

func (r *Repo) query(ctx context.Context, stmt squirrel.SelectBuilder) ([]domain.SpellReference, error) {
	rows, err := postgres.QuerySqlizer(ctx, postgres.QuerierFromCtx(ctx, r.pool), stmt)
	if err != nil {
		return nil, postgres.MapError(err, "spell_references", "")
	}
	defer rows.Close()

	var out []domain.SpellReference
	for rows.Next() {
		var (
			ref   domain.SpellReference
			class string
		)
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.NormalizedName, &class, &ref.Group, &ref.Level, &ref.Source); err != nil {
			return nil, fmt.Errorf("scan spell reference: %w", err)
		}
		ref.Class = domain.SpellClass(class)
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "spell_references", "")
	}
	return out, nil
}

func prefixed(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}

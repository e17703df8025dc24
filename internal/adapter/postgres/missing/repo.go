// Package missing implements the spell retry ledger: spells the hydrator could
// not resolve, keyed by (normalized name, class), with attempt counts.
package missing

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/grimoire-backend/internal/adapter/postgres"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

var columns = []string{
	"normalized_name", "display_name", "spell_class", "reference_source",
	"reason", "last_url", "attempt_count", "created_at", "updated_at",
}

const recordFailureSQL = `
INSERT INTO spell_reference_missing
    (normalized_name, spell_class, display_name, reference_source, reason, last_url)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (normalized_name, spell_class) DO UPDATE SET
    display_name     = EXCLUDED.display_name,
    reference_source = EXCLUDED.reference_source,
    reason           = EXCLUDED.reason,
    last_url         = EXCLUDED.last_url,
    attempt_count    = spell_reference_missing.attempt_count + 1,
    updated_at       = clock_timestamp()
RETURNING ` + "normalized_name, display_name, spell_class, reference_source, reason, last_url, attempt_count, created_at, updated_at"

// Repo provides ledger persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new ledger repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// RecordFailure inserts a ledger row with attempt_count 1, or overwrites the
// reason, URL and timestamp of an existing row and increments its count.
func (r *Repo) RecordFailure(ctx context.Context, f domain.MissingFailure) (*domain.MissingEntry, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, recordFailureSQL,
		f.NormalizedName, string(f.Class), f.DisplayName, f.ReferenceSource, f.Reason, f.LastURL,
	)
	e, err := scanEntry(row)
	if err != nil {
		return nil, postgres.MapError(err, "spell_reference_missing", key(f.NormalizedName, f.Class))
	}
	return e, nil
}

// Clear removes the ledger row for (normalized name, class). Clearing an
// absent row is not an error.
func (r *Repo) Clear(ctx context.Context, normalizedName string, class domain.SpellClass) error {
	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`DELETE FROM spell_reference_missing WHERE normalized_name = $1 AND spell_class = $2`,
		normalizedName, string(class),
	)
	return postgres.MapError(err, "spell_reference_missing", key(normalizedName, class))
}

// Get returns one ledger row. Returns domain.ErrNotFound when absent.
func (r *Repo) Get(ctx context.Context, normalizedName string, class domain.SpellClass) (*domain.MissingEntry, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From("spell_reference_missing").
		Where(squirrel.Eq{"normalized_name": normalizedName, "spell_class": string(class)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	e, err := scanEntry(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "spell_reference_missing", key(normalizedName, class))
	}
	return e, nil
}

// List returns up to limit ledger rows sorted by updated_at, oldest or
// newest first. Ties break on normalized name.
func (r *Repo) List(ctx context.Context, order domain.RetryOrder, limit int) ([]domain.MissingEntry, error) {
	dir := "ASC"
	if order == domain.RetryOrderNewest {
		dir = "DESC"
	}

	stmt := postgres.Builder.
		Select(columns...).
		From("spell_reference_missing").
		OrderBy("updated_at "+dir, "normalized_name ASC", "spell_class ASC").
		Limit(uint64(max(limit, 0)))

	rows, err := postgres.QuerySqlizer(ctx, postgres.QuerierFromCtx(ctx, r.pool), stmt)
	if err != nil {
		return nil, postgres.MapError(err, "spell_reference_missing", "")
	}
	defer rows.Close()

	var out []domain.MissingEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, postgres.MapError(err, "spell_reference_missing", "")
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "spell_reference_missing", "")
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*domain.MissingEntry, error) {
	var (
		e     domain.MissingEntry
		class string
	)
	if err := row.Scan(
		&e.NormalizedName, &e.DisplayName, &class, &e.ReferenceSource,
		&e.Reason, &e.LastURL, &e.AttemptCount, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.Class = domain.SpellClass(class)
	return &e, nil
}

func key(normalizedName string, class domain.SpellClass) string {
	return normalizedName + "|" + string(class)
}

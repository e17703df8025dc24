// Package merge implements upsert-by-identity for tables whose rows are
// referenced from elsewhere and therefore must keep their ids across runs.
//
// Rows are matched on an identity key column that is indexed but not unique.
// When earlier runs left several rows with the same key, the lowest id wins:
// dependent rows are re-pointed at it and the other rows are deleted.
package merge

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/grimoire-backend/internal/adapter/postgres"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// DefaultKeyColumn is the identity key column used when Entity.KeyColumn is empty.
const DefaultKeyColumn = "identity_key"

// Dependent is a foreign key column that references the entity's id.
type Dependent struct {
	Table  string
	Column string
}

// Entity describes how one table is reconciled.
type Entity struct {
	Table      string
	KeyColumn  string
	Columns    []string // written on insert and update, excluding the key
	TouchedAt  string   // optional timestamp column set to now() on update
	Dependents []Dependent
}

func (e Entity) keyColumn() string {
	if e.KeyColumn != "" {
		return e.KeyColumn
	}
	return DefaultKeyColumn
}

// Record is one row to reconcile. Values align with Entity.Columns.
type Record struct {
	Key    string
	Values []any
}

// Outcome counts what an upsert did.
type Outcome = domain.UpsertOutcome

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Engine runs identity upserts.
type Engine struct {
	pool *pgxpool.Pool
	txm  txManager
}

// New creates a merge engine.
func New(pool *pgxpool.Pool, txm txManager) *Engine {
	return &Engine{pool: pool, txm: txm}
}

// Upsert reconciles one record inside its own transaction (or the caller's,
// when ctx already carries one) and returns the id of the surviving row.
func (e *Engine) Upsert(ctx context.Context, ent Entity, rec Record) (int64, Outcome, error) {
	if len(rec.Values) != len(ent.Columns) {
		return 0, Outcome{}, fmt.Errorf("merge %s %q: %d values for %d columns", ent.Table, rec.Key, len(rec.Values), len(ent.Columns))
	}

	var (
		id  int64
		out Outcome
	)
	err := e.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, e.pool)

		ids, err := e.matchingIDs(txCtx, q, ent, rec.Key)
		if err != nil {
			return err
		}

		switch len(ids) {
		case 0:
			id, err = e.insert(txCtx, q, ent, rec)
			if err != nil {
				return err
			}
			out.Inserted = 1
			return nil
		case 1:
			id = ids[0]
		default:
			id = ids[0]
			if err := e.fold(txCtx, q, ent, id, ids[1:]); err != nil {
				return postgres.MapError(err, ent.Table, rec.Key)
			}
			out.Merged = len(ids) - 1
		}

		if err := e.update(txCtx, q, ent, id, rec); err != nil {
			return err
		}
		out.Updated = 1
		return nil
	})
	if err != nil {
		return 0, Outcome{}, err
	}
	return id, out, nil
}

// UpsertAll reconciles records one transaction at a time and stops at the
// first error. Records already written stay committed.
func (e *Engine) UpsertAll(ctx context.Context, ent Entity, recs []Record) (Outcome, error) {
	var total Outcome
	for _, rec := range recs {
		_, out, err := e.Upsert(ctx, ent, rec)
		if err != nil {
			return total, err
		}
		total.Add(out)
	}
	return total, nil
}

// matchingIDs locks and returns the ids sharing key, lowest first.
func (e *Engine) matchingIDs(ctx context.Context, q postgres.Querier, ent Entity, key string) ([]int64, error) {
	stmt := postgres.Builder.
		Select("id").
		From(ent.Table).
		Where(squirrel.Eq{ent.keyColumn(): key}).
		OrderBy("id ASC").
		Suffix("FOR UPDATE")

	rows, err := postgres.QuerySqlizer(ctx, q, stmt)
	if err != nil {
		return nil, postgres.MapError(err, ent.Table, key)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, postgres.MapError(err, ent.Table, key)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, ent.Table, key)
	}
	return ids, nil
}

func (e *Engine) insert(ctx context.Context, q postgres.Querier, ent Entity, rec Record) (int64, error) {
	columns := append([]string{ent.keyColumn()}, ent.Columns...)
	values := append([]any{rec.Key}, rec.Values...)

	query, args, err := postgres.Builder.
		Insert(ent.Table).
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert %s: %w", ent.Table, err)
	}

	var id int64
	if err := q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, postgres.MapError(err, ent.Table, rec.Key)
	}
	return id, nil
}

func (e *Engine) update(ctx context.Context, q postgres.Querier, ent Entity, id int64, rec Record) error {
	set := make(map[string]any, len(ent.Columns)+1)
	for i, col := range ent.Columns {
		set[col] = rec.Values[i]
	}
	if ent.TouchedAt != "" {
		set[ent.TouchedAt] = squirrel.Expr("now()")
	}

	stmt := postgres.Builder.
		Update(ent.Table).
		SetMap(set).
		Where(squirrel.Eq{"id": id})

	if _, err := postgres.ExecSqlizer(ctx, q, stmt); err != nil {
		return postgres.MapError(err, ent.Table, rec.Key)
	}
	return nil
}

// fold re-points every dependent row from duplicates to canonical and deletes
// the duplicates.
func (e *Engine) fold(ctx context.Context, q postgres.Querier, ent Entity, canonical int64, duplicates []int64) error {
	for _, dep := range ent.Dependents {
		stmt := postgres.Builder.
			Update(dep.Table).
			Set(dep.Column, canonical).
			Where(squirrel.Eq{dep.Column: duplicates})
		if _, err := postgres.ExecSqlizer(ctx, q, stmt); err != nil {
			return fmt.Errorf("re-point %s.%s: %w", dep.Table, dep.Column, err)
		}
	}

	stmt := postgres.Builder.
		Delete(ent.Table).
		Where(squirrel.Eq{"id": duplicates})
	if _, err := postgres.ExecSqlizer(ctx, q, stmt); err != nil {
		return fmt.Errorf("delete duplicates: %w", err)
	}
	return nil
}

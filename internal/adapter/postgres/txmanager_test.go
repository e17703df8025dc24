package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres/testhelper"
)

func insertKit(ctx context.Context, pool *pgxpool.Pool, key string) error {
	q := postgres.QuerierFromCtx(ctx, pool)
	_, err := q.Exec(ctx,
		`INSERT INTO kits (identity_key, name, class, display_order) VALUES ($1, $1, 'universal', 0)`,
		key,
	)
	return err
}

func kitExists(t *testing.T, pool *pgxpool.Pool, key string) bool {
	t.Helper()
	return testhelper.CountRows(t, pool, "kits", "identity_key = $1", key) > 0
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return insertKit(ctx, pool, "tx commit")
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !kitExists(t, pool, "tx commit") {
		t.Fatal("expected kit to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertKit(ctx, pool, "tx rollback"); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}
	if kitExists(t, pool, "tx rollback") {
		t.Fatal("expected kit NOT to exist after rolled-back transaction")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic to be re-raised")
		}
		if r != "test panic" {
			t.Fatalf("expected panic value %q, got %v", "test panic", r)
		}
		if kitExists(t, pool, "tx panic") {
			t.Fatal("expected kit NOT to exist after panic-rolled-back transaction")
		}
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertKit(ctx, pool, "tx panic"); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		panic("test panic")
	})
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	sentinel := errors.New("outer failure")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		innerErr := tm.RunInTx(ctx, func(innerCtx context.Context) error {
			return insertKit(innerCtx, pool, "tx nested")
		})
		if innerErr != nil {
			return innerErr
		}
		// The inner call must not have committed on its own.
		if kitExists(t, pool, "tx nested") {
			t.Fatal("inner RunInTx committed independently")
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}
	if kitExists(t, pool, "tx nested") {
		t.Fatal("expected nested insert to roll back with the outer transaction")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	pool := testhelper.SetupTestDB(t)

	applied, err := postgres.Migrate(context.Background(), pool.Config().ConnString())
	if err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}
	if len(applied) != 0 {
		t.Fatalf("expected no pending migrations, got %v", applied)
	}
}

package testhelper

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Truncate empties the given tables, cascading to dependents.
func Truncate(t *testing.T, pool *pgxpool.Pool, tables ...string) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`TRUNCATE `+strings.Join(tables, ", ")+` RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("testhelper: truncate %v: %v", tables, err)
	}
}

// SeedCharacter inserts a character referencing the given kit and race ids
// (0 leaves the reference NULL) and returns its id.
func SeedCharacter(t *testing.T, pool *pgxpool.Pool, name string, kitID, raceID int64) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO characters (name, kit_id, race_id) VALUES ($1, $2, $3) RETURNING id`,
		name, nullID(kitID), nullID(raceID),
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedCharacter: %v", err)
	}
	return id
}

// SeedKitRow inserts a raw kit row, bypassing the upsert engine, so tests can
// set up duplicate identity keys left by earlier runs.
func SeedKitRow(t *testing.T, pool *pgxpool.Pool, identityKey, name string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO kits (identity_key, name, class, display_order) VALUES ($1, $2, 'universal', 0) RETURNING id`,
		identityKey, name,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedKitRow: %v", err)
	}
	return id
}

// SeedProficiencyRow inserts a raw proficiency row.
func SeedProficiencyRow(t *testing.T, pool *pgxpool.Pool, identityKey, name string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO proficiencies (identity_key, name, slots, class_group, display_order)
		 VALUES ($1, $2, 1, 'general', 0) RETURNING id`,
		identityKey, name,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedProficiencyRow: %v", err)
	}
	return id
}

// LinkProficiency attaches a proficiency to a character.
func LinkProficiency(t *testing.T, pool *pgxpool.Pool, characterID, proficiencyID int64) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO character_proficiencies (character_id, proficiency_id) VALUES ($1, $2)`,
		characterID, proficiencyID,
	)
	if err != nil {
		t.Fatalf("testhelper: LinkProficiency: %v", err)
	}
}

// CountRows returns the number of rows in table matching the optional where
// clause and args.
func CountRows(t *testing.T, pool *pgxpool.Pool, table, where string, args ...any) int {
	t.Helper()

	query := `SELECT count(*) FROM ` + table
	if where != "" {
		query += ` WHERE ` + where
	}

	var n int
	if err := pool.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("testhelper: CountRows %s: %v", table, err)
	}
	return n
}

func nullID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

// Package catalog persists identity-bearing reference entities (kits,
// proficiencies, races). Rows keep their ids across syncs because characters
// reference them; reconciliation goes through the merge engine.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/grimoire-backend/internal/adapter/postgres"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres/merge"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

var (
	kitEntity = merge.Entity{
		Table:      "kits",
		Columns:    []string{"name", "class", "source", "description", "display_order", "source_url"},
		TouchedAt:  "updated_at",
		Dependents: []merge.Dependent{{Table: "characters", Column: "kit_id"}},
	}

	proficiencyEntity = merge.Entity{
		Table:      "proficiencies",
		Columns:    []string{"name", "slots", "ability", "modifier", "class_group", "display_order", "source_url"},
		TouchedAt:  "updated_at",
		Dependents: []merge.Dependent{{Table: "character_proficiencies", Column: "proficiency_id"}},
	}

	raceEntity = merge.Entity{
		Table:      "races",
		Columns:    []string{"name", "intro", "ability_adjustments", "display_order", "source_url"},
		TouchedAt:  "updated_at",
		Dependents: []merge.Dependent{{Table: "characters", Column: "race_id"}},
	}
)

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repo provides identity-preserving persistence for kits, proficiencies and races.
type Repo struct {
	pool   *pgxpool.Pool
	txm    txManager
	merger *merge.Engine
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool, txm txManager) *Repo {
	return &Repo{pool: pool, txm: txm, merger: merge.New(pool, txm)}
}

// UpsertKits reconciles kits by their alias-resolved identity key.
func (r *Repo) UpsertKits(ctx context.Context, kits []domain.Kit) (merge.Outcome, error) {
	recs := make([]merge.Record, 0, len(kits))
	for _, k := range kits {
		recs = append(recs, merge.Record{
			Key:    k.Key(),
			Values: []any{k.Name, string(k.Class), k.Source, k.Description, k.DisplayOrder, k.SourceURL},
		})
	}
	return r.merger.UpsertAll(ctx, kitEntity, recs)
}

// UpsertProficiencies reconciles nonweapon proficiencies by identity key.
func (r *Repo) UpsertProficiencies(ctx context.Context, profs []domain.Proficiency) (merge.Outcome, error) {
	recs := make([]merge.Record, 0, len(profs))
	for _, p := range profs {
		recs = append(recs, merge.Record{
			Key:    p.Key(),
			Values: []any{p.Name, p.Slots, p.Ability, p.Modifier, string(p.Group), p.DisplayOrder, p.SourceURL},
		})
	}
	return r.merger.UpsertAll(ctx, proficiencyEntity, recs)
}

type adjustmentJSON struct {
	Ability  string `json:"ability"`
	Modifier int    `json:"modifier"`
}

// UpsertRace reconciles one race and replaces its sections in the same
// transaction. Returns the id of the surviving race row.
func (r *Repo) UpsertRace(ctx context.Context, race domain.Race) (int64, merge.Outcome, error) {
	adjustments := make([]adjustmentJSON, 0, len(race.Adjustments))
	for _, a := range race.Adjustments {
		adjustments = append(adjustments, adjustmentJSON{Ability: a.Ability, Modifier: a.Modifier})
	}
	adjRaw, err := json.Marshal(adjustments)
	if err != nil {
		return 0, merge.Outcome{}, fmt.Errorf("marshal ability adjustments: %w", err)
	}

	var (
		id  int64
		out merge.Outcome
	)
	err = r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		id, out, err = r.merger.Upsert(txCtx, raceEntity, merge.Record{
			Key:    race.Key(),
			Values: []any{race.Name, race.Intro, string(adjRaw), race.DisplayOrder, race.SourceURL},
		})
		if err != nil {
			return err
		}
		return r.replaceSections(txCtx, id, race.Sections)
	})
	if err != nil {
		return 0, merge.Outcome{}, err
	}
	return id, out, nil
}

// UpsertRaces reconciles every race, one transaction per race.
func (r *Repo) UpsertRaces(ctx context.Context, races []domain.Race) (merge.Outcome, error) {
	var total merge.Outcome
	for _, race := range races {
		_, out, err := r.UpsertRace(ctx, race)
		if err != nil {
			return total, err
		}
		total.Add(out)
	}
	return total, nil
}

func (r *Repo) replaceSections(ctx context.Context, raceID int64, sections []domain.RaceSection) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, `DELETE FROM race_sections WHERE race_id = $1`, raceID); err != nil {
		return postgres.MapError(err, "race_sections", "")
	}

	batch := &pgx.Batch{}
	for _, s := range sections {
		batch.Queue(
			`INSERT INTO race_sections (race_id, label, body, display_order) VALUES ($1, $2, $3, $4)`,
			raceID, s.Label, s.Body, s.DisplayOrder,
		)
	}
	if _, err := postgres.SendBatchExec(ctx, q, batch); err != nil {
		return postgres.MapError(err, "race_sections", "")
	}
	return nil
}

// Package reference persists the reference tables that are rebuilt from
// scratch on every sync: equipment, weapons, armor, weapon groups,
// proficiency rates, traits and attributes.
//
// Every Replace method deletes the table contents and reinserts the given
// records inside one transaction, so readers never observe a half-written
// table. Calls made under an outer RunInTx join that transaction.
package reference

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/grimoire-backend/internal/adapter/postgres"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// insertChunk bounds the rows of one multi-row INSERT.
const insertChunk = 500

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repo provides replace-all persistence for reference tables.
type Repo struct {
	pool *pgxpool.Pool
	txm  txManager
}

// New creates a new reference repository.
func New(pool *pgxpool.Pool, txm txManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

// ---------------------------------------------------------------------------
// Equipment
// ---------------------------------------------------------------------------

// ReplaceEquipment rebuilds equipment categories with their items, weapons
// and armor from one mapped equipment page. Returns the number of inserted rows.
func (r *Repo) ReplaceEquipment(ctx context.Context, catalog domain.EquipmentCatalog) (int, error) {
	total := 0
	err := r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := r.replaceCategories(txCtx, catalog.Categories, catalog.Items)
		if err != nil {
			return err
		}
		total += n

		n, err = r.ReplaceWeapons(txCtx, catalog.Weapons)
		if err != nil {
			return err
		}
		total += n

		n, err = r.ReplaceArmor(txCtx, catalog.Armor)
		if err != nil {
			return err
		}
		total += n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *Repo) replaceCategories(ctx context.Context, categories []domain.EquipmentCategory, items []domain.EquipmentItem) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	// Items cascade with their category.
	if _, err := q.Exec(ctx, `DELETE FROM equipment_categories`); err != nil {
		return 0, postgres.MapError(err, "equipment_categories", "")
	}

	ids := make(map[string]int64, len(categories))
	for _, c := range categories {
		var id int64
		err := q.QueryRow(ctx,
			`INSERT INTO equipment_categories (name, display_order, source_url)
			 VALUES ($1, $2, $3) RETURNING id`,
			c.Name, c.DisplayOrder, c.SourceURL,
		).Scan(&id)
		if err != nil {
			return 0, postgres.MapError(err, "equipment_categories", c.Name)
		}
		ids[domain.IdentityKey(c.Name)] = id
	}

	rows := make([][]any, 0, len(items))
	for _, it := range items {
		categoryID, ok := ids[domain.IdentityKey(it.Category)]
		if !ok {
			return 0, fmt.Errorf("equipment item %q: unknown category %q: %w", it.Name, it.Category, domain.ErrValidation)
		}
		rows = append(rows, []any{categoryID, it.Name, it.CostText, it.CostCopper, it.WeightText, it.DisplayOrder, it.SourceURL})
	}

	n, err := r.insertRows(ctx, "equipment_items",
		[]string{"category_id", "name", "cost_text", "cost_copper", "weight_text", "display_order", "source_url"}, rows)
	if err != nil {
		return 0, err
	}
	return len(categories) + n, nil
}

// ReplaceWeapons rebuilds the weapons table.
func (r *Repo) ReplaceWeapons(ctx context.Context, weapons []domain.Weapon) (int, error) {
	rows := make([][]any, 0, len(weapons))
	for _, w := range weapons {
		rows = append(rows, []any{
			w.Name, w.CostText, w.CostCopper, w.WeightLb, string(w.Size), w.DamageType,
			w.SpeedFactor, w.DamageSM, w.DamageL, w.DisplayOrder, w.SourceURL,
		})
	}
	return r.replace(ctx, "weapons",
		[]string{"name", "cost_text", "cost_copper", "weight_lb", "size", "damage_type",
			"speed_factor", "damage_sm", "damage_l", "display_order", "source_url"}, rows)
}

// ReplaceArmor rebuilds the armor table.
func (r *Repo) ReplaceArmor(ctx context.Context, armor []domain.Armor) (int, error) {
	rows := make([][]any, 0, len(armor))
	for _, a := range armor {
		rows = append(rows, []any{a.Name, a.CostText, a.CostCopper, a.WeightLb, a.ArmorClass, a.DisplayOrder, a.SourceURL})
	}
	return r.replace(ctx, "armor",
		[]string{"name", "cost_text", "cost_copper", "weight_lb", "armor_class", "display_order", "source_url"}, rows)
}

// ---------------------------------------------------------------------------
// Weapon groups
// ---------------------------------------------------------------------------

// ReplaceWeaponGroups rebuilds weapon groups and their members. Broad groups
// are inserted first so tight groups can reference them.
func (r *Repo) ReplaceWeaponGroups(ctx context.Context, catalog domain.WeaponGroupCatalog) (int, error) {
	total := 0
	err := r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.pool)

		// Tight groups and members cascade from broad groups.
		if _, err := q.Exec(txCtx, `DELETE FROM weapon_groups`); err != nil {
			return postgres.MapError(err, "weapon_groups", "")
		}

		ids := make(map[string]int64, len(catalog.Groups))
		insert := func(g domain.WeaponGroup, parentID *int64) error {
			var id int64
			err := q.QueryRow(txCtx,
				`INSERT INTO weapon_groups (name, kind, parent_id, display_order, source_url)
				 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
				g.Name, string(g.Kind), parentID, g.DisplayOrder, g.SourceURL,
			).Scan(&id)
			if err != nil {
				return postgres.MapError(err, "weapon_groups", g.Key())
			}
			ids[g.Key()] = id
			total++
			return nil
		}

		for _, g := range catalog.Groups {
			if g.Kind != domain.WeaponGroupBroad {
				continue
			}
			if err := insert(g, nil); err != nil {
				return err
			}
		}
		for _, g := range catalog.Groups {
			if g.Kind != domain.WeaponGroupTight {
				continue
			}
			parentID, ok := ids[domain.CompositeKey("", g.Parent)]
			if !ok {
				return fmt.Errorf("weapon group %q: unknown parent %q: %w", g.Name, g.Parent, domain.ErrValidation)
			}
			if err := insert(g, &parentID); err != nil {
				return err
			}
		}

		rows := make([][]any, 0, len(catalog.Members))
		for _, m := range catalog.Members {
			broadID, ok := ids[domain.CompositeKey("", m.Broad)]
			if !ok {
				return fmt.Errorf("weapon %q: unknown broad group %q: %w", m.Weapon, m.Broad, domain.ErrValidation)
			}
			var tightID *int64
			if m.Tight != "" {
				id, ok := ids[domain.CompositeKey(m.Broad, m.Tight)]
				if !ok {
					return fmt.Errorf("weapon %q: unknown tight group %q: %w", m.Weapon, m.Tight, domain.ErrValidation)
				}
				tightID = &id
			}
			rows = append(rows, []any{m.Weapon, broadID, tightID, m.DisplayOrder})
		}

		n, err := r.insertRows(txCtx, "weapon_group_members",
			[]string{"weapon_name", "broad_group_id", "tight_group_id", "display_order"}, rows)
		if err != nil {
			return err
		}
		total += n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// ---------------------------------------------------------------------------
// Proficiency rates, traits, attributes
// ---------------------------------------------------------------------------

// ReplaceProficiencyRates rebuilds the proficiency slot progression table.
func (r *Repo) ReplaceProficiencyRates(ctx context.Context, rates []domain.ProficiencyRate) (int, error) {
	rows := make([][]any, 0, len(rates))
	for _, pr := range rates {
		rows = append(rows, []any{
			string(pr.Group), pr.InitialWeapon, pr.WeaponLevels, pr.Penalty,
			pr.InitialNonweapon, pr.NonweaponLevels, pr.DisplayOrder, pr.SourceURL,
		})
	}
	return r.replace(ctx, "proficiency_rates",
		[]string{"class_group", "initial_weapon", "weapon_levels", "penalty",
			"initial_nonweapon", "nonweapon_levels", "display_order", "source_url"}, rows)
}

// ReplaceTraits rebuilds the traits table (traits and disadvantages).
func (r *Repo) ReplaceTraits(ctx context.Context, traits []domain.Trait) (int, error) {
	rows := make([][]any, 0, len(traits))
	for _, t := range traits {
		rows = append(rows, []any{string(t.Kind), t.Name, t.Cost, t.SevereCost, t.Description, t.DisplayOrder, t.SourceURL})
	}
	return r.replace(ctx, "traits",
		[]string{"kind", "name", "cost", "severe_cost", "description", "display_order", "source_url"}, rows)
}

// ReplaceAttributes rebuilds the attributes table.
func (r *Repo) ReplaceAttributes(ctx context.Context, attributes []domain.Attribute) (int, error) {
	rows := make([][]any, 0, len(attributes))
	for _, a := range attributes {
		rows = append(rows, []any{a.Name, a.Abbreviation, a.Description, a.DisplayOrder, a.SourceURL})
	}
	return r.replace(ctx, "attributes",
		[]string{"name", "abbreviation", "description", "display_order", "source_url"}, rows)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// replace deletes every row of table and inserts rows in one transaction.
func (r *Repo) replace(ctx context.Context, table string, columns []string, rows [][]any) (int, error) {
	inserted := 0
	err := r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.pool)
		if _, err := q.Exec(txCtx, "DELETE FROM "+table); err != nil {
			return postgres.MapError(err, table, "")
		}

		n, err := r.insertRows(txCtx, table, columns, rows)
		if err != nil {
			return err
		}
		inserted = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// insertRows writes rows with multi-row INSERT statements of at most
// insertChunk rows each.
func (r *Repo) insertRows(ctx context.Context, table string, columns []string, rows [][]any) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	total := 0
	for start := 0; start < len(rows); start += insertChunk {
		end := min(start+insertChunk, len(rows))

		stmt := postgres.Builder.Insert(table).Columns(columns...)
		for _, row := range rows[start:end] {
			stmt = stmt.Values(row...)
		}

		n, err := postgres.ExecSqlizer(ctx, q, stmt)
		if err != nil {
			return total, postgres.MapError(err, table, "")
		}
		total += int(n)
	}
	return total, nil
}

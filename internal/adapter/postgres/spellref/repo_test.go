package spellref_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres/missing"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres/spell"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres/spellref"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

func ref(name string, class domain.SpellClass, level int) domain.SpellReference {
	return domain.SpellReference{
		Name:           name,
		NormalizedName: domain.SpellName(name),
		Class:          class,
		Group:          "Evocation",
		Level:          level,
		Source:         "PHB",
	}
}

func TestApplyDelta(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.Truncate(t, pool, "spell_references")
	repo := spellref.New(pool, postgres.NewTxManager(pool))
	ctx := context.Background()

	err := repo.ApplyDelta(ctx, domain.SpellReferenceDelta{Created: []domain.SpellReference{
		ref("Magic Missile", domain.SpellClassWizard, 1),
		ref("Fireball", domain.SpellClassWizard, 3),
	}})
	require.NoError(t, err)

	stored, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	err = repo.ApplyDelta(ctx, domain.SpellReferenceDelta{
		Deleted: []domain.SpellReference{stored[1]},
		Updated: []domain.SpellReferenceUpdate{{ID: stored[0].ID, From: stored[0].Name, To: "Magic missile"}},
		Created: []domain.SpellReference{ref("Bless", domain.SpellClassPriest, 1)},
	})
	require.NoError(t, err)

	stored, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "Magic missile", stored[0].Name)
	assert.Equal(t, "bless", stored[1].NormalizedName)
	assert.Equal(t, domain.SpellClassPriest, stored[1].Class)
}

func TestApplyDelta_DuplicateKeyRollsBack(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.Truncate(t, pool, "spell_references")
	repo := spellref.New(pool, postgres.NewTxManager(pool))
	ctx := context.Background()

	mm := ref("Magic Missile", domain.SpellClassWizard, 1)
	err := repo.ApplyDelta(ctx, domain.SpellReferenceDelta{Created: []domain.SpellReference{mm, mm}})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	assert.Equal(t, 0, testhelper.CountRows(t, pool, "spell_references", ""))
}

func TestListUnsavedAndFindByName(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.Truncate(t, pool, "spell_references", "spells", "spell_reference_missing")
	txm := postgres.NewTxManager(pool)
	repo := spellref.New(pool, txm)
	spells := spell.New(pool, txm)
	ctx := context.Background()

	require.NoError(t, repo.ApplyDelta(ctx, domain.SpellReferenceDelta{Created: []domain.SpellReference{
		ref("Fireball", domain.SpellClassWizard, 3),
		ref("Magic Missile", domain.SpellClassWizard, 1),
		ref("Bless", domain.SpellClassPriest, 1),
	}}))

	_, _, err := spells.Save(ctx, domain.Spell{
		Name: "Bless", NormalizedName: "bless", Class: domain.SpellClassPriest, Level: 1,
	})
	require.NoError(t, err)

	unsaved, err := repo.ListUnsaved(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unsaved, 2)
	assert.Equal(t, "magic missile", unsaved[0].NormalizedName)
	assert.Equal(t, "fireball", unsaved[1].NormalizedName)

	_, err = missing.New(pool).RecordFailure(ctx, domain.MissingFailure{
		NormalizedName: "fireball", DisplayName: "Fireball", Class: domain.SpellClassWizard, Reason: "no page",
	})
	require.NoError(t, err)

	unsaved, err = repo.ListUnsaved(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unsaved, 1)
	assert.Equal(t, "magic missile", unsaved[0].NormalizedName)

	limited, err := repo.ListUnsaved(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	found, err := repo.FindByName(ctx, "fireball", "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 3, found[0].Level)

	found, err = repo.FindByName(ctx, "fireball", domain.SpellClassPriest)
	require.NoError(t, err)
	assert.Empty(t, found)
}

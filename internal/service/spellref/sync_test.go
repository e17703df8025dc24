package spellref

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

const spellCSV = `Class,Group,Name,Level,Source
Wizard,Evocation,Magic missile,1,PHB
Wizard,Evocation,Fireball,3,PHB
Priest,All,Bless,1,PHB
`

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spells.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSync_AppliesDelta(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	refs := NewMockreferenceRepo(ctrl)
	syncer := NewSyncer(slog.Default(), refs)

	existing := []domain.SpellReference{
		refRow(1, "Magic Missile", domain.SpellClassWizard, 1),
		refRow(2, "Sleep", domain.SpellClassWizard, 1),
	}
	existing[1].Group = "Enchantment/Charm"

	refs.EXPECT().List(gomock.Any()).Return(existing, nil)
	refs.EXPECT().ApplyDelta(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, d domain.SpellReferenceDelta) error {
			require.Len(t, d.Updated, 1)
			assert.Equal(t, "Magic missile", d.Updated[0].To)
			require.Len(t, d.Deleted, 1)
			assert.Equal(t, int64(2), d.Deleted[0].ID)
			assert.Len(t, d.Created, 2)
			return nil
		})

	res, err := syncer.Sync(context.Background(), writeCSV(t, spellCSV), false)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Read: 3, Created: 2, Updated: 1, Deleted: 1}, res)
}

func TestSync_DryRunDoesNotWrite(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	refs := NewMockreferenceRepo(ctrl)
	syncer := NewSyncer(slog.Default(), refs)

	refs.EXPECT().List(gomock.Any()).Return(nil, nil)

	res, err := syncer.Sync(context.Background(), writeCSV(t, spellCSV), true)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)
	assert.True(t, res.DryRun)
}

func TestSync_NoChangesSkipsApply(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	refs := NewMockreferenceRepo(ctrl)
	syncer := NewSyncer(slog.Default(), refs)

	refs.EXPECT().List(gomock.Any()).Return([]domain.SpellReference{
		refRow(1, "Magic missile", domain.SpellClassWizard, 1),
	}, nil)

	res, err := syncer.Sync(context.Background(), writeCSV(t, "Wizard,Evocation,Magic missile,1,PHB\n"), false)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Read: 1}, res)
}

func TestSync_EmptyFileIsRejected(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	syncer := NewSyncer(slog.Default(), NewMockreferenceRepo(ctrl))

	_, err := syncer.Sync(context.Background(), writeCSV(t, "Class,Group,Name,Level,Source\n"), false)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSync_ApplyError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	refs := NewMockreferenceRepo(ctrl)
	syncer := NewSyncer(slog.Default(), refs)

	boom := errors.New("db down")
	refs.EXPECT().List(gomock.Any()).Return(nil, nil)
	refs.EXPECT().ApplyDelta(gomock.Any(), gomock.Any()).Return(boom)

	_, err := syncer.Sync(context.Background(), writeCSV(t, spellCSV), false)
	assert.ErrorIs(t, err, boom)
}

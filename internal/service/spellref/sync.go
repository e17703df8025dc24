package spellref

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/grimoire-backend/internal/app/hydrate/mapper"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// SyncResult summarizes one reference list sync.
type SyncResult struct {
	Read    int  `json:"read"`
	Created int  `json:"created"`
	Updated int  `json:"updated"`
	Deleted int  `json:"deleted"`
	DryRun  bool `json:"dryRun,omitempty"`
}

// Syncer mirrors a CSV spell list into the reference table.
type Syncer struct {
	refs referenceRepo
	log  *slog.Logger
}

// NewSyncer creates a Syncer.
func NewSyncer(log *slog.Logger, refs referenceRepo) *Syncer {
	return &Syncer{refs: refs, log: log.With("service", "spellref_sync")}
}

// Sync reads the CSV file or directory at path, diffs it against the stored
// rows and applies the delta. With dryRun the delta is only counted.
func (s *Syncer) Sync(ctx context.Context, path string, dryRun bool) (SyncResult, error) {
	incoming, err := mapper.ReadSpellReferences(path)
	if err != nil {
		return SyncResult{}, fmt.Errorf("read spell references: %w", err)
	}
	if len(incoming) == 0 {
		// An empty file would otherwise wipe the whole table.
		return SyncResult{}, domain.NewValidationError("path", "no spell reference rows in "+path)
	}

	existing, err := s.refs.List(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list spell references: %w", err)
	}

	delta := Diff(incoming, existing)
	res := SyncResult{
		Read:    len(incoming),
		Created: len(delta.Created),
		Updated: len(delta.Updated),
		Deleted: len(delta.Deleted),
		DryRun:  dryRun,
	}

	if !dryRun && !delta.IsEmpty() {
		if err := s.refs.ApplyDelta(ctx, delta); err != nil {
			return SyncResult{}, fmt.Errorf("apply spell reference delta: %w", err)
		}
	}

	s.log.InfoContext(ctx, "spell references synced",
		slog.String("path", path),
		slog.Int("read", res.Read),
		slog.Int("created", res.Created),
		slog.Int("updated", res.Updated),
		slog.Int("deleted", res.Deleted),
		slog.Bool("dry_run", dryRun),
	)
	return res, nil
}

package spellref

import "github.com/heartmarshall/grimoire-backend/internal/domain"

// Diff computes the change set that turns existing into incoming. Rows are
// matched by their composite identity key; the display name is the only
// field that can change in place. When incoming repeats a key the first row
// wins. Created and Updated follow incoming order, Deleted follows existing
// order.
func Diff(incoming, existing []domain.SpellReference) domain.SpellReferenceDelta {
	byKey := make(map[string]domain.SpellReference, len(existing))
	for _, e := range existing {
		if _, dup := byKey[e.Key()]; !dup {
			byKey[e.Key()] = e
		}
	}

	var delta domain.SpellReferenceDelta
	seen := make(map[string]struct{}, len(incoming))
	for _, in := range incoming {
		key := in.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		cur, ok := byKey[key]
		if !ok {
			delta.Created = append(delta.Created, in)
			continue
		}
		if cur.Name != in.Name {
			delta.Updated = append(delta.Updated, domain.SpellReferenceUpdate{ID: cur.ID, From: cur.Name, To: in.Name})
		}
	}

	for _, e := range existing {
		if _, keep := seen[e.Key()]; !keep {
			delta.Deleted = append(delta.Deleted, e)
		}
	}
	return delta
}

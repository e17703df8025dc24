package spellref

import (
	"strings"

	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// HydrateInput selects the candidates of one hydration run.
type HydrateInput struct {
	Name             string
	SpellClass       string
	Limit            int
	RetryMissing     bool
	RetryOnlyMissing bool
	RetryOrder       domain.RetryOrder
	// Force re-hydrates spells that are already saved.
	Force bool
}

// Validate checks the fields that cannot be clamped into range.
func (i HydrateInput) Validate() error {
	var errs []domain.FieldError

	if c := strings.TrimSpace(i.SpellClass); c != "" {
		if _, ok := domain.ParseSpellClass(c); !ok {
			errs = append(errs, domain.FieldError{Field: "spellClass", Message: "must be wizard or priest"})
		}
		if strings.TrimSpace(i.Name) == "" {
			errs = append(errs, domain.FieldError{Field: "spellClass", Message: "requires name"})
		}
	}
	if i.RetryOrder != "" && !i.RetryOrder.IsValid() {
		errs = append(errs, domain.FieldError{Field: "retryOrder", Message: "must be oldest or newest"})
	}
	if strings.TrimSpace(i.Name) != "" && i.RetryOnlyMissing {
		errs = append(errs, domain.FieldError{Field: "retryOnlyMissing", Message: "cannot be combined with name"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ClampLimit maps any requested limit into 1..MaxLimit, zero meaning the
// default.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

func (i HydrateInput) order() domain.RetryOrder {
	if i.RetryOrder == "" {
		return domain.RetryOrderOldest
	}
	return i.RetryOrder
}

func (i HydrateInput) class() domain.SpellClass {
	c, _ := domain.ParseSpellClass(strings.TrimSpace(i.SpellClass))
	return c
}

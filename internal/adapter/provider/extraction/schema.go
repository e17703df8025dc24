package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// spellPayload is the JSON shape the extraction model is asked to return.
type spellPayload struct {
	Name         string          `json:"name"`
	Class        string          `json:"class"`
	Level        json.RawMessage `json:"level"`
	School       string          `json:"school"`
	Range        string          `json:"range"`
	Duration     string          `json:"duration"`
	CastingTime  string          `json:"casting_time"`
	Components   string          `json:"components"`
	AreaOfEffect string          `json:"area_of_effect"`
	SavingThrow  string          `json:"saving_throw"`
	Description  string          `json:"description"`
}

// ParseSpell decodes and validates an extraction payload. Unknown fields,
// a missing name or description, an unknown class and a level outside 0..9
// are rejected with a *domain.ValidationError listing every failing field.
func ParseSpell(raw []byte) (domain.ExtractedSpell, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var p spellPayload
	if err := dec.Decode(&p); err != nil {
		return domain.ExtractedSpell{}, domain.NewValidationError("payload", err.Error())
	}

	var errs []domain.FieldError

	name := strings.TrimSpace(p.Name)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}

	class, ok := domain.ParseSpellClass(p.Class)
	if !ok {
		errs = append(errs, domain.FieldError{Field: "class", Message: fmt.Sprintf("unknown spell class %q", p.Class)})
	}

	level, err := parseLevel(p.Level)
	if err != nil {
		errs = append(errs, domain.FieldError{Field: "level", Message: err.Error()})
	}

	description := strings.TrimSpace(p.Description)
	if description == "" {
		errs = append(errs, domain.FieldError{Field: "description", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.ExtractedSpell{}, domain.NewValidationErrors(errs)
	}

	return domain.ExtractedSpell{
		Name:         name,
		Class:        class,
		Level:        level,
		School:       strings.TrimSpace(p.School),
		Range:        strings.TrimSpace(p.Range),
		Duration:     strings.TrimSpace(p.Duration),
		CastingTime:  strings.TrimSpace(p.CastingTime),
		Components:   strings.TrimSpace(p.Components),
		AreaOfEffect: strings.TrimSpace(p.AreaOfEffect),
		SavingThrow:  strings.TrimSpace(p.SavingThrow),
		Description:  description,
	}, nil
}

// parseLevel accepts a JSON integer only.
func parseLevel(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("required")
	}
	var level int
	if err := json.Unmarshal(raw, &level); err != nil {
		return 0, fmt.Errorf("must be an integer, got %s", string(raw))
	}
	if level < 0 || level > 9 {
		return 0, fmt.Errorf("must be between 0 and 9, got %d", level)
	}
	return level, nil
}

// extractJSON finds the outermost JSON object in a model response.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}

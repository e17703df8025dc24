// Package extraction turns spell page text into a structured spell record
// using the Anthropic Messages API. Responses are validated at the boundary
// before anything downstream sees them.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/grimoire-backend/internal/config"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// Extractor calls the extraction model.
type Extractor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	maxInput  int
	log       *slog.Logger
}

// New creates an Extractor. Extra request options (base URL, HTTP client,
// retries) are appended after the API key.
func New(cfg config.ExtractionConfig, logger *slog.Logger, opts ...option.RequestOption) *Extractor {
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	return &Extractor{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		maxInput:  cfg.MaxInput,
		log:       logger.With("adapter", "extraction"),
	}
}

// Extract asks the model to describe the spell in text. expected names the
// spell being looked for and only steers the prompt; identity is checked by
// the caller.
func (e *Extractor) Extract(ctx context.Context, text string, expected domain.SpellReference) (domain.ExtractedSpell, error) {
	text = truncate(text, e.maxInput)

	msg, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: e.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(expected, text))),
		},
	})
	if err != nil {
		return domain.ExtractedSpell{}, fmt.Errorf("extraction call for %q: %w", expected.Name, err)
	}
	if len(msg.Content) == 0 {
		return domain.ExtractedSpell{}, fmt.Errorf("empty extraction response for %q", expected.Name)
	}

	jsonStr, err := extractJSON(msg.Content[0].Text)
	if err != nil {
		return domain.ExtractedSpell{}, fmt.Errorf("extraction response for %q: %w", expected.Name, domain.NewValidationError("payload", err.Error()))
	}

	spell, err := ParseSpell([]byte(jsonStr))
	if err != nil {
		return domain.ExtractedSpell{}, fmt.Errorf("extraction response for %q: %w", expected.Name, err)
	}

	e.log.DebugContext(ctx, "spell extracted",
		slog.String("name", spell.Name),
		slog.String("class", string(spell.Class)),
		slog.Int("level", spell.Level),
	)
	return spell, nil
}

// truncate cuts text to at most limit bytes without splitting a rune.
// A limit of zero or less keeps the text whole.
func truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	i := limit
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return text[:i]
}

func buildPrompt(expected domain.SpellReference, text string) string {
	return fmt.Sprintf(`You are cataloguing spells from the Advanced Dungeons & Dragons 2nd Edition rules.

The page below should describe the %s spell %q (level %d).

Page text:
%s

Output ONLY a valid JSON object matching this exact schema:
{
  "name": "<spell name as printed>",
  "class": "<wizard|priest>",
  "level": <integer 0-9>,
  "school": "<school or sphere, may be empty>",
  "range": "<range>",
  "duration": "<duration>",
  "casting_time": "<casting time>",
  "components": "<components>",
  "area_of_effect": "<area of effect>",
  "saving_throw": "<saving throw>",
  "description": "<full rules text, paragraphs separated by blank lines>"
}

Rules:
- Copy values from the page; never invent missing ones, leave them empty instead
- If the page describes a different spell, still report the spell it actually describes
- Output ONLY the JSON, no markdown, no explanations`, expected.Class, expected.Name, expected.Level, text)
}

package spellref

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/heartmarshall/grimoire-backend/internal/app/hydrate/validator"
	"github.com/heartmarshall/grimoire-backend/internal/app/hydrate/wikitext"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// Status is the outcome of one hydration candidate.
type Status string

const (
	StatusSaved    Status = "saved"
	StatusNotFound Status = "not-found"
	StatusSkipped  Status = "skipped"
)

// Result reports what happened to one candidate.
type Result struct {
	NormalizedName string            `json:"normalizedName"`
	Name           string            `json:"name"`
	SpellClass     domain.SpellClass `json:"spellClass"`
	Level          int               `json:"level"`
	Status         Status            `json:"status"`
	Reason         string            `json:"reason,omitempty"`
	SpellID        int64             `json:"spellId,omitempty"`
	MatchedURL     string            `json:"matchedUrl,omitempty"`
}

// HydrateResult is the outcome of a hydration run together with the ledger
// as it stands afterwards, newest first.
type HydrateResult struct {
	Processed []Result
	Missing   []domain.MissingEntry
}

// HydratorOptions tunes page discovery and validation.
type HydratorOptions struct {
	Policy      validator.Policy
	SearchLimit int
}

// Hydrator resolves reference rows into saved spells.
type Hydrator struct {
	refs    referenceRepo
	spells  spellRepo
	ledger  missingLedger
	wiki    wikiSource
	extract extractor
	tx      txManager
	opts    HydratorOptions
	log     *slog.Logger
}

// NewHydrator creates a Hydrator.
func NewHydrator(
	log *slog.Logger,
	refs referenceRepo,
	spells spellRepo,
	ledger missingLedger,
	wiki wikiSource,
	extract extractor,
	tx txManager,
	opts HydratorOptions,
) *Hydrator {
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 5
	}
	return &Hydrator{
		refs:    refs,
		spells:  spells,
		ledger:  ledger,
		wiki:    wiki,
		extract: extract,
		tx:      tx,
		opts:    opts,
		log:     log.With("service", "spellref_hydrate"),
	}
}

type candidate struct {
	ref        domain.SpellReference
	fromLedger bool
	// unknown marks a name with no reference row behind it.
	unknown bool
}

func (c candidate) key() string {
	return c.ref.NormalizedName + "|" + string(c.ref.Class)
}

// Run hydrates up to a clamped limit of candidates. A candidate that cannot
// be resolved is recorded in the ledger and the run goes on; only storage
// failures and cancellation abort it.
func (h *Hydrator) Run(ctx context.Context, in HydrateInput) (*HydrateResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	limit := ClampLimit(in.Limit)

	cands, err := h.candidates(ctx, in, limit)
	if err != nil {
		return nil, err
	}

	res := &HydrateResult{Processed: make([]Result, 0, len(cands))}
	for _, c := range cands {
		r, err := h.hydrate(ctx, c, in.Force)
		if err != nil {
			return nil, fmt.Errorf("hydrate %q: %w", c.ref.Name, err)
		}
		res.Processed = append(res.Processed, r)
	}

	res.Missing, err = h.ledger.List(ctx, domain.RetryOrderNewest, LedgerPageSize)
	if err != nil {
		return nil, fmt.Errorf("list missing ledger: %w", err)
	}

	h.log.InfoContext(ctx, "hydration run finished",
		slog.Int("candidates", len(cands)),
		slog.Int("saved", countStatus(res.Processed, StatusSaved)),
		slog.Int("not_found", countStatus(res.Processed, StatusNotFound)),
		slog.Int("skipped", countStatus(res.Processed, StatusSkipped)),
	)
	return res, nil
}

// Missing returns the current ledger, newest first.
func (h *Hydrator) Missing(ctx context.Context, order domain.RetryOrder, limit int) ([]domain.MissingEntry, error) {
	if order == "" {
		order = domain.RetryOrderNewest
	}
	if limit <= 0 {
		limit = LedgerPageSize
	}
	entries, err := h.ledger.List(ctx, order, limit)
	if err != nil {
		return nil, fmt.Errorf("list missing ledger: %w", err)
	}
	return entries, nil
}

func (h *Hydrator) candidates(ctx context.Context, in HydrateInput, limit int) ([]candidate, error) {
	var out []candidate
	seen := make(map[string]struct{})
	add := func(c candidate) {
		if len(out) >= limit {
			return
		}
		if _, dup := seen[c.key()]; dup {
			return
		}
		seen[c.key()] = struct{}{}
		out = append(out, c)
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		normalized := domain.SpellName(name)
		refs, err := h.refs.FindByName(ctx, normalized, in.class())
		if err != nil {
			return nil, fmt.Errorf("find spell reference %q: %w", name, err)
		}
		if len(refs) == 0 {
			add(candidate{
				ref:     domain.SpellReference{Name: name, NormalizedName: normalized, Class: in.class()},
				unknown: true,
			})
		}
		for _, ref := range refs {
			add(candidate{ref: ref})
		}
		return out, nil
	}

	if !in.RetryOnlyMissing {
		refs, err := h.refs.ListUnsaved(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("list unsaved spell references: %w", err)
		}
		for _, ref := range refs {
			add(candidate{ref: ref})
		}
		if !in.RetryMissing || len(out) >= limit {
			return out, nil
		}
	}

	entries, err := h.ledger.List(ctx, in.order(), limit-len(out))
	if err != nil {
		return nil, fmt.Errorf("list missing ledger: %w", err)
	}
	for _, e := range entries {
		c, err := h.fromLedger(ctx, e)
		if err != nil {
			return nil, err
		}
		add(c)
	}
	return out, nil
}

func (h *Hydrator) fromLedger(ctx context.Context, e domain.MissingEntry) (candidate, error) {
	refs, err := h.refs.FindByName(ctx, e.NormalizedName, e.Class)
	if err != nil {
		return candidate{}, fmt.Errorf("find spell reference %q: %w", e.NormalizedName, err)
	}
	if len(refs) == 0 {
		return candidate{
			ref: domain.SpellReference{
				Name:           e.DisplayName,
				NormalizedName: e.NormalizedName,
				Class:          e.Class,
				Source:         e.ReferenceSource,
			},
			fromLedger: true,
			unknown:    true,
		}, nil
	}
	return candidate{ref: refs[0], fromLedger: true}, nil
}

func (h *Hydrator) hydrate(ctx context.Context, c candidate, force bool) (Result, error) {
	ref := c.ref
	res := Result{
		NormalizedName: ref.NormalizedName,
		Name:           ref.Name,
		SpellClass:     ref.Class,
		Level:          ref.Level,
	}

	if c.unknown {
		res.Status = StatusSkipped
		res.Reason = "no spell reference row"
		// The reference row is gone, so the ledger entry can never be retried.
		if c.fromLedger {
			if err := h.ledger.Clear(ctx, ref.NormalizedName, ref.Class); err != nil {
				return Result{}, fmt.Errorf("clear missing entry: %w", err)
			}
		}
		return res, nil
	}

	if !force {
		exists, err := h.spells.Exists(ctx, ref.NormalizedName, ref.Class)
		if err != nil {
			return Result{}, fmt.Errorf("check saved spell: %w", err)
		}
		if exists {
			if c.fromLedger {
				if err := h.ledger.Clear(ctx, ref.NormalizedName, ref.Class); err != nil {
					return Result{}, fmt.Errorf("clear missing entry: %w", err)
				}
			}
			res.Status = StatusSkipped
			res.Reason = "already saved"
			return res, nil
		}
	}

	page, lastURL, reason, err := h.findPage(ctx, ref)
	if err != nil {
		return Result{}, err
	}
	if page == nil {
		return h.recordMissing(ctx, res, ref, reason, lastURL)
	}

	spell, err := h.extractSpell(ctx, *page, ref)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return h.recordMissing(ctx, res, ref, err.Error(), page.URL)
	}

	id, err := h.save(ctx, spell)
	if err != nil {
		return Result{}, err
	}

	res.Status = StatusSaved
	res.SpellID = id
	res.MatchedURL = page.URL
	return res, nil
}

// findPage tries the reference name as a page title, then each search hit,
// and returns the first page the validator accepts. The search is only sent
// when the direct title is not accepted. When no page is accepted the page is
// nil and reason explains every rejection.
func (h *Hydrator) findPage(ctx context.Context, ref domain.SpellReference) (*domain.WikiPage, string, string, error) {
	f := pageFinder{h: h, expected: validator.ExpectedFromReference(ref), tried: make(map[string]struct{})}

	page, err := f.try(ctx, ref.Name)
	if err != nil || page != nil {
		return page, f.lastURL, "", err
	}

	hits, err := h.wiki.Search(ctx, fmt.Sprintf("%q spell", ref.Name), h.opts.SearchLimit)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", "", ctxErr
		}
		f.reasons = append(f.reasons, "search: "+err.Error())
	}
	for _, title := range hits {
		page, err := f.try(ctx, title)
		if err != nil || page != nil {
			return page, f.lastURL, "", err
		}
	}

	if len(f.reasons) == 0 {
		return nil, f.lastURL, "no wiki page found", nil
	}
	return nil, f.lastURL, strings.Join(f.reasons, " | "), nil
}

// pageFinder carries the state of one findPage call across candidate titles.
type pageFinder struct {
	h        *Hydrator
	expected validator.Expected
	tried    map[string]struct{}
	reasons  []string
	lastURL  string
}

// try fetches and validates one title. It returns the page when accepted,
// nil when rejected or unavailable, and an error only on cancellation.
func (f *pageFinder) try(ctx context.Context, title string) (*domain.WikiPage, error) {
	key := strings.ToLower(strings.TrimSpace(title))
	if _, dup := f.tried[key]; dup || key == "" {
		return nil, nil
	}
	f.tried[key] = struct{}{}

	page, err := f.h.wiki.FetchPage(ctx, title)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, domain.ErrNotFound) {
			f.reasons = append(f.reasons, fmt.Sprintf("%s: %v", title, err))
		}
		return nil, nil
	}
	f.lastURL = page.URL

	text := wikitext.HTMLToText(page.HTML)
	if f.h.opts.Policy.IsPlausibleMatch(text, f.expected) {
		f.h.log.DebugContext(ctx, "source page accepted",
			slog.String("spell", f.expected.Name),
			slog.String("url", page.URL),
		)
		return &page, nil
	}
	verdict := f.h.opts.Policy.Validate(text, f.expected)
	f.reasons = append(f.reasons, fmt.Sprintf("%s: %s", page.Title, verdict.Reason()))
	return nil, nil
}

func (h *Hydrator) extractSpell(ctx context.Context, page domain.WikiPage, ref domain.SpellReference) (domain.Spell, error) {
	md, err := wikitext.HTMLToMarkdown(page.HTML, siteOf(page.URL))
	if err != nil {
		return domain.Spell{}, err
	}

	ex, err := h.extract.Extract(ctx, md, ref)
	if err != nil {
		return domain.Spell{}, fmt.Errorf("extraction: %w", err)
	}
	if err := checkIdentity(ex, ref); err != nil {
		return domain.Spell{}, err
	}

	group := ref.Group
	if group == "" {
		group = ex.School
	}
	return domain.Spell{
		Name:           ref.Name,
		NormalizedName: ref.NormalizedName,
		Class:          ref.Class,
		Level:          ref.Level,
		Group:          group,
		Source:         ref.Source,
		Range:          ex.Range,
		Duration:       ex.Duration,
		CastingTime:    ex.CastingTime,
		Components:     ex.Components,
		AreaOfEffect:   ex.AreaOfEffect,
		SavingThrow:    ex.SavingThrow,
		Description:    ex.Description,
		SourceURL:      page.URL,
	}, nil
}

// checkIdentity compares the extracted record with the reference row it was
// extracted for.
func checkIdentity(ex domain.ExtractedSpell, ref domain.SpellReference) error {
	if got := domain.SpellName(ex.Name); got != ref.NormalizedName {
		return fmt.Errorf("%w: extracted name %q, want %q", domain.ErrIdentityMismatch, ex.Name, ref.Name)
	}
	if ex.Class != ref.Class {
		return fmt.Errorf("%w: extracted class %s, want %s", domain.ErrIdentityMismatch, ex.Class, ref.Class)
	}
	if ex.Level != ref.Level {
		return fmt.Errorf("%w: extracted level %d, want %d", domain.ErrIdentityMismatch, ex.Level, ref.Level)
	}
	return nil
}

func (h *Hydrator) save(ctx context.Context, spell domain.Spell) (int64, error) {
	var id int64
	err := h.tx.RunInTx(ctx, func(txCtx context.Context) error {
		savedID, outcome, err := h.spells.Save(txCtx, spell)
		if err != nil {
			return fmt.Errorf("save spell: %w", err)
		}
		if err := h.ledger.Clear(txCtx, spell.NormalizedName, spell.Class); err != nil {
			return fmt.Errorf("clear missing entry: %w", err)
		}
		id = savedID
		h.log.InfoContext(ctx, "spell saved",
			slog.String("spell", spell.Name),
			slog.String("class", string(spell.Class)),
			slog.Int64("id", savedID),
			slog.Int("merged", outcome.Merged),
		)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (h *Hydrator) recordMissing(ctx context.Context, res Result, ref domain.SpellReference, reason, lastURL string) (Result, error) {
	entry, err := h.ledger.RecordFailure(ctx, domain.MissingFailure{
		NormalizedName:  ref.NormalizedName,
		DisplayName:     ref.Name,
		Class:           ref.Class,
		ReferenceSource: ref.Source,
		Reason:          reason,
		LastURL:         lastURL,
	})
	if err != nil {
		return Result{}, fmt.Errorf("record missing entry: %w", err)
	}

	attempts := 0
	if entry != nil {
		attempts = entry.AttemptCount
	}
	h.log.WarnContext(ctx, "spell not resolved",
		slog.String("spell", ref.Name),
		slog.String("class", string(ref.Class)),
		slog.String("reason", reason),
		slog.Int("attempts", attempts),
	)
	res.Status = StatusNotFound
	res.Reason = reason
	return res, nil
}

func siteOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func countStatus(rs []Result, s Status) int {
	n := 0
	for _, r := range rs {
		if r.Status == s {
			n++
		}
	}
	return n
}

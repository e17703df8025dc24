package hydrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/heartmarshall/grimoire-backend/internal/app/hydrate/mapper"
	"github.com/heartmarshall/grimoire-backend/internal/config"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// Phase names, in canonical execution order.
const (
	PhaseEquipment     = "equipment"
	PhaseWeaponGroups  = "weapon-groups"
	PhaseProficiencies = "proficiencies"
	PhaseTraits        = "traits"
	PhaseKits          = "kits"
	PhaseAttributes    = "attributes"
	PhaseRaces         = "races"
)

// AllPhases defines the canonical execution order.
var AllPhases = []string{
	PhaseEquipment, PhaseWeaponGroups, PhaseProficiencies, PhaseTraits,
	PhaseKits, PhaseAttributes, PhaseRaces,
}

// categoryLimit bounds how many members of a race category are read.
const categoryLimit = 500

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Mapped   int           `json:"mapped"`
	Replaced int           `json:"replaced,omitempty"`
	Inserted int           `json:"inserted,omitempty"`
	Updated  int           `json:"updated,omitempty"`
	Merged   int           `json:"merged,omitempty"`
	Skipped  int           `json:"skipped,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

func (r *PhaseResult) addOutcome(o domain.UpsertOutcome) {
	r.Inserted += o.Inserted
	r.Updated += o.Updated
	r.Merged += o.Merged
}

// Options configures a pipeline run.
type Options struct {
	Wiki   config.WikiConfig
	DryRun bool
}

// plan is a mapped phase waiting to be written.
type plan struct {
	phase  string
	mapped int
	write  func(ctx context.Context) (PhaseResult, error)
}

// Pipeline orchestrates the reference hydration phases.
type Pipeline struct {
	log     *slog.Logger
	wiki    WikiSource
	refs    ReferenceStore
	catalog CatalogStore
	opts    Options
	results map[string]PhaseResult
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, wiki WikiSource, refs ReferenceStore, catalog CatalogStore, opts Options) *Pipeline {
	return &Pipeline{
		log:     log.With("service", "hydrate"),
		wiki:    wiki,
		refs:    refs,
		catalog: catalog,
		opts:    opts,
		results: make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// HasErrors returns true if any phase failed to write.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// SelectPhases filters AllPhases by the requested names, keeping canonical
// order. An empty request selects every phase.
func SelectPhases(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return AllPhases, nil
	}

	filter := make(map[string]bool, len(requested))
	for _, ph := range requested {
		ph = strings.TrimSpace(ph)
		if ph == "" {
			continue
		}
		if !slices.Contains(AllPhases, ph) {
			return nil, domain.NewValidationError("phase", fmt.Sprintf("unknown phase %q", ph))
		}
		filter[ph] = true
	}

	var out []string
	for _, ph := range AllPhases {
		if filter[ph] {
			out = append(out, ph)
		}
	}
	return out, nil
}

// Run executes the selected phases. Every page is fetched and mapped first;
// a missing table or failed fetch aborts the run before anything is written.
// Write failures are recorded per phase and do not stop later phases.
func (p *Pipeline) Run(ctx context.Context, phases []string) error {
	toRun, err := SelectPhases(phases)
	if err != nil {
		return err
	}

	plans := make([]plan, 0, len(toRun))
	for _, phase := range toRun {
		start := time.Now()
		pl, err := p.prepare(ctx, phase)
		if err != nil {
			return fmt.Errorf("phase %s: %w", phase, err)
		}
		p.log.Info("phase mapped",
			slog.String("phase", phase),
			slog.Int("records", pl.mapped),
			slog.Duration("duration", time.Since(start)),
		)
		plans = append(plans, pl)
	}

	for _, pl := range plans {
		start := time.Now()

		var result PhaseResult
		if p.opts.DryRun {
			result = PhaseResult{Skipped: pl.mapped}
		} else {
			result, err = pl.write(ctx)
			if err != nil {
				result = PhaseResult{Err: err}
			}
		}
		result.Mapped = pl.mapped
		result.Duration = time.Since(start)
		p.results[pl.phase] = result

		if result.Err != nil {
			p.log.Warn("phase failed",
				slog.String("phase", pl.phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
			if errors.Is(result.Err, context.Canceled) {
				return result.Err
			}
			continue
		}
		p.log.Info("phase completed",
			slog.String("phase", pl.phase),
			slog.Int("replaced", result.Replaced),
			slog.Int("inserted", result.Inserted),
			slog.Int("updated", result.Updated),
			slog.Int("merged", result.Merged),
			slog.Int("skipped", result.Skipped),
			slog.Duration("duration", result.Duration),
		)
	}

	p.log.Info("pipeline completed", slog.Int("phases_run", len(plans)), slog.Bool("dry_run", p.opts.DryRun))
	return nil
}

func (p *Pipeline) prepare(ctx context.Context, phase string) (plan, error) {
	switch phase {
	case PhaseEquipment:
		return p.prepareEquipment(ctx)
	case PhaseWeaponGroups:
		return p.prepareWeaponGroups(ctx)
	case PhaseProficiencies:
		return p.prepareProficiencies(ctx)
	case PhaseTraits:
		return p.prepareTraits(ctx)
	case PhaseKits:
		return p.prepareKits(ctx)
	case PhaseAttributes:
		return p.prepareAttributes(ctx)
	case PhaseRaces:
		return p.prepareRaces(ctx)
	}
	return plan{}, fmt.Errorf("unknown phase %q", phase)
}

func (p *Pipeline) fetch(ctx context.Context, title string) (domain.WikiPage, error) {
	page, err := p.wiki.FetchWikitext(ctx, title)
	if err != nil {
		return domain.WikiPage{}, fmt.Errorf("fetch %q: %w", title, err)
	}
	return page, nil
}

// mapTables maps a table-bearing page. When a required table is missing from
// the wikitext, the rendered HTML is fetched once and mapping is retried on it.
func mapTables[T any](ctx context.Context, p *Pipeline, page domain.WikiPage, fn func(domain.WikiPage) (T, error)) (T, error) {
	out, err := fn(page)
	if err == nil || page.HTML != "" || !errors.Is(err, domain.ErrMissingTable) {
		return out, err
	}

	rendered, ferr := p.wiki.FetchHTML(ctx, page.Title)
	if ferr != nil {
		return out, fmt.Errorf("%w (rendered page: %v)", err, ferr)
	}
	p.log.Info("table missing from wikitext, retrying on rendered html",
		slog.String("page", page.Title),
		slog.String("error", err.Error()),
	)
	page.HTML = rendered.HTML
	return fn(page)
}

func (p *Pipeline) prepareEquipment(ctx context.Context) (plan, error) {
	page, err := p.fetch(ctx, p.opts.Wiki.EquipmentPage)
	if err != nil {
		return plan{}, err
	}
	catalog, err := mapTables(ctx, p, page, mapper.MapEquipment)
	if err != nil {
		return plan{}, err
	}
	return plan{
		phase:  PhaseEquipment,
		mapped: len(catalog.Categories) + len(catalog.Items) + len(catalog.Weapons) + len(catalog.Armor),
		write: func(ctx context.Context) (PhaseResult, error) {
			n, err := p.refs.ReplaceEquipment(ctx, catalog)
			if err != nil {
				return PhaseResult{}, fmt.Errorf("replace equipment: %w", err)
			}
			return PhaseResult{Replaced: n}, nil
		},
	}, nil
}

func (p *Pipeline) prepareWeaponGroups(ctx context.Context) (plan, error) {
	page, err := p.fetch(ctx, p.opts.Wiki.WeaponGroupsPage)
	if err != nil {
		return plan{}, err
	}
	catalog, err := mapper.MapWeaponGroups(page)
	if err != nil {
		return plan{}, err
	}
	return plan{
		phase:  PhaseWeaponGroups,
		mapped: len(catalog.Groups) + len(catalog.Members),
		write: func(ctx context.Context) (PhaseResult, error) {
			n, err := p.refs.ReplaceWeaponGroups(ctx, catalog)
			if err != nil {
				return PhaseResult{}, fmt.Errorf("replace weapon groups: %w", err)
			}
			return PhaseResult{Replaced: n}, nil
		},
	}, nil
}

func (p *Pipeline) prepareProficiencies(ctx context.Context) (plan, error) {
	page, err := p.fetch(ctx, p.opts.Wiki.ProficienciesPage)
	if err != nil {
		return plan{}, err
	}
	profs, err := mapTables(ctx, p, page, mapper.MapProficiencies)
	if err != nil {
		return plan{}, err
	}
	return plan{
		phase:  PhaseProficiencies,
		mapped: len(profs.Proficiencies) + len(profs.Rates),
		write: func(ctx context.Context) (PhaseResult, error) {
			var result PhaseResult
			out, err := p.catalog.UpsertProficiencies(ctx, profs.Proficiencies)
			if err != nil {
				return PhaseResult{}, fmt.Errorf("upsert proficiencies: %w", err)
			}
			result.addOutcome(out)

			n, err := p.refs.ReplaceProficiencyRates(ctx, profs.Rates)
			if err != nil {
				return PhaseResult{}, fmt.Errorf("replace proficiency rates: %w", err)
			}
			result.Replaced = n
			return result, nil
		},
	}, nil
}

func (p *Pipeline) prepareTraits(ctx context.Context) (plan, error) {
	page, err := p.fetch(ctx, p.opts.Wiki.TraitsPage)
	if err != nil {
		return plan{}, err
	}
	traits, err := mapTables(ctx, p, page, mapper.MapTraits)
	if err != nil {
		return plan{}, err
	}
	return plan{
		phase:  PhaseTraits,
		mapped: len(traits),
		write: func(ctx context.Context) (PhaseResult, error) {
			n, err := p.refs.ReplaceTraits(ctx, traits)
			if err != nil {
				return PhaseResult{}, fmt.Errorf("replace traits: %w", err)
			}
			return PhaseResult{Replaced: n}, nil
		},
	}, nil
}

func (p *Pipeline) prepareKits(ctx context.Context) (plan, error) {
	page, err := p.fetch(ctx, p.opts.Wiki.KitsPage)
	if err != nil {
		return plan{}, err
	}
	kits, err := mapTables(ctx, p, page, mapper.MapKits)
	if err != nil {
		return plan{}, err
	}
	return plan{
		phase:  PhaseKits,
		mapped: len(kits),
		write: func(ctx context.Context) (PhaseResult, error) {
			out, err := p.catalog.UpsertKits(ctx, kits)
			if err != nil {
				return PhaseResult{}, fmt.Errorf("upsert kits: %w", err)
			}
			var result PhaseResult
			result.addOutcome(out)
			return result, nil
		},
	}, nil
}

func (p *Pipeline) prepareAttributes(ctx context.Context) (plan, error) {
	page, err := p.fetch(ctx, p.opts.Wiki.AttributesPage)
	if err != nil {
		return plan{}, err
	}
	attrs, err := mapper.MapAttributes(page)
	if err != nil {
		return plan{}, err
	}
	return plan{
		phase:  PhaseAttributes,
		mapped: len(attrs),
		write: func(ctx context.Context) (PhaseResult, error) {
			n, err := p.refs.ReplaceAttributes(ctx, attrs)
			if err != nil {
				return PhaseResult{}, fmt.Errorf("replace attributes: %w", err)
			}
			return PhaseResult{Replaced: n}, nil
		},
	}, nil
}

// prepareRaces reads the configured race pages, or every member of the race
// category when one is set. Category members that carry no race sections
// (overview pages, lists) are skipped; a configured page without them fails.
func (p *Pipeline) prepareRaces(ctx context.Context) (plan, error) {
	titles := p.opts.Wiki.RacePages
	fromCategory := p.opts.Wiki.RaceCategory != ""
	if fromCategory {
		members, err := p.wiki.CategoryMembers(ctx, p.opts.Wiki.RaceCategory, categoryLimit)
		if err != nil {
			return plan{}, fmt.Errorf("list category %q: %w", p.opts.Wiki.RaceCategory, err)
		}
		titles = members
	}
	if len(titles) == 0 {
		return plan{}, domain.NewMissingTableError(p.opts.Wiki.RaceCategory, "race pages")
	}

	pages, err := p.wiki.FetchPages(ctx, titles, p.opts.Wiki.FanOut)
	if err != nil {
		return plan{}, fmt.Errorf("fetch race pages: %w", err)
	}

	var (
		order   mapper.Counter
		races   []domain.Race
		skipped int
	)
	for _, page := range pages {
		race, err := mapper.MapRace(page, &order)
		if err != nil {
			if fromCategory && errors.Is(err, domain.ErrMissingTable) {
				p.log.Debug("category member is not a race page", slog.String("title", page.Title))
				skipped++
				continue
			}
			return plan{}, err
		}
		races = append(races, race)
	}
	if len(races) == 0 {
		return plan{}, domain.NewMissingTableError(p.opts.Wiki.RaceCategory, "race sections")
	}

	return plan{
		phase:  PhaseRaces,
		mapped: len(races),
		write: func(ctx context.Context) (PhaseResult, error) {
			out, err := p.catalog.UpsertRaces(ctx, races)
			if err != nil {
				return PhaseResult{}, fmt.Errorf("upsert races: %w", err)
			}
			result := PhaseResult{Skipped: skipped}
			result.addOutcome(out)
			return result, nil
		},
	}, nil
}

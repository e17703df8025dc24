// Package validator decides whether a fetched wiki page really describes the
// spell a hydration run is looking for. It is deliberately conservative:
// every clause must hold, because nothing downstream can catch a page that
// describes the wrong spell.
package validator

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/heartmarshall/grimoire-backend/internal/config"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// Expected is the identity a candidate page must match.
type Expected struct {
	Name   string
	Class  domain.SpellClass
	Level  int
	Source string
}

// ExpectedFromReference builds Expected from a spell reference row.
func ExpectedFromReference(ref domain.SpellReference) Expected {
	return Expected{Name: ref.Name, Class: ref.Class, Level: ref.Level, Source: ref.Source}
}

// Verdict is the outcome of validating one page.
type Verdict struct {
	Accepted bool
	Failures []string
}

// Reason joins the failures into one ledger-friendly string.
func (v Verdict) Reason() string {
	return strings.Join(v.Failures, "; ")
}

// Policy holds the tunable marker lists and thresholds.
type Policy struct {
	MinStructuralMarkers int
	StructuralMarkers    []string
	EditionMarkers       []string
	ClassMarkers         map[domain.SpellClass][]string
	// SourceAliases maps an identity key of a sourcebook to the phrases that
	// identify it in page text.
	SourceAliases map[string][]string
}

var defaultClassMarkers = map[domain.SpellClass][]string{
	domain.SpellClassWizard: {"wizard spell", "mage spell", "magic-user spell"},
	domain.SpellClassPriest: {"priest spell", "cleric spell", "druid spell"},
}

// sourcebooks lists the names a reference row may use for a book and the
// phrases that identify the book in page text.
var sourcebooks = []struct {
	names   []string
	aliases []string
}{
	{[]string{"PHB", "Player's Handbook"}, []string{"player's handbook", "players handbook", "phb"}},
	{[]string{"ToM", "Tome of Magic"}, []string{"tome of magic"}},
	{[]string{"WSC", "Wizard's Spell Compendium"}, []string{"wizard's spell compendium", "wizards spell compendium"}},
	{[]string{"PSC", "Priest's Spell Compendium"}, []string{"priest's spell compendium", "priests spell compendium"}},
	{[]string{"PO:SM", "Player's Option: Spells & Magic"}, []string{"player's option: spells & magic", "spells & magic"}},
}

func defaultSourceAliases() map[string][]string {
	m := make(map[string][]string)
	for _, b := range sourcebooks {
		for _, n := range b.names {
			m[domain.IdentityKey(n)] = b.aliases
		}
	}
	return m
}

// DefaultPolicy returns the built-in policy.
func DefaultPolicy() Policy {
	return Policy{
		MinStructuralMarkers: 3,
		StructuralMarkers:    []string{"range", "duration", "casting time", "components", "saving throw"},
		EditionMarkers: []string{
			"2nd edition", "second edition", "ad&d 2", "ad&d",
			"player's handbook", "tome of magic", "wizard's spell compendium", "priest's spell compendium",
		},
		ClassMarkers:  defaultClassMarkers,
		SourceAliases: defaultSourceAliases(),
	}
}

// NewPolicy builds a policy from configuration. Class markers and source
// aliases keep their built-in values.
func NewPolicy(cfg config.ValidatorConfig) Policy {
	p := DefaultPolicy()
	p.MinStructuralMarkers = cfg.MinStructuralMarkers
	if len(cfg.StructuralMarkers) > 0 {
		p.StructuralMarkers = cfg.StructuralMarkers
	}
	if len(cfg.EditionMarkers) > 0 {
		p.EditionMarkers = cfg.EditionMarkers
	}
	return p
}

var (
	ordinalLevelRe = regexp.MustCompile(`\b([0-9])(?:st|nd|rd|th)[- ]level\b`)
	wordLevelRe    = regexp.MustCompile(`\b(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth)[- ]level\b`)
	labelLevelRe   = regexp.MustCompile(`\b(?:spell )?level\s*:\s*([0-9])\b`)
	cantripRe      = regexp.MustCompile(`\bcantrips?\b`)
)

var levelWords = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9,
}

// LevelMarkers returns every spell level explicitly named in text, in order
// of first appearance.
func LevelMarkers(text string) []int {
	lower := strings.ToLower(text)

	type hit struct{ pos, level int }
	var hits []hit

	for _, m := range ordinalLevelRe.FindAllStringSubmatchIndex(lower, -1) {
		n, _ := strconv.Atoi(lower[m[2]:m[3]])
		hits = append(hits, hit{m[0], n})
	}
	for _, m := range wordLevelRe.FindAllStringSubmatchIndex(lower, -1) {
		hits = append(hits, hit{m[0], levelWords[lower[m[2]:m[3]]]})
	}
	for _, m := range labelLevelRe.FindAllStringSubmatchIndex(lower, -1) {
		n, _ := strconv.Atoi(lower[m[2]:m[3]])
		hits = append(hits, hit{m[0], n})
	}
	for _, m := range cantripRe.FindAllStringIndex(lower, -1) {
		hits = append(hits, hit{m[0], 0})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	seen := make(map[int]bool, len(hits))
	levels := make([]int, 0, len(hits))
	for _, h := range hits {
		if !seen[h.level] {
			seen[h.level] = true
			levels = append(levels, h.level)
		}
	}
	return levels
}

// Validate checks page text against every clause and reports each failure.
func (p Policy) Validate(pageText string, exp Expected) Verdict {
	lower := strings.ToLower(pageText)
	var failures []string

	// (a) expected name, compared on normalized words.
	name := domain.NormalizeKey(exp.Name, domain.SpellKeyRunes)
	page := domain.NormalizeKey(pageText, domain.SpellKeyRunes)
	if name == "" || !strings.Contains(" "+page+" ", " "+name+" ") {
		failures = append(failures, fmt.Sprintf("name %q not found", exp.Name))
	}

	// (b) structural markers.
	found := 0
	for _, m := range p.StructuralMarkers {
		if strings.Contains(lower, strings.ToLower(m)) {
			found++
		}
	}
	if found < p.MinStructuralMarkers {
		failures = append(failures, fmt.Sprintf("structural markers %d/%d", found, p.MinStructuralMarkers))
	}

	// (c) edition marker.
	if !containsAny(lower, p.EditionMarkers) {
		failures = append(failures, "no edition marker")
	}

	// (d) class marker.
	if !containsAny(lower, p.ClassMarkers[exp.Class]) {
		failures = append(failures, fmt.Sprintf("no %s class marker", exp.Class))
	}

	// (e) level marker naming the expected level.
	levels := LevelMarkers(pageText)
	if !slices.Contains(levels, exp.Level) {
		if len(levels) == 0 {
			failures = append(failures, "no level marker")
		} else {
			failures = append(failures, fmt.Sprintf("level marker mismatch: want %d, page says %v", exp.Level, levels))
		}
	}

	// (f) source aliases, when the source is known.
	if aliases, ok := p.SourceAliases[domain.IdentityKey(exp.Source)]; ok && !containsAny(lower, aliases) {
		failures = append(failures, fmt.Sprintf("source %q not mentioned", exp.Source))
	}

	return Verdict{Accepted: len(failures) == 0, Failures: failures}
}

// IsPlausibleMatch reports whether every clause holds.
func (p Policy) IsPlausibleMatch(pageText string, exp Expected) bool {
	return p.Validate(pageText, exp).Accepted
}

func containsAny(lower string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

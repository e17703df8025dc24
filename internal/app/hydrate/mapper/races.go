package mapper

import (
	"regexp"
	"sort"
	"strings"

	"github.com/heartmarshall/grimoire-backend/internal/app/hydrate/wikitext"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// Race page labels recognized as section starts.
const (
	LabelAbilityAdjustments  = "Ability Score Adjustments"
	LabelAbilityRequirements = "Ability Score Requirements"
	LabelClassRestrictions   = "Class Restrictions"
	LabelLevelLimits         = "Level Limits"
	LabelLanguages           = "Languages"
	LabelInfravision         = "Infravision"
	LabelSpecialAbilities    = "Special Abilities"
	LabelSpecialAdvantages   = "Special Advantages"
	LabelSpecialDisadvantage = "Special Disadvantages"
	LabelHitDice             = "Hit Dice"
	LabelHeight              = "Height"
	LabelWeight              = "Weight"
	LabelAge                 = "Age"
)

// RaceLabels is the allow-list handed to the section segmenter.
var RaceLabels = []string{
	LabelAbilityAdjustments,
	LabelAbilityRequirements,
	LabelClassRestrictions,
	LabelLevelLimits,
	LabelLanguages,
	LabelInfravision,
	LabelSpecialAbilities,
	LabelSpecialAdvantages,
	LabelSpecialDisadvantage,
	LabelHitDice,
	LabelHeight,
	LabelWeight,
	LabelAge,
}

var (
	titleQualifierRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

	abilityNames = `(strength|dexterity|constitution|intelligence|wisdom|charisma|str|dex|con|int|wis|cha)`
	modFirstRe   = regexp.MustCompile(`(?i)([+\-−–]\s*\d+)\s*(?:to\s+)?` + abilityNames + `\b`)
	abilityRe    = regexp.MustCompile(`(?i)\b` + abilityNames + `\s*:?\s*([+\-−–]\s*\d+)`)
)

// MapRace maps one race page. Sections are recognized from RaceLabels; a page
// without any of them is not a race description and fails.
func MapRace(page domain.WikiPage, order *Counter) (domain.Race, error) {
	parsed := wikitext.ParseSections(page.Wikitext, wikitext.NewLabelSegmenter(RaceLabels...))
	if len(parsed.Sections) == 0 {
		return domain.Race{}, domain.NewMissingTableError(page.Title, "race sections")
	}

	race := domain.Race{
		Name:      RaceName(page.Title),
		Intro:     wikitext.CleanBlock(parsed.Intro),
		SourceURL: page.URL,
	}

	var sectionOrder Counter
	for _, sec := range parsed.Sections {
		body := wikitext.CleanBlock(sec.Body)
		race.Sections = append(race.Sections, domain.RaceSection{
			Label:        canonicalLabel(sec.NormalizedLabel),
			Body:         body,
			DisplayOrder: sectionOrder.Next(),
		})
		if sec.NormalizedLabel == domain.IdentityKey(LabelAbilityAdjustments) && race.Adjustments == nil {
			race.Adjustments = ParseAbilityAdjustments(body)
		}
	}
	race.DisplayOrder = order.Next()

	return race, nil
}

// RaceName strips a disambiguation suffix: "Dwarf (race)" → "Dwarf".
func RaceName(title string) string {
	return strings.TrimSpace(titleQualifierRe.ReplaceAllString(title, ""))
}

// ParseAbilityAdjustments reads modifiers written either as "+1 Constitution"
// or as "Constitution +1". Each ability is reported once, first mention wins.
func ParseAbilityAdjustments(text string) []domain.AbilityAdjustment {
	type hit struct {
		pos int
		adj domain.AbilityAdjustment
	}
	var hits []hit

	for _, m := range modFirstRe.FindAllStringSubmatchIndex(text, -1) {
		if adj, ok := adjustment(text[m[4]:m[5]], text[m[2]:m[3]]); ok {
			hits = append(hits, hit{pos: m[0], adj: adj})
		}
	}
	for _, m := range abilityRe.FindAllStringSubmatchIndex(text, -1) {
		if adj, ok := adjustment(text[m[2]:m[3]], text[m[4]:m[5]]); ok {
			hits = append(hits, hit{pos: m[0], adj: adj})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	var out []domain.AbilityAdjustment
	seen := make(map[string]bool)
	for _, h := range hits {
		if seen[h.adj.Ability] {
			continue
		}
		seen[h.adj.Ability] = true
		out = append(out, h.adj)
	}
	return out
}

func adjustment(ability, modifier string) (domain.AbilityAdjustment, bool) {
	name, ok := abilityByName(ability)
	if !ok {
		return domain.AbilityAdjustment{}, false
	}
	n, ok := ParseInt(modifier)
	if !ok || n == 0 {
		return domain.AbilityAdjustment{}, false
	}
	return domain.AbilityAdjustment{Ability: name, Modifier: n}, true
}

func canonicalLabel(normalized string) string {
	for _, l := range RaceLabels {
		if domain.IdentityKey(l) == normalized {
			return l
		}
	}
	return normalized
}

package wikitext

import (
	"regexp"
	"sort"
	"strings"

	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// Section is one labelled span of a prose page.
type Section struct {
	Label           string
	NormalizedLabel string
	Body            string
}

// Sections is a segmented page: the text before the first recognized section,
// then the sections in source order.
type Sections struct {
	Intro    string
	Sections []Section
}

// Get returns the first section whose normalized label equals the identity
// key of label.
func (s Sections) Get(label string) (Section, bool) {
	key := domain.IdentityKey(label)
	for _, sec := range s.Sections {
		if sec.NormalizedLabel == key {
			return sec, true
		}
	}
	return Section{}, false
}

// Segmenter finds section markers in a document.
type Segmenter interface {
	marks(text string) []mark
}

// mark is a recognized section start: text[start:end] is the marker itself.
type mark struct {
	start, end int
	label      string
	normalized string
}

// ParseSections splits text at the markers found by seg. Bodies are trimmed
// and runs of blank lines inside a body collapse to one blank line.
func ParseSections(text string, seg Segmenter) Sections {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	ms := seg.marks(text)
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].start < ms[j].start })

	if len(ms) == 0 {
		return Sections{Intro: tidyBody(text)}
	}

	out := Sections{Intro: tidyBody(text[:ms[0].start])}
	for i, m := range ms {
		end := len(text)
		if i+1 < len(ms) {
			end = ms[i+1].start
		}
		out.Sections = append(out.Sections, Section{
			Label:           m.label,
			NormalizedLabel: m.normalized,
			Body:            tidyBody(text[m.end:end]),
		})
	}
	return out
}

var headingRe = regexp.MustCompile(`(?m)^[ \t]*(={1,6})[ \t]*(.+?)[ \t]*(={1,6})[ \t]*$`)

// HeadingSegmenter starts a section at every ==Heading== line. Level selects
// the number of "=" signs; zero accepts any level from 2 to 6.
type HeadingSegmenter struct {
	Level int
}

func (h HeadingSegmenter) marks(text string) []mark {
	var out []mark
	for _, loc := range headingRe.FindAllStringSubmatchIndex(text, -1) {
		open := loc[3] - loc[2]
		closing := loc[7] - loc[6]
		if open != closing || open < 2 {
			continue
		}
		if h.Level != 0 && open != h.Level {
			continue
		}
		label := Clean(text[loc[4]:loc[5]])
		if label == "" {
			continue
		}
		out = append(out, mark{
			start:      loc[0],
			end:        loc[1],
			label:      label,
			normalized: domain.IdentityKey(label),
		})
	}
	return out
}

var (
	boldColonInsideRe  = regexp.MustCompile(`'''[ \t]*([^'\n:]{1,60}?)[ \t]*:[ \t]*'''`)
	boldColonOutsideRe = regexp.MustCompile(`'''[ \t]*([^'\n:]{1,60}?)[ \t]*'''[ \t]*:`)
	plainLabelRe       = regexp.MustCompile(`(?m)^[ \t]*([A-Za-z][A-Za-z0-9 /&'()-]{0,60}?)[ \t]*:`)
)

// LabelSegmenter recognizes inline '''Label:''', '''Label''': and
// line-leading Label: markers, but only for labels on the allow-list. A
// label matches when its normalized form equals an allowed label or starts
// with one followed by a word boundary.
type LabelSegmenter struct {
	Labels []string
}

// NewLabelSegmenter creates a LabelSegmenter for the given allow-list.
// Repeated labels are kept once.
func NewLabelSegmenter(labels ...string) LabelSegmenter {
	return LabelSegmenter{Labels: uniqueStrings(labels)}
}

func (l LabelSegmenter) marks(text string) []mark {
	var out []mark
	taken := make(map[int]bool)

	add := func(re *regexp.Regexp) {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			if taken[loc[0]] {
				continue
			}
			raw := Clean(text[loc[2]:loc[3]])
			canonical, ok := l.match(raw)
			if !ok {
				continue
			}
			taken[loc[0]] = true
			out = append(out, mark{
				start:      loc[0],
				end:        loc[1],
				label:      raw,
				normalized: domain.IdentityKey(canonical),
			})
		}
	}

	add(boldColonInsideRe)
	add(boldColonOutsideRe)
	add(plainLabelRe)

	return dropOverlaps(out)
}

// match returns the allow-listed label that raw spells.
func (l LabelSegmenter) match(raw string) (string, bool) {
	key := domain.IdentityKey(raw)
	if key == "" {
		return "", false
	}
	for _, allowed := range l.Labels {
		want := domain.IdentityKey(allowed)
		if key == want {
			return allowed, true
		}
		if strings.HasPrefix(key, want+" ") {
			return allowed, true
		}
	}
	return "", false
}

// dropOverlaps keeps the earliest of any overlapping marks, e.g. a plain
// "Label:" match found inside a bold marker already taken.
func dropOverlaps(ms []mark) []mark {
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].start < ms[j].start })
	out := ms[:0]
	lastEnd := -1
	for _, m := range ms {
		if m.start < lastEnd {
			continue
		}
		out = append(out, m)
		lastEnd = m.end
	}
	return out
}

func tidyBody(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	s = strings.Join(lines, "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

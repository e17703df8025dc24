// Package wikitext turns MediaWiki markup into plain text, tables and sections.
// It knows nothing about the entities stored from those tables.
package wikitext

import (
	"html"
	"regexp"
	"strings"
)

var (
	commentRe     = regexp.MustCompile(`(?s)<!--.*?-->`)
	refSelfRe     = regexp.MustCompile(`(?i)<ref\b[^>]*/\s*>`)
	refPairRe     = regexp.MustCompile(`(?is)<ref\b[^>]*>.*?</ref\s*>`)
	templateRe    = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	mediaLinkRe   = regexp.MustCompile(`(?i)\[\[\s*(?:file|image|category)\s*:[^\[\]]*(?:\[\[[^\[\]]*\]\][^\[\]]*)*\]\]`)
	wikiLinkRe    = regexp.MustCompile(`\[\[([^\[\]]*)\]\]`)
	extLinkRe     = regexp.MustCompile(`\[(?:https?:)?//[^\s\]]+(?:\s+([^\]]*))?\]`)
	lineBreakRe   = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlTagRe     = regexp.MustCompile(`</?[a-zA-Z][^<>]*>`)
	boldItalicRe  = regexp.MustCompile(`'{2,}`)
	magicWordRe   = regexp.MustCompile(`__[A-Z]+__`)
	multiSpaceRe  = regexp.MustCompile(`[\s\x{00A0}]+`)
	inlineSpaceRe = regexp.MustCompile(`[ \t\f\r\v\x{00A0}]+`)
	blankRunRe    = regexp.MustCompile(`\n{3,}`)
)

// Clean strips MediaWiki noise from s and returns a single line of plain text.
// Templates, refs, comments, media and category links and HTML tags are
// removed; wiki and external links collapse to their labels; bold and italic
// quotes are dropped; whitespace runs become one space.
// Clean is idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	return fixpoint(s, func(in string) string {
		out := strip(in)
		out = multiSpaceRe.ReplaceAllString(out, " ")
		return strings.TrimSpace(out)
	})
}

// CleanBlock is Clean for multi-paragraph text. Whitespace is collapsed
// within each line and runs of blank lines become a single blank line, so
// paragraph breaks survive.
func CleanBlock(s string) string {
	return fixpoint(s, func(in string) string {
		return collapseLines(strip(in))
	})
}

// strip applies every markup removal that does not depend on line structure.
func strip(s string) string {
	if s == "" {
		return ""
	}

	s = commentRe.ReplaceAllString(s, "")
	s = refSelfRe.ReplaceAllString(s, "")
	s = refPairRe.ReplaceAllString(s, "")
	s = removeTemplates(s)
	s = mediaLinkRe.ReplaceAllString(s, "")
	s = wikiLinkRe.ReplaceAllStringFunc(s, linkLabel)
	s = extLinkRe.ReplaceAllString(s, "$1")
	s = lineBreakRe.ReplaceAllString(s, " ")
	s = htmlTagRe.ReplaceAllString(s, "")
	s = boldItalicRe.ReplaceAllString(s, "")
	s = magicWordRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	return s
}

// removeTemplates deletes innermost {{…}} invocations until none are left,
// which handles arbitrary nesting.
func removeTemplates(s string) string {
	for strings.Contains(s, "{{") {
		next := templateRe.ReplaceAllString(s, "")
		if next == s {
			break
		}
		s = next
	}
	return s
}

// linkLabel maps [[target|label]] to label and [[target]] to target.
func linkLabel(m string) string {
	inner := m[2 : len(m)-2]
	parts := strings.Split(inner, "|")
	label := strings.TrimSpace(parts[len(parts)-1])
	if label == "" && len(parts) > 1 {
		// Pipe trick: [[Target (disambiguation)|]] shows "Target".
		label = strings.TrimSpace(parts[0])
		if i := strings.Index(label, " ("); i > 0 {
			label = label[:i]
		}
	}
	return strings.TrimPrefix(label, ":")
}

func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpaceRe.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// fixpoint reapplies pass until its output stops changing. A pass never
// makes the string longer, so the loop ends; nested entities such as
// "&amp;amp;lt;" unwrap one level per pass.
func fixpoint(s string, pass func(string) string) string {
	out := pass(s)
	for {
		next := pass(out)
		if next == out {
			return out
		}
		out = next
	}
}

// uniqueStrings drops repeated entries, keeping the first occurrence.
func uniqueStrings(ss []string) []string {
	if len(ss) == 0 {
		return ss
	}
	seen := make(map[string]struct{}, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

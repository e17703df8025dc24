// Package mapper turns tokenized wiki tables and sections into domain records.
// Mappers are pure: a page in, records out. Malformed rows are dropped; only a
// missing required table is an error.
package mapper

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/heartmarshall/grimoire-backend/internal/app/hydrate/wikitext"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

var (
	leadingIntRe = regexp.MustCompile(`^-?\d+`)
	firstIntRe   = regexp.MustCompile(`-?\d+`)
	coinRe       = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(cp|sp|ep|gp|pp)\b`)
	tableNumRe   = regexp.MustCompile(`(?i)^table\s+\d+\s*[:.\-]\s*`)
)

// copperPerCoin is the value of each coin in copper pieces.
var copperPerCoin = map[string]float64{
	"cp": 1,
	"sp": 10,
	"ep": 50,
	"gp": 100,
	"pp": 500,
}

// ParseInt reads an integer from a table cell. Every character that is not a
// digit or a minus sign is dropped first, so "15 gp" and "+2" both parse.
// Typographic minus signs count as minus.
func ParseInt(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '−', r == '–':
			b.WriteByte('-')
		}
	}
	m := leadingIntRe.FindString(b.String())
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FirstInt returns the first integer token of s: "1st" → 1, "level 3" → 3.
func FirstInt(s string) (int, bool) {
	m := firstIntRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CostInCopper converts a price such as "2 gp", "5 sp" or "1 gp, 5 sp" into
// copper pieces. It returns nil when no coin amount is present.
func CostInCopper(s string) *int {
	ms := coinRe.FindAllStringSubmatch(s, -1)
	if len(ms) == 0 {
		return nil
	}
	total := 0.0
	for _, m := range ms {
		amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil {
			return nil
		}
		total += amount * copperPerCoin[strings.ToLower(m[2])]
	}
	cp := int(math.Round(total))
	return &cp
}

// optionalInt is FirstInt as a pointer, nil when s holds no number.
func optionalInt(s string) *int {
	n, ok := FirstInt(s)
	if !ok {
		return nil
	}
	return &n
}

// Counter hands out 1-based display orders. Use one Counter per destination
// table and pass it to every step that accepts a record.
type Counter struct {
	n int
}

// Next returns the next display order.
func (c *Counter) Next() int {
	c.n++
	return c.n
}

// Count returns how many orders were handed out.
func (c *Counter) Count() int {
	return c.n
}

// firstHeaders names the first column of each required table, used to find
// tables published without a caption. Weapons share "Item" with the generic
// item tables, so they have no fallback.
var firstHeaders = map[string]string{
	ArmorCaption:            "Armor",
	KitsCaption:             "Kit",
	ProficienciesCaption:    "Proficiency",
	ProficiencyRatesCaption: "Group",
	TraitsCaption:           "Trait",
	DisadvantagesCaption:    "Disadvantage",
}

// Require finds a required table by caption, then by first column header.
// The wikitext tables are searched first and the page's rendered HTML after
// them, when the page carries any. A table found nowhere fails with a
// MissingTableError naming the page.
func Require(page domain.WikiPage, tables []wikitext.Table, caption string) (wikitext.Table, error) {
	if t, ok := findRequired(tables, caption); ok {
		return t, nil
	}
	if page.HTML != "" {
		rendered, err := wikitext.ParseHTMLTables(page.HTML)
		if err != nil {
			return wikitext.Table{}, fmt.Errorf("%s: %w", page.Title, err)
		}
		if t, ok := findRequired(rendered, caption); ok {
			return t, nil
		}
	}
	return wikitext.Table{}, domain.NewMissingTableError(page.Title, caption)
}

// findRequired prefers a table whose caption is exactly caption, then one whose
// caption contains it, then one whose first header names it.
func findRequired(tables []wikitext.Table, caption string) (wikitext.Table, bool) {
	want := domain.IdentityKey(caption)
	for _, t := range tables {
		if captionKey(t) == want {
			return t, true
		}
	}
	if t, ok := wikitext.FindTable(tables, caption); ok {
		return t, true
	}
	if header, ok := firstHeaders[caption]; ok {
		return wikitext.FindTableByHeader(tables, header)
	}
	return wikitext.Table{}, false
}

// columns returns, for each name, the index of the header that spells it.
// A name without a matching header keeps its position in names.
func columns(t wikitext.Table, names ...string) []int {
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = i
		if j := t.Column(name); j >= 0 {
			idx[i] = j
		}
	}
	return idx
}

// cell returns row[i] or "" when the row is too short.
func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// captionName drops the "Table 44:" numbering in front of a caption.
func captionName(caption string) string {
	return strings.TrimSpace(tableNumRe.ReplaceAllString(caption, ""))
}

// captionKey is the identity key of a table's caption without its numbering.
func captionKey(t wikitext.Table) string {
	return domain.IdentityKey(captionName(t.Caption))
}

// isPlaceholder reports cells that mean "no value".
func isPlaceholder(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "-", "—", "–", "n/a", "N/A", "*":
		return true
	}
	return false
}

package mapper

import (
	"strings"

	"github.com/heartmarshall/grimoire-backend/internal/app/hydrate/wikitext"
	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// groupCursor is the broad and tight group the next weapon line belongs to.
type groupCursor struct {
	broad string
	tight string
}

// groupFold is the accumulator threaded through the weapon group scan.
type groupFold struct {
	cursor    groupCursor
	sourceURL string
	catalog   domain.WeaponGroupCatalog

	groupOrder  Counter
	memberOrder Counter
	groups      map[string]bool
	members     map[string]bool
}

// MapWeaponGroups maps the weapon groups page. Broad groups are ";Name" or
// "==Name==" lines, tight groups ":Name" or "===Name===", weapons "*" or "#"
// list items. A weapon seen while no tight group is open attaches to the
// broad group directly; a new broad group closes the open tight group.
func MapWeaponGroups(page domain.WikiPage) (domain.WeaponGroupCatalog, error) {
	acc := &groupFold{
		sourceURL: page.URL,
		groups:    make(map[string]bool),
		members:   make(map[string]bool),
	}
	for _, line := range strings.Split(page.Wikitext, "\n") {
		acc.step(line)
	}

	broad := 0
	for _, g := range acc.catalog.Groups {
		if g.Kind == domain.WeaponGroupBroad {
			broad++
		}
	}
	if broad == 0 {
		return domain.WeaponGroupCatalog{}, domain.NewMissingTableError(page.Title, "broad weapon groups")
	}

	return acc.catalog, nil
}

func (f *groupFold) step(raw string) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return
	}

	switch {
	case strings.HasPrefix(line, "==="):
		if name, ok := headingText(line, 3); ok {
			f.openTight(name)
		}
	case strings.HasPrefix(line, "=="):
		if name, ok := headingText(line, 2); ok {
			f.openBroad(name)
		}
	case strings.HasPrefix(line, ";"):
		// ";Broad : description" uses the definition-list shorthand.
		term, _, _ := strings.Cut(line[1:], " : ")
		f.openBroad(wikitext.Clean(term))
	case strings.HasPrefix(line, ":"):
		f.openTight(wikitext.Clean(strings.TrimLeft(line, ":")))
	case strings.HasPrefix(line, "*"), strings.HasPrefix(line, "#"):
		f.addWeapon(wikitext.Clean(strings.TrimLeft(line, "*#:")))
	}
}

func (f *groupFold) openBroad(name string) {
	if name == "" {
		return
	}
	f.cursor = groupCursor{broad: name}
	f.addGroup(domain.WeaponGroup{Name: name, Kind: domain.WeaponGroupBroad})
}

func (f *groupFold) openTight(name string) {
	if name == "" || f.cursor.broad == "" {
		return
	}
	f.cursor.tight = name
	f.addGroup(domain.WeaponGroup{Name: name, Kind: domain.WeaponGroupTight, Parent: f.cursor.broad})
}

func (f *groupFold) addGroup(g domain.WeaponGroup) {
	key := g.Key()
	if f.groups[key] {
		return
	}
	f.groups[key] = true
	g.DisplayOrder = f.groupOrder.Next()
	g.SourceURL = f.sourceURL
	f.catalog.Groups = append(f.catalog.Groups, g)
}

func (f *groupFold) addWeapon(name string) {
	if name == "" || f.cursor.broad == "" {
		return
	}
	key := domain.CompositeKey(f.cursor.broad, f.cursor.tight, name)
	if f.members[key] {
		return
	}
	f.members[key] = true
	f.catalog.Members = append(f.catalog.Members, domain.WeaponGroupMember{
		Weapon:       name,
		Broad:        f.cursor.broad,
		Tight:        f.cursor.tight,
		DisplayOrder: f.memberOrder.Next(),
	})
}

// headingText returns the text of a heading with exactly level "=" signs on
// both sides.
func headingText(line string, level int) (string, bool) {
	marker := strings.Repeat("=", level)
	if !strings.HasPrefix(line, marker) || !strings.HasSuffix(line, marker) || len(line) <= 2*level {
		return "", false
	}
	inner := line[level : len(line)-level]
	if strings.HasPrefix(inner, "=") || strings.HasSuffix(inner, "=") {
		return "", false
	}
	return wikitext.Clean(inner), true
}

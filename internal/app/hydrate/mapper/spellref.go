package mapper

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/heartmarshall/grimoire-backend/internal/domain"
)

// Spell reference CSV columns.
const (
	colClass = iota
	colGroup
	colName
	colLevel
	colSource
	spellRefColumns
)

// ReadSpellReferences reads a spell reference CSV file, or every *.csv file of
// a directory in name order. Rows are deduplicated by composite key, first
// occurrence wins.
func ReadSpellReferences(path string) ([]domain.SpellReference, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*.csv"))
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", path, err)
		}
		sort.Strings(files)
	}

	var (
		out  []domain.SpellReference
		seen = make(map[string]bool)
	)
	for _, name := range files {
		refs, err := readSpellReferenceFile(name)
		if err != nil {
			return nil, err
		}
		for _, r := range refs {
			key := r.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, r)
		}
	}

	return out, nil
}

func readSpellReferenceFile(name string) ([]domain.SpellReference, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	refs, err := ParseSpellReferences(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return refs, nil
}

// ParseSpellReferences reads class, group, name, lvl, source rows. A header
// row is optional. The level is the first integer of the lvl cell, so "1st"
// reads as 1. Rows without a name, a known class or a level are dropped.
func ParseSpellReferences(r io.Reader) ([]domain.SpellReference, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable column count
	reader.TrimLeadingSpace = true

	var refs []domain.SpellReference
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		if first {
			first = false
			if isSpellRefHeader(record) {
				continue
			}
		}

		if ref, ok := spellReferenceFromRecord(record); ok {
			refs = append(refs, ref)
		}
	}

	return refs, nil
}

func isSpellRefHeader(record []string) bool {
	return len(record) > colName &&
		strings.EqualFold(strings.TrimSpace(record[colClass]), "class") &&
		strings.EqualFold(strings.TrimSpace(record[colName]), "name")
}

func spellReferenceFromRecord(record []string) (domain.SpellReference, bool) {
	if len(record) < spellRefColumns-1 {
		return domain.SpellReference{}, false
	}

	name := strings.Join(strings.Fields(cell(record, colName)), " ")
	normalized := domain.SpellName(name)
	if normalized == "" {
		return domain.SpellReference{}, false
	}
	class, ok := domain.ParseSpellClass(cell(record, colClass))
	if !ok {
		return domain.SpellReference{}, false
	}
	level, ok := FirstInt(cell(record, colLevel))
	if !ok || level < 0 || level > 9 {
		return domain.SpellReference{}, false
	}

	return domain.SpellReference{
		Name:           name,
		NormalizedName: normalized,
		Class:          class,
		Group:          cell(record, colGroup),
		Level:          level,
		Source:         cell(record, colSource),
	}, true
}

package wikitext

import (
	"strings"
)

// Table is one {| … |} table recovered from wikitext. Rows are positional:
// callers know the column order of the table they ask for.
type Table struct {
	Caption string
	Headers []string
	Rows    [][]string
}

// Column returns the index of the first header whose normalized text equals
// name, or -1.
func (t Table) Column(name string) int {
	want := normalizeHeader(name)
	for i, h := range t.Headers {
		if normalizeHeader(h) == want {
			return i
		}
	}
	return -1
}

// ParseTables scans wikitext line by line and returns every table in source
// order. Cell, header and caption text is passed through Clean.
//
//	{|        opens a table and resets accumulators
//	|+        sets the caption
//	|-        flushes the current row, unconditionally
//	! a !! b  header cells
//	| a || b  row cells; without "||", the text after the last single "|"
//	|}        flushes the last row and closes the table
//
// Header lines never contribute to rows. Lines that continue a multi-line
// cell are appended to the last cell. A table left open at end of input is
// closed implicitly.
func ParseTables(wikitext string) []Table {
	var (
		tables []Table
		cur    *Table
		row    []string
	)

	flush := func() {
		if cur != nil && len(row) > 0 {
			cur.Rows = append(cur.Rows, cleanCells(row))
		}
		row = nil
	}

	for _, raw := range strings.Split(wikitext, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, "{|"):
			cur = &Table{}
			row = nil
		case cur == nil:
			continue
		case strings.HasPrefix(line, "|+"):
			cur.Caption = Clean(cellContent(line[2:]))
		case strings.HasPrefix(line, "|-"):
			flush()
		case strings.HasPrefix(line, "|}"):
			flush()
			tables = append(tables, *cur)
			cur = nil
		case strings.HasPrefix(line, "!"):
			for _, h := range splitTopLevel(line[1:], "!!") {
				cur.Headers = append(cur.Headers, Clean(cellContent(h)))
			}
		case strings.HasPrefix(line, "|"):
			for _, c := range splitTopLevel(line[1:], "||") {
				row = append(row, cellContent(c))
			}
		default:
			if len(row) > 0 && line != "" {
				row[len(row)-1] += "\n" + line
			}
		}
	}

	if cur != nil {
		flush()
		tables = append(tables, *cur)
	}

	return tables
}

// FindTable returns the first table whose caption contains captionSubstr,
// compared case-insensitively.
func FindTable(tables []Table, captionSubstr string) (Table, bool) {
	want := strings.ToLower(strings.TrimSpace(captionSubstr))
	for _, t := range tables {
		if strings.Contains(strings.ToLower(t.Caption), want) {
			return t, true
		}
	}
	return Table{}, false
}

// FindTableByHeader returns the first table whose first header equals header.
// It is the fallback for tables published without a caption.
func FindTableByHeader(tables []Table, header string) (Table, bool) {
	want := normalizeHeader(header)
	for _, t := range tables {
		if len(t.Headers) > 0 && normalizeHeader(t.Headers[0]) == want {
			return t, true
		}
	}
	return Table{}, false
}

func cleanCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = Clean(c)
	}
	return out
}

// cellContent drops a leading attribute block: `style="…" | text` → `text`.
// Pipes inside [[…]] and {{…}} are not separators.
func cellContent(cell string) string {
	idx := -1
	depth := 0
	for i := 0; i < len(cell); i++ {
		switch {
		case strings.HasPrefix(cell[i:], "[[") || strings.HasPrefix(cell[i:], "{{"):
			depth++
			i++
		case strings.HasPrefix(cell[i:], "]]") || strings.HasPrefix(cell[i:], "}}"):
			if depth > 0 {
				depth--
			}
			i++
		case cell[i] == '|' && depth == 0:
			idx = i
		}
	}
	if idx >= 0 {
		return strings.TrimSpace(cell[idx+1:])
	}
	return strings.TrimSpace(cell)
}

// splitTopLevel splits s on sep, ignoring separators nested in [[…]] or {{…}}.
func splitTopLevel(s, sep string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "[[") || strings.HasPrefix(s[i:], "{{"):
			depth++
			i++
		case strings.HasPrefix(s[i:], "]]") || strings.HasPrefix(s[i:], "}}"):
			if depth > 0 {
				depth--
			}
			i++
		case depth == 0 && strings.HasPrefix(s[i:], sep):
			parts = append(parts, s[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(Clean(s))), " ")
}

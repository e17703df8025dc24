package wikitext

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	blockEndRe = regexp.MustCompile(`(?i)</(?:p|div|h[1-6]|li|tr|table|dd|dt|dl|ul|ol|blockquote|pre)\s*>|<br\s*/?>`)
	cellEndRe  = regexp.MustCompile(`(?i)</t[dh]\s*>`)
	// Rendered MediaWiki pages carry an edit-section link in every heading.
	editLinkRe = regexp.MustCompile(`(?is)<span class="mw-editsection">.*?</span>\s*</span>`)
)

// HTMLToText reduces a rendered page to plain text, one block per line.
// Block boundaries become line breaks before tags are stripped so words of
// adjacent paragraphs never run together.
func HTMLToText(page string) string {
	page = editLinkRe.ReplaceAllString(page, "")
	page = cellEndRe.ReplaceAllString(page, " ")
	page = blockEndRe.ReplaceAllStringFunc(page, func(m string) string { return m + "\n" })

	text := bluemonday.StrictPolicy().Sanitize(page)
	return CleanBlock(html.UnescapeString(text))
}

// HTMLToMarkdown converts a rendered page to markdown. Relative links are
// resolved against domain.
func HTMLToMarkdown(page, domain string) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	md, err := conv.ConvertString(editLinkRe.ReplaceAllString(page, ""), converter.WithDomain(domain))
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// ParseHTMLTables returns every top-level <table> of a rendered page in the
// same shape as ParseTables. A <tr> made only of <th> cells before any data
// row supplies the headers; later <th> cells count as data.
func ParseHTMLTables(page string) ([]Table, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var tables []Table
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			tables = append(tables, readHTMLTable(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return tables, nil
}

func readHTMLTable(tbl *html.Node) Table {
	var t Table

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Table:
				// Nested tables belong to their own cell text only.
				continue
			case atom.Caption:
				t.Caption = Clean(nodeText(c))
			case atom.Tr:
				cells, allHeaders := readHTMLRow(c)
				switch {
				case len(cells) == 0:
				case allHeaders && len(t.Rows) == 0 && len(t.Headers) == 0:
					t.Headers = cells
				case allHeaders && len(t.Rows) == 0:
					// Second header row (grouped columns): keep the first.
				default:
					t.Rows = append(t.Rows, cells)
				}
			default:
				walk(c)
			}
		}
	}
	walk(tbl)

	return t
}

func readHTMLRow(tr *html.Node) ([]string, bool) {
	var cells []string
	allHeaders := true
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Th:
			cells = append(cells, Clean(nodeText(c)))
		case atom.Td:
			allHeaders = false
			cells = append(cells, Clean(nodeText(c)))
		}
	}
	return cells, allHeaders
}

// nodeText concatenates the text under n, turning <br> into spaces and
// skipping <sup class="reference"> footnote markers.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Br:
				b.WriteByte(' ')
				return
			case atom.Sup, atom.Style, atom.Script:
				if n.DataAtom != atom.Sup || hasClass(n, "reference") {
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, f := range strings.Fields(a.Val) {
				if f == class {
					return true
				}
			}
		}
	}
	return false
}

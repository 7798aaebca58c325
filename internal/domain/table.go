package domain

import (
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// minDataRowCells filters out label-only rows, e.g. a caption that happens to
// mention "sunshine hours", when looking for rows that carry monthly values.
const minDataRowCells = 10

// Row is the ordered, non-empty text of one table row.
type Row []string

// Table is the ordered rows of one table element.
type Table []Row

func (r Row) label() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

func (r Row) containsAll(cells ...string) bool {
	for _, c := range cells {
		if !slices.Contains(r, c) {
			return false
		}
	}
	return true
}

func (r Row) anyMatch(re *regexp.Regexp) bool {
	return slices.ContainsFunc(r, re.MatchString)
}

func (t Table) hasRowWith(cells ...string) bool {
	return slices.ContainsFunc(t, func(r Row) bool { return r.containsAll(cells...) })
}

func (t Table) firstRowWith(cells ...string) (Row, bool) {
	i := slices.IndexFunc(t, func(r Row) bool { return r.containsAll(cells...) })
	if i < 0 {
		return nil, false
	}
	return t[i], true
}

func (t Table) anyCellMatches(re *regexp.Regexp) bool {
	return slices.ContainsFunc(t, func(r Row) bool { return r.anyMatch(re) })
}

// dataRows returns the rows that have a cell matching re and enough cells to
// carry monthly values.
func (t Table) dataRows(re *regexp.Regexp) []Row {
	var rows []Row
	for _, r := range t {
		if r.anyMatch(re) && len(r) > minDataRowCells {
			rows = append(rows, r)
		}
	}
	return rows
}

// withRow returns a copy of t with r appended; t itself is left untouched.
func (t Table) withRow(r Row) Table {
	out := make(Table, len(t), len(t)+1)
	copy(out, t)
	return append(out, slices.Clone(r))
}

// tableData flattens every descendant <tr> of sel into a Row of its text
// nodes. Rows with no text are kept so that row positions stay stable.
func tableData(sel *goquery.Selection) Table {
	trs := sel.Find("tr")
	table := make(Table, 0, trs.Length())
	trs.Each(func(_ int, tr *goquery.Selection) {
		var row Row
		for _, n := range tr.Nodes {
			row = appendTextCells(row, n)
		}
		table = append(table, row)
	})
	return table
}

func appendTextCells(row Row, n *html.Node) Row {
	switch n.Type {
	case html.TextNode:
		if cell := normalizeCell(n.Data); cell != "" {
			row = append(row, cell)
		}
		return row
	case html.ElementNode:
		if skipElement(n.Data) {
			return row
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		row = appendTextCells(row, c)
	}
	return row
}

// normalizeCell folds compatibility characters (non-breaking spaces, "℉")
// before trimming.
func normalizeCell(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

func skipElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}

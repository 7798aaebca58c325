package domain

import (
	"github.com/PuerkitoBio/goquery"
)

const wikitableSelector = "table.wikitable"

// regularMatch is a Regular-shape table with its markup kept for review.
type regularMatch struct {
	hasSunshine bool
	table       Table
	html        string
}

// irregularMatch is an Irregular-shape table, possibly carrying a sunshine
// row borrowed from another table.
type irregularMatch struct {
	hasSunshine bool
	table       Table
}

type wikitable struct {
	table Table
	html  string
}

func wikitables(doc *goquery.Document) []wikitable {
	var out []wikitable
	doc.Find(wikitableSelector).Each(func(_ int, s *goquery.Selection) {
		markup, err := goquery.OuterHtml(s)
		if err != nil {
			markup = ""
		}
		out = append(out, wikitable{table: tableData(s), html: markup})
	})
	return out
}

// matchRegular picks the first table with a month header and both average
// rows, preferring one that also has sunshine hours.
func (p *Patterns) matchRegular(doc *goquery.Document) (regularMatch, bool) {
	var withTemps []wikitable
	for _, wt := range wikitables(doc) {
		t := wt.table
		if t.hasRowWith("Month", "Jan", "Feb", "Dec") &&
			t.anyCellMatches(p.AverageHigh) &&
			t.anyCellMatches(p.AverageLow) {
			withTemps = append(withTemps, wt)
		}
	}
	if len(withTemps) == 0 {
		return regularMatch{}, false
	}

	for _, wt := range withTemps {
		if wt.table.anyCellMatches(p.Sunshine) {
			return regularMatch{hasSunshine: true, table: wt.table, html: wt.html}, true
		}
	}
	first := withTemps[0]
	return regularMatch{table: first.table, html: first.html}, true
}

// matchIrregular picks the first table whose header row reads "Average" plus
// the months. A sunshine row found in any such table is appended to it.
func (p *Patterns) matchIrregular(doc *goquery.Document) (irregularMatch, bool) {
	var withTemps []Table
	for _, wt := range wikitables(doc) {
		if wt.table.hasRowWith("Average", "Jan", "Feb", "Dec") {
			withTemps = append(withTemps, wt.table)
		}
	}
	if len(withTemps) == 0 {
		return irregularMatch{}, false
	}

	chosen := withTemps[0]
	if chosen.anyCellMatches(p.Sunshine) {
		return irregularMatch{hasSunshine: true, table: chosen}, true
	}
	for _, t := range withTemps[1:] {
		for _, row := range t {
			if row.anyMatch(p.Sunshine) {
				return irregularMatch{hasSunshine: true, table: chosen.withRow(row)}, true
			}
		}
	}
	return irregularMatch{table: chosen}, true
}

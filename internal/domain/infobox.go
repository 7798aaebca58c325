package domain

import (
	"slices"

	"github.com/PuerkitoBio/goquery"
)

// maxInfoboxFragments bounds the fragments accepted from one page. Every
// climate infobox yields three fragments, so three infoboxes is the limit;
// country pages such as "Climate of Brazil" concatenate many more.
const maxInfoboxFragments = 9

var monthInitials = Row{"J", "F", "M", "A", "M", "J", "J", "A", "S", "O", "N", "D"}

// infoboxMatch holds the two data-bearing fragments. err is set when the
// infobox shape was recognized but did not supply both fragments.
type infoboxMatch struct {
	shown  Table
	hidden Table
	err    error
}

// matchInfobox finds infobox fragments carrying the month-initials row.
func matchInfobox(doc *goquery.Document) (infoboxMatch, bool) {
	var fragments []Table
	doc.Find(".infobox").Each(func(_ int, s *goquery.Selection) {
		t := tableData(s)
		if slices.ContainsFunc(t, func(r Row) bool { return slices.Equal(r, monthInitials) }) {
			fragments = append(fragments, t)
		}
	})

	if len(fragments) == 0 || len(fragments) > maxInfoboxFragments {
		return infoboxMatch{}, false
	}

	// Fragment 0 is discarded; the next two are the visible and the converted
	// renderings. Taking index 1 twice selects them, whatever follows.
	shown, rest, ok := removeAt(fragments, 1)
	if !ok {
		return infoboxMatch{err: ErrNotEnoughFragments}, true
	}
	hidden, _, ok := removeAt(rest, 1)
	if !ok {
		return infoboxMatch{err: ErrNotEnoughFragments}, true
	}
	return infoboxMatch{shown: shown, hidden: hidden}, true
}

// removeAt returns the element at i and a new slice without it.
func removeAt(tables []Table, i int) (Table, []Table, bool) {
	if i < 0 || i >= len(tables) {
		return nil, tables, false
	}
	rest := slices.Delete(slices.Clone(tables), i, i+1)
	return tables[i], rest, true
}

// extractInfoboxData reads the high/low triples of both fragments. The
// hidden fragment's label tells which of the two is metric.
func (p *Patterns) extractInfoboxData(m infoboxMatch) (Temperatures, error) {
	if m.err != nil {
		return Temperatures{}, m.err
	}
	if len(m.shown) < 2 || len(m.hidden) < 3 {
		return Temperatures{}, ErrWrongValueCount
	}
	label := m.hidden[0].label()

	shownHigh, shownLow, err := infoboxSeries(m.shown[1])
	if err != nil {
		return Temperatures{}, err
	}
	hiddenHigh, hiddenLow, err := infoboxSeries(m.hidden[2])
	if err != nil {
		return Temperatures{}, err
	}

	var temps Temperatures
	if p.Imperial.MatchString(label) {
		temps = Temperatures{HighC: shownHigh, LowC: shownLow, HighF: hiddenHigh, LowF: hiddenLow}
	} else {
		temps = Temperatures{HighC: hiddenHigh, LowC: hiddenLow, HighF: shownHigh, LowF: shownLow}
	}
	if err := temps.validate(); err != nil {
		return Temperatures{}, err
	}
	return temps, nil
}

// infoboxSeries reads a row of (precipitation, high, low) triples.
func infoboxSeries(values Row) (high, low Series, err error) {
	if len(values) != 3*MonthsPerYear {
		return nil, nil, ErrWrongValueCount
	}
	highTokens := make([]string, 0, MonthsPerYear)
	lowTokens := make([]string, 0, MonthsPerYear)
	for i := 0; i < len(values); i += 3 {
		highTokens = append(highTokens, values[i+1])
		lowTokens = append(lowTokens, values[i+2])
	}
	if high, err = parseNumbers(highTokens); err != nil {
		return nil, nil, err
	}
	if low, err = parseNumbers(lowTokens); err != nil {
		return nil, nil, err
	}
	return high, low, nil
}

package domain

import (
	"fmt"
	"strings"
)

var monthAbbrevs = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var (
	testHighC = Series{5, 7, 10, 14, 18, 21, 23, 23, 20, 15, 9, 6}
	testHighF = Series{41, 45, 50, 57, 64, 70, 73, 73, 68, 59, 48, 43}
	testLowC  = Series{-1, 0, 2, 4, 8, 11, 13, 13, 10, 7, 3, 0}
	testLowF  = Series{30, 32, 36, 39, 46, 52, 55, 55, 50, 45, 37, 32}
	testSun   = Series{62, 78.5, 120, 165, 201, 210, 220, 205, 150, 110, 70, 55}
)

func tr(cells ...string) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, c := range cells {
		b.WriteString("<td>")
		b.WriteString(c)
		b.WriteString("</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}

func labelled(label string, cells []string) string {
	return tr(append([]string{label}, cells...)...)
}

func wikiTable(rows ...string) string {
	return `<table class="wikitable"><tbody>` + strings.Join(rows, "") + `</tbody></table>`
}

func htmlPage(parts ...string) string {
	return "<!DOCTYPE html><html><head><title>Test</title></head><body>" +
		strings.Join(parts, "\n") + "</body></html>"
}

func monthHeader(first string, withYear bool) string {
	cells := append([]string{first}, monthAbbrevs...)
	if withYear {
		cells = append(cells, "Year")
	}
	return tr(cells...)
}

// oneCellPerMonth renders "5 (41)" style cells.
func oneCellPerMonth(bare, paren Series) []string {
	out := make([]string, len(bare))
	for i := range bare {
		out[i] = fmt.Sprintf("%g (%g)", bare[i], paren[i])
	}
	return out
}

// twoNodesPerMonth renders "5<br>(41)" style cells, which flatten into two
// text cells per month, followed by a yearly column.
func twoNodesPerMonth(bare, paren Series) []string {
	out := make([]string, 0, len(bare)+1)
	for i := range bare {
		out = append(out, fmt.Sprintf("%g<br>(%g)", bare[i], paren[i]))
	}
	return append(out, fmt.Sprintf("%g<br>(%g)", mean(bare), mean(paren)))
}

func numbers(values Series) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%g", v)
	}
	return out
}

func withYear(cells []string, year string) []string {
	return append(append([]string{}, cells...), year)
}

func mean(values Series) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// regularTable is the common Wikipedia climate box layout.
func regularTable(extraRows ...string) string {
	rows := []string{
		monthHeader("Month", true),
		labelled("Average high °C (°F)", twoNodesPerMonth(testHighC, testHighF)),
		labelled("Average low °C (°F)", twoNodesPerMonth(testLowC, testLowF)),
	}
	return wikiTable(append(rows, extraRows...)...)
}

func regularTablePage(extraRows ...string) string {
	return htmlPage(regularTable(extraRows...))
}

// infoboxFragment renders one ".infobox" table.
func infoboxFragment(rows ...string) string {
	return `<table class="infobox"><tbody>` + strings.Join(rows, "") + `</tbody></table>`
}

func monthInitialsRow() string {
	return tr("J", "F", "M", "A", "M", "J", "J", "A", "S", "O", "N", "D")
}

// triples renders the (precipitation, high, low) cells of an infobox row.
func triples(precip float64, high, low Series) []string {
	out := make([]string, 0, 3*len(high))
	for i := range high {
		out = append(out, fmt.Sprintf("%g", precip), fmt.Sprintf("%g", high[i]), fmt.Sprintf("%g", low[i]))
	}
	return out
}

// climateInfobox renders the three fragments a climate chart infobox
// produces: the wrapper, the visible chart and the converted chart.
func climateInfobox(hiddenLabel string, shownHigh, shownLow, hiddenHigh, hiddenLow Series) string {
	shown := infoboxFragment(
		monthInitialsRow(),
		tr(triples(50, shownHigh, shownLow)...),
	)
	hidden := infoboxFragment(
		tr(hiddenLabel),
		monthInitialsRow(),
		tr(triples(2, hiddenHigh, hiddenLow)...),
	)
	return `<div class="infobox">` + shown + hidden + `</div>`
}

package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Labels of the rows synthesized from split Celsius/Fahrenheit rows. Both
// carry a parenthesized Fahrenheit marker so the Celsius values come first.
const (
	combinedHighLabel = "Average high °C (°F)"
	combinedLowLabel  = "Average low °C (°F)"
)

// extractTableData converts a Regular or Irregular table into series.
func (p *Patterns) extractTableData(hasSunshine bool, t Table) (Temperatures, error) {
	months, ok := t.firstRowWith("Jan", "Feb", "May", "Dec")
	if !ok {
		return Temperatures{}, ErrNoMonthRow
	}
	jan := slices.Index(months, "Jan")
	dec := slices.Index(months, "Dec")
	if dec < jan {
		return Temperatures{}, ErrNoMonthRow
	}

	high, low, err := p.temperatureRows(t)
	if err != nil {
		return Temperatures{}, err
	}

	// Irregular tables put both units in one cell per month, so the value
	// row lines up with the header row.
	perMonthCells := len(months) == len(high)

	highTokens, err := valueTokens(high, jan, dec, perMonthCells)
	if err != nil {
		return Temperatures{}, err
	}
	lowTokens, err := valueTokens(low, jan, dec, perMonthCells)
	if err != nil {
		return Temperatures{}, err
	}

	label := high.label()
	if !strings.Contains(label, "C") || !strings.Contains(label, "F") {
		return Temperatures{}, ErrMissingUnits
	}

	highBare, highParen, err := splitStreams(highTokens)
	if err != nil {
		return Temperatures{}, fmt.Errorf("average high: %w", err)
	}
	lowBare, lowParen, err := splitStreams(lowTokens)
	if err != nil {
		return Temperatures{}, fmt.Errorf("average low: %w", err)
	}

	var temps Temperatures
	if p.Fahrenheit.MatchString(label) {
		temps = Temperatures{HighC: highBare, HighF: highParen, LowC: lowBare, LowF: lowParen}
	} else {
		temps = Temperatures{HighC: highParen, HighF: highBare, LowC: lowParen, LowF: lowBare}
	}

	if hasSunshine {
		sunshine, err := p.sunshineSeries(t, jan, dec)
		if err != nil {
			return Temperatures{}, fmt.Errorf("sunshine hours: %w", err)
		}
		temps.Sunshine = sunshine
	}

	if err := temps.validate(); err != nil {
		return Temperatures{}, err
	}
	return temps, nil
}

// temperatureRows locates the high and low rows. Two rows per metric means
// the table splits Celsius and Fahrenheit; they are merged into the
// combined layout.
func (p *Patterns) temperatureRows(t Table) (high, low Row, err error) {
	highs := t.dataRows(p.AverageHigh)
	lows := t.dataRows(p.AverageLow)

	if len(highs) == 2 && len(lows) == 2 {
		return combineSplitRows(combinedHighLabel, highs[0], highs[1]),
			combineSplitRows(combinedLowLabel, lows[0], lows[1]), nil
	}
	if len(highs) == 0 || len(lows) == 0 {
		return nil, nil, ErrMissingRows
	}
	return highs[0], lows[0], nil
}

// combineSplitRows interleaves the value cells of a Celsius row and a
// Fahrenheit row, Celsius first. The Fahrenheit row is the one whose label
// mentions F, so argument order does not matter.
func combineSplitRows(label string, a, b Row) Row {
	celsius, fahrenheit := a, b
	if strings.Contains(a.label(), "F") {
		celsius, fahrenheit = b, a
	}

	n := min(len(celsius), len(fahrenheit))
	out := make(Row, 0, 2*n)
	out = append(out, label)
	for i := 1; i < n; i++ {
		out = append(out, celsius[i], fahrenheit[i])
	}
	return out
}

// valueTokens returns the 24 alternating bare/parenthesized tokens of a row.
func valueTokens(row Row, jan, dec int, perMonthCells bool) ([]string, error) {
	var tokens []string
	if perMonthCells {
		if dec >= len(row) {
			return nil, ErrWrongValueCount
		}
		for _, cell := range row[jan : dec+1] {
			tokens = append(tokens, strings.Fields(cell)...)
		}
	} else {
		end := dec*2 + 1
		if len(row) < 2*MonthsPerYear || end > len(row) {
			return nil, ErrWrongValueCount
		}
		tokens = row[jan:end]
	}

	if len(tokens) != 2*MonthsPerYear {
		return nil, ErrWrongValueCount
	}
	return tokens, nil
}

// splitStreams separates even-indexed (bare) and odd-indexed (parenthesized)
// tokens.
func splitStreams(tokens []string) (bare, paren Series, err error) {
	var evens, odds []string
	for i, tok := range tokens {
		if i%2 == 0 {
			evens = append(evens, tok)
		} else {
			odds = append(odds, tok)
		}
	}
	if bare, err = parseNumbers(evens); err != nil {
		return nil, nil, err
	}
	if paren, err = parseNumbers(odds); err != nil {
		return nil, nil, err
	}
	return bare, paren, nil
}

// validate enforces the twelve-month length on every present series.
func (t Temperatures) validate() error {
	for _, s := range []Series{t.HighC, t.LowC, t.HighF, t.LowF} {
		if len(s) != MonthsPerYear {
			return ErrWrongValueCount
		}
	}
	if t.Sunshine != nil && len(t.Sunshine) != MonthsPerYear {
		return ErrWrongValueCount
	}
	return nil
}

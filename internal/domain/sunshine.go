package domain

import (
	"math"
	"slices"
)

// daysPerMonth converts daily sunshine averages into monthly totals.
// February uses 28.25 to account for leap years.
var daysPerMonth = [MonthsPerYear]float64{31, 28.25, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// sunshineSeries parses the table's sunshine row. It returns a nil series
// when no usable row is located.
func (p *Patterns) sunshineSeries(t Table, jan, dec int) (Series, error) {
	rows := t.dataRows(p.Sunshine)
	if len(rows) > 1 {
		rows = slices.DeleteFunc(rows, func(r Row) bool { return !r.anyMatch(p.Month) })
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]

	// Regular tables split the label over two text nodes, e.g.
	// "Mean monthly" + "sunshine hours", shifting the values by one cell.
	values := []string(row)
	if len(row) > 1 && p.Sunshine.MatchString(row[1]) {
		values = row[1:]
	}
	if dec >= len(values) || dec-jan+1 != MonthsPerYear {
		return nil, ErrWrongValueCount
	}

	series, err := parseNumbers(values[jan : dec+1])
	if err != nil {
		return nil, err
	}
	if p.Daily.MatchString(row.label()) {
		return dailyToMonthly(series), nil
	}
	return series, nil
}

// dailyToMonthly multiplies each daily average by the month's length,
// rounded to two decimals.
func dailyToMonthly(daily Series) Series {
	out := make(Series, len(daily))
	for i, v := range daily {
		out[i] = math.Round(v*daysPerMonth[i]*100) / 100
	}
	return out
}

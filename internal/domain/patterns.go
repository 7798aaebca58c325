package domain

import "regexp"

// Patterns is the set of label expressions shared by every extraction.
// It is built once and only read afterwards, so one value can serve any
// number of concurrent classifications.
type Patterns struct {
	// Sunshine matches sunshine row labels, e.g. "Mean monthly sunshine hours".
	Sunshine *regexp.Regexp
	// AverageHigh matches "Average high °C (°F)" and "High temperature °C".
	AverageHigh *regexp.Regexp
	// AverageLow matches "Average low °C (°F)" and "Low temperature °C".
	AverageLow *regexp.Regexp
	// Fahrenheit matches a parenthesized Fahrenheit unit, e.g. "°C (°F)".
	Fahrenheit *regexp.Regexp
	// Imperial matches the "Imperial conversion" label of an infobox fragment.
	Imperial *regexp.Regexp
	Month    *regexp.Regexp
	Daily    *regexp.Regexp
}

// NewPatterns compiles the label expressions.
func NewPatterns() *Patterns {
	return &Patterns{
		Sunshine:    regexp.MustCompile(`(?i)sunshine hours`),
		AverageHigh: regexp.MustCompile(`(?i)(^average high|^high temperature)`),
		AverageLow:  regexp.MustCompile(`(?i)(^average low|^low temperature)`),
		Fahrenheit:  regexp.MustCompile(`(?i)\(.+F\)`),
		Imperial:    regexp.MustCompile(`(?i)^imperial`),
		Month:       regexp.MustCompile(`(?i)month`),
		Daily:       regexp.MustCompile(`(?i)daily`),
	}
}

// defaultPatterns backs the package-level ParseHTML and ParsePage helpers.
var defaultPatterns = NewPatterns()

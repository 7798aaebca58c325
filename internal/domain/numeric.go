package domain

import (
	"fmt"
	"strconv"
	"strings"
)

var tokenReplacer = strings.NewReplacer(
	"(", "",
	")", "",
	"−", "-", // MINUS SIGN
)

// ParseNumber converts a table token such as "5.2", "(41.4)" or "−3" into a
// float64.
func ParseNumber(token string) (float64, error) {
	v, err := strconv.ParseFloat(tokenReplacer.Replace(token), 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", token, err)
	}
	return v, nil
}

// parseNumbers parses every token or fails on the first malformed one.
func parseNumbers(tokens []string) (Series, error) {
	out := make(Series, 0, len(tokens))
	for _, t := range tokens {
		v, err := ParseNumber(t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

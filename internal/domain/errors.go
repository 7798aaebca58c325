package domain

import "errors"

// Extraction failures. Their messages become the Outcome reason.
var (
	ErrNoMonthRow         = errors.New("no month header row")
	ErrMissingRows        = errors.New("missing average high or low row")
	ErrWrongValueCount    = errors.New("wrong number of values")
	ErrMissingUnits       = errors.New("does not have celsius and fahrenheit values")
	ErrNotEnoughFragments = errors.New("not enough infobox fragments")
)

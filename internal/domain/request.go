package domain

import "context"

// PageRequest is one page name read from a page source.
type PageRequest struct {
	Name string
	// Source identifies where the request came from, e.g. a file path or a
	// Kafka topic; Offset is its line number or message offset there.
	Source string
	Offset int64
	// Commit acknowledges the request to its source. Nil for sources that
	// need no acknowledgement.
	Commit func(ctx context.Context) error
}

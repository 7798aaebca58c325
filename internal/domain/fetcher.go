package domain

import "context"

// PageFetcher retrieves the rendered HTML of an article by title.
type PageFetcher interface {
	// FetchPage returns an error only when no response was received.
	// Non-success responses are reported through FetchedPage.Result.
	FetchPage(ctx context.Context, pageName string) (FetchedPage, error)
}

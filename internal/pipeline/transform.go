package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
)

// ClimateTransformer implements Transformer by fetching a page and running
// the table classifier over its HTML.
type ClimateTransformer struct {
	fetcher    domain.PageFetcher
	classifier *domain.Classifier
	logger     *slog.Logger
}

// NewTransformer creates a ClimateTransformer. A nil classifier uses the
// default label patterns.
func NewTransformer(fetcher domain.PageFetcher, classifier *domain.Classifier, logger *slog.Logger) *ClimateTransformer {
	if classifier == nil {
		classifier = domain.NewClassifier(nil)
	}
	return &ClimateTransformer{
		fetcher:    fetcher,
		classifier: classifier,
		logger:     logger,
	}
}

// Transform returns a result for every page that was attempted, including
// failed fetches. It fails only when ctx ends before the page is processed.
func (t *ClimateTransformer) Transform(ctx context.Context, req domain.PageRequest) (domain.PageResult, error) {
	page, err := t.fetcher.FetchPage(ctx, req.Name)
	if err != nil {
		if ctx.Err() != nil {
			return domain.PageResult{}, fmt.Errorf("fetch %q: %w", req.Name, ctx.Err())
		}
		page.Result = domain.FetchError
	}

	result := domain.NewPageResult(req.Name, page)
	t.logger.Debug("page fetched", "page", req.Name, "fetch_result", result.FetchResult, "status", result.StatusCode)
	if result.FetchResult != domain.FetchPage {
		return result, nil
	}

	out, err := t.classifier.ClassifyReader(strings.NewReader(page.HTML))
	if err != nil {
		out = domain.Outcome{Result: domain.NoValidTablesFound}
	}
	result = result.WithOutcome(out)

	attrs := []any{"page", req.Name, "parse_result", out.Result, "table_type", out.TableType}
	if out.Reason != "" {
		attrs = append(attrs, "reason", out.Reason)
	}
	t.logger.Debug("page parsed", attrs...)
	return result, nil
}

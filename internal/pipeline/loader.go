package pipeline

import (
	"context"
	"errors"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
)

// MultiLoader fans a batch out to every configured sink.
type MultiLoader []BatchLoader

// LoadBatch writes to each sink in order and joins their errors.
func (m MultiLoader) LoadBatch(ctx context.Context, results []domain.PageResult) error {
	var errs []error
	for _, l := range m {
		if err := l.LoadBatch(ctx, results); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Package pagefile reads page names from, and writes page results to,
// line-oriented files.
package pagefile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
)

// Source reads one page name per line. Blank lines and lines starting with
// "#" are skipped. It implements pipeline.BatchExtractor.
type Source struct {
	name    string
	scanner *bufio.Scanner
	closer  io.Closer
	line    int64
}

// Open opens a pages file.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pages file: %w", err)
	}
	s := NewSource(f, path)
	s.closer = f
	return s, nil
}

// NewSource reads page names from r; name labels the requests.
func NewSource(r io.Reader, name string) *Source {
	return &Source{name: name, scanner: bufio.NewScanner(r)}
}

// ExtractBatch returns up to batchSize page requests. It returns io.EOF with
// the final, possibly empty, batch.
func (s *Source) ExtractBatch(ctx context.Context, batchSize int) ([]domain.PageRequest, error) {
	batch := make([]domain.PageRequest, 0, batchSize)
	for len(batch) < batchSize {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return batch, fmt.Errorf("read pages file: %w", err)
			}
			return batch, io.EOF
		}
		s.line++

		name := strings.TrimSpace(s.scanner.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		batch = append(batch, domain.PageRequest{Name: name, Source: s.name, Offset: s.line})
	}
	return batch, nil
}

// Close releases the underlying file, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

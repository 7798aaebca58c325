package pagefile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
)

// ResultWriter appends page results as JSON lines. It implements
// pipeline.BatchLoader.
type ResultWriter struct {
	mu     sync.Mutex
	out    io.Writer
	w      *bufio.Writer
	closer io.Closer
}

// Create opens path for appending, creating it if needed.
func Create(path string) (*ResultWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	rw := NewResultWriter(f)
	rw.closer = f
	return rw, nil
}

// NewResultWriter writes JSON lines to w.
func NewResultWriter(w io.Writer) *ResultWriter {
	return &ResultWriter{out: w, w: bufio.NewWriter(w)}
}

// LoadBatch writes one line per result and flushes. A failed write discards
// the buffered batch so the next attempt starts clean.
func (rw *ResultWriter) LoadBatch(_ context.Context, results []domain.PageResult) error {
	var lines bytes.Buffer
	enc := json.NewEncoder(&lines)
	for i := range results {
		if err := enc.Encode(results[i]); err != nil {
			return fmt.Errorf("encode page result: %w", err)
		}
	}

	rw.mu.Lock()
	defer rw.mu.Unlock()

	_, err := rw.w.Write(lines.Bytes())
	if err == nil {
		err = rw.w.Flush()
	}
	if err != nil {
		rw.w.Reset(rw.out)
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// Close flushes and releases the underlying file, if any.
func (rw *ResultWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if err := rw.w.Flush(); err != nil {
		return err
	}
	if rw.closer == nil {
		return nil
	}
	return rw.closer.Close()
}

package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/climate-data-etl/internal/config"
	"github.com/couchcryptid/climate-data-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Reader consumes page names from a Kafka topic, one name per message
// value. It implements pipeline.BatchExtractor.
type Reader struct {
	reader        *kafkago.Reader
	flushInterval time.Duration
	logger        *slog.Logger
}

// NewReader creates a consumer-group reader for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaSourceTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Reader{reader: r, flushInterval: cfg.BatchFlushInterval, logger: logger}
}

// ExtractBatch fetches up to batchSize messages, returning early with a
// partial (possibly empty) batch once the flush interval elapses. Offsets
// are committed through each request's Commit.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.PageRequest, error) {
	batchCtx, cancel := context.WithTimeout(ctx, r.flushInterval)
	defer cancel()

	batch := make([]domain.PageRequest, 0, batchSize)
	for len(batch) < batchSize {
		msg, err := r.reader.FetchMessage(batchCtx)
		if err != nil {
			if ctx.Err() != nil {
				return batch, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			return batch, fmt.Errorf("fetch message: %w", err)
		}

		req, ok := r.mapMessage(msg)
		if !ok {
			r.logger.Warn("skipping message without page name",
				"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
			if err := req.Commit(ctx); err != nil {
				r.logger.Warn("commit failed", "error", err, "offset", msg.Offset)
			}
			continue
		}
		batch = append(batch, req)
	}
	return batch, nil
}

// mapMessage converts a message into a page request. ok is false when the
// value holds no page name; the request can still be committed.
func (r *Reader) mapMessage(msg kafkago.Message) (domain.PageRequest, bool) {
	name := strings.TrimSpace(string(msg.Value))
	return domain.PageRequest{
		Name:   name,
		Source: fmt.Sprintf("%s/%d", msg.Topic, msg.Partition),
		Offset: msg.Offset,
		Commit: func(ctx context.Context) error {
			return r.reader.CommitMessages(ctx, msg)
		},
	}, name != ""
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

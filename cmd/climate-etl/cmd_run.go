package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/climate-data-etl/internal/adapter/database"
	httpadapter "github.com/couchcryptid/climate-data-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climate-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/climate-data-etl/internal/adapter/pagefile"
	"github.com/couchcryptid/climate-data-etl/internal/adapter/wikipedia"
	"github.com/couchcryptid/climate-data-etl/internal/config"
	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/couchcryptid/climate-data-etl/internal/observability"
	"github.com/couchcryptid/climate-data-etl/internal/pipeline"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [PAGES_FILE]",
		Short: "Fetch and classify pages, storing one result per page",
		Long: "run reads page names from PAGES_FILE (one per line) or from the Kafka\n" +
			"source topic when PAGE_SOURCE=kafka, and writes results to every\n" +
			"configured sink: RESULTS_FILE, DATABASE_URL and KAFKA_SINK_TOPIC.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if len(args) == 1 {
				cfg.PageSource = config.SourceFile
				cfg.PagesFile = args[0]
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runService(ctx, cfg)
		},
	}
}

// namedCloser is a resource released at shutdown.
type namedCloser struct {
	name string
	io.Closer
}

func runService(ctx context.Context, cfg *config.Config) error {
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	var closers []namedCloser
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				logger.Error("close error", "resource", closers[i].name, "error", err)
			}
		}
	}()

	var fetcher domain.PageFetcher = wikipedia.NewClient(
		cfg.WikipediaBaseURL, cfg.WikipediaUserAgent, cfg.WikipediaTimeout, metrics, logger)
	if cfg.FetchCacheSize > 0 {
		fetcher = wikipedia.NewCachedFetcher(fetcher, cfg.FetchCacheSize, metrics)
		logger.Info("page cache enabled", "cache_size", cfg.FetchCacheSize)
	}

	extractor, err := openSource(cfg, logger)
	if err != nil {
		return err
	}
	closers = append(closers, namedCloser{"page source", extractor})

	sinks, sinkClosers, readiness, err := openSinks(ctx, cfg, logger)
	closers = append(closers, sinkClosers...)
	if err != nil {
		return err
	}

	classifier := domain.NewClassifier(nil)
	transformer := pipeline.NewTransformer(fetcher, classifier, logger)
	p := pipeline.New(extractor, transformer, sinks, logger, metrics, cfg.BatchSize, cfg.Workers)

	srv := httpadapter.NewServer(cfg.HTTPAddr, append(httpadapter.Readiness{p}, readiness...), classifier, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if err := p.Run(ctx); err != nil {
		logger.Error("pipeline error", "error", err)
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// pageSource is a pipeline extractor that owns a resource.
type pageSource interface {
	pipeline.BatchExtractor
	io.Closer
}

func openSource(cfg *config.Config, logger *slog.Logger) (pageSource, error) {
	switch cfg.PageSource {
	case config.SourceKafka:
		logger.Info("reading pages from kafka", "topic", cfg.KafkaSourceTopic, "group", cfg.KafkaGroupID)
		return kafkaadapter.NewReader(cfg, logger), nil
	default:
		src, err := pagefile.Open(cfg.PagesFile)
		if err != nil {
			return nil, err
		}
		logger.Info("reading pages from file", "path", cfg.PagesFile)
		return src, nil
	}
}

// openSinks builds a loader for every configured sink. Closers are returned
// even on error so the caller can release what was already opened.
func openSinks(ctx context.Context, cfg *config.Config, logger *slog.Logger) (pipeline.MultiLoader, []namedCloser, httpadapter.Readiness, error) {
	var (
		sinks     pipeline.MultiLoader
		closers   []namedCloser
		readiness httpadapter.Readiness
	)

	if cfg.ResultsFile != "" {
		w, err := pagefile.Create(cfg.ResultsFile)
		if err != nil {
			return nil, closers, nil, err
		}
		sinks = append(sinks, w)
		closers = append(closers, namedCloser{"results file", w})
		logger.Info("writing results to file", "path", cfg.ResultsFile)
	}

	if cfg.DatabaseURL != "" {
		db, err := database.Open(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, closers, nil, err
		}
		store := database.NewResultStore(db)
		closers = append(closers, namedCloser{"database", store})
		if err := store.AutoMigrate(ctx); err != nil {
			return nil, closers, nil, fmt.Errorf("migrate results table: %w", err)
		}
		sinks = append(sinks, store)
		readiness = append(readiness, store)
		logger.Info("writing results to database")
	}

	if cfg.KafkaSinkTopic != "" {
		w := kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, w)
		closers = append(closers, namedCloser{"kafka writer", w})
		logger.Info("publishing results to kafka", "topic", cfg.KafkaSinkTopic)
	}

	return sinks, closers, readiness, nil
}

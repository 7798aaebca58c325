package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Page sources.
const (
	SourceFile  = "file"
	SourceKafka = "kafka"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	PagesFile   string
	PageSource  string
	ResultsFile string

	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	DatabaseURL      string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration
	Workers            int

	// Wikipedia page fetch configuration.
	WikipediaBaseURL   string
	WikipediaTimeout   time.Duration
	WikipediaUserAgent string
	FetchCacheSize     int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	wikipediaTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("WIKIPEDIA_TIMEOUT", "15s"))
	if err != nil || wikipediaTimeout <= 0 {
		return nil, errors.New("invalid WIKIPEDIA_TIMEOUT")
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	workers, err := parsePositiveInt("WORKERS", 8)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseCacheSize()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PagesFile:          os.Getenv("PAGES_FILE"),
		PageSource:         sharedcfg.EnvOrDefault("PAGE_SOURCE", SourceFile),
		ResultsFile:        os.Getenv("RESULTS_FILE"),
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "climate-pages"),
		KafkaSinkTopic:     os.Getenv("KAFKA_SINK_TOPIC"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "climate-data-etl"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		Workers:            workers,

		WikipediaBaseURL:   sharedcfg.EnvOrDefault("WIKIPEDIA_BASE_URL", "https://en.wikipedia.org/api/rest_v1/page/html"),
		WikipediaTimeout:   wikipediaTimeout,
		WikipediaUserAgent: sharedcfg.EnvOrDefault("WIKIPEDIA_USER_AGENT", "climate-data-etl/1.0"),
		FetchCacheSize:     cacheSize,
	}

	switch cfg.PageSource {
	case SourceFile, SourceKafka:
	default:
		return nil, fmt.Errorf("invalid PAGE_SOURCE %q: want %s or %s", cfg.PageSource, SourceFile, SourceKafka)
	}
	if cfg.usesKafka() && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.PageSource == SourceKafka && cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}

	return cfg, nil
}

// Validate checks the settings that can be supplied after Load, such as a
// pages file passed on the command line.
func (c *Config) Validate() error {
	if c.PageSource == SourceFile && c.PagesFile == "" {
		return errors.New("PAGES_FILE is required when PAGE_SOURCE is file")
	}
	if c.ResultsFile == "" && c.DatabaseURL == "" && c.KafkaSinkTopic == "" {
		return errors.New("no result sink: set RESULTS_FILE, DATABASE_URL or KAFKA_SINK_TOPIC")
	}
	return nil
}

func (c *Config) usesKafka() bool {
	return c.PageSource == SourceKafka || c.KafkaSinkTopic != ""
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseCacheSize() (int, error) {
	s := os.Getenv("FETCH_CACHE_SIZE")
	if s == "" {
		return 128, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid FETCH_CACHE_SIZE")
	}
	return n, nil
}

package observability

import (
	"log/slog"
	"testing"

	"github.com/couchcryptid/climate-data-etl/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.PagesConsumed.Add(3)
	a.ParseOutcomes.WithLabelValues("Parsed", "Regular").Inc()

	assert.InDelta(t, 3, testutil.ToFloat64(a.PagesConsumed), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.PagesConsumed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(a.ParseOutcomes.WithLabelValues("Parsed", "Regular")), 0)
}

func TestMetrics_Names(t *testing.T) {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)

	m.PagesConsumed.Inc()
	m.FetchOutcomes.WithLabelValues("Page").Inc()
	m.ParseOutcomes.WithLabelValues("NoValidTablesFound", "").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["climate_etl_pages_consumed_total"])
	assert.True(t, names["climate_etl_fetch_outcomes_total"])
	assert.True(t, names["climate_etl_parse_outcomes_total"])
	assert.True(t, names["climate_etl_pipeline_running"])
}

func TestNewLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := NewLogger(&config.Config{LogLevel: "debug", LogFormat: "text"})

	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	logger = NewLogger(&config.Config{LogLevel: "warn", LogFormat: "json"})
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
}

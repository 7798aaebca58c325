//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/climate-data-etl/internal/adapter/wikipedia"
	"github.com/couchcryptid/climate-data-etl/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node KRaft broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	ctr, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0", kafka.WithClusterID("climate-etl-test"))
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start kafka container")

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// startPostgres runs a PostgreSQL container and returns a postgres:// URL.
func startPostgres(ctx context.Context, t *testing.T) string {
	t.Helper()
	ctr, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("climate"),
		postgres.WithUsername("etl"),
		postgres.WithPassword("etl"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start postgres container")

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

// wikipediaStub serves a Regular climate table for every title in pages and
// 404 for anything else.
func wikipediaStub(t *testing.T, pages ...string) *wikipedia.Client {
	t.Helper()
	known := make(map[string]bool, len(pages))
	for _, p := range pages {
		known[strings.ReplaceAll(p, " ", "_")] = true
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title := strings.TrimPrefix(r.URL.Path, "/")
		if !known[title] {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Location", "/"+title)
		_, _ = io.WriteString(w, climateTableHTML())
	}))
	t.Cleanup(srv.Close)

	return wikipedia.NewClient(srv.URL, "climate-data-etl-test", 10*time.Second, observability.NewMetricsForTesting(), discardLogger())
}

// climateTableHTML renders a Regular table whose January high is 10 °C.
func climateTableHTML() string {
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	row := func(label string, base int) string {
		var b strings.Builder
		b.WriteString("<tr><th>" + label + "</th>")
		for i := range months {
			c := base + i
			fmt.Fprintf(&b, "<td>%d<br>(%d)</td>", c, c*9/5+32)
		}
		b.WriteString("<td>0<br>(32)</td></tr>")
		return b.String()
	}
	return `<html><body><table class="wikitable"><tr><th>Month</th><th>` +
		strings.Join(months, "</th><th>") + `</th><th>Year</th></tr>` +
		row("Average high °C (°F)", 10) + row("Average low °C (°F)", 0) +
		`</table></body></html>`
}

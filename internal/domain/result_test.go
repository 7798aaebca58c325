package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://en.wikipedia.org/api/rest_v1/page/html/London", "London"},
		{"https://en.wikipedia.org/api/rest_v1/page/html/New_York_City", "New York City"},
		{"https://en.wikipedia.org/api/rest_v1/page/html/Climate_of_the_Bahamas", "The Bahamas"},
		{"https://en.wikipedia.org/api/rest_v1/page/html/Geography_of_Ireland", "Ireland"},
		{"https://en.wikipedia.org/api/rest_v1/page/html/Climate_of_Tokyo", "Tokyo"},
		{"https://en.wikipedia.org/api/rest_v1/page/html/S%C3%A3o_Paulo", "São Paulo"},
		{"Reykjavík", "Reykjavík"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, LocationName(tt.url))
		})
	}
}

func TestWikipediaURL(t *testing.T) {
	got := WikipediaURL("https://en.wikipedia.org/api/rest_v1/page/html/London")
	assert.Equal(t, "https://en.wikipedia.org/wiki/London", got)

	assert.Equal(t, "https://example.com/x", WikipediaURL("https://example.com/x"))
}

func TestNewPageResult(t *testing.T) {
	fixed := time.Date(2026, 4, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	t.Run("fetched page", func(t *testing.T) {
		r := NewPageResult("Climate of the Bahamas", FetchedPage{
			Result:             FetchPage,
			StatusCode:         200,
			ResponseURL:        "https://en.wikipedia.org/api/rest_v1/page/html/Climate_of_the_Bahamas?redirect=true",
			ContentLocationURL: "https://en.wikipedia.org/api/rest_v1/page/html/Climate_of_the_Bahamas",
			HTML:               "<html></html>",
		})

		assert.Equal(t, "Climate of the Bahamas", r.PageName)
		assert.Equal(t, FetchPage, r.FetchResult)
		assert.Equal(t, 200, r.StatusCode)
		assert.Equal(t, "https://en.wikipedia.org/wiki/Climate_of_the_Bahamas", r.WikipediaURL)
		assert.Equal(t, "The Bahamas", r.LocationName)
		assert.Equal(t, fixed.UTC(), r.ProcessedAt)
		assert.Empty(t, r.ParseResult)
	})

	t.Run("falls back to response url", func(t *testing.T) {
		r := NewPageResult("Oslo", FetchedPage{
			Result:      FetchPage,
			StatusCode:  200,
			ResponseURL: "https://en.wikipedia.org/api/rest_v1/page/html/Oslo",
		})

		assert.Equal(t, "Oslo", r.LocationName)
		assert.Equal(t, "https://en.wikipedia.org/wiki/Oslo", r.WikipediaURL)
	})

	t.Run("status error", func(t *testing.T) {
		r := NewPageResult("Nowhere", FetchedPage{Result: StatusError, StatusCode: 404})

		assert.Equal(t, StatusError, r.FetchResult)
		assert.Equal(t, 404, r.StatusCode)
		assert.Empty(t, r.WikipediaURL)
		assert.Empty(t, r.LocationName)
	})
}

func TestPageResult_WithOutcome(t *testing.T) {
	base := PageResult{PageName: "London", FetchResult: FetchPage}
	temps := &Temperatures{HighC: testHighC, LowC: testLowC, HighF: testHighF, LowF: testLowF}

	got := base.WithOutcome(Outcome{Result: Parsed, TableType: TableRegular, Temperatures: temps, TableHTML: "<table></table>"})

	assert.Equal(t, Parsed, got.ParseResult)
	assert.Equal(t, TableRegular, got.TableType)
	assert.Equal(t, testHighC, got.AverageHighC)
	assert.Nil(t, got.SunshineHours)
	assert.Equal(t, "<table></table>", got.TableHTML)

	assert.Empty(t, base.ParseResult, "receiver must not be modified")
	assert.Nil(t, base.AverageHighC)
}

func TestParsePage(t *testing.T) {
	t.Run("skips pages that were not fetched", func(t *testing.T) {
		r := PageResult{PageName: "Missing", FetchResult: FetchError}

		got := ParsePage(r, regularTablePage())

		assert.Equal(t, r, got)
	})

	t.Run("classifies fetched pages", func(t *testing.T) {
		r := PageResult{PageName: "London", FetchResult: FetchPage}

		got := ParsePage(r, regularTablePage())

		assert.Equal(t, Parsed, got.ParseResult)
		assert.Equal(t, TableRegular, got.TableType)
		assert.Equal(t, testLowF, got.AverageLowF)
	})

	t.Run("records the parse error reason only as the result", func(t *testing.T) {
		r := PageResult{PageName: "Empty", FetchResult: FetchPage}

		got := ParsePage(r, htmlPage("<p>no tables</p>"))

		assert.Equal(t, NoValidTablesFound, got.ParseResult)
		assert.Empty(t, got.TableType)
		assert.Nil(t, got.AverageHighC)
	})
}

func TestPageResult_JSON(t *testing.T) {
	r := PageResult{
		PageName:    "Nowhere",
		FetchResult: StatusError,
		StatusCode:  404,
		ProcessedAt: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "StatusError", fields["fetch_result"])
	assert.Equal(t, float64(404), fields["status_code"])
	assert.Contains(t, fields, "average_high_c")
	assert.Nil(t, fields["average_high_c"])
	assert.NotContains(t, fields, "parse_result")
	assert.Equal(t, "2026-04-01T10:00:00Z", fields["processed_at"])
}

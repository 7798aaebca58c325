// Package wikipedia fetches rendered article HTML from the Wikipedia REST API.
package wikipedia

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/couchcryptid/climate-data-etl/internal/observability"
)

// DefaultBaseURL is the REST endpoint serving page HTML.
const DefaultBaseURL = "https://en.wikipedia.org/api/rest_v1/page/html"

// maxBodyBytes caps the HTML read for a single page.
const maxBodyBytes = 32 << 20

// Client implements domain.PageFetcher against the Wikipedia REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a page client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		metrics:   metrics,
		logger:    logger,
	}
}

// PageURL builds the REST URL for a page title; spaces become underscores.
func (c *Client) PageURL(pageName string) string {
	title := strings.ReplaceAll(strings.TrimSpace(pageName), " ", "_")
	return fmt.Sprintf("%s/%s?redirect=true", c.baseURL, url.PathEscape(title))
}

// FetchPage downloads a page. Transport failures return a FetchError page
// together with the error; non-2xx responses return a StatusError page and a
// nil error.
func (c *Client) FetchPage(ctx context.Context, pageName string) (domain.FetchedPage, error) {
	start := time.Now()
	page, err := c.doRequest(ctx, c.PageURL(pageName))
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	c.metrics.FetchOutcomes.WithLabelValues(string(page.Result)).Inc()

	if err != nil {
		c.logger.Warn("page fetch failed", "page", pageName, "error", err)
		return page, err
	}
	c.logger.Debug("page fetched", "page", pageName, "status", page.StatusCode, "result", page.Result)
	return page, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.FetchedPage, error) {
	failed := domain.FetchedPage{Result: domain.FetchError}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return failed, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failed, fmt.Errorf("page request: %w", err)
	}
	defer resp.Body.Close()

	page := domain.FetchedPage{
		StatusCode:  resp.StatusCode,
		ResponseURL: resp.Request.URL.String(),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		page.Result = domain.StatusError
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return page, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return failed, fmt.Errorf("read body: %w", err)
	}

	page.Result = domain.FetchPage
	page.HTML = string(body)
	page.ContentLocationURL = contentLocation(resp)
	return page, nil
}

// contentLocation resolves the Content-Location header against the request
// URL, which may be relative.
func contentLocation(resp *http.Response) string {
	loc := resp.Header.Get("Content-Location")
	if loc == "" {
		return ""
	}
	ref, err := url.Parse(loc)
	if err != nil {
		return loc
	}
	return resp.Request.URL.ResolveReference(ref).String()
}

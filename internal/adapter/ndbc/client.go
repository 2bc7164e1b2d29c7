package ndbc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/buoy-swell-service/internal/observability"
)

// Table kinds, also used as metric labels.
const (
	KindDensity   = "density"
	KindDirection = "direction"
)

// maxTableBytes bounds a realtime table download. The 45-day files are well under 1 MiB.
const maxTableBytes = 4 << 20

// Client fetches realtime spectral tables from the NDBC feed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an NDBC feed client rooted at baseURL
// (e.g. https://www.ndbc.noaa.gov/data/realtime2).
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchDensity downloads <station>.data_spec.
func (c *Client) FetchDensity(ctx context.Context, stationID int) ([]byte, error) {
	return c.fetch(ctx, fmt.Sprintf("%s/%d.data_spec", c.baseURL, stationID), KindDensity)
}

// FetchDirection downloads <station>.swdir.
func (c *Client) FetchDirection(ctx context.Context, stationID int) ([]byte, error) {
	return c.fetch(ctx, fmt.Sprintf("%s/%d.swdir", c.baseURL, stationID), KindDirection)
}

func (c *Client) fetch(ctx context.Context, url, kind string) ([]byte, error) {
	start := time.Now()
	body, err := c.doRequest(ctx, url, kind)
	c.metrics.FeedDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues(kind, "error").Inc()
		return nil, err
	}
	c.metrics.FeedRequests.WithLabelValues(kind, "success").Inc()
	c.logger.Debug("ndbc table fetched", "kind", kind, "url", url, "bytes", len(body),
		"duration", time.Since(start))
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, url, kind string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("ndbc %s error: status %d: %s", kind, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTableBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s body: %w", kind, err)
	}
	return body, nil
}

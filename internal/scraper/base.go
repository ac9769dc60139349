package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single node-stats request when the caller does not
// configure one.
const DefaultTimeout = 10 * time.Second

// urlPathNodeStats is appended to the configured Logstash endpoint.
const urlPathNodeStats = "/_node/stats"

// Scraper fetches one node-stats document per call.
type Scraper interface {
	Scrape(ctx context.Context) (*NodeStats, error)
}

// New returns a Scraper for the Logstash API at endpoint. The endpoint is
// expected to be normalised already (no trailing slash); see config.Parse.
// It builds the HTTP client once and reuses it across scrape calls.
func New(endpoint string, timeout time.Duration) Scraper {
	return newLogstashScraper(endpoint, buildHTTPClient(timeout))
}

// buildHTTPClient constructs the http.Client used for node-stats requests.
func buildHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// fetchJSON performs an HTTP GET to url and decodes the body into v.
// Failures are classified as ConnectError, StatusError or DecodeError.
func fetchJSON(ctx context.Context, client *http.Client, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return &ConnectError{URL: url, Err: err}
	}
	defer func() {
		// Drain so the connection can go back to the pool.
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		// A body cut short by ctx cancellation is a transport problem, not
		// a malformed document.
		if ctx.Err() != nil {
			return &ConnectError{URL: url, Err: ctx.Err()}
		}
		return &DecodeError{URL: url, Err: err}
	}
	return nil
}

// joinPath appends path to a base URL, tolerating a trailing slash on base.
func joinPath(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

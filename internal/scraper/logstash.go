package scraper

import (
	"context"
	"net/http"
)

type logstashScraper struct {
	url    string
	client *http.Client
}

func newLogstashScraper(endpoint string, client *http.Client) *logstashScraper {
	return &logstashScraper{
		url:    joinPath(endpoint, urlPathNodeStats),
		client: client,
	}
}

// Scrape issues a single GET to {endpoint}/_node/stats and returns the parsed
// document. The document is not validated here; Walk does that.
//
// There are no retries. A fresh document is returned on every call.
func (s *logstashScraper) Scrape(ctx context.Context) (*NodeStats, error) {
	var stats NodeStats
	if err := fetchJSON(ctx, s.client, s.url, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/obsidianstack/logstash-exporter/internal/compute"
	"github.com/obsidianstack/logstash-exporter/internal/scraper"
)

// Collector is a prometheus.Collector that polls Logstash on every Collect.
//
// It holds no per-poll state, so overlapping scrapes are safe without locks.
type Collector struct {
	scraper scraper.Scraper
	timeout time.Duration
}

// New creates a Collector backed by s and registers it with reg.
// timeout bounds each poll; zero means scraper.DefaultTimeout.
func New(reg prometheus.Registerer, s scraper.Scraper, timeout time.Duration) (*Collector, error) {
	if timeout <= 0 {
		timeout = scraper.DefaultTimeout
	}
	c := &Collector{scraper: s, timeout: timeout}
	if err := reg.Register(c); err != nil {
		return nil, fmt.Errorf("collector: register: %w", err)
	}
	return c, nil
}

// Describe sends the descriptor of every exported metric.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range compute.Definitions {
		ch <- d.Desc()
	}
}

// Collect polls Logstash once and sends the resulting metrics.
// Upstream failures are logged and produce no metrics; they never fail the
// scrape itself.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	metrics, err := c.Poll(ctx).Metrics()
	if err != nil {
		slog.Error("collector: render metrics failed", "err", err)
		return
	}
	for _, m := range metrics {
		ch <- m
	}
}

// Poll runs fetch, walk and translate once. It always returns a usable set:
// on any failure the error is logged and an empty set is returned.
func (c *Collector) Poll(ctx context.Context) *compute.MetricSet {
	stats, err := c.scraper.Scrape(ctx)
	if err != nil {
		logScrapeError(err)
		return compute.NewMetricSet()
	}
	if stats == nil {
		slog.Error("collector: scraper returned no document")
		return compute.NewMetricSet()
	}
	slog.Debug("collector: node stats received", "pipelines", len(stats.Pipelines))

	samples, err := scraper.Walk(stats)
	if err != nil {
		slog.Error("collector: unexpected node stats document", "err", err)
		return compute.NewMetricSet()
	}

	set, err := compute.Translate(samples)
	if err != nil {
		slog.Error("collector: translate failed", "err", err)
		return compute.NewMetricSet()
	}
	if set.Duplicates > 0 {
		slog.Warn("collector: dropped duplicate series; plugin ids are not unique",
			"duplicates", set.Duplicates)
	}
	slog.Debug("collector: poll complete", "samples", set.Len())
	return set
}

func logScrapeError(err error) {
	var (
		ce *scraper.ConnectError
		de *scraper.DecodeError
		se *scraper.StatusError
	)
	switch {
	case errors.As(err, &ce):
		slog.Error("collector: error connecting to logstash", "url", ce.URL, "err", ce.Err)
	case errors.As(err, &de):
		slog.Error("collector: error decoding logstash response", "url", de.URL, "err", de.Err)
	case errors.As(err, &se):
		slog.Error("collector: logstash returned an error status", "url", se.URL, "status", se.StatusCode)
	default:
		slog.Error("collector: scrape failed", "err", err)
	}
}

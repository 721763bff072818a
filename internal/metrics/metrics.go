// Package metrics exposes Prometheus collectors for the title crawler.
package metrics

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	titlesTotal           *prometheus.CounterVec
	titleFetchDuration    *prometheus.HistogramVec
	sitemapFetchesTotal   *prometheus.CounterVec
	sitemapURLsDiscovered prometheus.Counter
	sitemapURLsDispatched prometheus.Counter
	crawlerActiveWorkers  prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		titlesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagetitle_fetches_total",
				Help: "Total number of page title fetches, labeled by site and outcome.",
			},
			[]string{"site", "outcome"},
		)

		titleFetchDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pagetitle_fetch_duration_seconds",
				Help:    "Histogram of page title fetch latencies, labeled by driver.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"driver"},
		)

		sitemapFetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitemap_fetches_total",
				Help: "Total number of sitemap downloads, labeled by HTTP status code.",
			},
			[]string{"code"},
		)

		sitemapURLsDiscovered = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sitemap_urls_discovered_total",
				Help: "Total number of loc entries extracted from sitemaps.",
			},
		)

		sitemapURLsDispatched = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sitemap_urls_dispatched_total",
				Help: "Total number of sitemap URLs submitted to the worker pool after sampling.",
			},
		)

		crawlerActiveWorkers = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "crawler_active_workers",
				Help: "Number of workers currently fetching a page.",
			},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// ObserveTitleFetch records one finished page fetch. outcome is "ok" or a fetch error kind.
func ObserveTitleFetch(site, driver, outcome string, duration time.Duration) {
	Init()
	titlesTotal.WithLabelValues(SanitizeSite(site), outcome).Inc()
	titleFetchDuration.WithLabelValues(driver).Observe(duration.Seconds())
}

// ObserveSitemapFetch records a sitemap download by status code. Transport
// failures are recorded with code 0.
func ObserveSitemapFetch(code int) {
	Init()
	sitemapFetchesTotal.WithLabelValues(strconv.Itoa(code)).Inc()
}

// ObserveSitemapURLs records how many URLs were found and how many were dispatched.
func ObserveSitemapURLs(discovered, dispatched int) {
	Init()
	sitemapURLsDiscovered.Add(float64(discovered))
	sitemapURLsDispatched.Add(float64(dispatched))
}

// IncActiveWorkers increments the active workers gauge.
func IncActiveWorkers() {
	Init()
	crawlerActiveWorkers.Inc()
}

// DecActiveWorkers decrements the active workers gauge.
func DecActiveWorkers() {
	Init()
	crawlerActiveWorkers.Dec()
}

// Push sends the default registry to a Prometheus Pushgateway. The CLI runs are
// too short-lived to be scraped, so this is how their metrics leave the process.
func Push(gatewayURL, job string) error {
	if gatewayURL == "" {
		return nil
	}
	if err := push.New(gatewayURL, job).Gatherer(prometheus.DefaultGatherer).Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}

package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/JakeFAU/sitemap-title-crawler/internal/crawler"
	"github.com/JakeFAU/sitemap-title-crawler/internal/dispatcher"
	"github.com/JakeFAU/sitemap-title-crawler/internal/metrics"
	"github.com/JakeFAU/sitemap-title-crawler/internal/queue/memory"
	"github.com/JakeFAU/sitemap-title-crawler/internal/sitemap"
	"github.com/JakeFAU/sitemap-title-crawler/internal/worker"
)

// Defaults used when SitemapCrawler fields are left zero.
const (
	DefaultWorkers  = 2
	DefaultMaxPages = 10
)

// SitemapLoader returns the page URLs listed by a sitemap.
type SitemapLoader interface {
	Load(ctx context.Context, sitemapURL string) ([]string, error)
}

// SitemapCrawler fetches the title of every page (or a random sample of pages)
// listed in a sitemap using a fixed-size worker pool.
type SitemapCrawler struct {
	Loader  SitemapLoader
	Fetcher crawler.TitleFetcher
	// Workers is the pool size; at most this many pages are fetched at once.
	Workers int
	// MaxPages caps how many URLs are fetched. Sitemaps listing more are sampled.
	MaxPages   int
	QueueDepth int
	Driver     string
	// Rand drives sampling. Nil uses the global source.
	Rand   *rand.Rand
	Logger *zap.Logger
}

// Summary describes a finished sitemap crawl.
type Summary struct {
	Discovered int
	Dispatched int
	Succeeded  int
	Failed     int
}

// Run loads sitemapURL, dispatches one title fetch per selected URL and prints
// one line per result in completion order. If the sitemap cannot be fetched or
// parsed, a single failure line is printed, no pages are fetched and the load
// error is returned. Per-page failures never stop the crawl.
func (c *SitemapCrawler) Run(ctx context.Context, sitemapURL string, out io.Writer) (Summary, error) {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("sitemap", sitemapURL))

	urls, err := c.Loader.Load(ctx, sitemapURL)
	if err != nil {
		if werr := reportLoadError(out, err); werr != nil {
			return Summary{}, werr
		}
		return Summary{}, err
	}

	selected := sitemap.Sample(urls, c.maxPages(), c.Rand)
	summary := Summary{Discovered: len(urls), Dispatched: len(selected)}
	metrics.ObserveSitemapURLs(summary.Discovered, summary.Dispatched)
	logger.Info("sitemap loaded",
		zap.Int("discovered", summary.Discovered),
		zap.Int("dispatched", summary.Dispatched),
		zap.Int("workers", c.workers()),
	)

	queue := memory.NewQueue(c.QueueDepth)
	workers := make([]*worker.Worker, 0, c.workers())
	for i := range c.workers() {
		workers = append(workers, worker.New(
			queue,
			c.Fetcher,
			worker.Config{Driver: c.Driver},
			logger.Named("worker").With(zap.Int("index", i)),
		))
	}
	dispatch := dispatcher.New(queue, workers)

	jobs := make([]crawler.Job, 0, len(selected))
	for _, u := range selected {
		jobs = append(jobs, crawler.Job{URL: u})
	}

	results := make(chan crawler.Result)
	submitErr := make(chan error, 1)
	go func() {
		submitErr <- dispatch.Submit(ctx, jobs)
	}()
	go dispatch.Run(ctx, results)

	var writeErr error
	for res := range results {
		if res.OK() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		if writeErr != nil {
			continue
		}
		_, writeErr = fmt.Fprintf(out, "Title of the page at %s is: %s\n", res.URL, res.Text())
	}

	if err := <-submitErr; err != nil && ctx.Err() == nil {
		return summary, fmt.Errorf("submit jobs: %w", err)
	}
	if writeErr != nil {
		return summary, fmt.Errorf("write result: %w", writeErr)
	}
	logger.Info("sitemap crawl finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)
	return summary, ctx.Err()
}

func (c *SitemapCrawler) workers() int {
	if c.Workers <= 0 {
		return DefaultWorkers
	}
	return c.Workers
}

func (c *SitemapCrawler) maxPages() int {
	if c.MaxPages <= 0 {
		return DefaultMaxPages
	}
	return c.MaxPages
}

func reportLoadError(out io.Writer, err error) error {
	var statusErr *crawler.StatusError
	var parseErr *crawler.ParseError
	var werr error
	switch {
	case errors.As(err, &statusErr):
		_, werr = fmt.Fprintf(out, "Failed to fetch sitemap: %d\n", statusErr.StatusCode)
	case errors.As(err, &parseErr):
		_, werr = fmt.Fprintf(out, "Failed to parse XML: %v\n", parseErr)
	default:
		_, werr = fmt.Fprintf(out, "Failed to fetch sitemap: %v\n", err)
	}
	return werr
}

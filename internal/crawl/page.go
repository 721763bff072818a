// Package crawl runs the two user-facing flows: a single page title lookup and
// a sitemap crawl across a worker pool. Both write plain result lines to an
// io.Writer.
package crawl

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/JakeFAU/sitemap-title-crawler/internal/crawler"
	"github.com/JakeFAU/sitemap-title-crawler/internal/metrics"
)

// PageRunner looks up the title of a single page.
type PageRunner struct {
	Fetcher crawler.TitleFetcher
	// Driver labels metrics with the fetch implementation in use.
	Driver string
	Logger *zap.Logger
}

// Run fetches the title of url and prints either the title or the error
// message to out. Fetch failures are reported, not returned; the only error
// returned comes from writing to out.
func (p PageRunner) Run(ctx context.Context, url string, out io.Writer) (crawler.Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	res := crawler.FetchPage(ctx, p.Fetcher, url)
	metrics.ObserveTitleFetch(url, p.Driver, outcome(res), res.Duration)

	if !res.OK() {
		logger.Debug("title fetch failed",
			zap.String("url", url),
			zap.String("kind", outcome(res)),
			zap.Error(res.Err),
		)
		_, err := fmt.Fprintf(out, "An error occurred: %v\n", res.Err)
		return res, err
	}
	logger.Debug("title fetched", zap.String("url", url), zap.Duration("duration", res.Duration))
	_, err := fmt.Fprintf(out, "Title of the page is: %s\n", res.Title)
	return res, err
}

func outcome(res crawler.Result) string {
	if res.OK() {
		return "ok"
	}
	return string(crawler.KindOf(res.Err))
}

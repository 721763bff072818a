package sitemap

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/JakeFAU/sitemap-title-crawler/internal/crawler"
	"github.com/JakeFAU/sitemap-title-crawler/internal/metrics"
)

// Loader downloads a sitemap and extracts its URLs.
type Loader struct {
	documents crawler.DocumentFetcher
	logger    *zap.Logger
}

// NewLoader constructs a Loader.
func NewLoader(documents crawler.DocumentFetcher, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{documents: documents, logger: logger.Named("sitemap")}
}

// Load fetches sitemapURL and returns every listed URL. A non-2xx response
// yields *crawler.StatusError, malformed XML yields *crawler.ParseError and
// transport failures yield *crawler.FetchError.
func (l *Loader) Load(ctx context.Context, sitemapURL string) ([]string, error) {
	doc, err := l.documents.FetchDocument(ctx, sitemapURL)
	if err != nil {
		metrics.ObserveSitemapFetch(0)
		return nil, crawler.NewFetchError("", sitemapURL, err)
	}
	metrics.ObserveSitemapFetch(doc.StatusCode)
	if !doc.Successful() {
		return nil, &crawler.StatusError{URL: sitemapURL, StatusCode: doc.StatusCode}
	}

	urls, err := ParseBytes(doc.Body)
	if err != nil {
		return nil, &crawler.ParseError{URL: sitemapURL, Err: unwrapDecode(err)}
	}
	l.logger.Debug("sitemap parsed",
		zap.String("url", sitemapURL),
		zap.Int("urls", len(urls)),
		zap.Duration("duration", doc.Duration),
	)
	return urls, nil
}

// unwrapDecode strips the "decode sitemap" prefix so users see the parser's
// own message.
func unwrapDecode(err error) error {
	if inner := errors.Unwrap(err); inner != nil {
		return inner
	}
	return err
}

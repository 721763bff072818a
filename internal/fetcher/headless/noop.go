package headless

import (
	"context"
	"errors"

	"github.com/JakeFAU/sitemap-title-crawler/internal/crawler"
)

// ErrNoDriver is returned by Noop for every fetch.
var ErrNoDriver = errors.New("headless fetcher not configured")

// Noop implements crawler.TitleFetcher but always fails, for runs where the
// page fetch driver is set to "none".
type Noop struct{}

// NewNoop creates a new Noop fetcher.
func NewNoop() *Noop {
	return &Noop{}
}

// FetchTitle returns a driver error since no browser is available.
func (Noop) FetchTitle(_ context.Context, url string) (string, error) {
	return "", crawler.NewFetchError(crawler.KindDriverCrash, url, ErrNoDriver)
}

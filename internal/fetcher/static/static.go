// Package static implements a browserless title fetcher: a plain HTTP GET
// followed by <title> extraction. Scripts are not executed, so titles set
// from JavaScript are not observed.
package static

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/sitemap-title-crawler/internal/crawler"
)

// ErrNoTitle is returned when the document has no <title> element.
var ErrNoTitle = errors.New("document has no title element")

// Fetcher implements crawler.TitleFetcher over a crawler.DocumentFetcher.
type Fetcher struct {
	documents crawler.DocumentFetcher
}

// New wraps a document fetcher.
func New(documents crawler.DocumentFetcher) *Fetcher {
	return &Fetcher{documents: documents}
}

// FetchTitle downloads url and returns the text of its first <title>. Like a
// browser, it reports the title of error pages rather than failing on status.
func (f *Fetcher) FetchTitle(ctx context.Context, url string) (string, error) {
	doc, err := f.documents.FetchDocument(ctx, url)
	if err != nil {
		return "", crawler.NewFetchError("", url, err)
	}
	title, err := ExtractTitle(doc.Body)
	if err != nil {
		return "", crawler.NewFetchError(crawler.KindUnexpectedPageState, url, err)
	}
	return title, nil
}

// ExtractTitle returns the whitespace-normalized text of the first <title> element.
func ExtractTitle(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	sel := doc.Find("title").First()
	if sel.Length() == 0 {
		return "", ErrNoTitle
	}
	return strings.Join(strings.Fields(sel.Text()), " "), nil
}

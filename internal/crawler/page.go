package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// FetchPage runs one title fetch and folds every failure, including panics
// raised by a driver, into the returned Result. It never returns an error.
func FetchPage(ctx context.Context, fetcher TitleFetcher, url string) (res Result) {
	start := time.Now()
	res.URL = url
	defer func() {
		if r := recover(); r != nil {
			res.Title = ""
			res.Err = NewFetchError(KindDriverCrash, url, fmt.Errorf("fetcher panic: %v", r))
		}
		res.Duration = time.Since(start)
	}()

	title, err := fetcher.FetchTitle(ctx, url)
	if err != nil {
		var fe *FetchError
		if !errors.As(err, &fe) {
			err = NewFetchError("", url, err)
		}
		res.Err = err
		return res
	}
	res.Title = title
	return res
}

package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/sitemap-title-crawler/internal/crawl"
	"github.com/JakeFAU/sitemap-title-crawler/internal/crawler"
)

type fakeApp struct {
	fetcher crawler.TitleFetcher
	loader  crawl.SitemapLoader
	closed  int
}

func (a *fakeApp) Close()                 { a.closed++ }
func (a *fakeApp) GetLogger() *zap.Logger { return zap.NewNop() }

func (a *fakeApp) PageRunner() crawl.PageRunner {
	return crawl.PageRunner{Fetcher: a.fetcher}
}

func (a *fakeApp) SitemapCrawler() *crawl.SitemapCrawler {
	return &crawl.SitemapCrawler{Loader: a.loader, Fetcher: a.fetcher}
}

type titleFunc func(ctx context.Context, url string) (string, error)

func (f titleFunc) FetchTitle(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

type loaderFunc func(ctx context.Context, url string) ([]string, error)

func (f loaderFunc) Load(ctx context.Context, url string) ([]string, error) {
	return f(ctx, url)
}

// useApp swaps the factory for the duration of a test. Tests using it must not run in parallel.
func useApp(t *testing.T, a App, factoryErr error) *int {
	t.Helper()
	calls := 0
	prev := newApp
	newApp = func(context.Context, string) (App, error) {
		calls++
		if factoryErr != nil {
			return nil, factoryErr
		}
		return a, nil
	}
	t.Cleanup(func() { newApp = prev })
	return &calls
}

func TestPageCommandPrintsTitle(t *testing.T) {
	a := &fakeApp{fetcher: titleFunc(func(context.Context, string) (string, error) {
		return "Example Domain", nil
	})}
	useApp(t, a, nil)

	var out bytes.Buffer
	c := newPageCmd()
	c.SetArgs([]string{"https://example.com"})
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})

	require.NoError(t, c.ExecuteContext(context.Background()))
	assert.Equal(t, "Title of the page is: Example Domain\n", out.String())
	assert.Equal(t, 1, a.closed)
}

func TestPageCommandReportsFetchFailure(t *testing.T) {
	a := &fakeApp{fetcher: titleFunc(func(context.Context, string) (string, error) {
		return "", errors.New("chrome failed to start")
	})}
	useApp(t, a, nil)

	var out bytes.Buffer
	c := newPageCmd()
	c.SetArgs([]string{"https://example.com"})
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})

	require.NoError(t, c.ExecuteContext(context.Background()))
	assert.Equal(t, "An error occurred: chrome failed to start\n", out.String())
}

func TestCommandsRequireExactlyOneArgument(t *testing.T) {
	for name, newCmd := range map[string]func() *cobra.Command{
		"pagetitle":     newPageCmd,
		"sitemaptitles": newSitemapCmd,
	} {
		t.Run(name, func(t *testing.T) {
			calls := useApp(t, &fakeApp{}, nil)

			for _, args := range [][]string{{}, {"a", "b"}} {
				var out bytes.Buffer
				c := newCmd()
				c.SetArgs(args)
				c.SetOut(&out)
				c.SetErr(&out)

				err := c.ExecuteContext(context.Background())
				require.Error(t, err)
				assert.Contains(t, out.String(), "Usage:")
			}
			assert.Zero(t, *calls, "app must not be built for invalid invocations")
		})
	}
}

func TestSitemapCommandPrintsResults(t *testing.T) {
	a := &fakeApp{
		loader: loaderFunc(func(context.Context, string) ([]string, error) {
			return []string{"https://example.com/a"}, nil
		}),
		fetcher: titleFunc(func(context.Context, string) (string, error) {
			return "A", nil
		}),
	}
	useApp(t, a, nil)

	var out bytes.Buffer
	c := newSitemapCmd()
	c.SetArgs([]string{"https://example.com/sitemap.xml"})
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})

	require.NoError(t, c.ExecuteContext(context.Background()))
	assert.Equal(t, "Title of the page at https://example.com/a is: A\n", out.String())
	assert.Equal(t, 1, a.closed)
}

func TestSitemapCommandLoadFailure(t *testing.T) {
	a := &fakeApp{
		loader: loaderFunc(func(_ context.Context, url string) ([]string, error) {
			return nil, &crawler.StatusError{URL: url, StatusCode: 503}
		}),
		fetcher: titleFunc(func(context.Context, string) (string, error) {
			return "", errors.New("no page may be fetched when the sitemap fails")
		}),
	}
	useApp(t, a, nil)

	var out, errOut bytes.Buffer
	c := newSitemapCmd()
	c.SetArgs([]string{"https://example.com/sitemap.xml"})
	c.SetOut(&out)
	c.SetErr(&errOut)

	err := c.ExecuteContext(context.Background())
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, "Failed to fetch sitemap: 503\n", out.String())
	assert.Empty(t, errOut.String())
	assert.Equal(t, 1, a.closed, "app must be closed on failure too")
}

func TestCommandAppInitFailure(t *testing.T) {
	useApp(t, nil, errors.New("bad config"))

	var out bytes.Buffer
	c := newPageCmd()
	c.SetArgs([]string{"https://example.com"})
	c.SetOut(&out)
	c.SetErr(&out)

	err := c.ExecuteContext(context.Background())
	require.ErrorContains(t, err, "failed to initialize application services: bad config")
	assert.NotContains(t, out.String(), "Usage:")
}

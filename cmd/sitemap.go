package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/sitemap-title-crawler/internal/crawler"
)

func newSitemapCmd() *cobra.Command {
	return newBaseCmd(
		"sitemaptitles <SITEMAP_URL>",
		"Print the titles of pages listed in a sitemap",
		`sitemaptitles downloads an XML sitemap, picks up to 10 of the pages it
lists at random and fetches their titles with 2 concurrent headless browsers.
One line is printed per page as soon as its title is known.`,
		runSitemap,
	)
}

func runSitemap(cmd *cobra.Command, a App, sitemapURL string) error {
	summary, err := a.SitemapCrawler().Run(cmd.Context(), sitemapURL, cmd.OutOrStdout())
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		a.GetLogger().Info("crawl interrupted",
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("failed", summary.Failed),
		)
		return err
	case isLoadError(err):
		a.GetLogger().Debug("sitemap unavailable", zap.Error(err))
		return fmt.Errorf("%w: %w", errReported, err)
	default:
		return fmt.Errorf("crawl sitemap: %w", err)
	}
	return nil
}

func isLoadError(err error) bool {
	var statusErr *crawler.StatusError
	var parseErr *crawler.ParseError
	var fetchErr *crawler.FetchError
	return errors.As(err, &statusErr) || errors.As(err, &parseErr) || errors.As(err, &fetchErr)
}

// ExecuteSitemap is the entry point for the sitemaptitles executable.
func ExecuteSitemap() {
	execute(newSitemapCmd())
}

// Command sitemaptitles fetches the titles of pages listed in an XML sitemap.
//
// Usage:
//
//	sitemaptitles [--config file] <SITEMAP_URL>
//
// When the sitemap lists more than crawler.max_pages URLs (default 10) a
// random sample of that size is fetched. Pages are loaded by a pool of
// crawler.workers headless browsers (default 2) and one line per page is
// printed in completion order:
//
//	Title of the page at <url> is: <title>
//
// Logs go to stderr. Configuration comes from an optional YAML file, a .env
// file in the working directory and SITEMAPTITLES_* environment variables.
package main

import "github.com/JakeFAU/sitemap-title-crawler/cmd"

func main() {
	cmd.ExecuteSitemap()
}

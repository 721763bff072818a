// Command pagetitle prints the title of a single web page.
//
// Usage:
//
//	pagetitle [--config file] <URL>
//
// The page is loaded in a headless Chrome started for this run only. On
// success the output is "Title of the page is: <title>"; on failure it is
// "An error occurred: <message>". Set SITEMAPTITLES_HEADLESS_DRIVER=rod to use
// go-rod instead of chromedp, or =static to read the <title> over plain HTTP.
package main

import "github.com/JakeFAU/sitemap-title-crawler/cmd"

func main() {
	cmd.ExecutePage()
}

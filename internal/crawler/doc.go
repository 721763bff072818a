// Package crawler defines the core types, interfaces, and error kinds shared by
// the page fetchers, the sitemap loader, and the worker pool.
package crawler

package crawler

import (
	"fmt"
	"time"
)

// Job is one URL submitted to the worker pool.
type Job struct {
	URL string
}

// Result is the outcome of fetching one page title.
type Result struct {
	URL      string
	Title    string
	Err      error
	Duration time.Duration
}

// OK reports whether the title was retrieved.
func (r Result) OK() bool {
	return r.Err == nil
}

// Text returns the title, or an error description embedding the failure message.
func (r Result) Text() string {
	if r.Err != nil {
		return fmt.Sprintf("Error fetching title: %v", r.Err)
	}
	return r.Title
}

// Document is a raw HTTP response body plus the metadata the sitemap loader needs.
type Document struct {
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Successful reports whether the response carried a 2xx status.
func (d Document) Successful() bool {
	return d.StatusCode >= 200 && d.StatusCode < 300
}

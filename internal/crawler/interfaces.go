package crawler

import "context"

// TitleFetcher opens a page and returns its title. Implementations return a
// *FetchError on failure and release every resource they acquired before returning.
type TitleFetcher interface {
	FetchTitle(ctx context.Context, url string) (string, error)
}

// DocumentFetcher performs a plain HTTP GET. Non-2xx responses are returned as
// documents, not errors; only transport failures produce an error.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, url string) (Document, error)
}

// Queue provides enqueue/dequeue semantics for URL jobs.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	// Dequeue returns ErrQueueClosed once the queue is closed and drained.
	Dequeue(ctx context.Context) (Job, error)
	Close()
}

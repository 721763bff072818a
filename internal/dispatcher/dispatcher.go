// Package dispatcher manages worker fan-out over the job queue.
package dispatcher

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/JakeFAU/sitemap-title-crawler/internal/crawler"
	"github.com/JakeFAU/sitemap-title-crawler/internal/worker"
)

// Dispatcher fans out queued jobs to a fixed pool of workers. At most
// len(workers) jobs are in flight at once; the rest wait in the queue.
type Dispatcher struct {
	queue   crawler.Queue
	workers []*worker.Worker
}

// New creates a Dispatcher.
func New(queue crawler.Queue, workers []*worker.Worker) *Dispatcher {
	return &Dispatcher{
		queue:   queue,
		workers: workers,
	}
}

// Size returns the number of workers in the pool.
func (d *Dispatcher) Size() int {
	return len(d.workers)
}

// Run starts all workers and blocks until every one of them has returned,
// then closes results. Workers return once the queue is closed and drained or
// the context finishes.
func (d *Dispatcher) Run(ctx context.Context, results chan<- crawler.Result) {
	defer close(results)
	var g errgroup.Group
	for _, w := range d.workers {
		g.Go(func() error {
			w.Run(ctx, results)
			return nil
		})
	}
	_ = g.Wait()
}

// Submit enqueues every job and then closes the queue so idle workers exit.
// The queue is closed even when enqueueing fails part way.
func (d *Dispatcher) Submit(ctx context.Context, jobs []crawler.Job) error {
	defer d.queue.Close()
	for _, job := range jobs {
		if err := d.Enqueue(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

// Enqueue proxies to the underlying queue.
func (d *Dispatcher) Enqueue(ctx context.Context, job crawler.Job) error {
	if err := d.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("queue enqueue: %w", err)
	}
	return nil
}

// Package worker implements the per-URL title fetch loop run by each pool member.
package worker

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/JakeFAU/sitemap-title-crawler/internal/crawler"
	"github.com/JakeFAU/sitemap-title-crawler/internal/metrics"
	"github.com/JakeFAU/sitemap-title-crawler/internal/telemetry"
)

// Config controls Worker behavior.
type Config struct {
	// Driver labels metrics with the page fetch implementation in use.
	Driver string
}

// Worker consumes queue items and fetches one page title per job.
type Worker struct {
	queue   crawler.Queue
	fetcher crawler.TitleFetcher
	cfg     Config
	logger  *zap.Logger
	tracer  trace.Tracer
}

// New constructs a Worker.
func New(queue crawler.Queue, fetcher crawler.TitleFetcher, cfg Config, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Driver == "" {
		cfg.Driver = "unknown"
	}
	return &Worker{
		queue:   queue,
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
		tracer:  otel.Tracer(telemetry.TracerName),
	}
}

// Run blocks, consuming jobs until the queue is closed and drained or the
// context finishes. Each job produces exactly one Result on results.
func (w *Worker) Run(ctx context.Context, results chan<- crawler.Result) {
	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, crawler.ErrQueueClosed) || ctx.Err() != nil {
				return
			}
			w.logger.Error("queue dequeue failed", zap.Error(err))
			continue
		}
		w.logger.Debug("dequeued job", zap.String("url", job.URL))

		res := w.process(ctx, job)
		select {
		case results <- res:
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) process(ctx context.Context, job crawler.Job) crawler.Result {
	metrics.IncActiveWorkers()
	defer metrics.DecActiveWorkers()

	ctx, span := w.tracer.Start(ctx, "fetch_title", trace.WithAttributes(
		attribute.String("url", job.URL),
		attribute.String("driver", w.cfg.Driver),
	))
	defer span.End()

	res := crawler.FetchPage(ctx, w.fetcher, job.URL)

	outcome := "ok"
	if res.Err != nil {
		outcome = string(crawler.KindOf(res.Err))
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, outcome)
		w.logger.Warn("title fetch failed",
			zap.String("url", job.URL),
			zap.String("kind", outcome),
			zap.Duration("duration", res.Duration),
			zap.Error(res.Err),
		)
	} else {
		span.SetAttributes(attribute.String("title", res.Title))
		w.logger.Debug("title fetched",
			zap.String("url", job.URL),
			zap.Duration("duration", res.Duration),
		)
	}
	metrics.ObserveTitleFetch(job.URL, w.cfg.Driver, outcome, res.Duration)
	return res
}

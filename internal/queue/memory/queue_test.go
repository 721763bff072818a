package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/sitemap-title-crawler/internal/crawler"
)

func TestQueueEnqueueDequeue(t *testing.T) {
	t.Parallel()

	q := NewQueue(1)
	result := make(chan crawler.Job, 1)
	errCh := make(chan error, 1)

	go func() {
		job, err := q.Dequeue(context.Background())
		if err != nil {
			errCh <- err
			return
		}
		result <- job
	}()

	require.NoError(t, q.Enqueue(context.Background(), crawler.Job{URL: "https://example.com/a"}))
	select {
	case err := <-errCh:
		t.Fatalf("Dequeue() error = %v", err)
	case got := <-result:
		require.Equal(t, "https://example.com/a", got.URL)
	case <-time.After(time.Second):
		t.Fatal("dequeue did not return job")
	}
}

func TestQueueCancelationErrors(t *testing.T) {
	t.Parallel()

	qDequeue := NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := qDequeue.Dequeue(ctx)
	require.EqualError(t, err, "dequeue canceled: context canceled")

	qEnqueue := NewQueue(1)
	require.NoError(t, qEnqueue.Enqueue(context.Background(), crawler.Job{URL: "primed"}))
	ctx, cancel = context.WithCancel(context.Background())
	cancel()
	err = qEnqueue.Enqueue(ctx, crawler.Job{})
	require.EqualError(t, err, "enqueue canceled: context canceled")
}

func TestQueueCloseDrainsBufferedJobs(t *testing.T) {
	t.Parallel()

	q := NewQueue(2)
	require.NoError(t, q.Enqueue(context.Background(), crawler.Job{URL: "one"}))
	require.NoError(t, q.Enqueue(context.Background(), crawler.Job{URL: "two"}))
	require.Equal(t, 2, q.Len())
	q.Close()

	first, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	require.Equal(t, "one", first.URL)
	second, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	require.Equal(t, "two", second.URL)

	_, err = q.Dequeue(context.Background())
	require.True(t, errors.Is(err, crawler.ErrQueueClosed))

	err = q.Enqueue(context.Background(), crawler.Job{URL: "late"})
	require.ErrorIs(t, err, crawler.ErrQueueClosed)

	// Closing twice should be safe.
	q.Close()
}

package queue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/queue"
)

// collector counts deliveries and optionally fails the first n of them
type collector struct {
	mu       sync.Mutex
	failures int
	attempts []int
	done     chan struct{}
	want     int
}

func newCollector(failures, want int) *collector {
	return &collector{
		failures: failures,
		done:     make(chan struct{}),
		want:     want,
	}
}

func (c *collector) handle(ctx context.Context, job *model.QueueJob) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attempts = append(c.attempts, job.Attempt)
	if len(c.attempts) == c.want {
		close(c.done)
	}
	if c.failures > 0 {
		c.failures--
		return goerr.New("transient failure")
	}
	return nil
}

func (c *collector) wait(t *testing.T) []int {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for deliveries")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int{}, c.attempts...)
}

func TestInProcessQueue(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers an enqueued job once", func(t *testing.T) {
		c := newCollector(0, 1)
		q := queue.New(c.handle)
		gt.NoError(t, q.Start(ctx)).Required()
		defer q.Stop()

		gt.NoError(t, q.Enqueue(ctx, model.NewQueueJob("skill", nil, "test")))

		attempts := c.wait(t)
		gt.Array(t, attempts).Length(1)
		gt.Number(t, attempts[0]).Equal(1)
	})

	t.Run("retries a failing job with growing attempt numbers", func(t *testing.T) {
		c := newCollector(2, 3)
		q := queue.New(c.handle,
			queue.WithRetryBackoff(time.Millisecond),
			queue.WithWorkers(1),
		)
		gt.NoError(t, q.Start(ctx)).Required()
		defer q.Stop()

		gt.NoError(t, q.Enqueue(ctx, model.NewQueueJob("flaky", nil, "test")))

		attempts := c.wait(t)
		gt.Array(t, attempts).Length(3)
		gt.Number(t, attempts[0]).Equal(1)
		gt.Number(t, attempts[1]).Equal(2)
		gt.Number(t, attempts[2]).Equal(3)
	})

	t.Run("gives up after the attempt budget", func(t *testing.T) {
		c := newCollector(10, 2)
		q := queue.New(c.handle,
			queue.WithRetryBackoff(time.Millisecond),
			queue.WithMaxAttempts(2),
			queue.WithWorkers(1),
		)
		gt.NoError(t, q.Start(ctx)).Required()

		gt.NoError(t, q.Enqueue(ctx, model.NewQueueJob("doomed", nil, "test")))

		attempts := c.wait(t)
		gt.Array(t, attempts).Length(2)

		// Allow a would-be third attempt to surface before asserting
		time.Sleep(50 * time.Millisecond)
		q.Stop()

		c.mu.Lock()
		total := len(c.attempts)
		c.mu.Unlock()
		gt.Number(t, total).Equal(2)
	})

	t.Run("full backlog rejects with ErrQueueFull", func(t *testing.T) {
		c := newCollector(0, 1)
		q := queue.New(c.handle, queue.WithCapacity(1))
		// Not started: nothing drains the backlog

		gt.NoError(t, q.Enqueue(ctx, model.NewQueueJob("a", nil, "test")))
		err := q.Enqueue(ctx, model.NewQueueJob("b", nil, "test"))
		gt.Error(t, err).Is(queue.ErrQueueFull)
	})

	t.Run("enqueue after stop is rejected", func(t *testing.T) {
		c := newCollector(0, 1)
		q := queue.New(c.handle)
		gt.NoError(t, q.Start(ctx)).Required()
		q.Stop()

		err := q.Enqueue(ctx, model.NewQueueJob("late", nil, "test"))
		gt.Error(t, err).Is(queue.ErrQueueStopped)
	})
}

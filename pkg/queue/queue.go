package queue

import (
	"context"
	"sync"
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/interfaces"
	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultCapacity is the buffered backlog of pending jobs
	DefaultCapacity = 256
	// DefaultMaxAttempts bounds redelivery of a failing job
	DefaultMaxAttempts = 3
	// DefaultRetryBackoff is the base delay between redeliveries; the delay
	// grows linearly with the attempt number
	DefaultRetryBackoff = 2 * time.Second
)

// ErrQueueFull is returned when the backlog cannot take another job
var ErrQueueFull = goerr.New("queue is full")

// ErrQueueStopped is returned when enqueueing after shutdown
var ErrQueueStopped = goerr.New("queue is stopped")

// InProcess is a process-local queue transport with at-least-once delivery
// and bounded retries. A remote transport can replace it behind the
// QueueTransport interface without touching callers.
//
// Architecture assumptions: single server instance, volatile backlog. Jobs
// pending at shutdown beyond the drain window are lost, consistent with the
// in-process persistence model.
type InProcess struct {
	handler     interfaces.QueueHandler
	jobs        chan *model.QueueJob
	maxAttempts int
	backoff     time.Duration
	workers     int

	mu      sync.Mutex
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	wg      sync.WaitGroup
}

var _ interfaces.QueueTransport = &InProcess{}

// Option is a functional option for queue configuration
type Option func(*InProcess)

// WithCapacity sets the backlog capacity
func WithCapacity(n int) Option {
	return func(q *InProcess) {
		q.jobs = make(chan *model.QueueJob, n)
	}
}

// WithMaxAttempts bounds redelivery of a failing job
func WithMaxAttempts(n int) Option {
	return func(q *InProcess) {
		q.maxAttempts = n
	}
}

// WithRetryBackoff sets the base delay between redeliveries
func WithRetryBackoff(d time.Duration) Option {
	return func(q *InProcess) {
		q.backoff = d
	}
}

// WithWorkers sets the number of delivery goroutines
func WithWorkers(n int) Option {
	return func(q *InProcess) {
		q.workers = n
	}
}

// New creates a transport delivering jobs to the handler
func New(handler interfaces.QueueHandler, opts ...Option) *InProcess {
	q := &InProcess{
		handler:     handler,
		jobs:        make(chan *model.QueueJob, DefaultCapacity),
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultRetryBackoff,
		workers:     2,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue accepts a job for deferred delivery. It does not block: a full
// backlog is an error the caller can surface.
func (q *InProcess) Enqueue(ctx context.Context, job *model.QueueJob) error {
	q.mu.Lock()
	stopped := q.stopped
	q.mu.Unlock()
	if stopped {
		return goerr.Wrap(ErrQueueStopped, "cannot enqueue", goerr.V("skill", job.SkillName))
	}

	select {
	case q.jobs <- job:
		logging.From(ctx).Debug("job enqueued",
			"skill", job.SkillName, "source", job.Source, "attempt", job.Attempt)
		return nil
	default:
		return goerr.Wrap(ErrQueueFull, "cannot enqueue", goerr.V("skill", job.SkillName))
	}
}

// Start launches the delivery workers. It does not block.
func (q *InProcess) Start(ctx context.Context) error {
	logging.From(ctx).Info("queue transport starting",
		"workers", q.workers, "capacity", cap(q.jobs), "maxAttempts", q.maxAttempts)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.run(ctx)
	}

	go func() {
		q.wg.Wait()
		close(q.doneCh)
	}()

	return nil
}

// Stop signals the workers to stop and waits for them to finish the jobs
// they are currently delivering
func (q *InProcess) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	q.mu.Unlock()

	close(q.stopCh)
	<-q.doneCh
	logging.Default().Info("queue transport stopped")
}

func (q *InProcess) run(ctx context.Context) {
	defer q.wg.Done()

	for {
		select {
		case job := <-q.jobs:
			q.deliver(ctx, job)

		case <-q.stopCh:
			return

		case <-ctx.Done():
			return
		}
	}
}

// deliver invokes the handler once and schedules a redelivery on failure
// until the attempt budget is spent. Delivery is at-least-once: a handler
// that succeeded but failed to report so is redelivered too.
func (q *InProcess) deliver(ctx context.Context, job *model.QueueJob) {
	err := q.handler(ctx, job)
	if err == nil {
		return
	}

	if job.Attempt >= q.maxAttempts {
		logging.From(ctx).Error("job delivery gave up",
			"skill", job.SkillName, "attempts", job.Attempt, "error", err)
		return
	}

	logging.From(ctx).Warn("job delivery failed, scheduling retry",
		"skill", job.SkillName, "attempt", job.Attempt, "error", err)

	retry := *job
	retry.Attempt = job.Attempt + 1
	delay := q.backoff * time.Duration(job.Attempt)

	select {
	case <-time.After(delay):
	case <-q.stopCh:
		return
	case <-ctx.Done():
		return
	}

	select {
	case q.jobs <- &retry:
	default:
		logging.From(ctx).Error("backlog full, dropping retry",
			"skill", job.SkillName, "attempt", retry.Attempt)
	}
}

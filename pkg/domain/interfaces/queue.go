package interfaces

import (
	"context"

	"github.com/bottega-lab/maestro/pkg/domain/model"
)

// QueueTransport accepts jobs for deferred execution. Implementations
// guarantee at-least-once delivery with bounded retries; skills must
// tolerate duplicate logical invocations.
type QueueTransport interface {
	Enqueue(ctx context.Context, job *model.QueueJob) error
}

// QueueHandler is the worker callback a transport delivers jobs to
type QueueHandler func(ctx context.Context, job *model.QueueJob) error

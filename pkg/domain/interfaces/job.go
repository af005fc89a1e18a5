package interfaces

import (
	"context"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
)

// JobRepository defines the interface for CronJob persistence
type JobRepository interface {
	// Create stores a new job, assigning ID and timestamps
	Create(ctx context.Context, job *model.CronJob) (*model.CronJob, error)

	// Get retrieves a job by ID
	Get(ctx context.Context, id types.JobID) (*model.CronJob, error)

	// Update applies a partial patch to a job
	Update(ctx context.Context, id types.JobID, patch *model.CronJobPatch) (*model.CronJob, error)

	// Delete removes a job by ID
	Delete(ctx context.Context, id types.JobID) error

	// List retrieves all jobs in creation order
	List(ctx context.Context) ([]*model.CronJob, error)

	// RecordExecution updates the bookkeeping fields of a job after one run.
	// No retry logic lives here; retries belong to the queue transport.
	RecordExecution(ctx context.Context, id types.JobID, status types.ResultStatus, durationMS int64, errMsg string) error

	// Count returns the number of stored jobs
	Count(ctx context.Context) (int, error)
}

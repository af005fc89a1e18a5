package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type jobRepository struct {
	mu   sync.RWMutex
	jobs map[types.JobID]*model.CronJob
}

func newJobRepository() *jobRepository {
	return &jobRepository{
		jobs: make(map[types.JobID]*model.CronJob),
	}
}

func copyJob(j *model.CronJob) *model.CronJob {
	copied := *j
	if j.Payload != nil {
		copied.Payload = make(map[string]any, len(j.Payload))
		for k, v := range j.Payload {
			copied.Payload[k] = v
		}
	}
	if j.LastRunAt != nil {
		t := *j.LastRunAt
		copied.LastRunAt = &t
	}
	return &copied
}

func (r *jobRepository) Create(ctx context.Context, job *model.CronJob) (*model.CronJob, error) {
	if err := job.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid job")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyJob(job)
	if created.ID == "" {
		created.ID = types.NewJobID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.jobs[created.ID] = created
	return copyJob(created), nil
}

func (r *jobRepository) Get(ctx context.Context, id types.JobID) (*model.CronJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, exists := r.jobs[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "job not found", goerr.V("jobID", id))
	}

	return copyJob(job), nil
}

func (r *jobRepository) Update(ctx context.Context, id types.JobID, patch *model.CronJobPatch) (*model.CronJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, exists := r.jobs[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "job not found", goerr.V("jobID", id))
	}

	if patch.Name != nil {
		job.Name = *patch.Name
	}
	if patch.Schedule != nil {
		job.Schedule = *patch.Schedule
	}
	if patch.SkillName != nil {
		job.SkillName = *patch.SkillName
	}
	if patch.Payload != nil {
		job.Payload = make(map[string]any, len(patch.Payload))
		for k, v := range patch.Payload {
			job.Payload[k] = v
		}
	}
	if patch.Enabled != nil {
		job.Enabled = *patch.Enabled
	}
	job.UpdatedAt = time.Now().UTC()

	return copyJob(job), nil
}

func (r *jobRepository) Delete(ctx context.Context, id types.JobID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[id]; !exists {
		return goerr.Wrap(ErrNotFound, "job not found", goerr.V("jobID", id))
	}

	delete(r.jobs, id)
	return nil
}

func (r *jobRepository) List(ctx context.Context) ([]*model.CronJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.CronJob, 0, len(r.jobs))
	for _, j := range r.jobs {
		result = append(result, copyJob(j))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func (r *jobRepository) RecordExecution(ctx context.Context, id types.JobID, status types.ResultStatus, durationMS int64, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, exists := r.jobs[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "job not found", goerr.V("jobID", id))
	}

	now := time.Now().UTC()
	job.LastRunAt = &now
	job.LastStatus = status
	job.LastDurationMS = durationMS
	job.LastError = errMsg
	job.TotalRuns++
	if status == types.ResultStatusFailed {
		job.TotalErrors++
	}

	return nil
}

func (r *jobRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.jobs), nil
}

package scheduler

import (
	"context"
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/interfaces"
	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Service decides which jobs are due at a given instant. It is a pure
// function of time plus the job store: it performs no dispatch itself.
type Service struct {
	jobs interfaces.JobRepository
}

// New creates a scheduler over the given job store
func New(jobs interfaces.JobRepository) *Service {
	return &Service{jobs: jobs}
}

// DueJobs returns all enabled jobs whose schedule matches now.
//
// Caller contract: invoke exactly once per minute boundary. Calling more
// often duplicates fires, calling less often misses them, and a skipped
// tick (cold start, redeploy) silently loses that run. This is an accepted
// limitation of the design: the tick source owns cadence, there is no
// de-duplication or missed-tick recovery here.
func (s *Service) DueJobs(ctx context.Context, now time.Time) ([]*model.CronJob, error) {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list jobs")
	}

	var due []*model.CronJob
	for _, job := range jobs {
		if !job.Enabled {
			continue
		}
		if MatchesCron(ctx, job.Schedule, now) {
			due = append(due, job)
		}
	}

	return due, nil
}

// RecordExecution updates the job's bookkeeping after one run. Pure
// bookkeeping: no retry logic lives here.
func (s *Service) RecordExecution(ctx context.Context, id types.JobID, status types.ResultStatus, durationMS int64, errMsg string) error {
	if err := s.jobs.RecordExecution(ctx, id, status, durationMS, errMsg); err != nil {
		return goerr.Wrap(err, "failed to record job execution", goerr.V("jobID", id))
	}
	return nil
}

// CreateJob stores a new job
func (s *Service) CreateJob(ctx context.Context, job *model.CronJob) (*model.CronJob, error) {
	created, err := s.jobs.Create(ctx, job)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create job")
	}

	logging.From(ctx).Info("cron job created",
		"jobID", created.ID, "name", created.Name, "schedule", created.Schedule, "skill", created.SkillName)
	return created, nil
}

// UpdateJob applies a partial patch to a job
func (s *Service) UpdateJob(ctx context.Context, id types.JobID, patch *model.CronJobPatch) (*model.CronJob, error) {
	updated, err := s.jobs.Update(ctx, id, patch)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update job", goerr.V("jobID", id))
	}
	return updated, nil
}

// DeleteJob removes a job
func (s *Service) DeleteJob(ctx context.Context, id types.JobID) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete job", goerr.V("jobID", id))
	}
	return nil
}

// GetJob retrieves a job by ID
func (s *Service) GetJob(ctx context.Context, id types.JobID) (*model.CronJob, error) {
	return s.jobs.Get(ctx, id)
}

// ListJobs retrieves all jobs
func (s *Service) ListJobs(ctx context.Context) ([]*model.CronJob, error) {
	return s.jobs.List(ctx)
}

// SeedDefaults installs the starter job set on first call only. Idempotency
// is decided by store occupancy, not a hidden flag: if any job exists the
// seed is a no-op.
func (s *Service) SeedDefaults(ctx context.Context, seeds []*model.CronJob) error {
	count, err := s.jobs.Count(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to count jobs")
	}
	if count > 0 {
		logging.From(ctx).Debug("job store already seeded", "jobs", count)
		return nil
	}

	for _, seed := range seeds {
		if _, err := s.jobs.Create(ctx, seed); err != nil {
			return goerr.Wrap(err, "failed to seed job", goerr.V("name", seed.Name))
		}
	}

	logging.From(ctx).Info("seeded default cron jobs", "jobs", len(seeds))
	return nil
}

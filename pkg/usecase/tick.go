package usecase

import (
	"context"
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Tick computes the jobs due at now and hands each to the queue transport.
// The external trigger is expected exactly once per minute boundary; a
// skipped tick silently loses that run, and a repeated tick inside the same
// minute fires jobs again. Neither is compensated here: the tick source
// owns cadence.
func (uc *UseCases) Tick(ctx context.Context, now time.Time) (*model.TickResult, error) {
	due, err := uc.Scheduler.DueJobs(ctx, now)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compute due jobs")
	}

	result := &model.TickResult{
		At:  now,
		Due: len(due),
	}

	for _, job := range due {
		outcome := model.TickJobOutcome{
			JobID:     job.ID,
			JobName:   job.Name,
			SkillName: job.SkillName,
		}

		if err := uc.enqueueJob(ctx, job); err != nil {
			outcome.Error = err.Error()
			logging.From(ctx).Error("failed to dispatch due job",
				"jobID", job.ID, "name", job.Name, "error", err)

			if recErr := uc.Scheduler.RecordExecution(ctx, job.ID, types.ResultStatusFailed, 0, err.Error()); recErr != nil {
				logging.From(ctx).Error("failed to record job dispatch failure",
					"jobID", job.ID, "error", recErr)
			}
		} else {
			outcome.Enqueued = true
		}

		result.Dispatched = append(result.Dispatched, outcome)
	}

	if len(due) > 0 {
		logging.From(ctx).Info("scheduler tick dispatched jobs",
			"at", now.Format(time.RFC3339), "due", len(due))
	}

	return result, nil
}

func (uc *UseCases) enqueueJob(ctx context.Context, job *model.CronJob) error {
	qj := model.NewQueueJob(job.SkillName, job.Payload, "cron:"+job.Name)
	qj.JobID = job.ID
	qj.JobName = job.Name

	if uc.queue == nil {
		// No transport configured: execute inline so the run is not lost
		res := uc.TriggerSkill(ctx, job.SkillName, job.Payload, types.TriggerKindCron, qj.Source)
		return uc.Scheduler.RecordExecution(ctx, job.ID, res.Status, res.DurationMS, res.Error)
	}

	return uc.queue.Enqueue(ctx, qj)
}

package model

import (
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// CronJob binds a 5-field cron expression to a skill and payload.
// The schedule is held as data; whether it ever fires is decided by the
// scheduler's matcher. A malformed schedule never matches and never errors.
type CronJob struct {
	ID        types.JobID
	Name      string
	Schedule  string
	SkillName string
	Payload   map[string]any
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time

	LastRunAt      *time.Time
	LastStatus     types.ResultStatus
	LastDurationMS int64
	LastError      string
	TotalRuns      int
	TotalErrors    int
}

// Validate checks the fields a job must carry to be dispatchable
func (j *CronJob) Validate() error {
	if j.Name == "" {
		return goerr.New("job name is required")
	}
	if j.Schedule == "" {
		return goerr.New("job schedule is required", goerr.V("name", j.Name))
	}
	if j.SkillName == "" {
		return goerr.New("job skill name is required", goerr.V("name", j.Name))
	}
	return nil
}

// CronJobPatch carries partial updates for a job. Nil fields are untouched.
type CronJobPatch struct {
	Name      *string
	Schedule  *string
	SkillName *string
	Payload   map[string]any
	Enabled   *bool
}

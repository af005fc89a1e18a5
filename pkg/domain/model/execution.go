package model

import (
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/types"
)

// ExecutionRecord is the audit record of one dispatch attempt. A record is
// appended for every attempt, including unknown-skill and validation
// failures, so the log covers misconfigured webhooks and jobs too.
type ExecutionRecord struct {
	ID         types.ExecutionID
	SkillName  string
	Context    *SkillContext
	Result     *SkillResult
	StartedAt  time.Time
	FinishedAt time.Time
}

package model

import (
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/types"
)

// QueueJob describes a deferred skill invocation handed to the queue
// transport. Delivery is at-least-once: the skill may observe duplicate
// logical invocations and must tolerate them.
type QueueJob struct {
	SkillName  string
	Payload    map[string]any
	Source     string
	EnqueuedAt time.Time

	// Attempt counts deliveries of this job, starting at 1
	Attempt int

	// JobID and JobName are set when the invocation originates from a cron
	// job, so the worker can record the outcome against the job
	JobID   types.JobID
	JobName string
}

// NewQueueJob builds a queue job for a deferred invocation
func NewQueueJob(skillName string, payload map[string]any, source string) *QueueJob {
	return &QueueJob{
		SkillName:  skillName,
		Payload:    payload,
		Source:     source,
		EnqueuedAt: time.Now().UTC(),
		Attempt:    1,
	}
}

// TickResult summarizes one scheduler tick
type TickResult struct {
	At         time.Time
	Due        int
	Dispatched []TickJobOutcome
}

// TickJobOutcome is the per-job outcome of a tick
type TickJobOutcome struct {
	JobID     types.JobID
	JobName   string
	SkillName string
	Enqueued  bool
	Error     string
}

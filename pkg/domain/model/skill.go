package model

import (
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/types"
)

// SkillMetadata is the static descriptor of a registered skill.
// It is immutable after registration.
type SkillMetadata struct {
	Name        string
	Version     string
	Description string
	Tags        []string
	Triggers    []types.TriggerKind
	// MaxDuration is advisory: the registry does not enforce it. The calling
	// boundary owns timeout and must convert it into a failed result.
	MaxDuration time.Duration
}

// SkillContext is the input of one skill invocation. It is created per call
// and never persisted on its own; the execution log keeps a copy.
type SkillContext struct {
	ExecutionID types.ExecutionID
	Payload     map[string]any
	TriggeredBy types.TriggerKind
	Source      string
	RequestedAt time.Time
}

// NewSkillContext builds a context for a fresh invocation
func NewSkillContext(payload map[string]any, triggeredBy types.TriggerKind, source string) *SkillContext {
	return &SkillContext{
		ExecutionID: types.NewExecutionID(),
		Payload:     payload,
		TriggeredBy: triggeredBy,
		Source:      source,
		RequestedAt: time.Now().UTC(),
	}
}

// SkillResult is the output of one skill invocation
type SkillResult struct {
	Success    bool
	Status     types.ResultStatus
	Message    string
	Data       map[string]any
	Error      string
	DurationMS int64
}

// NewSuccessResult builds a successful result
func NewSuccessResult(message string, data map[string]any) *SkillResult {
	return &SkillResult{
		Success: true,
		Status:  types.ResultStatusSuccess,
		Message: message,
		Data:    data,
	}
}

// NewFailedResult builds a failed result with the given error message
func NewFailedResult(message, errMsg string) *SkillResult {
	return &SkillResult{
		Success: false,
		Status:  types.ResultStatusFailed,
		Message: message,
		Error:   errMsg,
	}
}

// NewSkippedResult builds a result for an execution that declined to run
func NewSkippedResult(message string) *SkillResult {
	return &SkillResult{
		Success: true,
		Status:  types.ResultStatusSkipped,
		Message: message,
	}
}

// SkillStatus is a point-in-time health snapshot reported by the skill itself
type SkillStatus struct {
	Available bool
	Detail    string
}

// SkillHealth is the registry-computed health of a skill
type SkillHealth struct {
	SkillName  string
	State      types.HealthState
	TotalRuns  int
	ErrorCount int
	ErrorRate  float64
}

package interfaces

import (
	"context"

	"github.com/bottega-lab/maestro/pkg/domain/model"
)

// Skill is the contract every orchestrated capability implements.
// Anything wishing to be dispatched by the registry implements exactly
// these operations.
type Skill interface {
	// Metadata returns the static descriptor of the skill
	Metadata() model.SkillMetadata

	// Validate checks the invocation context before execution. It returns
	// an empty string when the context is acceptable, otherwise a human
	// readable reason. A non-empty reason becomes a failed result and the
	// skill is not executed.
	Validate(ctx context.Context, sctx *model.SkillContext) string

	// Execute performs the work. A returned error (or a panic) is caught at
	// the registry boundary and converted into a failed result; the caller
	// of the registry never observes it directly.
	Execute(ctx context.Context, sctx *model.SkillContext) (*model.SkillResult, error)

	// Status reports the skill's own point-in-time health snapshot
	Status() model.SkillStatus
}

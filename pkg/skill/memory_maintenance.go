package skill

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/interfaces"
	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/service/semantic"
	"github.com/bottega-lab/maestro/pkg/utils/logging"
)

// DefaultRetention is how long an entry that was never read survives
const DefaultRetention = 30 * 24 * time.Hour

// MemoryMaintenance prunes memory entries that were never accessed within
// the retention window. The registry does not serialize concurrent calls
// to the same skill, so this skill guards itself: a run that finds another
// in flight reports skipped instead of racing it.
type MemoryMaintenance struct {
	memory    *semantic.Service
	retention time.Duration
	inFlight  atomic.Bool
}

var _ interfaces.Skill = &MemoryMaintenance{}

// NewMemoryMaintenance creates the skill over the memory store
func NewMemoryMaintenance(memory *semantic.Service, retention time.Duration) *MemoryMaintenance {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &MemoryMaintenance{
		memory:    memory,
		retention: retention,
	}
}

func (s *MemoryMaintenance) Metadata() model.SkillMetadata {
	return model.SkillMetadata{
		Name:        NameMemoryMaintenance,
		Version:     "1.0.0",
		Description: "Prunes never-accessed memory entries past retention",
		Tags:        []string{"operations"},
		Triggers:    []types.TriggerKind{types.TriggerKindCron, types.TriggerKindManual},
		MaxDuration: 60 * time.Second,
	}
}

func (s *MemoryMaintenance) Validate(ctx context.Context, sctx *model.SkillContext) string {
	return ""
}

func (s *MemoryMaintenance) Execute(ctx context.Context, sctx *model.SkillContext) (*model.SkillResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return model.NewSkippedResult("maintenance already in progress"), nil
	}
	defer s.inFlight.Store(false)

	entries, err := s.memory.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().Add(-s.retention)
	pruned := 0
	for _, e := range entries {
		if e.AccessCount == 0 && e.CreatedAt.Before(cutoff) {
			if err := s.memory.Delete(ctx, e.ID); err != nil {
				logging.From(ctx).Warn("failed to prune memory entry",
					"memoryID", e.ID, "error", err)
				continue
			}
			pruned++
		}
	}

	return model.NewSuccessResult(
		fmt.Sprintf("pruned %d of %d entries", pruned, len(entries)),
		map[string]any{"pruned": pruned, "scanned": len(entries)},
	), nil
}

func (s *MemoryMaintenance) Status() model.SkillStatus {
	if s.inFlight.Load() {
		return model.SkillStatus{Available: true, Detail: "maintenance in progress"}
	}
	return model.SkillStatus{Available: true}
}

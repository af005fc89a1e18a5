package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/interfaces"
	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ErrSkillNotFound is returned by Get when no skill carries the name
var ErrSkillNotFound = goerr.New("skill not found")

// degradedErrorRate is the recent error rate above which a skill is degraded
const degradedErrorRate = 0.3

// healthWindow is the number of recent executions health is computed over
const healthWindow = 50

// Service is the single point of truth for what can run and what happened
// when it ran. Executions for different skills run fully independently;
// concurrent calls to the same skill are not serialized here. A skill that
// requires at-most-one-concurrent-execution must guard itself.
type Service struct {
	mu     sync.RWMutex
	skills map[string]interfaces.Skill

	log interfaces.ExecutionLog
}

// New creates a registry backed by the given execution log
func New(log interfaces.ExecutionLog) *Service {
	return &Service{
		skills: make(map[string]interfaces.Skill),
		log:    log,
	}
}

// Register inserts the skill into the catalog. Overwriting an existing name
// is allowed but logged as a warning; the last registration wins.
func (s *Service) Register(ctx context.Context, skill interfaces.Skill) {
	meta := skill.Metadata()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.skills[meta.Name]; exists {
		logging.From(ctx).Warn("overwriting registered skill",
			"skill", meta.Name, "version", meta.Version)
	}
	s.skills[meta.Name] = skill
}

// Get returns the skill registered under the name. Lookup failure is a
// checked result, never a nil skill.
func (s *Service) Get(name string) (interfaces.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skill, exists := s.skills[name]
	if !exists {
		return nil, goerr.Wrap(ErrSkillNotFound, "no such skill",
			goerr.V("skill", name), goerr.V("available", s.namesLocked()))
	}
	return skill, nil
}

// List returns the metadata of all registered skills, sorted by name
func (s *Service) List() []model.SkillMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.SkillMetadata, 0, len(s.skills))
	for _, skill := range s.skills {
		result = append(result, skill.Metadata())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

func (s *Service) namesLocked() []string {
	names := make([]string, 0, len(s.skills))
	for name := range s.skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute dispatches one invocation. It never returns a Go error and never
// panics: unknown names, validation rejections, execution errors and panics
// all become a failed SkillResult, and every attempt is appended to the
// execution log, most recent first.
func (s *Service) Execute(ctx context.Context, name string, sctx *model.SkillContext) *model.SkillResult {
	startedAt := time.Now().UTC()

	skill, err := s.Get(name)
	if err != nil {
		s.mu.RLock()
		available := s.namesLocked()
		s.mu.RUnlock()

		result := model.NewFailedResult(
			fmt.Sprintf("skill %q is not registered", name),
			fmt.Sprintf("unknown skill %q, available: %s", name, strings.Join(available, ", ")),
		)
		result.DurationMS = time.Since(startedAt).Milliseconds()
		s.record(ctx, name, sctx, result, startedAt)
		return result
	}

	if reason := skill.Validate(ctx, sctx); reason != "" {
		result := model.NewFailedResult("validation failed", reason)
		result.DurationMS = time.Since(startedAt).Milliseconds()
		s.record(ctx, name, sctx, result, startedAt)
		return result
	}

	result := s.run(ctx, skill, sctx)
	result.DurationMS = time.Since(startedAt).Milliseconds()
	s.record(ctx, name, sctx, result, startedAt)

	if result.Success {
		logging.From(ctx).Info("skill executed",
			"skill", name, "status", result.Status, "durationMS", result.DurationMS)
	} else {
		logging.From(ctx).Warn("skill execution failed",
			"skill", name, "error", result.Error, "durationMS", result.DurationMS)
	}

	return result
}

// run invokes the skill inside an error boundary. A returned error or a
// panic becomes a failed result with the message preserved; the stack is
// logged, not surfaced.
func (s *Service) run(ctx context.Context, skill interfaces.Skill, sctx *model.SkillContext) (result *model.SkillResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.From(ctx).Error("panic in skill execution",
				"skill", skill.Metadata().Name, "panic", r)
			result = model.NewFailedResult("execution panicked", fmt.Sprintf("%v", r))
		}
	}()

	result, err := skill.Execute(ctx, sctx)
	if err != nil {
		return model.NewFailedResult("execution failed", err.Error())
	}
	if result == nil {
		return model.NewFailedResult("execution failed", "skill returned no result")
	}
	return result
}

func (s *Service) record(ctx context.Context, name string, sctx *model.SkillContext, result *model.SkillResult, startedAt time.Time) {
	record := &model.ExecutionRecord{
		SkillName:  name,
		Context:    sctx,
		Result:     result,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
	}
	if sctx != nil {
		record.ID = sctx.ExecutionID
	}

	if err := s.log.Append(ctx, record); err != nil {
		logging.From(ctx).Error("failed to append execution record",
			"skill", name, "error", err)
	}
}

// Executions returns up to limit recent dispatch records, most recent
// first, optionally filtered to one skill
func (s *Service) Executions(ctx context.Context, limit int, skillName string) ([]*model.ExecutionRecord, error) {
	records, err := s.log.List(ctx, limit, skillName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list executions")
	}
	return records, nil
}

// Health computes the skill's health on demand from its recent executions:
// unknown if it never ran, degraded if the recent error rate exceeds 30%,
// healthy otherwise.
func (s *Service) Health(ctx context.Context, name string) (*model.SkillHealth, error) {
	if _, err := s.Get(name); err != nil {
		return nil, err
	}

	records, err := s.log.List(ctx, healthWindow, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list executions", goerr.V("skill", name))
	}

	health := &model.SkillHealth{
		SkillName: name,
		State:     types.HealthStateUnknown,
		TotalRuns: len(records),
	}
	if len(records) == 0 {
		return health, nil
	}

	for _, rec := range records {
		if rec.Result != nil && rec.Result.Status == types.ResultStatusFailed {
			health.ErrorCount++
		}
	}
	health.ErrorRate = float64(health.ErrorCount) / float64(len(records))

	if health.ErrorRate > degradedErrorRate {
		health.State = types.HealthStateDegraded
	} else {
		health.State = types.HealthStateHealthy
	}

	return health, nil
}

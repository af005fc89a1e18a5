package skill

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/interfaces"
	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/service/notify"
	"github.com/bottega-lab/maestro/pkg/service/registry"
	"golang.org/x/sync/errgroup"
)

// HealthReport aggregates skill health and notification stats into one
// notification
type HealthReport struct {
	registry *registry.Service
	notify   *notify.Service
	channel  types.Channel
}

var _ interfaces.Skill = &HealthReport{}

// NewHealthReport creates the skill. Reports go to the given channel, with
// the console fallback always recorded regardless.
func NewHealthReport(reg *registry.Service, n *notify.Service, channel types.Channel) *HealthReport {
	if !channel.IsValid() {
		channel = types.ChannelConsole
	}
	return &HealthReport{
		registry: reg,
		notify:   n,
		channel:  channel,
	}
}

func (s *HealthReport) Metadata() model.SkillMetadata {
	return model.SkillMetadata{
		Name:        NameHealthReport,
		Version:     "1.0.0",
		Description: "Sends an aggregate health and alerting summary",
		Tags:        []string{"operations"},
		Triggers:    []types.TriggerKind{types.TriggerKindCron, types.TriggerKindManual},
		MaxDuration: 30 * time.Second,
	}
}

func (s *HealthReport) Validate(ctx context.Context, sctx *model.SkillContext) string {
	return ""
}

func (s *HealthReport) Execute(ctx context.Context, sctx *model.SkillContext) (*model.SkillResult, error) {
	skills := s.registry.List()

	// Health is computed per skill from its execution history; collect the
	// snapshots concurrently and keep the sorted catalog order for the report
	snapshots := make([]*model.SkillHealth, len(skills))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, meta := range skills {
		eg.Go(func() error {
			health, err := s.registry.Health(egCtx, meta.Name)
			if err != nil {
				return nil
			}
			snapshots[i] = health
			return nil
		})
	}
	_ = eg.Wait()

	degraded := 0
	var lines []string
	for i, meta := range skills {
		health := snapshots[i]
		if health == nil {
			continue
		}
		if health.State == types.HealthStateDegraded {
			degraded++
		}
		lines = append(lines, fmt.Sprintf("%s: %s (%d runs, %d errors)",
			meta.Name, health.State, health.TotalRuns, health.ErrorCount))
	}

	severity := types.SeverityInfo
	if degraded > 0 {
		severity = types.SeverityWarning
	}

	stats, err := s.notify.Stats(ctx)
	if err != nil {
		return nil, err
	}

	message := strings.Join(lines, "\n")
	s.notify.Send(ctx,
		fmt.Sprintf("Health report: %d skills, %d degraded", len(skills), degraded),
		message,
		severity,
		s.channel,
		map[string]any{
			"skills":              len(skills),
			"degraded":            degraded,
			"failedNotifications": stats.Failed,
		},
	)

	return model.NewSuccessResult(
		fmt.Sprintf("reported on %d skills", len(skills)),
		map[string]any{"skills": len(skills), "degraded": degraded},
	), nil
}

func (s *HealthReport) Status() model.SkillStatus {
	return model.SkillStatus{Available: true}
}

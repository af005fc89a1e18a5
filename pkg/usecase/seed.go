package usecase

import (
	"context"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/skill"
	"github.com/bottega-lab/maestro/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultSeedJobs is the fixed starter job set installed on first
// initialization
func DefaultSeedJobs() []*model.CronJob {
	return []*model.CronJob{
		{
			Name:      "nightly-memory-maintenance",
			Schedule:  "0 3 * * *",
			SkillName: skill.NameMemoryMaintenance,
			Enabled:   true,
		},
		{
			Name:      "weekly-health-report",
			Schedule:  "0 8 * * 1",
			SkillName: skill.NameHealthReport,
			Enabled:   true,
		},
	}
}

// DefaultSeedHooks is the fixed starter hook set installed on first
// initialization
func DefaultSeedHooks() []*model.Hook {
	return []*model.Hook{
		{
			Event:     types.EventProductCreated,
			SkillName: skill.NameProductEnrichment,
			Enabled:   true,
			Priority:  10,
		},
		{
			Event:     types.EventProductUpdated,
			SkillName: skill.NameProductEnrichment,
			Enabled:   true,
			Priority:  10,
		},
	}
}

// Initialize installs the seed jobs and hooks. It is idempotent by store
// occupancy: a store that already holds entries is left untouched, so
// repeated startup never duplicates the starter set. Extra seeds from
// configuration are appended to the defaults.
func (uc *UseCases) Initialize(ctx context.Context, extraJobs []*model.CronJob, extraHooks []*model.Hook) error {
	seedJobs := append(DefaultSeedJobs(), extraJobs...)
	if err := uc.Scheduler.SeedDefaults(ctx, seedJobs); err != nil {
		return goerr.Wrap(err, "failed to seed jobs")
	}

	count, err := uc.repo.Hooks().Count(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to count hooks")
	}
	if count > 0 {
		logging.From(ctx).Debug("hook store already seeded", "hooks", count)
		return nil
	}

	seedHooks := append(DefaultSeedHooks(), extraHooks...)
	for _, h := range seedHooks {
		if _, err := uc.Hooks.RegisterHook(ctx, h); err != nil {
			return goerr.Wrap(err, "failed to seed hook", goerr.V("event", h.Event))
		}
	}

	logging.From(ctx).Info("seeded default hooks", "hooks", len(seedHooks))
	return nil
}

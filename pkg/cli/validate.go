package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/bottega-lab/maestro/pkg/cli/config"
	"github.com/bottega-lab/maestro/pkg/utils/logging"
)

func cmdValidate() *cli.Command {
	var seedCfg config.Seed

	var flags []cli.Flag
	flags = append(flags, seedCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a seed configuration file",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			if seedCfg.Path() == "" {
				return goerr.New("no seed config specified, use --seed-config")
			}

			seed, err := config.LoadSeedConfig(seedCfg.Path())
			if err != nil {
				return goerr.Wrap(err, "seed config validation failed")
			}

			logger.Info("Seed config validation passed",
				"path", seedCfg.Path(),
				"jobs", len(seed.Jobs),
				"hooks", len(seed.Hooks),
			)
			for _, j := range seed.Jobs {
				logger.Info("Job validated",
					"name", j.Name,
					"schedule", j.Schedule,
					"skill", j.Skill,
				)
			}
			for _, h := range seed.Hooks {
				logger.Info("Hook validated",
					"event", h.Event,
					"skill", h.Skill,
					"priority", h.Priority,
				)
			}

			return nil
		},
	}
}

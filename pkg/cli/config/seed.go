package config

import (
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
)

// Seed locates the optional TOML seed file with extra jobs and hooks
type Seed struct {
	path string
}

func (x *Seed) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "seed-config",
			Usage:       "Path to a TOML file with extra seed jobs and hooks",
			Category:    "Seed",
			Sources:     cli.EnvVars("MAESTRO_SEED_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Path returns the configured file path, empty when unset
func (x *Seed) Path() string {
	return x.path
}

// SeedConfig is the parsed seed file
type SeedConfig struct {
	Jobs  []SeedJob  `toml:"job"`
	Hooks []SeedHook `toml:"hook"`
}

// SeedJob is one extra cron job from configuration
type SeedJob struct {
	Name     string         `toml:"name"`
	Schedule string         `toml:"schedule"`
	Skill    string         `toml:"skill"`
	Payload  map[string]any `toml:"payload"`
	Enabled  *bool          `toml:"enabled"`
}

// Validate checks if the SeedJob is valid. Schedules are validated
// strictly here: at runtime a malformed schedule fails closed without an
// error, but a config file carrying one is a mistake worth rejecting.
func (j *SeedJob) Validate() error {
	if j.Name == "" {
		return goerr.New("job name is required")
	}
	if j.Skill == "" {
		return goerr.New("job skill is required", goerr.V("name", j.Name))
	}
	if fields := strings.Fields(j.Schedule); len(fields) != 5 {
		return goerr.New("job schedule must have exactly 5 fields",
			goerr.V("name", j.Name), goerr.V("schedule", j.Schedule))
	}
	return nil
}

// Model converts the seed entry to a CronJob
func (j *SeedJob) Model() *model.CronJob {
	enabled := true
	if j.Enabled != nil {
		enabled = *j.Enabled
	}
	return &model.CronJob{
		Name:      j.Name,
		Schedule:  j.Schedule,
		SkillName: j.Skill,
		Payload:   j.Payload,
		Enabled:   enabled,
	}
}

// SeedHook is one extra hook from configuration
type SeedHook struct {
	Event    string         `toml:"event"`
	Skill    string         `toml:"skill"`
	Payload  map[string]any `toml:"payload"`
	Enabled  *bool          `toml:"enabled"`
	Priority int            `toml:"priority"`
}

// Validate checks if the SeedHook is valid
func (h *SeedHook) Validate() error {
	if h.Event == "" {
		return goerr.New("hook event is required")
	}
	if h.Skill == "" {
		return goerr.New("hook skill is required", goerr.V("event", h.Event))
	}
	return nil
}

// Model converts the seed entry to a Hook
func (h *SeedHook) Model() *model.Hook {
	enabled := true
	if h.Enabled != nil {
		enabled = *h.Enabled
	}
	return &model.Hook{
		Event:     types.EventName(h.Event),
		SkillName: h.Skill,
		Payload:   h.Payload,
		Enabled:   enabled,
		Priority:  h.Priority,
	}
}

// Validate checks if the SeedConfig is valid
func (c *SeedConfig) Validate() error {
	names := make(map[string]bool)
	for i := range c.Jobs {
		if err := c.Jobs[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid job")
		}
		if names[c.Jobs[i].Name] {
			return goerr.New("duplicate job name", goerr.V("name", c.Jobs[i].Name))
		}
		names[c.Jobs[i].Name] = true
	}

	for i := range c.Hooks {
		if err := c.Hooks[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid hook")
		}
	}

	return nil
}

// JobModels converts all seed jobs
func (c *SeedConfig) JobModels() []*model.CronJob {
	jobs := make([]*model.CronJob, 0, len(c.Jobs))
	for i := range c.Jobs {
		jobs = append(jobs, c.Jobs[i].Model())
	}
	return jobs
}

// HookModels converts all seed hooks
func (c *SeedConfig) HookModels() []*model.Hook {
	hooks := make([]*model.Hook, 0, len(c.Hooks))
	for i := range c.Hooks {
		hooks = append(hooks, c.Hooks[i].Model())
	}
	return hooks
}

// LoadSeedConfig reads and validates a seed file
func LoadSeedConfig(path string) (*SeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read seed config", goerr.V("path", path))
	}

	var cfg SeedConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse seed config", goerr.V("path", path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid seed config", goerr.V("path", path))
	}

	return &cfg, nil
}

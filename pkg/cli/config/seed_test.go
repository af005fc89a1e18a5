package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/bottega-lab/maestro/pkg/cli/config"
	"github.com/bottega-lab/maestro/pkg/domain/types"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadSeedConfig(t *testing.T) {
	t.Run("valid file parses into models", func(t *testing.T) {
		path := writeSeed(t, `
[[job]]
name = "daily-digest"
schedule = "0 9 * * *"
skill = "health-report"

[[job]]
name = "disabled-job"
schedule = "*/5 * * * *"
skill = "memory-maintenance"
enabled = false

[[hook]]
event = "order.created"
skill = "product-enrichment"
priority = 5

[hook.payload]
mode = "fast"
`)

		seed, err := config.LoadSeedConfig(path)
		gt.NoError(t, err).Required()

		jobs := seed.JobModels()
		gt.Array(t, jobs).Length(2)
		gt.Value(t, jobs[0].Name).Equal("daily-digest")
		gt.Value(t, jobs[0].SkillName).Equal("health-report")
		gt.Bool(t, jobs[0].Enabled).True()
		gt.Bool(t, jobs[1].Enabled).False()

		hooks := seed.HookModels()
		gt.Array(t, hooks).Length(1)
		gt.Value(t, hooks[0].Event).Equal(types.EventOrderCreated)
		gt.Number(t, hooks[0].Priority).Equal(5)
		gt.Value(t, hooks[0].Payload["mode"]).Equal("fast")
	})

	t.Run("malformed schedule is rejected at load time", func(t *testing.T) {
		path := writeSeed(t, `
[[job]]
name = "bad"
schedule = "* * * *"
skill = "health-report"
`)

		_, err := config.LoadSeedConfig(path)
		gt.Value(t, err).NotNil()
	})

	t.Run("duplicate job names are rejected", func(t *testing.T) {
		path := writeSeed(t, `
[[job]]
name = "twice"
schedule = "0 1 * * *"
skill = "a"

[[job]]
name = "twice"
schedule = "0 2 * * *"
skill = "b"
`)

		_, err := config.LoadSeedConfig(path)
		gt.Value(t, err).NotNil()
	})

	t.Run("hook without skill is rejected", func(t *testing.T) {
		path := writeSeed(t, `
[[hook]]
event = "product.created"
`)

		_, err := config.LoadSeedConfig(path)
		gt.Value(t, err).NotNil()
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := config.LoadSeedConfig(filepath.Join(t.TempDir(), "absent.toml"))
		gt.Value(t, err).NotNil()
	})

	t.Run("invalid TOML is an error", func(t *testing.T) {
		path := writeSeed(t, "[[job]\nname = broken")
		_, err := config.LoadSeedConfig(path)
		gt.Value(t, err).NotNil()
	})
}

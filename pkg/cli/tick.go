package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/bottega-lab/maestro/pkg/cli/config"
	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/repository/memory"
	"github.com/bottega-lab/maestro/pkg/service/notify"
	"github.com/bottega-lab/maestro/pkg/skill"
	"github.com/bottega-lab/maestro/pkg/usecase"
	"github.com/bottega-lab/maestro/pkg/utils/logging"
)

func cmdTick() *cli.Command {
	var server string
	var at string
	var local bool
	var seedCfg config.Seed

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "server",
			Usage:       "Base URL of the running maestro server",
			Value:       "http://localhost:8080",
			Sources:     cli.EnvVars("MAESTRO_SERVER"),
			Destination: &server,
		},
		&cli.StringFlag{
			Name:        "at",
			Usage:       "Evaluate schedules as of this RFC3339 instant instead of now",
			Destination: &at,
		},
		&cli.BoolFlag{
			Name:        "local",
			Usage:       "Evaluate schedules in-process from the seed config instead of calling a server",
			Destination: &local,
		},
	}
	flags = append(flags, seedCfg.Flags()...)

	return &cli.Command{
		Name:  "tick",
		Usage: "Evaluate cron schedules once, against a running server or in-process",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if local {
				return tickLocal(ctx, seedCfg, at)
			}

			endpoint, err := url.JoinPath(server, "/api/tick")
			if err != nil {
				return goerr.Wrap(err, "invalid server URL", goerr.V("server", server))
			}
			if at != "" {
				if _, err := time.Parse(time.RFC3339, at); err != nil {
					return goerr.Wrap(err, "invalid --at instant", goerr.V("at", at))
				}
				endpoint += "?at=" + url.QueryEscape(at)
			}

			body, err := postJSON(ctx, endpoint, nil)
			if err != nil {
				return err
			}

			var result struct {
				At         time.Time
				Due        int
				Dispatched []struct {
					JobName   string
					SkillName string
					Enqueued  bool
					Error     string
				}
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return goerr.Wrap(err, "failed to decode tick response")
			}

			logger := logging.Default()
			logger.Info("Tick completed", "at", result.At, "due", result.Due)
			for _, d := range result.Dispatched {
				logger.Info("Job dispatched",
					"job", d.JobName,
					"skill", d.SkillName,
					"enqueued", d.Enqueued,
					"error", d.Error,
				)
			}
			return nil
		},
	}
}

// tickLocal evaluates one tick against a freshly seeded in-process stack,
// for cron-driven hosts that do not keep a server running. Skills execute
// inline because no queue transport is attached.
func tickLocal(ctx context.Context, seedCfg config.Seed, at string) error {
	now := time.Now().UTC()
	if at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return goerr.Wrap(err, "invalid --at instant", goerr.V("at", at))
		}
		now = parsed
	}

	repo := memory.New()
	notifySvc := notify.New(repo.Notifications())
	uc := usecase.New(repo, usecase.WithNotify(notifySvc))

	uc.Registry.Register(ctx, skill.NewProductEnrichment(uc.Memory))
	uc.Registry.Register(ctx, skill.NewMemoryMaintenance(uc.Memory, skill.DefaultRetention))
	uc.Registry.Register(ctx, skill.NewHealthReport(uc.Registry, notifySvc, types.ChannelConsole))

	var extraJobs []*model.CronJob
	var extraHooks []*model.Hook
	if seedCfg.Path() != "" {
		seed, err := config.LoadSeedConfig(seedCfg.Path())
		if err != nil {
			return goerr.Wrap(err, "failed to load seed config")
		}
		extraJobs = seed.JobModels()
		extraHooks = seed.HookModels()
	}
	if err := uc.Initialize(ctx, extraJobs, extraHooks); err != nil {
		return goerr.Wrap(err, "failed to seed jobs and hooks")
	}

	result, err := uc.Tick(ctx, now)
	if err != nil {
		return goerr.Wrap(err, "tick failed")
	}

	logger := logging.Default()
	logger.Info("Tick completed", "at", result.At, "due", result.Due)
	for _, d := range result.Dispatched {
		logger.Info("Job dispatched",
			"job", d.JobName,
			"skill", d.SkillName,
			"enqueued", d.Enqueued,
			"error", d.Error,
		)
	}
	return nil
}

// postJSON sends a POST with an optional JSON body and returns the
// response body. Non-2xx statuses become errors carrying the body.
func postJSON(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reqBody)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build request", goerr.V("endpoint", endpoint))
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "request failed", goerr.V("endpoint", endpoint))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, goerr.New("server returned an error",
			goerr.V("endpoint", endpoint),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
		)
	}
	return body, nil
}

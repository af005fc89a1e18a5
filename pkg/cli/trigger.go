package cli

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/bottega-lab/maestro/pkg/utils/logging"
)

func cmdTrigger() *cli.Command {
	var server string
	var payload string
	var async bool

	return &cli.Command{
		Name:      "trigger",
		Usage:     "Trigger a skill on a running server",
		ArgsUsage: "<skill-name>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "server",
				Usage:       "Base URL of the running maestro server",
				Value:       "http://localhost:8080",
				Sources:     cli.EnvVars("MAESTRO_SERVER"),
				Destination: &server,
			},
			&cli.StringFlag{
				Name:        "payload",
				Usage:       "Skill payload as a JSON object",
				Value:       "{}",
				Destination: &payload,
			},
			&cli.BoolFlag{
				Name:        "async",
				Usage:       "Enqueue the invocation instead of waiting for the result",
				Destination: &async,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			name := c.Args().First()
			if name == "" {
				return goerr.New("skill name is required")
			}

			var payloadMap map[string]any
			if err := json.Unmarshal([]byte(payload), &payloadMap); err != nil {
				return goerr.Wrap(err, "payload must be a JSON object", goerr.V("payload", payload))
			}

			path := "/api/skills/" + url.PathEscape(name) + "/trigger"
			if async {
				path += "-async"
			}
			endpoint, err := url.JoinPath(server, path)
			if err != nil {
				return goerr.Wrap(err, "invalid server URL", goerr.V("server", server))
			}

			reqBody, err := json.Marshal(map[string]any{
				"payload": payloadMap,
				"source":  "cli",
			})
			if err != nil {
				return goerr.Wrap(err, "failed to encode trigger request")
			}

			body, err := postJSON(ctx, endpoint, reqBody)
			if err != nil {
				return err
			}

			logger := logging.Default()
			if async {
				logger.Info("Skill enqueued", "skill", name)
				return nil
			}

			var result struct {
				Status     string
				Message    string
				DurationMS int64
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return goerr.Wrap(err, "failed to decode trigger response")
			}

			logger.Info("Skill executed",
				"skill", name,
				"status", result.Status,
				"message", result.Message,
				"durationMS", result.DurationMS,
			)
			return nil
		},
	}
}

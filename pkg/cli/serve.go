package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/bottega-lab/maestro/pkg/cli/config"
	httpctrl "github.com/bottega-lab/maestro/pkg/controller/http"
	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/repository/memory"
	"github.com/bottega-lab/maestro/pkg/service/notify"
	"github.com/bottega-lab/maestro/pkg/service/worker"
	"github.com/bottega-lab/maestro/pkg/skill"
	"github.com/bottega-lab/maestro/pkg/usecase"
	"github.com/bottega-lab/maestro/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var webhookSecret string
	var internalTicker bool
	var slackCfg config.Slack
	var seedCfg config.Seed
	var queueCfg config.Queue

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("MAESTRO_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "webhook-secret",
			Usage:       "Shared secret for commerce webhook signature verification",
			Category:    "Webhook",
			Sources:     cli.EnvVars("MAESTRO_WEBHOOK_SECRET"),
			Destination: &webhookSecret,
		},
		&cli.BoolFlag{
			Name:        "internal-ticker",
			Usage:       "Run the minute-aligned scheduler ticker inside the process instead of relying on an external cron hitting /api/tick",
			Value:       true,
			Sources:     cli.EnvVars("MAESTRO_INTERNAL_TICKER"),
			Destination: &internalTicker,
		},
	}

	// Add shared config flags
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, seedCfg.Flags()...)
	flags = append(flags, queueCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo := memory.New()

			// Notification fan-out. Console delivery always works; Slack is
			// attached only when a bot token and channel are configured.
			var notifyOpts []notify.Option
			if slackCfg.Configured() {
				sender, err := slackCfg.NewSender()
				if err != nil {
					return goerr.Wrap(err, "failed to configure Slack sender")
				}
				notifyOpts = append(notifyOpts, notify.WithRemote(sender))
				logging.Default().Info("Slack notification channel enabled")
			} else {
				logging.Default().Info("Slack not configured, notifications use console only")
			}
			notifySvc := notify.New(repo.Notifications(), notifyOpts...)

			uc := usecase.New(repo, usecase.WithNotify(notifySvc))

			// The queue delivers into the gateway, so it is attached after
			// construction.
			q := queueCfg.New(uc.HandleQueueJob)
			uc.AttachQueue(q)

			// Built-in skills
			uc.Registry.Register(ctx, skill.NewProductEnrichment(uc.Memory))
			uc.Registry.Register(ctx, skill.NewMemoryMaintenance(uc.Memory, skill.DefaultRetention))
			uc.Registry.Register(ctx, skill.NewHealthReport(uc.Registry, notifySvc, types.ChannelConsole))

			// Seed jobs and hooks, defaults plus whatever the seed config adds
			var extraJobs []*model.CronJob
			var extraHooks []*model.Hook
			if seedCfg.Path() != "" {
				seed, err := config.LoadSeedConfig(seedCfg.Path())
				if err != nil {
					return goerr.Wrap(err, "failed to load seed config")
				}
				extraJobs = seed.JobModels()
				extraHooks = seed.HookModels()
				logging.Default().Info("Loaded seed config",
					"path", seedCfg.Path(),
					"jobs", len(extraJobs),
					"hooks", len(extraHooks),
				)
			}
			if err := uc.Initialize(ctx, extraJobs, extraHooks); err != nil {
				return goerr.Wrap(err, "failed to seed jobs and hooks")
			}

			if err := q.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start queue transport")
			}
			defer q.Stop()

			var ticker *worker.SchedulerTicker
			if internalTicker {
				ticker = worker.NewSchedulerTicker(uc)
				if err := ticker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start scheduler ticker")
				}
			}

			// Create HTTP server
			var httpOpts []httpctrl.Options
			if webhookSecret != "" {
				httpOpts = append(httpOpts, httpctrl.WithWebhookSecret(webhookSecret))
				logging.Default().Info("Webhook signature verification enabled")
			} else {
				logging.Default().Warn("Webhook secret not configured, commerce webhooks are rejected")
			}
			srv := httpctrl.New(uc, httpOpts...)
			server := &http.Server{
				Addr:              addr,
				Handler:           srv,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if ticker != nil {
					ticker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

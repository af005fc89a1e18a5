package worker

import (
	"context"
	"time"

	"github.com/bottega-lab/maestro/pkg/usecase"
	"github.com/bottega-lab/maestro/pkg/utils/logging"
)

// SchedulerTicker drives the gateway tick from inside the process, aligned
// to minute boundaries, for deployments without an external cron trigger.
//
// Architecture assumptions:
// - Single server instance (no distributed locking); two instances with
//   the internal ticker enabled would double-fire every job
// - A tick missed while the process is down is lost, consistent with the
//   scheduler's no-catch-up contract
type SchedulerTicker struct {
	uc     *usecase.UseCases
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewSchedulerTicker creates a ticker over the gateway
func NewSchedulerTicker(uc *usecase.UseCases) *SchedulerTicker {
	return &SchedulerTicker{
		uc:     uc,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins the tick loop in a background goroutine. It does not block
// server startup.
func (w *SchedulerTicker) Start(ctx context.Context) error {
	logging.Default().Info("scheduler ticker starting")

	go w.run(ctx)

	return nil
}

// Stop signals the ticker to stop and waits for completion
func (w *SchedulerTicker) Stop() {
	logging.Default().Info("scheduler ticker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("scheduler ticker stopped")
}

// run sleeps to the next minute boundary, then ticks once per minute
func (w *SchedulerTicker) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		now := time.Now()
		next := now.Truncate(time.Minute).Add(time.Minute)

		select {
		case <-time.After(next.Sub(now)):
			if _, err := w.uc.Tick(ctx, next.UTC()); err != nil {
				// Log and keep ticking; one failed tick must not stop the loop
				logging.Default().Error("scheduler tick failed", "error", err.Error())
			}

		case <-w.stopCh:
			logging.Default().Info("scheduler ticker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("scheduler ticker context cancelled")
			return
		}
	}
}

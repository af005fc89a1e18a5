package config_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"

	"github.com/bottega-lab/maestro/pkg/cli/config"
	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/queue"
)

func TestQueueFlags(t *testing.T) {
	ctx := context.Background()
	noop := func(ctx context.Context, job *model.QueueJob) error { return nil }

	t.Run("flag values reach the transport", func(t *testing.T) {
		var qc config.Queue
		var q *queue.InProcess

		cmd := &cli.Command{
			Name:  "test",
			Flags: qc.Flags(),
			Action: func(ctx context.Context, c *cli.Command) error {
				q = qc.New(noop)
				return nil
			},
		}
		err := cmd.Run(ctx, []string{"test",
			"--queue-capacity", "1",
			"--queue-workers", "1",
			"--queue-max-attempts", "2",
			"--queue-retry-backoff", "1ms",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, q).NotNil()

		// Capacity 1 took effect: an unstarted queue rejects the second job
		gt.NoError(t, q.Enqueue(ctx, model.NewQueueJob("first", nil, "test")))
		gt.Error(t, q.Enqueue(ctx, model.NewQueueJob("second", nil, "test"))).Is(queue.ErrQueueFull)
	})

	t.Run("defaults apply without flags", func(t *testing.T) {
		var qc config.Queue
		var q *queue.InProcess

		cmd := &cli.Command{
			Name:  "test",
			Flags: qc.Flags(),
			Action: func(ctx context.Context, c *cli.Command) error {
				q = qc.New(noop)
				return nil
			},
		}
		gt.NoError(t, cmd.Run(ctx, []string{"test"})).Required()

		for i := 0; i < queue.DefaultCapacity; i++ {
			gt.NoError(t, q.Enqueue(ctx, model.NewQueueJob("fill", nil, "test")))
		}
		gt.Error(t, q.Enqueue(ctx, model.NewQueueJob("overflow", nil, "test"))).Is(queue.ErrQueueFull)
	})
}

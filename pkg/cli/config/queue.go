package config

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/bottega-lab/maestro/pkg/domain/interfaces"
	"github.com/bottega-lab/maestro/pkg/queue"
)

// Queue configures the in-process queue transport
type Queue struct {
	capacity    int
	workers     int
	maxAttempts int
	backoff     time.Duration
}

func (x *Queue) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "queue-capacity",
			Usage:       "Backlog capacity of the in-process queue",
			Category:    "Queue",
			Value:       queue.DefaultCapacity,
			Sources:     cli.EnvVars("MAESTRO_QUEUE_CAPACITY"),
			Destination: &x.capacity,
		},
		&cli.IntFlag{
			Name:        "queue-workers",
			Usage:       "Number of queue delivery workers",
			Category:    "Queue",
			Value:       2,
			Sources:     cli.EnvVars("MAESTRO_QUEUE_WORKERS"),
			Destination: &x.workers,
		},
		&cli.IntFlag{
			Name:        "queue-max-attempts",
			Usage:       "Delivery attempts before a job is given up",
			Category:    "Queue",
			Value:       queue.DefaultMaxAttempts,
			Sources:     cli.EnvVars("MAESTRO_QUEUE_MAX_ATTEMPTS"),
			Destination: &x.maxAttempts,
		},
		&cli.DurationFlag{
			Name:        "queue-retry-backoff",
			Usage:       "Base delay between delivery retries",
			Category:    "Queue",
			Value:       queue.DefaultRetryBackoff,
			Sources:     cli.EnvVars("MAESTRO_QUEUE_RETRY_BACKOFF"),
			Destination: &x.backoff,
		},
	}
}

// New builds the transport from the flags
func (x *Queue) New(handler interfaces.QueueHandler) *queue.InProcess {
	return queue.New(handler,
		queue.WithCapacity(x.capacity),
		queue.WithWorkers(x.workers),
		queue.WithMaxAttempts(x.maxAttempts),
		queue.WithRetryBackoff(x.backoff),
	)
}

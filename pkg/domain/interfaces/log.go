package interfaces

import (
	"context"

	"github.com/bottega-lab/maestro/pkg/domain/model"
)

// ExecutionLog defines the interface for the bounded execution history.
// Entries are kept most-recent-first and the oldest entries are evicted
// once the capacity is reached.
type ExecutionLog interface {
	// Append records one dispatch attempt
	Append(ctx context.Context, record *model.ExecutionRecord) error

	// List returns up to limit records, most recent first. An empty
	// skillName returns records for all skills; limit <= 0 returns all
	// retained records.
	List(ctx context.Context, limit int, skillName string) ([]*model.ExecutionRecord, error)
}

// NotificationLog defines the interface for the bounded notification history
type NotificationLog interface {
	// Append records one send attempt
	Append(ctx context.Context, n *model.Notification) error

	// List returns up to limit notifications, most recent first
	List(ctx context.Context, limit int) ([]*model.Notification, error)

	// Stats aggregates the retained history
	Stats(ctx context.Context) (*model.NotificationStats, error)
}

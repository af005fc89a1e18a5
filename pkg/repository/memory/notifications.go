package memory

import (
	"context"
	"sync"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
)

// notificationLogCapacity bounds the retained notification history
const notificationLogCapacity = 200

type notificationLog struct {
	mu       sync.RWMutex
	records  []*model.Notification
	capacity int
}

func newNotificationLog(capacity int) *notificationLog {
	return &notificationLog{
		capacity: capacity,
	}
}

func copyNotification(n *model.Notification) *model.Notification {
	copied := *n
	if n.Metadata != nil {
		copied.Metadata = make(map[string]any, len(n.Metadata))
		for k, v := range n.Metadata {
			copied.Metadata[k] = v
		}
	}
	return &copied
}

func (l *notificationLog) Append(ctx context.Context, n *model.Notification) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append([]*model.Notification{copyNotification(n)}, l.records...)
	if len(l.records) > l.capacity {
		l.records = l.records[:l.capacity]
	}

	return nil
}

func (l *notificationLog) List(ctx context.Context, limit int) ([]*model.Notification, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	count := len(l.records)
	if limit > 0 && limit < count {
		count = limit
	}

	result := make([]*model.Notification, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, copyNotification(l.records[i]))
	}

	return result, nil
}

func (l *notificationLog) Stats(ctx context.Context) (*model.NotificationStats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := &model.NotificationStats{
		Total:      len(l.records),
		BySeverity: make(map[types.Severity]int),
		ByChannel:  make(map[types.Channel]int),
	}
	for _, n := range l.records {
		stats.BySeverity[n.Severity]++
		stats.ByChannel[n.Channel]++
		if !n.Success {
			stats.Failed++
		}
	}

	return stats, nil
}

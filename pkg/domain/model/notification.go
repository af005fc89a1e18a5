package model

import (
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/types"
)

// Notification is the record of one send attempt. A record is appended for
// every attempt; remote channel failures are captured in Success/Error and
// never propagate as errors.
type Notification struct {
	ID       types.NotificationID
	Title    string
	Message  string
	Severity types.Severity
	Channel  types.Channel
	Metadata map[string]any
	SentAt   time.Time
	Success  bool
	Error    string
}

// NotificationStats aggregates the notification history on demand
type NotificationStats struct {
	Total      int
	BySeverity map[types.Severity]int
	ByChannel  map[types.Channel]int
	Failed     int
}

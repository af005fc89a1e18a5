package interfaces

import (
	"context"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
)

// Notifier sends best-effort alerts. Send never returns an error: a local
// record is always produced and remote channel failures are captured on it.
type Notifier interface {
	Send(ctx context.Context, title, message string, severity types.Severity, channel types.Channel, metadata map[string]any) *model.Notification
}

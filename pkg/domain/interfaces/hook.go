package interfaces

import (
	"context"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
)

// HookRepository defines the interface for Hook persistence
type HookRepository interface {
	// Create stores a new hook, assigning ID, sequence and timestamps
	Create(ctx context.Context, hook *model.Hook) (*model.Hook, error)

	// Get retrieves a hook by ID
	Get(ctx context.Context, id types.HookID) (*model.Hook, error)

	// Update applies a partial patch to a hook
	Update(ctx context.Context, id types.HookID, patch *model.HookPatch) (*model.Hook, error)

	// Delete removes a hook by ID
	Delete(ctx context.Context, id types.HookID) error

	// List retrieves all hooks in registration order
	List(ctx context.Context) ([]*model.Hook, error)

	// ListByEvent retrieves all hooks bound to the event name, in
	// registration order, including disabled ones
	ListByEvent(ctx context.Context, event types.EventName) ([]*model.Hook, error)

	// Count returns the number of stored hooks
	Count(ctx context.Context) (int, error)
}

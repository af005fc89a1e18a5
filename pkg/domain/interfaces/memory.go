package interfaces

import (
	"context"
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
)

// MemoryRepository defines the interface for MemoryEntry persistence.
// Similarity scoring lives in the semantic service; this layer stores
// entries and tracks access.
type MemoryRepository interface {
	// Create stores a new memory entry
	Create(ctx context.Context, entry *model.MemoryEntry) (*model.MemoryEntry, error)

	// Get retrieves a memory entry by ID
	Get(ctx context.Context, id types.MemoryID) (*model.MemoryEntry, error)

	// Delete removes a memory entry by ID
	Delete(ctx context.Context, id types.MemoryID) error

	// List retrieves entries, optionally filtered by namespace, newest first
	List(ctx context.Context, namespace *types.Namespace) ([]*model.MemoryEntry, error)

	// Touch increments AccessCount and refreshes LastAccessedAt for the
	// given entries. Search is not read-only by design: every hit is
	// recorded through this method.
	Touch(ctx context.Context, ids []types.MemoryID, at time.Time) error

	// Stats summarizes the store contents
	Stats(ctx context.Context) (*model.MemoryStats, error)
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type memoryRepository struct {
	mu      sync.RWMutex
	entries map[types.MemoryID]*model.MemoryEntry
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		entries: make(map[types.MemoryID]*model.MemoryEntry),
	}
}

func copyEntry(e *model.MemoryEntry) *model.MemoryEntry {
	copied := *e
	if e.Metadata != nil {
		copied.Metadata = make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			copied.Metadata[k] = v
		}
	}
	if e.Tags != nil {
		copied.Tags = make([]string, len(e.Tags))
		copy(copied.Tags, e.Tags)
	}
	if e.Embedding != nil {
		copied.Embedding = make([]float64, len(e.Embedding))
		copy(copied.Embedding, e.Embedding)
	}
	return &copied
}

func (r *memoryRepository) Create(ctx context.Context, entry *model.MemoryEntry) (*model.MemoryEntry, error) {
	if entry.Content == "" {
		return nil, goerr.New("memory content is required")
	}
	if len(entry.Embedding) != model.EmbeddingDimension {
		return nil, goerr.New("embedding dimension mismatch",
			goerr.V("want", model.EmbeddingDimension), goerr.V("got", len(entry.Embedding)))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyEntry(entry)
	if created.ID == "" {
		created.ID = types.NewMemoryID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.LastAccessedAt = now
	created.AccessCount = 0

	r.entries[created.ID] = created
	return copyEntry(created), nil
}

func (r *memoryRepository) Get(ctx context.Context, id types.MemoryID) (*model.MemoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "memory entry not found", goerr.V("memoryID", id))
	}

	return copyEntry(entry), nil
}

func (r *memoryRepository) Delete(ctx context.Context, id types.MemoryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; !exists {
		return goerr.Wrap(ErrNotFound, "memory entry not found", goerr.V("memoryID", id))
	}

	delete(r.entries, id)
	return nil
}

func (r *memoryRepository) List(ctx context.Context, namespace *types.Namespace) ([]*model.MemoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.MemoryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if namespace != nil && e.Namespace != *namespace {
			continue
		}
		result = append(result, copyEntry(e))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *memoryRepository) Touch(ctx context.Context, ids []types.MemoryID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if entry, exists := r.entries[id]; exists {
			entry.AccessCount++
			entry.LastAccessedAt = at
		}
	}

	return nil
}

func (r *memoryRepository) Stats(ctx context.Context) (*model.MemoryStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &model.MemoryStats{
		Total:       len(r.entries),
		ByNamespace: make(map[types.Namespace]int),
	}
	for _, e := range r.entries {
		stats.ByNamespace[e.Namespace]++
	}

	return stats, nil
}

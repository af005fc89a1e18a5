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

type hookRepository struct {
	mu    sync.RWMutex
	hooks map[types.HookID]*model.Hook
	seq   int64
}

func newHookRepository() *hookRepository {
	return &hookRepository{
		hooks: make(map[types.HookID]*model.Hook),
	}
}

func copyHook(h *model.Hook) *model.Hook {
	copied := *h
	if h.Payload != nil {
		copied.Payload = make(map[string]any, len(h.Payload))
		for k, v := range h.Payload {
			copied.Payload[k] = v
		}
	}
	return &copied
}

func (r *hookRepository) Create(ctx context.Context, hook *model.Hook) (*model.Hook, error) {
	if err := hook.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid hook")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyHook(hook)
	if created.ID == "" {
		created.ID = types.NewHookID()
	}
	r.seq++
	created.Seq = r.seq
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.hooks[created.ID] = created
	return copyHook(created), nil
}

func (r *hookRepository) Get(ctx context.Context, id types.HookID) (*model.Hook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hook, exists := r.hooks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "hook not found", goerr.V("hookID", id))
	}

	return copyHook(hook), nil
}

func (r *hookRepository) Update(ctx context.Context, id types.HookID, patch *model.HookPatch) (*model.Hook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	hook, exists := r.hooks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "hook not found", goerr.V("hookID", id))
	}

	if patch.Event != nil {
		hook.Event = *patch.Event
	}
	if patch.SkillName != nil {
		hook.SkillName = *patch.SkillName
	}
	if patch.Payload != nil {
		hook.Payload = make(map[string]any, len(patch.Payload))
		for k, v := range patch.Payload {
			hook.Payload[k] = v
		}
	}
	if patch.Enabled != nil {
		hook.Enabled = *patch.Enabled
	}
	if patch.Priority != nil {
		hook.Priority = *patch.Priority
	}
	hook.UpdatedAt = time.Now().UTC()

	return copyHook(hook), nil
}

func (r *hookRepository) Delete(ctx context.Context, id types.HookID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hooks[id]; !exists {
		return goerr.Wrap(ErrNotFound, "hook not found", goerr.V("hookID", id))
	}

	delete(r.hooks, id)
	return nil
}

func (r *hookRepository) List(ctx context.Context) ([]*model.Hook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Hook, 0, len(r.hooks))
	for _, h := range r.hooks {
		result = append(result, copyHook(h))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Seq < result[j].Seq
	})

	return result, nil
}

func (r *hookRepository) ListByEvent(ctx context.Context, event types.EventName) ([]*model.Hook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Hook
	for _, h := range r.hooks {
		if h.Event == event {
			result = append(result, copyHook(h))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Seq < result[j].Seq
	})

	return result, nil
}

func (r *hookRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.hooks), nil
}

package hook

import (
	"context"
	"sort"
	"sync"

	"github.com/bottega-lab/maestro/pkg/domain/interfaces"
	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Handler is an in-process reaction to an event. Handlers are distinct from
// hooks: a hook requires full skill dispatch, a handler runs inside the
// emitting call.
type Handler func(ctx context.Context, event *model.HookEvent) error

// Service matches emitted events to registered hooks. It never executes
// skills itself: EmitEvent returns the hooks that should fire and leaves
// dispatch to the gateway, keeping this component a pure function of its
// registration state plus its input.
type Service struct {
	hooks interfaces.HookRepository

	mu       sync.RWMutex
	handlers map[types.EventName][]Handler
}

// New creates a hook service over the given hook store
func New(hooks interfaces.HookRepository) *Service {
	return &Service{
		hooks:    hooks,
		handlers: make(map[types.EventName][]Handler),
	}
}

// OnEvent registers an in-process handler for the event name. Handlers run
// sequentially in registration order at emit time.
func (s *Service) OnEvent(name types.EventName, handler Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[name] = append(s.handlers[name], handler)
}

// RegisterHook stores an event-to-skill binding
func (s *Service) RegisterHook(ctx context.Context, hook *model.Hook) (*model.Hook, error) {
	created, err := s.hooks.Create(ctx, hook)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to register hook")
	}

	logging.From(ctx).Info("hook registered",
		"hookID", created.ID, "event", created.Event, "skill", created.SkillName, "priority", created.Priority)
	return created, nil
}

// UpdateHook applies a partial patch to a hook
func (s *Service) UpdateHook(ctx context.Context, id types.HookID, patch *model.HookPatch) (*model.Hook, error) {
	updated, err := s.hooks.Update(ctx, id, patch)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update hook", goerr.V("hookID", id))
	}
	return updated, nil
}

// DeleteHook removes a hook
func (s *Service) DeleteHook(ctx context.Context, id types.HookID) error {
	if err := s.hooks.Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete hook", goerr.V("hookID", id))
	}
	return nil
}

// GetHook retrieves a hook by ID
func (s *Service) GetHook(ctx context.Context, id types.HookID) (*model.Hook, error) {
	return s.hooks.Get(ctx, id)
}

// ListHooks retrieves all hooks in registration order
func (s *Service) ListHooks(ctx context.Context) ([]*model.Hook, error) {
	return s.hooks.List(ctx)
}

// HooksForEvent returns the enabled hooks bound to the event name, sorted
// ascending by priority with registration order as the stable tie-break
func (s *Service) HooksForEvent(ctx context.Context, name types.EventName) ([]*model.Hook, error) {
	all, err := s.hooks.ListByEvent(ctx, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list hooks", goerr.V("event", name))
	}

	var enabled []*model.Hook
	for _, h := range all {
		if h.Enabled {
			enabled = append(enabled, h)
		}
	}

	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	return enabled, nil
}

// EmitEvent builds an ephemeral event, runs the in-process handlers bound
// to the name (sequentially, each failure logged independently so one
// failing handler never blocks the rest), and returns the matching hooks
// without executing them. Emitting a name with no hooks is legal and
// returns an empty slice.
func (s *Service) EmitEvent(ctx context.Context, name types.EventName, data map[string]any, source string) ([]*model.TriggeredHook, error) {
	event := model.NewHookEvent(name, data, source)

	s.mu.RLock()
	handlers := make([]Handler, len(s.handlers[name]))
	copy(handlers, s.handlers[name])
	s.mu.RUnlock()

	for i, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			logging.From(ctx).Error("event handler failed",
				"event", name, "handler", i, "error", err)
		}
	}

	matched, err := s.HooksForEvent(ctx, name)
	if err != nil {
		return nil, err
	}

	triggered := make([]*model.TriggeredHook, 0, len(matched))
	for _, h := range matched {
		triggered = append(triggered, &model.TriggeredHook{
			HookID:    h.ID,
			SkillName: h.SkillName,
			Payload:   mergePayload(event.Data, h.Payload),
		})
	}

	if len(triggered) > 0 {
		logging.From(ctx).Info("event matched hooks",
			"event", name, "source", source, "hooks", len(triggered))
	}

	return triggered, nil
}

// mergePayload lays the hook's static payload over the event data; hook
// values win on key collision
func mergePayload(eventData, hookPayload map[string]any) map[string]any {
	merged := make(map[string]any, len(eventData)+len(hookPayload))
	for k, v := range eventData {
		merged[k] = v
	}
	for k, v := range hookPayload {
		merged[k] = v
	}
	return merged
}

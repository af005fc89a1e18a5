package model

import (
	"time"

	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Hook binds an event name to a skill. Hooks for the same event fire in
// ascending Priority order; ties keep registration order.
type Hook struct {
	ID        types.HookID
	Event     types.EventName
	SkillName string
	// Payload is merged over the event data at dispatch time; hook values win
	Payload   map[string]any
	Enabled   bool
	Priority  int
	CreatedAt time.Time
	UpdatedAt time.Time

	// Seq is assigned by the repository in registration order and breaks
	// priority ties
	Seq int64
}

// Validate checks the fields a hook must carry to be matchable
func (h *Hook) Validate() error {
	if h.Event == "" {
		return goerr.New("hook event is required")
	}
	if h.SkillName == "" {
		return goerr.New("hook skill name is required", goerr.V("event", h.Event))
	}
	return nil
}

// HookPatch carries partial updates for a hook. Nil fields are untouched.
type HookPatch struct {
	Event     *types.EventName
	SkillName *string
	Payload   map[string]any
	Enabled   *bool
	Priority  *int
}

// HookEvent is an ephemeral occurrence. It is constructed per emit and
// discarded; it is never stored.
type HookEvent struct {
	Name      types.EventName
	Data      map[string]any
	Timestamp time.Time
	Source    string
}

// NewHookEvent builds an event for a single emit
func NewHookEvent(name types.EventName, data map[string]any, source string) *HookEvent {
	return &HookEvent{
		Name:      name,
		Data:      data,
		Timestamp: time.Now().UTC(),
		Source:    source,
	}
}

// TriggeredHook names a skill that should fire in response to an event.
// The hook service returns these without executing them; dispatch belongs
// to the gateway.
type TriggeredHook struct {
	HookID    types.HookID
	SkillName string
	Payload   map[string]any
}

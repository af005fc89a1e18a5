package usecase

import (
	"github.com/bottega-lab/maestro/pkg/domain/interfaces"
	"github.com/bottega-lab/maestro/pkg/service/hook"
	"github.com/bottega-lab/maestro/pkg/service/notify"
	"github.com/bottega-lab/maestro/pkg/service/registry"
	"github.com/bottega-lab/maestro/pkg/service/scheduler"
	"github.com/bottega-lab/maestro/pkg/service/semantic"
)

// maxHookDepth bounds recursive hook dispatch: a skill fired by a hook may
// emit events that match further hooks, and a cycle of hooks would
// otherwise dispatch forever
const maxHookDepth = 8

// UseCases is the gateway composing the registry, scheduler, hooks, memory
// store, notification fan-out and queue transport. It is the only component
// that calls registry.Execute.
type UseCases struct {
	repo interfaces.Repository

	Registry  *registry.Service
	Scheduler *scheduler.Service
	Hooks     *hook.Service
	Memory    *semantic.Service
	Notify    *notify.Service

	queue interfaces.QueueTransport
}

// Option is a functional option for gateway configuration
type Option func(*UseCases)

// WithQueue attaches the transport used for deferred execution. Without a
// transport, async triggers degrade to synchronous dispatch.
func WithQueue(q interfaces.QueueTransport) Option {
	return func(uc *UseCases) {
		uc.queue = q
	}
}

// WithEmbedder overrides the embedder of the memory store
func WithEmbedder(e interfaces.Embedder) Option {
	return func(uc *UseCases) {
		uc.Memory = semantic.New(uc.repo.Memories(), e)
	}
}

// WithNotify overrides the notification service, e.g. to attach remote
// channel senders
func WithNotify(n *notify.Service) Option {
	return func(uc *UseCases) {
		uc.Notify = n
	}
}

// AttachQueue sets the transport after construction. An in-process
// transport delivers into the gateway itself, so it cannot exist before
// the gateway does.
func (uc *UseCases) AttachQueue(q interfaces.QueueTransport) {
	uc.queue = q
}

// New wires the gateway over the repository
func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:      repo,
		Registry:  registry.New(repo.Executions()),
		Scheduler: scheduler.New(repo.Jobs()),
		Hooks:     hook.New(repo.Hooks()),
		Memory:    semantic.New(repo.Memories(), semantic.NewHashEmbedder()),
		Notify:    notify.New(repo.Notifications()),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

package usecase

import (
	"context"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/utils/async"
	"github.com/bottega-lab/maestro/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// TriggerSkill dispatches the named skill synchronously. The returned
// result is always well-formed: unknown skills, validation rejections and
// execution failures come back as failed results, never as errors, so the
// HTTP boundary can always answer with a 200 envelope and upstream webhook
// senders are not provoked into retry storms.
func (uc *UseCases) TriggerSkill(ctx context.Context, name string, payload map[string]any, triggeredBy types.TriggerKind, source string) *model.SkillResult {
	return uc.trigger(ctx, name, payload, triggeredBy, source, 0)
}

func (uc *UseCases) trigger(ctx context.Context, name string, payload map[string]any, triggeredBy types.TriggerKind, source string, depth int) *model.SkillResult {
	sctx := model.NewSkillContext(payload, triggeredBy, source)
	result := uc.Registry.Execute(ctx, name, sctx)

	if !result.Success {
		uc.Notify.Send(ctx,
			"Skill execution failed: "+name,
			result.Error,
			types.SeverityError,
			types.ChannelConsole,
			map[string]any{
				"executionID": sctx.ExecutionID.String(),
				"triggeredBy": triggeredBy.String(),
				"source":      source,
			},
		)
	}

	uc.emitExecutionEvent(ctx, name, sctx, result, depth)

	return result
}

// emitExecutionEvent reports the outcome as an event and dispatches any
// hooks that match it
func (uc *UseCases) emitExecutionEvent(ctx context.Context, name string, sctx *model.SkillContext, result *model.SkillResult, depth int) {
	eventName := types.EventSkillCompleted
	if !result.Success {
		eventName = types.EventSkillFailed
	}

	data := map[string]any{
		"skill":       name,
		"executionID": sctx.ExecutionID.String(),
		"status":      result.Status.String(),
	}

	triggered, err := uc.Hooks.EmitEvent(ctx, eventName, data, "gateway")
	if err != nil {
		logging.From(ctx).Error("failed to emit execution event",
			"event", eventName, "skill", name, "error", err)
		return
	}

	uc.dispatchHooks(ctx, triggered, depth+1)
}

// EmitEvent publishes an occurrence and asynchronously dispatches every
// matching hook. The emit itself returns as soon as the in-process handlers
// have run; skill dispatch is decoupled and unordered relative to this
// call's return.
func (uc *UseCases) EmitEvent(ctx context.Context, name types.EventName, data map[string]any, source string) ([]*model.TriggeredHook, error) {
	triggered, err := uc.Hooks.EmitEvent(ctx, name, data, source)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to emit event", goerr.V("event", name))
	}

	uc.dispatchHooks(ctx, triggered, 1)

	return triggered, nil
}

// dispatchHooks fires the matched skills asynchronously, one dispatch per
// hook, bounded by maxHookDepth to stop hook cycles
func (uc *UseCases) dispatchHooks(ctx context.Context, triggered []*model.TriggeredHook, depth int) {
	if len(triggered) == 0 {
		return
	}
	if depth > maxHookDepth {
		logging.From(ctx).Warn("hook dispatch depth exceeded, dropping",
			"depth", depth, "hooks", len(triggered))
		return
	}

	for _, t := range triggered {
		hookID := t.HookID
		skillName := t.SkillName
		payload := t.Payload

		async.Dispatch(ctx, func(ctx context.Context) error {
			uc.trigger(ctx, skillName, payload, types.TriggerKindEvent, "hook:"+hookID.String(), depth)
			return nil
		})
	}
}

// TriggerSkillAsync hands the invocation to the queue transport for
// deferred, retried execution. Without a transport it falls back to an
// async in-process dispatch with no retries.
func (uc *UseCases) TriggerSkillAsync(ctx context.Context, name string, payload map[string]any, source string) error {
	if uc.queue == nil {
		async.Dispatch(ctx, func(ctx context.Context) error {
			uc.TriggerSkill(ctx, name, payload, types.TriggerKindQueue, source)
			return nil
		})
		return nil
	}

	job := model.NewQueueJob(name, payload, source)
	if err := uc.queue.Enqueue(ctx, job); err != nil {
		return goerr.Wrap(err, "failed to enqueue skill", goerr.V("skill", name))
	}

	return nil
}

// HandleQueueJob is the worker callback the queue transport re-enters the
// execute path through. A failed result becomes an error so the transport
// can apply its retry budget; cron-originated jobs record their outcome
// against the job.
func (uc *UseCases) HandleQueueJob(ctx context.Context, job *model.QueueJob) error {
	result := uc.TriggerSkill(ctx, job.SkillName, job.Payload, types.TriggerKindQueue, job.Source)

	if job.JobID != "" {
		if err := uc.Scheduler.RecordExecution(ctx, job.JobID, result.Status, result.DurationMS, result.Error); err != nil {
			logging.From(ctx).Error("failed to record job execution",
				"jobID", job.JobID, "error", err)
		}
	}

	if result.Status == types.ResultStatusFailed {
		return goerr.New("skill execution failed",
			goerr.V("skill", job.SkillName), goerr.V("error", result.Error), goerr.V("attempt", job.Attempt))
	}

	return nil
}

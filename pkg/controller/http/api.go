package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/service/semantic"
	"github.com/bottega-lab/maestro/pkg/utils/errutil"
)

// handleTick is the scheduler tick entry point, expected once per minute
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	now := time.Now().UTC()
	if at := r.URL.Query().Get("at"); at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid at parameter"), http.StatusBadRequest)
			return
		}
		now = parsed
	}

	result, err := s.uc.Tick(ctx, now)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, result)
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusOK, s.uc.Registry.List())
}

func (s *Server) handleSkillHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	health, err := s.uc.Registry.Health(ctx, chi.URLParam(r, "name"))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
		return
	}

	respondJSON(ctx, w, http.StatusOK, health)
}

type triggerRequest struct {
	Payload map[string]any `json:"payload"`
	Source  string         `json:"source"`
}

// handleTriggerSkill dispatches synchronously. The envelope is 200 even for
// a failed execution; success lives inside the body.
func (s *Server) handleTriggerSkill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid trigger request"), http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	result := s.uc.TriggerSkill(ctx, chi.URLParam(r, "name"), req.Payload, types.TriggerKindManual, req.Source)
	respondJSON(ctx, w, http.StatusOK, result)
}

func (s *Server) handleTriggerSkillAsync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid trigger request"), http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	if err := s.uc.TriggerSkillAsync(ctx, chi.URLParam(r, "name"), req.Payload, req.Source); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusAccepted, map[string]any{"enqueued": true})
}

type queueCallbackRequest struct {
	SkillName string         `json:"skillName"`
	Payload   map[string]any `json:"payload"`
	Source    string         `json:"source"`
	Attempt   int            `json:"attempt"`
	JobID     string         `json:"jobID"`
	JobName   string         `json:"jobName"`
}

// handleQueueCallback is the re-entry path for an external queue worker.
// The in-process transport calls the gateway directly; a remote transport
// delivers here instead. A 500 tells the transport to apply its retry
// budget.
func (s *Server) handleQueueCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req queueCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid queue callback"), http.StatusBadRequest)
		return
	}
	if req.SkillName == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("skillName is required"), http.StatusBadRequest)
		return
	}

	job := model.NewQueueJob(req.SkillName, req.Payload, req.Source)
	if req.Attempt > 0 {
		job.Attempt = req.Attempt
	}
	job.JobID = types.JobID(req.JobID)
	job.JobName = req.JobName

	if err := s.uc.HandleQueueJob(ctx, job); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"delivered": true})
}

func (s *Server) handleListExecutions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := queryInt(r, "limit", 50)
	records, err := s.uc.Registry.Executions(ctx, limit, r.URL.Query().Get("skill"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, records)
}

type jobRequest struct {
	Name      string         `json:"name"`
	Schedule  string         `json:"schedule"`
	SkillName string         `json:"skillName"`
	Payload   map[string]any `json:"payload"`
	Enabled   *bool          `json:"enabled"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobs, err := s.uc.Scheduler.ListJobs(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, jobs)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid job request"), http.StatusBadRequest)
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	job, err := s.uc.Scheduler.CreateJob(ctx, &model.CronJob{
		Name:      req.Name,
		Schedule:  req.Schedule,
		SkillName: req.SkillName,
		Payload:   req.Payload,
		Enabled:   enabled,
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, job)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	job, err := s.uc.Scheduler.GetJob(ctx, types.JobID(chi.URLParam(r, "id")))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, job)
}

type jobPatchRequest struct {
	Name      *string        `json:"name"`
	Schedule  *string        `json:"schedule"`
	SkillName *string        `json:"skillName"`
	Payload   map[string]any `json:"payload"`
	Enabled   *bool          `json:"enabled"`
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req jobPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid job patch"), http.StatusBadRequest)
		return
	}

	job, err := s.uc.Scheduler.UpdateJob(ctx, types.JobID(chi.URLParam(r, "id")), &model.CronJobPatch{
		Name:      req.Name,
		Schedule:  req.Schedule,
		SkillName: req.SkillName,
		Payload:   req.Payload,
		Enabled:   req.Enabled,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.uc.Scheduler.DeleteJob(ctx, types.JobID(chi.URLParam(r, "id"))); err != nil {
		respondError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type hookRequest struct {
	Event     string         `json:"event"`
	SkillName string         `json:"skillName"`
	Payload   map[string]any `json:"payload"`
	Enabled   *bool          `json:"enabled"`
	Priority  int            `json:"priority"`
}

func (s *Server) handleListHooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	hooks, err := s.uc.Hooks.ListHooks(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, hooks)
}

func (s *Server) handleCreateHook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req hookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid hook request"), http.StatusBadRequest)
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	hook, err := s.uc.Hooks.RegisterHook(ctx, &model.Hook{
		Event:     types.EventName(req.Event),
		SkillName: req.SkillName,
		Payload:   req.Payload,
		Enabled:   enabled,
		Priority:  req.Priority,
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, hook)
}

type hookPatchRequest struct {
	Event     *string        `json:"event"`
	SkillName *string        `json:"skillName"`
	Payload   map[string]any `json:"payload"`
	Enabled   *bool          `json:"enabled"`
	Priority  *int           `json:"priority"`
}

func (s *Server) handleUpdateHook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req hookPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid hook patch"), http.StatusBadRequest)
		return
	}

	patch := &model.HookPatch{
		SkillName: req.SkillName,
		Payload:   req.Payload,
		Enabled:   req.Enabled,
		Priority:  req.Priority,
	}
	if req.Event != nil {
		event := types.EventName(*req.Event)
		patch.Event = &event
	}

	hook, err := s.uc.Hooks.UpdateHook(ctx, types.HookID(chi.URLParam(r, "id")), patch)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, hook)
}

func (s *Server) handleDeleteHook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.uc.Hooks.DeleteHook(ctx, types.HookID(chi.URLParam(r, "id"))); err != nil {
		respondError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type emitRequest struct {
	Event  string         `json:"event"`
	Data   map[string]any `json:"data"`
	Source string         `json:"source"`
}

func (s *Server) handleEmitEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req emitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid emit request"), http.StatusBadRequest)
		return
	}
	if req.Event == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("event name is required"), http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	triggered, err := s.uc.EmitEvent(ctx, types.EventName(req.Event), req.Data, req.Source)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"triggered": triggered})
}

type storeMemoryRequest struct {
	Namespace string         `json:"namespace"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	Source    string         `json:"source"`
	Tags      []string       `json:"tags"`
}

func (s *Server) handleStoreMemory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req storeMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid memory request"), http.StatusBadRequest)
		return
	}

	entry, err := s.uc.Memory.Store(ctx, types.Namespace(req.Namespace), req.Content, req.Metadata, req.Source, req.Tags)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, entry)
}

func (s *Server) handleSearchMemory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	query := semantic.SearchQuery{
		Query: q.Get("q"),
		Limit: queryInt(r, "limit", 0),
	}
	if ns := q.Get("namespace"); ns != "" {
		namespace := types.Namespace(ns)
		query.Namespace = &namespace
	}
	if tags, ok := q["tag"]; ok {
		query.Tags = tags
	}
	if minScore := q.Get("minScore"); minScore != "" {
		parsed, err := strconv.ParseFloat(minScore, 64)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid minScore"), http.StatusBadRequest)
			return
		}
		query.MinScore = parsed
	}

	matches, err := s.uc.Memory.Search(ctx, query)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	respondJSON(ctx, w, http.StatusOK, matches)
}

func (s *Server) handleMemoryStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.uc.Memory.Stats(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, stats)
}

func (s *Server) handleDeleteMemory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.uc.Memory.Delete(ctx, types.MemoryID(chi.URLParam(r, "id"))); err != nil {
		respondError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	history, err := s.uc.Notify.History(ctx, queryInt(r, "limit", 50))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, history)
}

func (s *Server) handleNotificationStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.uc.Notify.Stats(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, stats)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

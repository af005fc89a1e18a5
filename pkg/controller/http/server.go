package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bottega-lab/maestro/pkg/usecase"
)

// Server is the HTTP surface of the runtime: webhook ingress, the scheduler
// tick entry point, the manual trigger boundary and the admin JSON API.
type Server struct {
	router        *chi.Mux
	uc            *usecase.UseCases
	webhookSecret string
}

// Options is a functional option for server configuration
type Options func(*Server)

// WithWebhookSecret enables HMAC signature verification on the webhook
// ingress. Without a secret the webhook route is not mounted.
func WithWebhookSecret(secret string) Options {
	return func(s *Server) {
		s.webhookSecret = secret
	}
}

// New creates the server over the gateway
func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	// Webhook ingress - no session auth, uses signature verification
	if s.webhookSecret != "" {
		r.Route("/hooks/commerce", func(r chi.Router) {
			r.Use(SignatureMiddleware(s.webhookSecret))
			r.Post("/", s.handleCommerceWebhook)
		})
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/tick", s.handleTick)
		r.Post("/queue/callback", s.handleQueueCallback)

		r.Route("/skills", func(r chi.Router) {
			r.Get("/", s.handleListSkills)
			r.Get("/{name}/health", s.handleSkillHealth)
			r.Post("/{name}/trigger", s.handleTriggerSkill)
			r.Post("/{name}/trigger-async", s.handleTriggerSkillAsync)
		})

		r.Get("/executions", s.handleListExecutions)

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", s.handleListJobs)
			r.Post("/", s.handleCreateJob)
			r.Get("/{id}", s.handleGetJob)
			r.Patch("/{id}", s.handleUpdateJob)
			r.Delete("/{id}", s.handleDeleteJob)
		})

		r.Route("/hooks", func(r chi.Router) {
			r.Get("/", s.handleListHooks)
			r.Post("/", s.handleCreateHook)
			r.Patch("/{id}", s.handleUpdateHook)
			r.Delete("/{id}", s.handleDeleteHook)
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/", s.handleEmitEvent)
		})

		r.Route("/memories", func(r chi.Router) {
			r.Post("/", s.handleStoreMemory)
			r.Get("/search", s.handleSearchMemory)
			r.Get("/stats", s.handleMemoryStats)
			r.Delete("/{id}", s.handleDeleteMemory)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.handleListNotifications)
			r.Get("/stats", s.handleNotificationStats)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

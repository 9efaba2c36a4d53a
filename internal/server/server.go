package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/stepup/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker *service.Tracker
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// disables auth on mutating routes (dev mode, or tsnet-guarded deployments).
func New(tracker *service.Tracker, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		tracker: tracker,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/templates", s.handleListTemplates)
		r.Get("/history", s.handleListHistory)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Get("/sessions/{id}", s.handleGetSession)

		// Mutating endpoints (API key required when configured)
		r.Group(func(r chi.Router) {
			if s.apiKey != "" {
				r.Use(APIKeyAuth(s.apiKey))
			}
			r.Post("/templates", s.handleCreateTemplate)
			r.Post("/templates/{id}/start", s.handleStartSession)
			r.Post("/sessions/{id}/edits", s.handleApplyEdit)
			r.Post("/sessions/{id}/finish", s.handleFinishSession)
			r.Delete("/workouts/{id}", s.handleDeleteWorkout)
		})
	})
}

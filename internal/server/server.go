package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/ingest/alpha"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/templates"
	"github.com/claude/liftlog/internal/theme"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the HTTP handlers call into.
type Deps struct {
	Templates *templates.Repository
	History   *history.Repository
	Sessions  *session.Registry
	Alpha     *alpha.Provider
	Theme     *theme.Theme

	// APIKey, when set, is required on every mutating route.
	APIKey string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	templates *templates.Repository
	history   *history.Repository
	sessions  *session.Registry
	alpha     *alpha.Provider
	theme     *theme.Theme
	log       *slog.Logger
	apiKey    string
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(deps Deps, log *slog.Logger) *Server {
	s := &Server{
		templates: deps.Templates,
		history:   deps.History,
		sessions:  deps.Sessions,
		alpha:     deps.Alpha,
		theme:     deps.Theme,
		log:       log,
		apiKey:    deps.APIKey,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Mount attaches an extra handler, such as the MCP endpoint, under pattern.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		// Reads
		r.Get("/workouts", s.handleListWorkouts)
		r.Get("/workouts/{name}/exercises", s.handleGetExercises)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Get("/history", s.handleListHistory)
		r.Get("/stats", s.handleStats)
		r.Get("/theme", s.handleGetTheme)

		// Writes (API key required when configured)
		r.Group(func(r chi.Router) {
			if s.apiKey != "" {
				r.Use(APIKeyAuth(s.apiKey))
			}
			r.Post("/workouts", s.handleCreateWorkout)
			r.Delete("/workouts/{name}", s.handleDeleteWorkout)
			r.Patch("/workouts/{name}", s.handleRenameWorkout)
			r.Put("/workouts/{name}/exercises", s.handleSetExercises)

			r.Post("/sessions", s.handleStartSession)
			r.Delete("/sessions/{id}", s.handleCancelSession)
			r.Post("/sessions/{id}/finish", s.handleFinishSession)
			r.Post("/sessions/{id}/exercises", s.handleAddExercise)
			r.Put("/sessions/{id}/exercises/{index}", s.handleUpdateExercise)
			r.Delete("/sessions/{id}/exercises/{index}", s.handleRemoveExercise)
			r.Post("/sessions/{id}/exercises/{index}/sets", s.handleAddSet)
			r.Patch("/sessions/{id}/exercises/{index}/sets/{set}", s.handlePatchSet)
			r.Delete("/sessions/{id}/exercises/{index}/sets/{set}", s.handleRemoveSet)

			r.Delete("/history/{index}", s.handleDeleteHistory)
			r.Post("/import/alpha", s.handleAlphaImport)
			r.Post("/theme/toggle", s.handleToggleTheme)
		})
	})
}

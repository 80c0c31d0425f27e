package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/me/taskflow/internal/config"
	"github.com/me/taskflow/internal/service"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server is the taskflow REST API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	service   *service.Service
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, svc *service.Service, logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		service:   svc,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// Discovery
		r.Get("/", s.handleDiscovery)

		// Health
		r.Get("/health", s.handleHealth)

		// Stateless scheduling
		r.Get("/strategies", s.handleListStrategies)
		r.Post("/schedule/{strategy}", s.handleSchedule)
		r.Post("/validate", s.handleValidate)
		r.Post("/analysis", s.handleAnalyze)

		// Per-user tasks
		r.Route("/users/{uid}", func(r chi.Router) {
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", s.handleListTasks)
				r.Post("/", s.handleCreateTask)
				r.Route("/{tid}", func(r chi.Router) {
					r.Get("/", s.handleGetTask)
					r.Patch("/", s.handleUpdateTask)
					r.Delete("/", s.handleDeleteTask)
					r.Post("/dependencies", s.handleAddDependency)
					r.Delete("/dependencies/{did}", s.handleRemoveDependency)
				})
			})
			r.Post("/schedule/{strategy}", s.handleScheduleUser)
			r.Get("/analysis", s.handleAnalyzeUser)
		})
	})
}

// Package api exposes the estimation service over HTTP.
package api

import (
	"net/http"

	"godag/app"
	"godag/internal"
	"godag/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the estimation service behind a chi router
type Server struct {
	router  chi.Router
	service *app.EstimationService
	runs    ports.RunRepository // optional
	logger  *internal.Logger
}

// NewServer creates the HTTP server. The run repository may be nil, in
// which case the runs endpoints return 404.
func NewServer(service *app.EstimationService, runs ports.RunRepository) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		runs:    runs,
		logger:  internal.DefaultLogger.Named("api"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/estimate", s.handleEstimateDAG)
		r.Post("/estimate/covariance", s.handleEstimateCovariance)
		r.Post("/estimate/precision", s.handleEstimatePrecision)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Get("/runs/{id}/report", s.handleRunReport)
	})
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP on the given address
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

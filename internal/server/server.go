// Package server exposes the flowchart core over a small HTTP API: layout
// computation, export rendering, and the autosave slot.
//
// The API is stateless with respect to projects - graphs travel in the
// request body using the .fchart document shape - so the server never
// persists a project. Only the autosave slot is backed by a store.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flowkit/flowkit/pkg/autosave"
	"github.com/flowkit/flowkit/pkg/cache"
	"github.com/flowkit/flowkit/pkg/layout"
)

// Server handles the flowkit HTTP API.
type Server struct {
	logger     *log.Logger
	store      autosave.Store // nil disables the autosave endpoints
	artifacts  cache.Cache
	layoutOpts layout.Options
	background string
	scale      float64
}

// Config configures a Server.
type Config struct {
	Logger     *log.Logger
	Store      autosave.Store
	Artifacts  cache.Cache // nil means no artifact caching
	Layout     *layout.Options
	Background string
	Scale      float64
}

// New creates a server. Zero-value render options fall back to the export
// package defaults.
func New(cfg Config) *Server {
	opts := layout.DefaultOptions()
	if cfg.Layout != nil {
		opts = *cfg.Layout
	}
	artifacts := cfg.Artifacts
	if artifacts == nil {
		artifacts = cache.NewNullCache()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		logger:     logger,
		store:      cfg.Store,
		artifacts:  artifacts,
		layoutOpts: opts,
		background: cfg.Background,
		scale:      cfg.Scale,
	}
}

// Router builds the chi router with all API routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/export/{format}", s.handleExport)
		if s.store != nil {
			r.Get("/autosave", s.handleAutosaveGet)
			r.Put("/autosave", s.handleAutosavePut)
			r.Delete("/autosave", s.handleAutosaveDelete)
		}
	})
	return r
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("listening", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

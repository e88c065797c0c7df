// Package server exposes the index over HTTP as a small JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/spellcaster/grimoire/internal/config"
	"github.com/spellcaster/grimoire/internal/facet"
	"github.com/spellcaster/grimoire/internal/reindex"
	"github.com/spellcaster/grimoire/internal/search"
	"github.com/spellcaster/grimoire/internal/store"
)

// Server wires the store, searcher and reindexer behind an HTTP API.
type Server struct {
	cfg       *config.Config
	store     *store.Store
	searcher  *search.Searcher
	reindexer *reindex.Reindexer
	counter   *facet.Counter
	log       *slog.Logger
	http      *http.Server
}

// New creates a Server. The reindexer is shared so HTTP-triggered syncs and
// any other sync path contend on the same gate.
func New(cfg *config.Config, st *store.Store, rx *reindex.Reindexer) *Server {
	s := &Server{
		cfg:       cfg,
		store:     st,
		searcher:  search.New(st),
		reindexer: rx,
		counter:   facet.NewCounter(st),
		log:       slog.Default().With("component", "server"),
	}
	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/search", s.handleSearch)
		r.Get("/facets", s.handleFacets)
		r.Get("/documents", s.handleListDocuments)
		r.Get("/documents/{id}", s.handleGetDocument)
		r.Post("/reindex", s.handleReindex)
		r.Post("/index-file", s.handleIndexFile)
	})
	return r
}

// ListenAndServe runs the HTTP server until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	s.log.Info("listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler returns the routed handler, used directly by tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start).Round(time.Millisecond).String())
	})
}

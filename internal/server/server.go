// Package server exposes the admin view over HTTP: statistics, the session
// and rating history, insights, and snapshot export and import.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/emotiquest/emotiquest/internal/admin"
	"github.com/emotiquest/emotiquest/internal/insight"
	"github.com/emotiquest/emotiquest/internal/logging"
	"github.com/emotiquest/emotiquest/internal/rating"
	"github.com/emotiquest/emotiquest/internal/session"
)

// maxImportBytes bounds the import request body.
var maxImportBytes int64 = 16 << 20

// Store is the persistence the API reads and writes.
type Store interface {
	admin.Replacer
	LoadHistory(ctx context.Context) []session.Session
	RemoveSession(ctx context.Context, id string) bool
	LoadRatings(ctx context.Context) []rating.Rating
	RemoveRating(ctx context.Context, id string) bool
	ViewCounts(ctx context.Context) map[string]int
}

// Options configures a Server.
type Options struct {
	Insight *insight.Service
	Log     *logging.Logger
	Now     func() time.Time
	Version string
}

// Server serves the admin API.
type Server struct {
	store   Store
	insight *insight.Service
	log     *logging.Logger
	now     func() time.Time
	version string
}

// New creates a Server over st.
func New(st Store, opts Options) *Server {
	s := &Server{
		store:   st,
		insight: opts.Insight,
		log:     logging.OrNop(opts.Log).With("component", "server"),
		now:     opts.Now,
		version: opts.Version,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.insight == nil {
		s.insight = insight.NewService(nil, insight.DefaultConfig(), opts.Log)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/stats", s.stats)

		ar.Get("/sessions", s.listSessions)
		ar.Get("/sessions/{id}", s.getSession)
		ar.Delete("/sessions/{id}", s.deleteSession)
		ar.Get("/sessions/{id}/insight", s.sessionInsight)

		ar.Get("/ratings", s.listRatings)
		ar.Delete("/ratings/{id}", s.deleteRating)

		ar.Get("/export", s.export)
		ar.Post("/import", s.importSnapshot)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		s.log.Info("stopped")
		return nil
	}
}

// Package api serves timeline layouts and renders over HTTP.
//
// Routes:
//
//	POST   /v1/layout                 books or items → layout JSON (base units)
//	POST   /v1/render?format=&zoom=   books or items → artifact
//	POST   /v1/snapshots              compute and save a layout
//	GET    /v1/snapshots              list saved layouts, newest first
//	GET    /v1/snapshots/{id}         one saved layout
//	GET    /v1/snapshots/{id}/svg     render a saved layout
//	DELETE /v1/snapshots/{id}         remove a saved layout
//	GET    /healthz                   liveness and build info
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// status from [errors.HTTPStatus].
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/chronoshelf/pkg/buildinfo"
	"github.com/matzehuels/chronoshelf/pkg/pipeline"
	"github.com/matzehuels/chronoshelf/pkg/store"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
)

// MaxBodyBytes limits request bodies.
const MaxBodyBytes = 4 << 20

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger

	width float64
	epoch timeline.Epoch
}

// Option configures a [Server].
type Option func(*Server)

// WithDefaultWidth sets the width used when a request omits it.
func WithDefaultWidth(w float64) Option {
	return func(s *Server) { s.width = w }
}

// WithDefaultEpoch sets the epoch used when a request omits it.
func WithDefaultEpoch(e timeline.Epoch) Option {
	return func(s *Server) { s.epoch = e }
}

// New creates a server. A nil store means an in-memory store and a nil
// logger means log.Default().
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, opts ...Option) *Server {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		store:  st,
		logger: logger,
		width:  pipeline.DefaultWidth,
		epoch:  timeline.DefaultEpoch,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)

		r.Route("/snapshots", func(r chi.Router) {
			r.Post("/", s.handleCreateSnapshot)
			r.Get("/", s.handleListSnapshots)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSnapshot)
				r.Delete("/", s.handleDeleteSnapshot)
				r.Get("/svg", s.handleSnapshotSVG)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, s.logger, errRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, s.logger, errMethodNotAllowed)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

// requestLogger logs one line per request at info level, or warn for 5xx.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		kv := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if status >= 500 {
			s.logger.Warn("request", kv...)
			return
		}
		s.logger.Info("request", kv...)
	})
}

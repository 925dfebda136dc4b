// Package server hosts live layout sessions over HTTP.
//
// Each session owns one layout engine. Clients create a session from a
// manifest, then page through it by asking for the frames in the rectangle
// they are about to show, exactly as a scrolling view would during its
// layout pass. Requests for the same session are serialized by the session's
// mutex; different sessions proceed in parallel.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mosaic/pkg/observability"
	"github.com/matzehuels/mosaic/pkg/pipeline"
	"github.com/matzehuels/mosaic/pkg/session"
)

// Config configures a Server.
type Config struct {
	Addr            string
	SessionTTL      time.Duration
	CleanupInterval time.Duration

	// Defaults seeds the layout options of new sessions and one-shot
	// layouts; request fields override it.
	Defaults pipeline.Options
}

// Server is the HTTP layout host.
type Server struct {
	cfg    Config
	store  session.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server. A nil store means an in-memory store; a nil runner
// means an uncached one.
func New(cfg Config, store session.Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	if store == nil {
		store = session.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	return &Server{cfg: cfg, store: store, runner: runner, logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Post("/layout", s.handleLayout)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/frames", s.handleFrames)
			r.Get("/items/{group}/{ordinal}", s.handleItem)
			r.Get("/extent", s.handleExtent)
			r.Put("/viewport", s.handleViewport)
			r.Post("/prepare", s.handlePrepare)
			r.Post("/changes", s.handleChange)
			r.Post("/invalidate", s.handleInvalidate)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// Expired sessions are swept in the background.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go session.RunCleanup(cleanupCtx, s.store, s.cfg.CleanupInterval, s.logger)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("layout server listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down layout server")
		return srv.Shutdown(shutdownCtx)
	}
}

// instrument reports every request to the server hooks and the debug log.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)

		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("http request", "method", r.Method, "route", route, "status", status, "duration", d)
	})
}

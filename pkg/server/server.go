package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/missiongraph/pkg/editor"
	"github.com/matzehuels/missiongraph/pkg/layout"
	"github.com/matzehuels/missiongraph/pkg/pipeline"
	"github.com/matzehuels/missiongraph/pkg/store"
)

// DefaultMutationTimeout bounds a dispatched store call.
const DefaultMutationTimeout = 30 * time.Second

// Server serves the mission graph API.
type Server struct {
	store           store.Store
	runner          *pipeline.Runner
	logger          *log.Logger
	layout          layout.Config
	mutationTimeout time.Duration
	dispatch        func(func())
	jobs            *editor.Jobs
	router          chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLayout sets the layout spacing used for graph responses.
func WithLayout(cfg layout.Config) Option {
	return func(s *Server) { s.layout = cfg }
}

// WithMutationTimeout bounds each dispatched store call.
func WithMutationTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.mutationTimeout = d
		}
	}
}

// WithDispatch replaces how mutation calls are scheduled. The default runs
// each call on its own goroutine and ListenAndServe waits for those calls
// during shutdown; calls scheduled by d are not waited for.
func WithDispatch(d func(func())) Option {
	return func(s *Server) {
		if d != nil {
			s.dispatch = d
		}
	}
}

// New creates a server over st. A nil runner renders without caching and a
// nil logger uses log.Default().
func New(st store.Store, runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{
		store:           st,
		runner:          runner,
		logger:          logger,
		layout:          layout.DefaultConfig(),
		mutationTimeout: DefaultMutationTimeout,
		jobs:            &editor.Jobs{},
	}
	s.dispatch = s.jobs.Dispatch
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/missions", func(r chi.Router) {
		r.Get("/", s.handleMissions)
		r.Route("/{mission}", func(r chi.Router) {
			r.Put("/", s.handlePutMission)
			r.Get("/graph", s.handleGraph)
			r.Get("/graph.{format}", s.handleRender)
			r.Post("/dependencies", s.handleAddDependency)
			r.Delete("/dependencies", s.handleRemoveDependency)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout. Shutdown includes waiting for
// dependency mutations still being written to the store.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)

	// Handlers have returned, so no new mutations can be dispatched.
	if werr := s.jobs.Wait(shutdownCtx); werr != nil {
		s.logger.Warn("dependency mutations still running at shutdown", "err", werr)
		if err == nil {
			err = werr
		}
	}
	return err
}

package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/semtree/pkg/provider"
)

// Server timeouts.
const (
	ReadHeaderTimeout = 10 * time.Second
	WriteTimeout      = 2 * time.Minute
	ShutdownTimeout   = 10 * time.Second
)

// Server serves conversions of one provider.
type Server struct {
	provider *provider.Provider
	runner   *provider.Runner
	logger   *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. The default discards output.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// New returns a server converting with p through r. A nil runner converts
// without a tree cache.
func New(p *provider.Provider, r *provider.Runner, opts ...Option) *Server {
	s := &Server{provider: p, runner: r, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = provider.NewRunner(nil, nil, s.logger)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNoRoute(r))
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/features", s.handleFeatures)
		r.Get("/variants", s.handleVariants)
		r.Get("/concepts/{id}", s.handleConcept)
		r.Get("/trees/{root}", s.handleTree)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		WriteTimeout:      WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "source", s.provider.Name())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"piiredact/internal/platform/config"
	"piiredact/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// Server owns the chi mux and the http.Server serving it
type Server struct {
	addr  string
	mux   *chi.Mux
	srv   *stdhttp.Server
	grace time.Duration
}

// NewServer reads API_PORT, API_READ_TIMEOUT, API_WRITE_TIMEOUT, API_IDLE_TIMEOUT
// and API_SHUTDOWN_GRACE from cfg; opts may mount on the mux before it is served
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayPort("API_PORT", 4000)
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr:  addr,
		mux:   m,
		grace: cfg.MayDuration("API_SHUTDOWN_GRACE", 10*time.Second),
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.MayDuration("API_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:      cfg.MayDuration("API_WRITE_TIMEOUT", 2*time.Minute),
			IdleTimeout:       cfg.MayDuration("API_IDLE_TIMEOUT", 2*time.Minute),
		},
	}
}

// Router is the mux seen through the Router interface
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Handler is the root handler, for httptest
func (s *Server) Handler() stdhttp.Handler { return s.mux }

// Addr is the listen address
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is done, then drains in flight requests within the grace period
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", s.addr).Msg("http listening")
		if err := s.srv.ListenAndServe(); !errors.Is(err, stdhttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Dur("grace", s.grace).Msg("http shutting down")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(gctx), s.grace)
		defer cancel()
		return s.Shutdown(sctx)
	})
	return g.Wait()
}

// Shutdown stops accepting connections and waits for handlers up to ctx
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the HTTP router for the analytics API.
func NewRouter(handler *AnalyticsHandler, logger *logrus.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", handler.Health)

	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Get("/party-unity", handler.PartyUnity)
		r.Get("/vote-patterns", handler.VotePatterns)
		r.Get("/mavericks", handler.Mavericks)
		r.Get("/divisive-votes", handler.DivisiveVotes)
		r.Get("/trends", handler.Trends)
		r.Get("/members/{memberID}", handler.MemberProfile)
	})

	return r
}

// Server wraps the HTTP server with sane timeouts.
type Server struct {
	srv    *http.Server
	logger *logrus.Logger
}

// NewServer creates a server listening on addr.
func NewServer(addr string, router http.Handler, logger *logrus.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start blocks serving requests until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.srv.Addr).Info("api server listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

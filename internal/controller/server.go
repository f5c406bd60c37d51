package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and its routes.
type Server struct {
	http   *http.Server
	logger *zap.Logger
}

// NewServer builds the router, middleware stack and server timeouts.
// rateLimit применяется только к публичной форме бронирования; nil = выключен.
func NewServer(addr string, h *Handlers, rateLimit func(http.Handler) http.Handler, logger *zap.Logger) *Server {
	s := &http.Server{
		Addr:              addr,
		Handler:           newRouter(h, rateLimit, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return &Server{http: s, logger: logger}
}

func newRouter(h *Handlers, rateLimit func(http.Handler) http.Handler, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(accessLog(logger))

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)

	r.Route("/api", func(r chi.Router) {
		if rateLimit != nil {
			r.With(rateLimit).Post("/bookings", h.CreateBooking)
		} else {
			r.Post("/bookings", h.CreateBooking)
		}
		r.Get("/bookings/slots", h.Slots)
		r.Get("/decision", h.DecideByToken)

		r.Get("/admin/bookings", h.AdminList)
		r.Post("/admin/bookings/decision", h.AdminDecide)

		r.Get("/cron/cleanup", h.Cleanup)
	})

	return r
}

// Start runs the HTTP server (blocks until error or shutdown).
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.http.Addr))
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		// Ожидаемо при graceful shutdown.
		return nil
	}
	return err
}

// Stop gracefully shuts down the server within the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}

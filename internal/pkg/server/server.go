// Package server exposes the conversion orchestrator over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/slipstream-bet/converter/internal/pkg/converter"
)

// Server routes conversion requests to the orchestrator.
type Server struct {
	orch *converter.Orchestrator
}

// New builds a server over an orchestrator.
func New(orch *converter.Orchestrator) *Server {
	return &Server{orch: orch}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/ping", s.handlePing)
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Post("/convert", s.handleConvert)
	r.Get("/results/{taskID}", s.handleResult)

	return r
}

// Run starts the server and shuts it down when ctx is cancelled.
func Run(ctx context.Context, addr string, handler http.Handler, readHeaderTimeout time.Duration) error {
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = 10 * time.Second
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("HTTP server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.

Authentication is not a middleware in the global chain. Every route is
registered through the [guard.Gate], which applies each operation's declared
policy; the default policy requires a valid access token, so an endpoint is
public only when its registration says so.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/keeply/keeply/internal/platform/config"
	"github.com/keeply/keeply/internal/platform/constants"
	"github.com/keeply/keeply/internal/platform/guard"
	"github.com/keeply/keeply/internal/platform/middleware"
	"github.com/keeply/keeply/internal/resources"
	"github.com/keeply/keeply/internal/users/account"
	"github.com/keeply/keeply/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here and a mount below — nothing else changes.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles credential issuance and session lifecycle.
	Auth *auth.Handler

	// Account handles the signed-in user's profile.
	Account *account.Handler

	// Resource handles owner-scoped resource storage.
	Resource *resources.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers every route group through the gate.
func NewServer(cfg *config.Config, log *slog.Logger, gate *guard.Gate, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Each handler declares its operations and their gate policies; the
	// gate mounts them onto the route group.
	r.Route("/auth", func(group chi.Router) {
		gate.Mount(group, h.Auth.Operations())
	})
	r.Route("/users", func(group chi.Router) {
		gate.Mount(group, h.Account.Operations())
	})
	r.Route("/resources", func(group chi.Router) {
		gate.Mount(group, h.Resource.Operations())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}

// Package core provides the API chassis for the nudge dispatcher: a chi
// router with the cross-cutting middleware chain (panic recovery, request
// IDs, security headers, structured request logging) applied before
// requests reach the trigger handlers.
package core

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nudge/internal/config"
)

// Server encapsulates the HTTP surface dependencies, allowing injection
// during testing.
type Server struct {
	Config *config.Config
	Logger *slog.Logger

	// RouteRegistrars are populated by the application entry point before
	// MountRoutes is called. This indirection avoids an import cycle between
	// core and the handler packages.
	RouteRegistrars []func(chi.Router)

	router *chi.Mux
}

// NewServer initializes the router and performs a fail-fast check on the
// critical dependencies. The caller is responsible for mounting routes via
// MountRoutes after registering handlers.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	return &Server{
		Config: cfg,
		Logger: logger,
		router: chi.NewRouter(),
	}, nil
}

// Handler returns the http.Handler for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration in tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

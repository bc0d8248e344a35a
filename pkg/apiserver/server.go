// Package apiserver implements the Airwave REST API server.
package apiserver

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/airwave-net/airwave/pkg/logger"
	"github.com/airwave-net/airwave/pkg/observability"
	"github.com/airwave-net/airwave/pkg/store"
)

// Version is the API server version reported by the status endpoint.
// Overridable at build time via -ldflags "-X ...apiserver.Version=x.y.z".
var Version = "0.1.0"

// Role represents the RBAC role assigned to an API key.
type Role int

const (
	// RoleViewer allows read-only operations (GET).
	RoleViewer Role = iota
	// RoleOperator allows read and write operations (GET, POST, PUT, PATCH).
	RoleOperator
	// RoleAdmin allows all operations including DELETE.
	RoleAdmin
)

// RoleFromString parses a role name from configuration. Unknown names map to
// RoleViewer so a typo never silently grants write access.
func RoleFromString(name string) Role {
	switch name {
	case "admin":
		return RoleAdmin
	case "operator":
		return RoleOperator
	default:
		return RoleViewer
	}
}

// APIKeyInfo associates a Bearer token with its description and RBAC role.
type APIKeyInfo struct {
	Description string
	Role        Role
}

// ServerOptions holds optional configuration for the Server.
type ServerOptions struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// APIKeys maps Bearer token → APIKeyInfo. When non-empty, all routes
	// except /healthz and /readyz require a valid Bearer token in the
	// Authorization header. Leave empty to disable authentication
	// (dev/test mode only).
	APIKeys map[string]APIKeyInfo
}

// DefaultServerOptions returns sensible defaults.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Server is the Airwave HTTP API server.
type Server struct {
	httpServer *http.Server
	store      store.Store
	resolver   *store.Resolver
	metrics    *observability.Collector
	log        *zap.Logger
	mux        *http.ServeMux
	opts       ServerOptions
}

// NewServer creates a Server wired to the given Store, metrics collector, and
// options. A nil collector or logger is replaced with a no-op.
func NewServer(s store.Store, metrics *observability.Collector, log *zap.Logger, opts ServerOptions) *Server {
	srv := &Server{
		store:    s,
		resolver: store.NewResolver(s),
		metrics:  metrics,
		log:      logger.OrNop(log),
		mux:      http.NewServeMux(),
		opts:     opts,
	}
	srv.registerRoutes()
	handler := srv.applyMiddleware(srv.mux)
	srv.httpServer = &http.Server{
		Handler:      handler,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	}
	return srv
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	s.httpServer.Addr = addr
	s.log.Info("airwave API server listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// GracefulShutdown performs a graceful shutdown of the HTTP server.
func (s *Server) GracefulShutdown(ctx context.Context) error {
	s.log.Info("airwave API server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the root http.Handler (useful for testing with httptest).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MCPPath is where the streamable HTTP MCP endpoint is mounted.
const MCPPath = "/mcp"

// NewRouter creates the HTTP surface: unauthenticated health checks and the
// MCP endpoint. authEnabled controls whether Bearer token auth is enforced on /mcp.
func NewRouter(mcpHandler http.Handler, vault StatusChecker, authEnabled bool, token string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", live)
	r.Get("/health/ready", ready(vault))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))
		r.Handle(MCPPath, mcpHandler)
	})

	return r
}

package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/starford/obsidian-mcp/internal/apperr"
	"github.com/starford/obsidian-mcp/internal/models"
)

var errNotAuthenticated = fmt.Errorf("vault rejected the API key: %w", apperr.ErrAuthentication)

// readyTimeout bounds the vault probe made by the readiness check.
const readyTimeout = 3 * time.Second

// StatusChecker reports whether the vault REST API is reachable.
type StatusChecker interface {
	GetServerStatus(ctx context.Context) (*models.ServerStatus, error)
}

type statusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// ready answers 200 only when the vault responds to a status request and
// accepts the configured API key. GET / itself needs no key.
func ready(vault StatusChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		status, err := vault.GetServerStatus(ctx)
		if err == nil && !status.Authenticated {
			err = errNotAuthenticated
		}
		if err != nil {
			slog.WarnContext(ctx, "vault not ready", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "unavailable", Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
	}
}

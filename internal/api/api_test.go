package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/obsidian-mcp/internal/mcpserver"
	"github.com/starford/obsidian-mcp/internal/obsidian"
	"github.com/starford/obsidian-mcp/internal/testutil"
)

func statusVault(t *testing.T, status int) *obsidian.Client {
	t.Helper()
	return statusVaultAuth(t, status, true)
}

// statusVaultAuth serves GET / the way the plugin does: without checking the
// key, reporting whether it was accepted.
func statusVaultAuth(t *testing.T, status int, authenticated bool) *obsidian.Client {
	t.Helper()
	return testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			testutil.WriteError(w, status, status*100, "unavailable")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"status":"OK","service":"Obsidian Local REST API","authenticated":%t}`, authenticated)
	}))
}

// echoMCP stands in for the MCP handler so auth can be tested in isolation.
var echoMCP = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "mcp")
})

func testRouter(t *testing.T, authEnabled bool, token string) http.Handler {
	t.Helper()
	return NewRouter(echoMCP, statusVault(t, http.StatusOK), authEnabled, token)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthLive(t *testing.T) {
	router := testRouter(t, true, "secret123")

	w := serve(router, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthReady(t *testing.T) {
	router := NewRouter(echoMCP, statusVault(t, http.StatusOK), false, "")
	w := serve(router, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthReadyVaultDown(t *testing.T) {
	tests := []struct {
		name  string
		vault *obsidian.Client
	}{
		{"vault error", statusVault(t, http.StatusInternalServerError)},
		{"vault unreachable", obsidian.NewClient(testutil.ConfigFor(t, "http://127.0.0.1:1"))},
		{"api key rejected", statusVaultAuth(t, http.StatusOK, false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(echoMCP, tt.vault, false, "")
			w := serve(router, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			assert.Equal(t, http.StatusServiceUnavailable, w.Code)

			var body statusResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "unavailable", body.Status)
			assert.NotEmpty(t, body.Error)
			if tt.name == "api key rejected" {
				assert.Contains(t, body.Error, "API key")
			}
		})
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router := testRouter(t, true, "secret123")

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := serve(router, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mcp", w.Body.String())
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	router := testRouter(t, true, "secret123")

	w := serve(router, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	router := testRouter(t, true, "secret123")

	for _, header := range []string{"Bearer wrong", "secret123", "Basic secret123", "Bearer "} {
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		req.Header.Set("Authorization", header)
		w := serve(router, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	router := testRouter(t, false, "")

	w := serve(router, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthSkipsAuth(t *testing.T) {
	router := testRouter(t, true, "secret123")

	w := serve(router, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMCPInitializeOverHTTP(t *testing.T) {
	vault := testutil.VaultClient(t, testutil.NewMemVault(nil).Handler())
	srv := mcpserver.New(vault, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := NewRouter(srv.HTTPHandler(), vault, true, "secret123")

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret123")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	w := serve(router, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "mcp-obsidian")
}

// Package testutil provides shared test helpers for faking the vault REST API.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/starford/obsidian-mcp/internal/obsidian"
)

// TestAPIKey is the bearer token accepted by servers from VaultServer.
const TestAPIKey = "test-api-key"

// VaultServer starts an httptest server running h and returns a client
// config pointing at it. The server is closed when the test ends.
func VaultServer(t *testing.T, h http.Handler) obsidian.Config {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return ConfigFor(t, srv.URL)
}

// ConfigFor returns a client config for the server at rawURL.
func ConfigFor(t *testing.T, rawURL string) obsidian.Config {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	cfg := obsidian.DefaultConfig()
	cfg.Protocol = u.Scheme
	cfg.Host = u.Hostname()
	cfg.Port = port
	cfg.APIKey = TestAPIKey
	return cfg
}

// VaultClient starts a fake vault running h and returns a client for it.
func VaultClient(t *testing.T, h http.Handler) *obsidian.Client {
	t.Helper()
	return obsidian.NewClient(VaultServer(t, h))
}

// WriteError writes an error body in the format used by the REST API.
func WriteError(w http.ResponseWriter, status, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"errorCode":` + strconv.Itoa(code) + `,"message":` + strconv.Quote(message) + `}`))
}

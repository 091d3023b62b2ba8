package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// MemVault is an in-memory stand-in for the vault file endpoints.
// It serves GET, PUT, POST and DELETE under /vault/ and checks the bearer token.
type MemVault struct {
	mu    sync.Mutex
	files map[string]string
}

// NewMemVault returns a vault seeded with files (path -> content).
func NewMemVault(files map[string]string) *MemVault {
	m := &MemVault{files: make(map[string]string, len(files))}
	for k, v := range files {
		m.files[k] = v
	}
	return m
}

// File returns the stored content of path.
func (m *MemVault) File(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.files[path]
	return c, ok
}

// Handler returns the HTTP handler serving the vault.
func (m *MemVault) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requireToken)
	r.Get("/vault/*", m.get)
	r.Put("/vault/*", m.put)
	r.Post("/vault/*", m.appendFile)
	r.Delete("/vault/*", m.remove)
	return r
}

func requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+TestAPIKey {
			WriteError(w, http.StatusUnauthorized, 40101, "Authorization required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// vaultPath extracts the file path from the URL, decoding escaped segments.
func vaultPath(r *http.Request) string {
	raw := chi.URLParam(r, "*")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func (m *MemVault) get(w http.ResponseWriter, r *http.Request) {
	p := vaultPath(r)
	m.mu.Lock()
	defer m.mu.Unlock()

	if p == "" || strings.HasSuffix(p, "/") {
		m.list(w, p)
		return
	}
	content, ok := m.files[p]
	if !ok {
		WriteError(w, http.StatusNotFound, 40400, "File not found")
		return
	}
	w.Header().Set("Content-Type", "text/markdown")
	_, _ = io.WriteString(w, content)
}

// list reports direct children of dir; directories carry a trailing slash.
func (m *MemVault) list(w http.ResponseWriter, dir string) {
	seen := make(map[string]struct{})
	for p := range m.files {
		if !strings.HasPrefix(p, dir) {
			continue
		}
		rest := strings.TrimPrefix(p, dir)
		if i := strings.Index(rest, "/"); i >= 0 {
			rest = rest[:i+1]
		}
		seen[rest] = struct{}{}
	}
	if dir != "" && len(seen) == 0 {
		WriteError(w, http.StatusNotFound, 40400, "Directory not found")
		return
	}
	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{"files": files})
}

func (m *MemVault) put(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, 40000, err.Error())
		return
	}
	m.mu.Lock()
	m.files[vaultPath(r)] = string(body)
	m.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (m *MemVault) appendFile(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, 40000, err.Error())
		return
	}
	m.mu.Lock()
	m.files[vaultPath(r)] += string(body)
	m.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (m *MemVault) remove(w http.ResponseWriter, r *http.Request) {
	p := vaultPath(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[p]; !ok {
		WriteError(w, http.StatusNotFound, 40400, "File not found")
		return
	}
	delete(m.files, p)
	w.WriteHeader(http.StatusNoContent)
}

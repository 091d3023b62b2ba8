package obsidian_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/obsidian-mcp/internal/apperr"
	"github.com/starford/obsidian-mcp/internal/obsidian"
	"github.com/starford/obsidian-mcp/internal/testutil"
)

func TestConfigBaseURL(t *testing.T) {
	cfg := obsidian.DefaultConfig()
	assert.Equal(t, "https://127.0.0.1:27124", cfg.BaseURL())
}

func TestConfigValidate(t *testing.T) {
	cfg := obsidian.DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OBSIDIAN_API_KEY is required")

	cfg.APIKey = "key"
	require.NoError(t, cfg.Validate())

	cfg.Protocol = "ftp"
	assert.Error(t, cfg.Validate())
}

func TestAuthorizationHeader(t *testing.T) {
	client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+testutil.TestAPIKey, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"files":[]}`))
	}))

	files, err := client.ListFilesInVault(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.NotNil(t, files)
}

func TestListFiles(t *testing.T) {
	client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/vault/":
			_, _ = w.Write([]byte(`{"files":["note1.md","Projects/"]}`))
		case "/vault/Projects/":
			_, _ = w.Write([]byte(`{"files":["Projects/plan.md"]}`))
		default:
			testutil.WriteError(w, http.StatusNotFound, 40400, "Not Found")
		}
	}))
	ctx := context.Background()

	files, err := client.ListFilesInVault(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"note1.md", "Projects/"}, files)

	files, err = client.ListFilesInDir(ctx, "Projects")
	require.NoError(t, err)
	assert.Equal(t, []string{"Projects/plan.md"}, files)
}

func TestGetFileContentsEscapesPath(t *testing.T) {
	client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vault/Daily%20Notes/2024-01-01.md", r.URL.EscapedPath())
		_, _ = w.Write([]byte("# Monday\n"))
	}))

	content, err := client.GetFileContents(context.Background(), "Daily Notes/2024-01-01.md")
	require.NoError(t, err)
	assert.Equal(t, "# Monday\n", content)
}

func TestGetNote(t *testing.T) {
	client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.olrapi.note+json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{
			"path": "a.md",
			"content": "body",
			"frontmatter": {"title": "A"},
			"tags": ["x"],
			"stat": {"ctime": 1, "mtime": 2, "size": 4}
		}`))
	}))

	note, err := client.GetNote(context.Background(), "a.md")
	require.NoError(t, err)
	assert.Equal(t, "body", note.Content)
	assert.Equal(t, "A", note.Frontmatter["title"])
	assert.Equal(t, []string{"x"}, note.Tags)
	assert.Equal(t, int64(2), note.Stat.Mtime)
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		code    int
		message string
		kind    error
	}{
		{"unauthorized", http.StatusUnauthorized, 40101, "Authorization required", apperr.ErrAuthentication},
		{"forbidden", http.StatusForbidden, 40300, "Forbidden", apperr.ErrAuthentication},
		{"not found", http.StatusNotFound, 40400, "File not found", apperr.ErrNotFound},
		{"bad request", http.StatusBadRequest, 40000, "Bad request", apperr.ErrRemote},
		{"server error", http.StatusInternalServerError, 50000, "Internal error", apperr.ErrRemote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				testutil.WriteError(w, tt.status, tt.code, tt.message)
			}))

			_, err := client.GetFileContents(context.Background(), "a.md")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, fmt.Sprintf("Error %d: %s", tt.code, tt.message), err.Error())

			var appErr *apperr.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.status, appErr.Status)
		})
	}
}

func TestErrorWithoutJSONBody(t *testing.T) {
	client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.GetFileContents(context.Background(), "a.md")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrRemote)
	assert.Equal(t, "Error -1: <unknown>", err.Error())
}

func TestTransportError(t *testing.T) {
	cfg := testutil.ConfigFor(t, "http://127.0.0.1:1")
	cfg.ConnectTimeout = 500 * time.Millisecond
	client := obsidian.NewClient(cfg)

	_, err := client.ListFilesInVault(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrTransport)
	assert.True(t, strings.HasPrefix(err.Error(), "Request failed:"))
}

func TestBatchFileContents(t *testing.T) {
	vault := testutil.NewMemVault(map[string]string{"a.md": "alpha"})
	client := testutil.VaultClient(t, vault.Handler())

	out := client.GetBatchFileContents(context.Background(), []string{"a.md", "b.md"})
	assert.Equal(t,
		"# a.md\n\nalpha\n\n---\n\n"+
			"# b.md\n\nError reading file: Error 40400: File not found\n\n---\n\n",
		out)
}

func TestWriteOperations(t *testing.T) {
	vault := testutil.NewMemVault(nil)
	client := testutil.VaultClient(t, vault.Handler())
	ctx := context.Background()

	require.NoError(t, client.PutContent(ctx, "notes/x.md", "one"))
	content, err := client.GetFileContents(ctx, "notes/x.md")
	require.NoError(t, err)
	assert.Equal(t, "one", content)

	require.NoError(t, client.AppendContent(ctx, "notes/x.md", "\ntwo"))
	content, err = client.GetFileContents(ctx, "notes/x.md")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", content)

	require.NoError(t, client.PutContent(ctx, "notes/x.md", "replaced"))
	content, _ = vault.File("notes/x.md")
	assert.Equal(t, "replaced", content)

	require.NoError(t, client.DeleteFile(ctx, "notes/x.md"))
	_, ok := vault.File("notes/x.md")
	assert.False(t, ok)

	err = client.DeleteFile(ctx, "notes/x.md")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestPatchContentHeaders(t *testing.T) {
	client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/vault/a.md", r.URL.Path)
		assert.Equal(t, "append", r.Header.Get("Operation"))
		assert.Equal(t, "heading", r.Header.Get("Target-Type"))
		assert.Equal(t, "Heading%201::Sub%20heading", r.Header.Get("Target"))
		assert.Equal(t, "text/markdown", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "new line", string(body))
		w.WriteHeader(http.StatusOK)
	}))

	err := client.PatchContent(context.Background(), "a.md", obsidian.PatchRequest{
		Operation:  "append",
		TargetType: "heading",
		Target:     "Heading 1::Sub heading",
		Content:    "new line",
	})
	require.NoError(t, err)
}

func TestPatchContentUnresolvedTarget(t *testing.T) {
	client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteError(w, http.StatusBadRequest, 40080, "The patch you provided could not be applied to the target content.")
	}))

	err := client.PatchContent(context.Background(), "a.md", obsidian.PatchRequest{
		Operation: "replace", TargetType: "block", Target: "abc123", Content: "x",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrRemote)
	assert.Contains(t, err.Error(), "40080")
}

func TestRequestValidationSkipsNetwork(t *testing.T) {
	calls := 0
	client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	ctx := context.Background()

	err := client.PatchContent(ctx, "a.md", obsidian.PatchRequest{Operation: "insert", TargetType: "heading", Target: "h"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Equal(t, "Invalid operation: insert. Must be one of: append, prepend, replace", err.Error())

	_, err = client.GetPeriodicNote(ctx, obsidian.PeriodicNoteQuery{Period: "hourly", Type: "content"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = client.GetRecentPeriodicNotes(ctx, obsidian.RecentPeriodicNotesQuery{Period: "daily", Limit: 0})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = client.GetRecentChanges(ctx, obsidian.RecentChangesQuery{Limit: 10, Days: -1})
	require.Error(t, err)
	assert.Equal(t, "Invalid days: -1. Must be a positive integer", err.Error())

	assert.Zero(t, calls)
}

func TestEmptyPathRejected(t *testing.T) {
	calls := 0
	client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	ctx := context.Background()
	patch := obsidian.PatchRequest{Operation: "append", TargetType: "heading", Target: "h"}

	for _, p := range []string{"", "/", "  ", "//"} {
		ops := map[string]error{
			"delete": client.DeleteFile(ctx, p),
			"put":    client.PutContent(ctx, p, "x"),
			"append": client.AppendContent(ctx, p, "x"),
			"patch":  client.PatchContent(ctx, p, patch),
			"open":   client.OpenFile(ctx, p, false),
		}
		_, ops["get"] = client.GetFileContents(ctx, p)
		_, ops["note"] = client.GetNote(ctx, p)
		_, ops["list"] = client.ListFilesInDir(ctx, p)

		for name, err := range ops {
			require.Error(t, err, "%s %q", name, p)
			assert.True(t, errors.Is(err, apperr.ErrValidation), "%s %q", name, p)
			assert.Equal(t, "filepath is required", err.Error())
		}
	}
	assert.Zero(t, calls)
}

func TestSearch(t *testing.T) {
	client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search/simple/", r.URL.Path)
		assert.Equal(t, "meeting notes", r.URL.Query().Get("query"))
		assert.Equal(t, "50", r.URL.Query().Get("contextLength"))
		_, _ = w.Write([]byte(`[{"filename":"a.md","score":1.5,"matches":[{"context":"the meeting notes","match":{"start":4,"end":17}}]}]`))
	}))

	results, err := client.Search(context.Background(), "meeting notes", 50)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a.md", results[0].Filename)
	assert.Equal(t, 1.5, results[0].Score)
	assert.Equal(t, 4, results[0].Matches[0].Match.Start)
	assert.Equal(t, 17, results[0].Matches[0].Match.End)
}

func TestSearchJSONPassesQueryVerbatim(t *testing.T) {
	query := map[string]any{"glob": []any{"*.md", map[string]any{"var": "path"}}}
	client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/", r.URL.Path)
		assert.Equal(t, "application/vnd.olrapi.jsonlogic+json", r.Header.Get("Content-Type"))
		var got map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, query, got)
		_, _ = w.Write([]byte(`[{"filename":"a.md","result":true}]`))
	}))

	results, err := client.SearchJSON(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a.md", results[0].Filename)
	assert.Equal(t, true, results[0].Result)
}

func TestGetRecentChanges(t *testing.T) {
	client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/", r.URL.Path)
		assert.Equal(t, "application/vnd.olrapi.dataview.dql+txt", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t,
			"TABLE file.mtime\nWHERE file.mtime >= date(today) - dur(7 days)\nSORT file.mtime DESC\nLIMIT 3",
			string(body))
		_, _ = w.Write([]byte(`[
			{"filename":"new.md","result":{"file.mtime":"2024-05-02T10:00:00.000+02:00"}},
			{"filename":"old.md","result":{"file.mtime":"2024-05-01T10:00:00.000+02:00"}}
		]`))
	}))

	changes, err := client.GetRecentChanges(context.Background(), obsidian.RecentChangesQuery{Limit: 3, Days: 7})
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "new.md", changes[0].Path)
	assert.Equal(t, "2024-05-02T10:00:00.000+02:00", changes[0].ModifiedTime)
}

func TestGetPeriodicNote(t *testing.T) {
	client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/periodic/weekly/", r.URL.Path)
		if r.Header.Get("Accept") == "application/vnd.olrapi.note+json" {
			_, _ = w.Write([]byte(`{"path":"2024-W18.md"}`))
			return
		}
		_, _ = w.Write([]byte("# Week 18"))
	}))
	ctx := context.Background()

	content, err := client.GetPeriodicNote(ctx, obsidian.PeriodicNoteQuery{Period: "weekly", Type: "content"})
	require.NoError(t, err)
	assert.Equal(t, "# Week 18", content)

	meta, err := client.GetPeriodicNote(ctx, obsidian.PeriodicNoteQuery{Period: "weekly", Type: "metadata"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"2024-W18.md"}`, meta)
}

func TestGetRecentPeriodicNotes(t *testing.T) {
	client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/periodic/daily/recent", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.Equal(t, "false", r.URL.Query().Get("includeContent"))
		_, _ = w.Write([]byte(`[{"path":"2024-05-03.md"},{"path":"2024-05-02.md"}]`))
	}))

	notes, err := client.GetRecentPeriodicNotes(context.Background(), obsidian.RecentPeriodicNotesQuery{
		Period: "daily", Limit: 3,
	})
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "2024-05-03.md", notes[0]["path"])
	assert.NotContains(t, notes[0], "content")
}

func TestServerStatusAndCommands(t *testing.T) {
	client := testutil.VaultClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/":
			_, _ = w.Write([]byte(`{"status":"OK","service":"Obsidian Local REST API","authenticated":true,"versions":{"obsidian":"1.5.0","self":"3.0.0"}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/commands/":
			_, _ = w.Write([]byte(`{"commands":[{"id":"global-search:open","name":"Search: Search in all files"}]}`))
		case r.Method == http.MethodPost && r.URL.Path == "/commands/global-search:open/":
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPost && r.URL.Path == "/open/a.md":
			assert.Equal(t, "true", r.URL.Query().Get("newLeaf"))
			w.WriteHeader(http.StatusOK)
		default:
			testutil.WriteError(w, http.StatusNotFound, 40400, "Not Found")
		}
	}))
	ctx := context.Background()

	status, err := client.GetServerStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Authenticated)
	assert.Equal(t, "OK", status.Status)
	assert.Equal(t, "3.0.0", status.Versions["self"])

	cmds, err := client.ListCommands(ctx)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, "global-search:open", cmds[0].ID)

	require.NoError(t, client.ExecuteCommand(ctx, "global-search:open"))
	require.NoError(t, client.OpenFile(ctx, "a.md", true))
}

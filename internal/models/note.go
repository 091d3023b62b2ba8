// Package models defines the payloads exchanged with the Obsidian Local REST API.
package models

// NoteJSON is the structured note representation returned for
// the application/vnd.olrapi.note+json media type.
type NoteJSON struct {
	Path        string         `json:"path"`
	Content     string         `json:"content"`
	Frontmatter map[string]any `json:"frontmatter"`
	Tags        []string       `json:"tags"`
	Stat        NoteStat       `json:"stat"`
}

// NoteStat holds file metadata in milliseconds since epoch.
type NoteStat struct {
	Ctime int64 `json:"ctime"`
	Mtime int64 `json:"mtime"`
	Size  int64 `json:"size"`
}

// FileListing is the body of GET /vault/ and GET /vault/{dir}/.
// Directories carry a trailing slash.
type FileListing struct {
	Files []string `json:"files"`
}

// SearchResult is a single hit of the simple text search.
type SearchResult struct {
	Filename string        `json:"filename"`
	Score    float64       `json:"score"`
	Matches  []SearchMatch `json:"matches"`
}

// SearchMatch is one match inside a SearchResult.
type SearchMatch struct {
	Context string    `json:"context"`
	Match   MatchSpan `json:"match"`
}

// MatchSpan is a character range within SearchMatch.Context.
type MatchSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// JSONSearchResult is a document matched by a JsonLogic or Dataview query.
type JSONSearchResult struct {
	Filename string `json:"filename"`
	Result   any    `json:"result"`
}

// RecentChange is a recently modified vault file.
type RecentChange struct {
	Path         string `json:"path"`
	ModifiedTime any    `json:"modified_time"`
}

// ServerStatus is the body of GET /.
type ServerStatus struct {
	Status        string            `json:"status"`
	Service       string            `json:"service"`
	Authenticated bool              `json:"authenticated"`
	Versions      map[string]string `json:"versions,omitempty"`
}

// Command is an Obsidian command that can be executed remotely.
type Command struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// APIError is the error body returned by the REST API on non-2xx responses.
type APIError struct {
	ErrorCode int    `json:"errorCode"`
	Message   string `json:"message"`
}

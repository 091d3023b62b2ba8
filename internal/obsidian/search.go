package obsidian

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/starford/obsidian-mcp/internal/models"
)

// Search runs a simple text search. contextLength bounds the characters of
// surrounding text returned for each match.
func (c *Client) Search(ctx context.Context, query string, contextLength int) ([]models.SearchResult, error) {
	var results []models.SearchResult
	err := c.doJSON(ctx, request{
		method: http.MethodPost,
		path:   "/search/simple/",
		query: url.Values{
			"query":         {query},
			"contextLength": {strconv.Itoa(contextLength)},
		},
	}, &results)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// SearchJSON runs a JsonLogic query. The query is sent as-is; the vault
// evaluates it against every file and drops falsy results.
func (c *Client) SearchJSON(ctx context.Context, query any) ([]models.JSONSearchResult, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("obsidian: encode jsonlogic query: %w", err)
	}

	var results []models.JSONSearchResult
	err = c.doJSON(ctx, request{
		method:  http.MethodPost,
		path:    "/search/",
		headers: map[string]string{"Content-Type": contentTypeJSONLogic},
		body:    body,
	}, &results)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetRecentChanges lists files modified within the last q.Days days,
// most recent first, truncated to q.Limit entries.
func (c *Client) GetRecentChanges(ctx context.Context, q RecentChangesQuery) ([]models.RecentChange, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var rows []models.JSONSearchResult
	err := c.doJSON(ctx, request{
		method:  http.MethodPost,
		path:    "/search/",
		headers: map[string]string{"Content-Type": contentTypeDQL},
		body:    []byte(q.dql()),
	}, &rows)
	if err != nil {
		return nil, err
	}

	changes := make([]models.RecentChange, 0, len(rows))
	for _, row := range rows {
		change := models.RecentChange{Path: row.Filename}
		if fields, ok := row.Result.(map[string]any); ok {
			change.ModifiedTime = fields["file.mtime"]
		}
		changes = append(changes, change)
	}
	return changes, nil
}

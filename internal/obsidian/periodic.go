package obsidian

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// GetPeriodicNote returns the current note for q.Period. With the metadata
// type the body is the JSON note representation, otherwise raw Markdown.
func (c *Client) GetPeriodicNote(ctx context.Context, q PeriodicNoteQuery) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}
	req := request{method: http.MethodGet, path: "/periodic/" + q.Period + "/"}
	if q.Type == PeriodicMetadata {
		req.headers = map[string]string{"Accept": contentTypeNoteJSON}
	}
	data, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetRecentPeriodicNotes returns up to q.Limit notes of q.Period, most recent first.
func (c *Client) GetRecentPeriodicNotes(ctx context.Context, q RecentPeriodicNotesQuery) ([]map[string]any, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	var notes []map[string]any
	err := c.doJSON(ctx, request{
		method: http.MethodGet,
		path:   "/periodic/" + q.Period + "/recent",
		query: url.Values{
			"limit":          {strconv.Itoa(q.Limit)},
			"includeContent": {strconv.FormatBool(q.IncludeContent)},
		},
	}, &notes)
	if err != nil {
		return nil, err
	}
	return notes, nil
}

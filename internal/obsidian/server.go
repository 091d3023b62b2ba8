package obsidian

import (
	"context"
	"net/http"
	"net/url"

	"github.com/starford/obsidian-mcp/internal/models"
)

// GetServerStatus returns plugin details. The endpoint answers without
// authentication, so Authenticated tells whether the API key was accepted.
func (c *Client) GetServerStatus(ctx context.Context) (*models.ServerStatus, error) {
	var status models.ServerStatus
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/"}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListCommands returns the commands registered in Obsidian.
func (c *Client) ListCommands(ctx context.Context) ([]models.Command, error) {
	var body struct {
		Commands []models.Command `json:"commands"`
	}
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/commands/"}, &body); err != nil {
		return nil, err
	}
	return body.Commands, nil
}

// ExecuteCommand runs the command with the given id.
func (c *Client) ExecuteCommand(ctx context.Context, id string) error {
	_, err := c.do(ctx, request{method: http.MethodPost, path: "/commands/" + url.PathEscape(id) + "/"})
	return err
}

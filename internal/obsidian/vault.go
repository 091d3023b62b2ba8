package obsidian

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/starford/obsidian-mcp/internal/models"
)

// ListFilesInVault lists the files and directories at the vault root.
func (c *Client) ListFilesInVault(ctx context.Context) ([]string, error) {
	return c.listFiles(ctx, "/vault/")
}

// ListFilesInDir lists the files and directories under dirpath.
// Empty directories are not reported by the API.
func (c *Client) ListFilesInDir(ctx context.Context, dirpath string) ([]string, error) {
	path, err := vaultPath(dirpath)
	if err != nil {
		return nil, err
	}
	return c.listFiles(ctx, path+"/")
}

func (c *Client) listFiles(ctx context.Context, path string) ([]string, error) {
	var listing models.FileListing
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: path}, &listing); err != nil {
		return nil, err
	}
	if listing.Files == nil {
		return []string{}, nil
	}
	return listing.Files, nil
}

// GetFileContents returns the raw content of filepath.
func (c *Client) GetFileContents(ctx context.Context, filepath string) (string, error) {
	path, err := vaultPath(filepath)
	if err != nil {
		return "", err
	}
	data, err := c.do(ctx, request{method: http.MethodGet, path: path})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetNote returns filepath with its parsed frontmatter, tags and stat metadata.
func (c *Client) GetNote(ctx context.Context, filepath string) (*models.NoteJSON, error) {
	path, err := vaultPath(filepath)
	if err != nil {
		return nil, err
	}
	var note models.NoteJSON
	err = c.doJSON(ctx, request{
		method:  http.MethodGet,
		path:    path,
		headers: map[string]string{"Accept": contentTypeNoteJSON},
	}, &note)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// GetBatchFileContents concatenates the contents of filepaths, each preceded by a
// header naming its path. A file that cannot be read is reported inline and does
// not abort the batch.
func (c *Client) GetBatchFileContents(ctx context.Context, filepaths []string) string {
	var b strings.Builder
	for _, p := range filepaths {
		content, err := c.GetFileContents(ctx, p)
		if err != nil {
			fmt.Fprintf(&b, "# %s\n\nError reading file: %v\n\n---\n\n", p, err)
			continue
		}
		fmt.Fprintf(&b, "# %s\n\n%s\n\n---\n\n", p, content)
	}
	return b.String()
}

// AppendContent appends content to filepath, creating the file if needed.
func (c *Client) AppendContent(ctx context.Context, filepath, content string) error {
	path, err := vaultPath(filepath)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{
		method:  http.MethodPost,
		path:    path,
		headers: map[string]string{"Content-Type": contentTypeMarkdown},
		body:    []byte(content),
	})
	return err
}

// PutContent creates filepath or replaces its content.
func (c *Client) PutContent(ctx context.Context, filepath, content string) error {
	path, err := vaultPath(filepath)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{
		method:  http.MethodPut,
		path:    path,
		headers: map[string]string{"Content-Type": contentTypeMarkdown},
		body:    []byte(content),
	})
	return err
}

// PatchContent inserts content relative to the target named in patch.
func (c *Client) PatchContent(ctx context.Context, filepath string, patch PatchRequest) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	path, err := vaultPath(filepath)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{
		method: http.MethodPatch,
		path:   path,
		headers: map[string]string{
			"Content-Type": contentTypeMarkdown,
			"Operation":    patch.Operation,
			"Target-Type":  patch.TargetType,
			"Target":       url.PathEscape(patch.Target),
		},
		body: []byte(patch.Content),
	})
	return err
}

// DeleteFile removes filepath from the vault. Deletion cannot be undone.
func (c *Client) DeleteFile(ctx context.Context, filepath string) error {
	path, err := vaultPath(filepath)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodDelete, path: path})
	return err
}

// OpenFile opens filepath in the Obsidian UI, optionally in a new leaf.
func (c *Client) OpenFile(ctx context.Context, filepath string, newLeaf bool) error {
	escaped, err := requiredPath(filepath)
	if err != nil {
		return err
	}
	req := request{method: http.MethodPost, path: "/open/" + escaped}
	if newLeaf {
		req.query = url.Values{"newLeaf": {strconv.FormatBool(newLeaf)}}
	}
	_, err = c.do(ctx, req)
	return err
}

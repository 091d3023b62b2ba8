// Package obsidian implements a client for the Obsidian Local REST API plugin.
package obsidian

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/obsidian-mcp/internal/apperr"
	"github.com/starford/obsidian-mcp/internal/models"
)

// Media types understood by the REST API.
const (
	contentTypeMarkdown  = "text/markdown"
	contentTypeNoteJSON  = "application/vnd.olrapi.note+json"
	contentTypeJSONLogic = "application/vnd.olrapi.jsonlogic+json"
	contentTypeDQL       = "application/vnd.olrapi.dataview.dql+txt"
)

// Client issues authenticated requests against a single vault.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for cfg. TLS certificates are only checked when
// cfg.VerifyTLS is set, since the plugin serves a self-signed certificate.
func NewClient(cfg Config) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext
	transport.ResponseHeaderTimeout = cfg.ReadTimeout
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS} //nolint:gosec

	return &Client{
		cfg:        cfg,
		baseURL:    strings.TrimSuffix(cfg.BaseURL(), "/"),
		httpClient: &http.Client{Transport: transport},
	}
}

// request describes one REST call.
type request struct {
	method  string
	path    string
	query   url.Values
	headers map[string]string
	body    []byte
}

// do performs req and returns the response body of a 2xx response.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("obsidian: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.ErrTransport, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.ErrTransport, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp.StatusCode, data)
	}
	return data, nil
}

// doJSON performs req and decodes the response body into out.
func (c *Client) doJSON(ctx context.Context, req request, out any) error {
	data, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("obsidian: decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

func responseError(status int, body []byte) error {
	e := &apperr.Error{Status: status}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Kind = apperr.ErrAuthentication
	case http.StatusNotFound:
		e.Kind = apperr.ErrNotFound
	default:
		e.Kind = apperr.ErrRemote
	}

	var apiErr models.APIError
	if len(body) > 0 && json.Unmarshal(body, &apiErr) == nil {
		e.Code = apiErr.ErrorCode
		e.Message = apiErr.Message
	}
	if e.Code == 0 && e.Message == "" {
		e.Code = -1
		e.Message = "<unknown>"
		if len(body) > 0 {
			e.Message = strings.TrimSpace(string(body))
		}
	}
	return e
}

// vaultPath returns the /vault/ URL path for a vault-relative file path,
// escaping each segment but keeping the separators. A path that names no
// file would address the vault root and is rejected.
func vaultPath(filepath string) (string, error) {
	escaped, err := requiredPath(filepath)
	if err != nil {
		return "", err
	}
	return "/vault/" + escaped, nil
}

func requiredPath(filepath string) (string, error) {
	if err := validation.Validate(strings.Trim(filepath, "/ \t\r\n"), validation.Required); err != nil {
		return "", apperr.NewValidation("filepath", "filepath is required")
	}
	return escapePath(filepath), nil
}

func escapePath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

package mcpserver

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/obsidian-mcp/internal/apperr"
)

// Argument readers. Each one rejects values of the wrong JSON type with an
// apperr.ValidationError so handlers can fail before touching the vault.

func stringArg(req mcp.CallToolRequest, key string) (string, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return "", apperr.NewValidation(key, "%s is required", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", apperr.NewValidation(key, "Invalid %s: %v. Must be a string", key, raw)
	}
	return s, nil
}

// pathArg reads a vault-relative path. Empty values and bare slashes would
// address the vault root, so they count as missing.
func pathArg(req mcp.CallToolRequest, key string) (string, error) {
	s, err := stringArg(req, key)
	if err != nil {
		return "", err
	}
	if err := validation.Validate(strings.Trim(s, "/ \t\r\n"), validation.Required); err != nil {
		return "", apperr.NewValidation(key, "%s is required", key)
	}
	return s, nil
}

func optionalStringArg(req mcp.CallToolRequest, key, def string) (string, error) {
	if raw, ok := req.GetArguments()[key]; !ok || raw == nil {
		return def, nil
	}
	return stringArg(req, key)
}

// enumArg reads an optional string that must be one of valid.
func enumArg(req mcp.CallToolRequest, key, def string, valid []string) (string, error) {
	s, err := optionalStringArg(req, key, def)
	if err != nil {
		return "", err
	}
	msg := fmt.Sprintf("Invalid %s: %s. Must be one of: %s", key, s, strings.Join(valid, ", "))
	elems := make([]any, len(valid))
	for i, v := range valid {
		elems[i] = v
	}
	if err := validation.Validate(s, validation.Required.Error(msg), validation.In(elems...).Error(msg)); err != nil {
		return "", apperr.NewValidation(key, "%s", err.Error())
	}
	return s, nil
}

// maxIntArg bounds integer arguments.
const maxIntArg = math.MaxInt32

// positiveIntArg reads an optional integer in [1, maxIntArg]. JSON numbers
// arrive as float64, so any fractional part is rejected.
func positiveIntArg(req mcp.CallToolRequest, key string, def int) (int, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return def, nil
	}
	shown := fmt.Sprint(raw)
	if f, ok := raw.(float64); ok {
		shown = strconv.FormatFloat(f, 'f', -1, 64)
	}
	invalid := apperr.NewValidation(key, "Invalid %s: %s. Must be a positive integer", key, shown)
	tooLarge := apperr.NewValidation(key, "Invalid %s: %s. Must be at most %d", key, shown, maxIntArg)

	var n int64
	switch v := raw.(type) {
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) || v != math.Trunc(v) {
			return 0, invalid
		}
		if v > maxIntArg {
			return 0, tooLarge
		}
		if v < 0 {
			return 0, invalid
		}
		n = int64(v)
	case int:
		n = int64(v)
	case int64:
		n = v
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, invalid
		}
		n = i
	default:
		return 0, invalid
	}

	if err := validation.Validate(n, validation.Required, validation.Min(int64(1))); err != nil {
		return 0, invalid
	}
	if err := validation.Validate(n, validation.Max(int64(maxIntArg))); err != nil {
		return 0, tooLarge
	}
	return int(n), nil
}

// boolArg reads an optional boolean. Strings such as "true" are rejected.
func boolArg(req mcp.CallToolRequest, key string, def bool) (bool, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return def, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, apperr.NewValidation(key, "Invalid %s: %v. Must be a boolean", key, raw)
	}
	return b, nil
}

func stringSliceArg(req mcp.CallToolRequest, key string) ([]string, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, apperr.NewValidation(key, "%s is required", key)
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, apperr.NewValidation(key, "Invalid %s: item %d is not a string", key, i)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, apperr.NewValidation(key, "Invalid %s: %v. Must be a list of strings", key, raw)
	}
}

// objectArg reads a JSON object without inspecting its contents.
func objectArg(req mcp.CallToolRequest, key string) (map[string]any, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, apperr.NewValidation(key, "%s is required", key)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, apperr.NewValidation(key, "Invalid %s: must be a JSON object", key)
	}
	return obj, nil
}

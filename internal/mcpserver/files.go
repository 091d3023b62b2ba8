package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/obsidian-mcp/internal/apperr"
	"github.com/starford/obsidian-mcp/internal/obsidian"
)

const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

var fileFormats = []string{formatMarkdown, formatJSON}

func (s *Server) listFilesInVault(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, err := s.vault.ListFilesInVault(ctx)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(nonNilSlice(files))
}

func (s *Server) listFilesInDir(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := pathArg(req, "dirpath")
	if err != nil {
		return toolError(err)
	}
	files, err := s.vault.ListFilesInDir(ctx, dir)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(nonNilSlice(files))
}

func (s *Server) getFileContents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := pathArg(req, "filepath")
	if err != nil {
		return toolError(err)
	}
	format, err := enumArg(req, "format", formatMarkdown, fileFormats)
	if err != nil {
		return toolError(err)
	}

	if format == formatJSON {
		note, err := s.vault.GetNote(ctx, path)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(note)
	}

	content, err := s.vault.GetFileContents(ctx, path)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) batchGetFileContents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paths, err := stringSliceArg(req, "filepaths")
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(s.vault.GetBatchFileContents(ctx, paths)), nil
}

func (s *Server) appendContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := pathArg(req, "filepath")
	if err != nil {
		return toolError(err)
	}
	content, err := stringArg(req, "content")
	if err != nil {
		return toolError(err)
	}
	if err := s.vault.AppendContent(ctx, path, content); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully appended content to %s", path)), nil
}

func (s *Server) patchContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := pathArg(req, "filepath")
	if err != nil {
		return toolError(err)
	}
	var patch obsidian.PatchRequest
	fields := []struct {
		key string
		dst *string
	}{
		{"operation", &patch.Operation},
		{"target_type", &patch.TargetType},
		{"target", &patch.Target},
		{"content", &patch.Content},
	}
	for _, f := range fields {
		if *f.dst, err = stringArg(req, f.key); err != nil {
			return toolError(err)
		}
	}
	if err := patch.Validate(); err != nil {
		return toolError(err)
	}

	if err := s.vault.PatchContent(ctx, path, patch); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully patched content in %s", path)), nil
}

func (s *Server) putContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := pathArg(req, "filepath")
	if err != nil {
		return toolError(err)
	}
	content, err := stringArg(req, "content")
	if err != nil {
		return toolError(err)
	}
	if err := s.vault.PutContent(ctx, path, content); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully uploaded content to %s", path)), nil
}

// deleteFile only reaches the vault when confirm is the JSON boolean true.
func (s *Server) deleteFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := pathArg(req, "filepath")
	if err != nil {
		return toolError(err)
	}
	confirm, err := boolArg(req, "confirm", false)
	if err != nil {
		return toolError(err)
	}
	if !confirm {
		return toolError(apperr.NewValidation("confirm", "confirm must be set to true to delete a file"))
	}

	if err := s.vault.DeleteFile(ctx, path); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully deleted %s", path)), nil
}

func (s *Server) openFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := pathArg(req, "filepath")
	if err != nil {
		return toolError(err)
	}
	newLeaf, err := boolArg(req, "new_leaf", false)
	if err != nil {
		return toolError(err)
	}
	if err := s.vault.OpenFile(ctx, path, newLeaf); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully opened %s", path)), nil
}

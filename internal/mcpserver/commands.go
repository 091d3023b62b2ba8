package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) getServerInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.vault.GetServerStatus(ctx)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(status)
}

func (s *Server) listCommands(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	commands, err := s.vault.ListCommands(ctx)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(nonNilSlice(commands))
}

func (s *Server) executeCommand(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := stringArg(req, "command_id")
	if err != nil {
		return toolError(err)
	}
	if err := s.vault.ExecuteCommand(ctx, id); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully executed command %s", id)), nil
}

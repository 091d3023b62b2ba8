package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/obsidian-mcp/internal/obsidian"
)

const defaultPeriodicLimit = 5

func (s *Server) getPeriodicNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	period, err := enumArg(req, "period", "", obsidian.Periods)
	if err != nil {
		return toolError(err)
	}
	typ, err := enumArg(req, "type", obsidian.PeriodicContent, obsidian.PeriodicTypes)
	if err != nil {
		return toolError(err)
	}

	note, err := s.vault.GetPeriodicNote(ctx, obsidian.PeriodicNoteQuery{Period: period, Type: typ})
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(note), nil
}

func (s *Server) getRecentPeriodicNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	period, err := enumArg(req, "period", "", obsidian.Periods)
	if err != nil {
		return toolError(err)
	}
	limit, err := positiveIntArg(req, "limit", defaultPeriodicLimit)
	if err != nil {
		return toolError(err)
	}
	includeContent, err := boolArg(req, "include_content", false)
	if err != nil {
		return toolError(err)
	}

	notes, err := s.vault.GetRecentPeriodicNotes(ctx, obsidian.RecentPeriodicNotesQuery{
		Period:         period,
		Limit:          limit,
		IncludeContent: includeContent,
	})
	if err != nil {
		return toolError(err)
	}
	return jsonResult(nonNilSlice(notes))
}

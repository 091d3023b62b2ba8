package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/obsidian-mcp/internal/obsidian"
)

const (
	defaultContextLength = 100
	defaultChangesLimit  = 10
	defaultChangesDays   = 90
)

type searchHit struct {
	Filename string        `json:"filename"`
	Score    float64       `json:"score"`
	Matches  []searchMatch `json:"matches"`
}

type searchMatch struct {
	Context       string        `json:"context"`
	MatchPosition matchPosition `json:"match_position"`
}

type matchPosition struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s *Server) simpleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := stringArg(req, "query")
	if err != nil {
		return toolError(err)
	}
	contextLength, err := positiveIntArg(req, "context_length", defaultContextLength)
	if err != nil {
		return toolError(err)
	}

	results, err := s.vault.Search(ctx, query, contextLength)
	if err != nil {
		return toolError(err)
	}

	hits := make([]searchHit, 0, len(results))
	for _, r := range results {
		hit := searchHit{Filename: r.Filename, Score: r.Score, Matches: make([]searchMatch, 0, len(r.Matches))}
		for _, m := range r.Matches {
			hit.Matches = append(hit.Matches, searchMatch{
				Context:       m.Context,
				MatchPosition: matchPosition{Start: m.Match.Start, End: m.Match.End},
			})
		}
		hits = append(hits, hit)
	}
	return jsonResult(hits)
}

func (s *Server) complexSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := objectArg(req, "query")
	if err != nil {
		return toolError(err)
	}
	results, err := s.vault.SearchJSON(ctx, query)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(nonNilSlice(results))
}

func (s *Server) getRecentChanges(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, err := positiveIntArg(req, "limit", defaultChangesLimit)
	if err != nil {
		return toolError(err)
	}
	days, err := positiveIntArg(req, "days", defaultChangesDays)
	if err != nil {
		return toolError(err)
	}

	changes, err := s.vault.GetRecentChanges(ctx, obsidian.RecentChangesQuery{Limit: limit, Days: days})
	if err != nil {
		return toolError(err)
	}
	return jsonResult(nonNilSlice(changes))
}

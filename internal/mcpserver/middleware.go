package mcpserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// logToolCalls logs every tool invocation with a per-call id.
func logToolCalls(logger *slog.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			callID := uuid.NewString()
			start := time.Now()

			res, err := next(ctx, req)

			attrs := []any{
				"tool", req.Params.Name,
				"call_id", callID,
				"duration", time.Since(start),
			}
			switch {
			case err != nil:
				logger.ErrorContext(ctx, "tool call failed", append(attrs, "err", err)...)
			case res != nil && res.IsError:
				logger.WarnContext(ctx, "tool call returned error", append(attrs, "message", resultMessage(res))...)
			default:
				logger.InfoContext(ctx, "tool call", attrs...)
			}
			return res, err
		}
	}
}

func resultMessage(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

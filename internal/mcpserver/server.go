// Package mcpserver exposes the Obsidian vault as a fixed set of MCP tools.
// Every tool validates its arguments, makes a single vault call and returns text.
package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/obsidian-mcp/internal/models"
	"github.com/starford/obsidian-mcp/internal/obsidian"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

// Vault is the set of vault operations the tools depend on.
type Vault interface {
	ListFilesInVault(ctx context.Context) ([]string, error)
	ListFilesInDir(ctx context.Context, dirpath string) ([]string, error)
	GetFileContents(ctx context.Context, filepath string) (string, error)
	GetNote(ctx context.Context, filepath string) (*models.NoteJSON, error)
	GetBatchFileContents(ctx context.Context, filepaths []string) string
	Search(ctx context.Context, query string, contextLength int) ([]models.SearchResult, error)
	SearchJSON(ctx context.Context, query any) ([]models.JSONSearchResult, error)
	AppendContent(ctx context.Context, filepath, content string) error
	PutContent(ctx context.Context, filepath, content string) error
	PatchContent(ctx context.Context, filepath string, patch obsidian.PatchRequest) error
	DeleteFile(ctx context.Context, filepath string) error
	GetPeriodicNote(ctx context.Context, q obsidian.PeriodicNoteQuery) (string, error)
	GetRecentPeriodicNotes(ctx context.Context, q obsidian.RecentPeriodicNotesQuery) ([]map[string]any, error)
	GetRecentChanges(ctx context.Context, q obsidian.RecentChangesQuery) ([]models.RecentChange, error)
	GetServerStatus(ctx context.Context) (*models.ServerStatus, error)
	ListCommands(ctx context.Context) ([]models.Command, error)
	ExecuteCommand(ctx context.Context, id string) error
	OpenFile(ctx context.Context, filepath string, newLeaf bool) error
}

var _ Vault = (*obsidian.Client)(nil)

// Server wraps the MCP server with the vault tools.
type Server struct {
	mcp    *server.MCPServer
	vault  Vault
	logger *slog.Logger
}

// New creates an MCP server with all vault tools registered.
func New(vault Vault, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{vault: vault, logger: logger}

	s.mcp = server.NewMCPServer(
		"mcp-obsidian",
		Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(logToolCalls(logger)),
	)

	s.mcp.AddTool(mcp.NewTool("obsidian_list_files_in_vault",
		mcp.WithDescription("Lists all files and directories in the root directory of your Obsidian vault."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.listFilesInVault)

	s.mcp.AddTool(mcp.NewTool("obsidian_list_files_in_dir",
		mcp.WithDescription("Lists all files and directories that exist in a specific Obsidian directory."),
		mcp.WithString("dirpath", mcp.Required(),
			mcp.Description("Path to list files from (relative to your vault root). Note that empty directories will not be returned.")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.listFilesInDir)

	s.mcp.AddTool(mcp.NewTool("obsidian_get_file_contents",
		mcp.WithDescription("Return the content of a single file in your vault."),
		mcp.WithString("filepath", mcp.Required(), mcp.Description("Path to the relevant file (relative to your vault root).")),
		mcp.WithString("format", mcp.Enum(fileFormats...), mcp.DefaultString(formatMarkdown),
			mcp.Description("'markdown' returns the raw file, 'json' adds frontmatter, tags and file stats.")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.getFileContents)

	s.mcp.AddTool(mcp.NewTool("obsidian_batch_get_file_contents",
		mcp.WithDescription("Return the contents of multiple files in your vault, concatenated with headers."),
		mcp.WithArray("filepaths", mcp.Required(), mcp.Items(map[string]any{"type": "string"}),
			mcp.Description("List of file paths to read (relative to your vault root)")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.batchGetFileContents)

	s.mcp.AddTool(mcp.NewTool("obsidian_simple_search",
		mcp.WithDescription("Simple search for documents matching a specified text query across all files in the vault."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to search for in the vault.")),
		mcp.WithNumber("context_length", mcp.DefaultNumber(defaultContextLength), mcp.Min(1),
			mcp.Description("How much context to return around the matching string (default: 100)")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.simpleSearch)

	s.mcp.AddTool(mcp.NewTool("obsidian_complex_search",
		mcp.WithDescription(complexSearchDescription),
		mcp.WithObject("query", mcp.Required(), mcp.Description("JsonLogic query object, see the guide above for operators and variables")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.complexSearch)

	s.mcp.AddTool(mcp.NewTool("obsidian_append_content",
		mcp.WithDescription("Append content to a new or existing file in the vault."),
		mcp.WithString("filepath", mcp.Required(), mcp.Description("Path to the file (relative to vault root)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content to append to the file")),
		mcp.WithDestructiveHintAnnotation(false),
	), s.appendContent)

	s.mcp.AddTool(mcp.NewTool("obsidian_patch_content",
		mcp.WithDescription("Insert content into an existing note relative to a heading, block reference, or frontmatter field."),
		mcp.WithString("filepath", mcp.Required(), mcp.Description("Path to the file (relative to vault root)")),
		mcp.WithString("operation", mcp.Required(), mcp.Enum(obsidian.PatchOperations...),
			mcp.Description("Operation to perform (append, prepend, or replace)")),
		mcp.WithString("target_type", mcp.Required(), mcp.Enum(obsidian.PatchTargets...),
			mcp.Description("Type of target to patch (heading, block, or frontmatter)")),
		mcp.WithString("target", mcp.Required(),
			mcp.Description("Target identifier (heading path, block reference, or frontmatter field)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content to insert")),
	), s.patchContent)

	s.mcp.AddTool(mcp.NewTool("obsidian_put_content",
		mcp.WithDescription("Create a new file in your vault or update the content of an existing one."),
		mcp.WithString("filepath", mcp.Required(), mcp.Description("Path to the relevant file (relative to your vault root)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content of the file you would like to upload")),
	), s.putContent)

	s.mcp.AddTool(mcp.NewTool("obsidian_delete_file",
		mcp.WithDescription("Delete a file or directory from the vault."),
		mcp.WithString("filepath", mcp.Required(), mcp.Description("Path to the file or directory to delete (relative to vault root)")),
		mcp.WithBoolean("confirm", mcp.Required(), mcp.DefaultBool(false),
			mcp.Description("Confirmation to delete the file (must be true)")),
		mcp.WithDestructiveHintAnnotation(true),
	), s.deleteFile)

	s.mcp.AddTool(mcp.NewTool("obsidian_get_periodic_note",
		mcp.WithDescription("Get current periodic note for the specified period."),
		mcp.WithString("period", mcp.Required(), mcp.Enum(obsidian.Periods...),
			mcp.Description("The period type (daily, weekly, monthly, quarterly, yearly)")),
		mcp.WithString("type", mcp.Enum(obsidian.PeriodicTypes...), mcp.DefaultString(obsidian.PeriodicContent),
			mcp.Description("The type of data to get ('content' or 'metadata'). 'content' returns just the content in Markdown format. "+
				"'metadata' includes note metadata (including paths, tags, etc.) and the content.")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.getPeriodicNote)

	s.mcp.AddTool(mcp.NewTool("obsidian_get_recent_periodic_notes",
		mcp.WithDescription("Get most recent periodic notes for the specified period type."),
		mcp.WithString("period", mcp.Required(), mcp.Enum(obsidian.Periods...),
			mcp.Description("The period type (daily, weekly, monthly, quarterly, yearly)")),
		mcp.WithNumber("limit", mcp.DefaultNumber(defaultPeriodicLimit), mcp.Min(1),
			mcp.Description("Maximum number of notes to return (default: 5, max: 50)")),
		mcp.WithBoolean("include_content", mcp.DefaultBool(false),
			mcp.Description("Whether to include note content (default: false)")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.getRecentPeriodicNotes)

	s.mcp.AddTool(mcp.NewTool("obsidian_get_recent_changes",
		mcp.WithDescription("Get recently modified files in the vault."),
		mcp.WithNumber("limit", mcp.DefaultNumber(defaultChangesLimit), mcp.Min(1),
			mcp.Description("Maximum number of files to return (default: 10, max: 100)")),
		mcp.WithNumber("days", mcp.DefaultNumber(defaultChangesDays), mcp.Min(1),
			mcp.Description("Only include files modified within this many days (default: 90)")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.getRecentChanges)

	s.mcp.AddTool(mcp.NewTool("obsidian_get_server_info",
		mcp.WithDescription("Get Local REST API plugin details and whether the configured API key is accepted."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.getServerInfo)

	s.mcp.AddTool(mcp.NewTool("obsidian_list_commands",
		mcp.WithDescription("List the commands available in Obsidian."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.listCommands)

	s.mcp.AddTool(mcp.NewTool("obsidian_execute_command",
		mcp.WithDescription("Execute an Obsidian command by id (see obsidian_list_commands)."),
		mcp.WithString("command_id", mcp.Required(), mcp.Description("ID of the command to execute")),
	), s.executeCommand)

	s.mcp.AddTool(mcp.NewTool("obsidian_open_file",
		mcp.WithDescription("Open a file in the Obsidian UI."),
		mcp.WithString("filepath", mcp.Required(), mcp.Description("Path to the file (relative to vault root)")),
		mcp.WithBoolean("new_leaf", mcp.DefaultBool(false), mcp.Description("Open in a new leaf (default: false)")),
	), s.openFile)

	s.mcp.AddResource(
		mcp.NewResource(jsonLogicGuideURI, "JsonLogic Search Guide",
			mcp.WithResourceDescription("Query syntax accepted by obsidian_complex_search."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readJSONLogicGuide,
	)

	return s
}

// ServeStdio serves MCP over newline-delimited JSON-RPC on in and out until
// ctx is cancelled or in is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, in, out)
}

// HTTPHandler returns the streamable HTTP transport for the server.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

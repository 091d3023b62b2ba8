package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const jsonLogicGuideURI = "obsidian://jsonlogic-guide"

// Canonical complex-search queries.
const (
	exampleAllMarkdown   = `{"glob": ["*.md", {"var": "path"}]}`
	exampleSubstring     = `{"and": [{"glob": ["*.md", {"var": "path"}]}, {"regexp": [".*1221.*", {"var": "content"}]}]}`
	exampleFolderAndName = `{"and": [{"glob": ["*.md", {"var": "path"}]}, {"regexp": [".*Work.*", {"var": "path"}]}, {"regexp": ["Keaton", {"var": "content"}]}]}`
)

// JSONLogicGuide describes the query language accepted by obsidian_complex_search.
const JSONLogicGuide = `# JsonLogic Search Guide

Queries are JsonLogic objects evaluated against every note in the vault.
Notes for which the query returns a truthy value are included in the results.

## Variables

- ` + "`path`" + `: vault-relative file path
- ` + "`content`" + `: raw Markdown content
- ` + "`frontmatter.<key>`" + `: any frontmatter field
- ` + "`tags`" + `: list of tags in the note
- ` + "`stat.ctime`" + `, ` + "`stat.mtime`" + `, ` + "`stat.size`" + `: file metadata

## Operators

All standard JsonLogic operators are available, plus:

- ` + "`glob`" + `: ` + "`{\"glob\": [pattern, value]}`" + ` matches value against a glob pattern
- ` + "`regexp`" + `: ` + "`{\"regexp\": [pattern, value]}`" + ` matches value against a regular expression

## Examples

1. Match all markdown files:
   ` + "`" + exampleAllMarkdown + "`" + `
2. Match all markdown files with 1221 substring inside them:
   ` + "`" + exampleSubstring + "`" + `
3. Match all markdown files in Work folder containing name Keaton:
   ` + "`" + exampleFolderAndName + "`" + `

Regular expressions use JavaScript syntax; inline flags such as (?i) are not supported.
`

const complexSearchDescription = "Complex search for documents using a JsonLogic query. " +
	"Supports standard JsonLogic operators plus 'glob' and 'regexp' for pattern matching. " +
	"Results must be non-falsy. Use this tool when you want to do a complex search, " +
	"e.g. for all documents with certain tags etc. ALWAYS follow query syntax in examples.\n\n" + JSONLogicGuide

func (s *Server) readJSONLogicGuide(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      jsonLogicGuideURI,
			MIMEType: "text/markdown",
			Text:     JSONLogicGuide,
		},
	}, nil
}

// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes schemaref capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/schemaref"
)

const serverInstructions = `schemaref MCP server: resolves JSON Schema $ref references and checks schemas against their meta-schemas.

External references and meta-schemas are loaded from a schema directory. An identifier such as http://example.com/schemas/address maps to the file http_example.com_schemas_address.json (use map_identifier to see the mapping).

Configuration: defaults are configurable via SCHEMAREF_* environment variables set in your MCP client config.

Key settings:
- SCHEMAREF_SCHEMA_DIR: schema directory for inline content when schema_dir is omitted
- SCHEMAREF_ENGINE (default: santhosh): meta-schema validation engine (santhosh, gojsonschema, google)
- SCHEMAREF_RESULT_LIMIT (default: 100): default number of violations returned
- SCHEMAREF_MAX_INLINE_SIZE (default: 10MiB): largest accepted inline schema
- SCHEMAREF_MAX_REF_DEPTH (default: 100): maximum nested $ref expansions
- SCHEMAREF_MAX_INLINED_NODES (default: 1048576): maximum JSON nodes one call may build
- SCHEMAREF_CALL_TIMEOUT (default: 30s): time budget for one tool call

Every call loads documents afresh; nothing is cached between calls.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := newServer()
	return server.Run(ctx, &mcp.StdioTransport{})
}

func newServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "schemaref", Version: schemaref.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_schema",
		Description: "Resolve every $ref in a JSON Schema and check the document against the meta-schema named by its $schema keyword (or the meta_schema argument). Returns valid, the meta-schema identifier, and violations with JSON pointer locations. Load and reference failures (missing files, $id mismatch, cycles) are returned as errors. Use offset/limit to paginate through violations.",
	}, handleCheckSchema)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fill_refs",
		Description: "Inline every $ref in a JSON Schema, returning a self-contained document. Local pointers, external documents, and pointers into external documents are all expanded. \"#\" root references are left in place; inside content inlined from another document they become \"<id>#\". Sibling keys of a $ref are dropped.",
	}, handleFillRefs)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "map_identifier",
		Description: "Map schema identifiers (http://, https://, or tag: URIs) to the filename they are loaded from in the schema directory. Unsupported identifiers are reported per item.",
	}, handleMapIdentifier)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ResultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ResultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	if !cfg.SanitizeErrors {
		return err.Error()
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// withCallTimeout bounds a tool call by cfg.CallTimeout.
func withCallTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, cfg.CallTimeout)
}

package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/schemaref/internal/mcpserver"
)

// HandleMCP runs the MCP server over stdio until the client disconnects or
// the process is interrupted.
func HandleMCP(args []string) error {
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		Writef(os.Stderr, "Usage: schemaref mcp\n\n")
		Writef(os.Stderr, "Run the schemaref MCP server over stdio.\n\n")
		Writef(os.Stderr, "Configuration is read from SCHEMAREF_* environment variables:\n")
		Writef(os.Stderr, "  SCHEMAREF_SCHEMA_DIR, SCHEMAREF_ENGINE, SCHEMAREF_RESULT_LIMIT, SCHEMAREF_MAX_LIMIT,\n")
		Writef(os.Stderr, "  SCHEMAREF_MAX_INLINE_SIZE, SCHEMAREF_MAX_REF_DEPTH, SCHEMAREF_CALL_TIMEOUT,\n")
		Writef(os.Stderr, "  SCHEMAREF_SANITIZE_ERRORS\n")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}

package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/erraggy/schemaref/jsonvalidate"
	"github.com/erraggy/schemaref/resolver"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// SchemaDir is used when a tool call names no schema_dir and passes inline content.
	SchemaDir string
	// Engine is the default meta-schema validation engine.
	Engine string

	// Result limits.
	ResultLimit int
	MaxLimit    int

	// Input and resolution limits.
	MaxInlineSize   int64
	MaxRefDepth     int
	MaxInlinedNodes int
	CallTimeout     time.Duration

	// SanitizeErrors strips absolute paths from error messages.
	SanitizeErrors bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from SCHEMAREF_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		SchemaDir:       os.Getenv("SCHEMAREF_SCHEMA_DIR"),
		Engine:          envEngine("SCHEMAREF_ENGINE"),
		ResultLimit:     envInt("SCHEMAREF_RESULT_LIMIT", 100),
		MaxLimit:        envInt("SCHEMAREF_MAX_LIMIT", 1000),
		MaxInlineSize:   envInt64("SCHEMAREF_MAX_INLINE_SIZE", 10*1024*1024),
		MaxRefDepth:     envInt("SCHEMAREF_MAX_REF_DEPTH", resolver.DefaultMaxRefDepth),
		MaxInlinedNodes: envInt("SCHEMAREF_MAX_INLINED_NODES", resolver.DefaultMaxInlinedNodes),
		CallTimeout:     envDuration("SCHEMAREF_CALL_TIMEOUT", 30*time.Second),
		SanitizeErrors:  envBool("SCHEMAREF_SANITIZE_ERRORS", true),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envEngine(key string) string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return jsonvalidate.DefaultEngine
	}
	if !jsonvalidate.IsValidEngine(v) {
		slog.Warn("invalid engine env var, using default", "key", key, "value", v, "default", jsonvalidate.DefaultEngine) //nolint:gosec // G706: values are structured log fields, not format strings
		return jsonvalidate.DefaultEngine
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}

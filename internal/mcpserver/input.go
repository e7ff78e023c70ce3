package mcpserver

import (
	"fmt"

	"github.com/erraggy/schemaref/validator"
)

// schemaInput represents the two ways a schema can be provided to a tool.
// Exactly one of File or Content must be set.
type schemaInput struct {
	File      string `json:"file,omitempty"       jsonschema:"Path to a JSON or YAML schema file on disk"`
	Content   string `json:"content,omitempty"    jsonschema:"Inline schema content (JSON or YAML)"`
	SchemaDir string `json:"schema_dir,omitempty" jsonschema:"Directory holding referenced schemas and meta-schemas. Defaults to the file's directory, or SCHEMAREF_SCHEMA_DIR for inline content."`
}

// options converts the input into validator options. Size and source checks
// happen here so the error text names the tool arguments, not Go options.
func (s schemaInput) options() ([]validator.Option, error) {
	count := 0
	if s.File != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file or content must be provided (got %d)", count)
	}

	// Enforce inline content size limit.
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set SCHEMAREF_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	opts := []validator.Option{
		validator.WithMaxRefDepth(cfg.MaxRefDepth),
		validator.WithMaxInlinedNodes(cfg.MaxInlinedNodes),
	}
	if s.File != "" {
		opts = append(opts, validator.WithFilePath(s.File))
	} else {
		opts = append(opts, validator.WithBytes([]byte(s.Content)))
	}

	dir := s.SchemaDir
	if dir == "" && s.Content != "" {
		dir = cfg.SchemaDir
	}
	if dir != "" {
		opts = append(opts, validator.WithSchemaDir(dir))
	}
	return opts, nil
}

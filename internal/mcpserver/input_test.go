package mcpserver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaInput_Options(t *testing.T) {
	opts, err := schemaInput{File: "a.json"}.options()
	require.NoError(t, err)
	// max depth and file path
	assert.Len(t, opts, 2)

	opts, err = schemaInput{Content: "{}", SchemaDir: "schemas"}.options()
	require.NoError(t, err)
	assert.Len(t, opts, 3)
}

func TestSchemaInput_InlineUsesConfiguredSchemaDir(t *testing.T) {
	orig := cfg.SchemaDir
	cfg.SchemaDir = schemaDir
	t.Cleanup(func() { cfg.SchemaDir = orig })

	opts, err := schemaInput{Content: "{}"}.options()
	require.NoError(t, err)
	assert.Len(t, opts, 3)
}

func TestSchemaInput_SourceErrors(t *testing.T) {
	_, err := schemaInput{}.options()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file or content must be provided (got 0)")

	_, err = schemaInput{File: "a.json", Content: "{}"}.options()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(got 2)")
}

func TestSchemaInput_InlineSizeLimit(t *testing.T) {
	orig := cfg.MaxInlineSize
	cfg.MaxInlineSize = 8
	t.Cleanup(func() { cfg.MaxInlineSize = orig })

	_, err := schemaInput{Content: strings.Repeat(" ", 9) + "{}"}.options()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum 8 bytes")
}

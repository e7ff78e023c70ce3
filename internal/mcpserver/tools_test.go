package mcpserver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaDir = filepath.Join("..", "..", "validator", "testdata", "schemas")

func TestCheckSchemaTool_Valid(t *testing.T) {
	input := checkInput{Schema: schemaInput{File: filepath.Join(schemaDir, "person.json")}}
	result, output, err := handleCheckSchema(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)
	assert.True(t, output.Valid)
	assert.Equal(t, "http://example.com/schemas/meta", output.MetaSchema)
	assert.Equal(t, "santhosh", output.Engine)
	assert.Zero(t, output.ViolationCount)
	assert.Empty(t, output.Violations)
	assert.Equal(t, 6, output.Stats.RefsInlined)
}

func TestCheckSchemaTool_Violations(t *testing.T) {
	for _, engine := range []string{"santhosh", "gojsonschema"} {
		t.Run(engine, func(t *testing.T) {
			input := checkInput{
				Schema: schemaInput{File: filepath.Join(schemaDir, "untitled.json")},
				Engine: engine,
			}
			_, output, err := handleCheckSchema(context.Background(), &mcp.CallToolRequest{}, input)
			require.NoError(t, err)
			assert.False(t, output.Valid)
			assert.Equal(t, engine, output.Engine)
			assert.Equal(t, 2, output.ViolationCount)
			require.Len(t, output.Violations, 2)
			assert.Equal(t, "", output.Violations[0].InstanceLocation)
			assert.Equal(t, "/description", output.Violations[1].InstanceLocation)
		})
	}
}

func TestCheckSchemaTool_Pagination(t *testing.T) {
	input := checkInput{
		Schema: schemaInput{File: filepath.Join(schemaDir, "untitled.json")},
		Offset: 1,
		Limit:  5,
	}
	_, output, err := handleCheckSchema(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Equal(t, 2, output.ViolationCount)
	assert.Equal(t, 1, output.Returned)
	require.Len(t, output.Violations, 1)
	assert.Equal(t, "/description", output.Violations[0].InstanceLocation)
}

func TestCheckSchemaTool_ExplicitMetaSchema(t *testing.T) {
	input := checkInput{
		Schema:     schemaInput{Content: `["not", "an", "object"]`, SchemaDir: schemaDir},
		MetaSchema: "http://example.com/schemas/meta",
	}
	_, output, err := handleCheckSchema(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.False(t, output.Valid)
	assert.Positive(t, output.ViolationCount)
}

func TestCheckSchemaTool_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   checkInput
		wantMsg string
	}{
		{
			name:    "no input",
			input:   checkInput{},
			wantMsg: "exactly one of file or content",
		},
		{
			name:    "cyclic",
			input:   checkInput{Schema: schemaInput{File: filepath.Join(schemaDir, "cyclic.json")}},
			wantMsg: "cyclic reference",
		},
		{
			name: "unknown engine",
			input: checkInput{
				Schema: schemaInput{File: filepath.Join(schemaDir, "person.json")},
				Engine: "ajv",
			},
			wantMsg: "engine",
		},
		{
			name:    "missing file",
			input:   checkInput{Schema: schemaInput{File: filepath.Join(schemaDir, "missing.json")}},
			wantMsg: "not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := handleCheckSchema(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
			text := result.Content[0].(*mcp.TextContent).Text
			assert.Contains(t, text, tt.wantMsg)
		})
	}
}

func TestCheckSchemaTool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := checkInput{Schema: schemaInput{File: filepath.Join(schemaDir, "person.json")}}
	result, _, err := handleCheckSchema(ctx, &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestFillRefsTool(t *testing.T) {
	input := fillInput{Schema: schemaInput{
		Content:   `{"properties": {"n": {"$ref": "tag:example.com,2020:name"}, "self": {"$ref": "#"}}}`,
		SchemaDir: schemaDir,
	}}
	result, output, err := handleFillRefs(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)
	assert.Equal(t, "json", output.SourceFormat)
	assert.Equal(t, 1, output.Stats.RefsInlined)
	assert.Equal(t, 1, output.Stats.RootRefsKept)

	props := output.Resolved.(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, map[string]any{
		"$id":       "tag:example.com,2020:name",
		"type":      "string",
		"maxLength": json.Number("64"),
	}, props["n"])
	assert.Equal(t, map[string]any{"$ref": "#"}, props["self"])
}

func TestFillRefsTool_Error(t *testing.T) {
	input := fillInput{Schema: schemaInput{
		Content:   `{"$ref": "#/definitions/missing"}`,
		SchemaDir: schemaDir,
	}}
	result, _, err := handleFillRefs(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].(*mcp.TextContent).Text, "pointer not found")
}

func TestMapIdentifierTool(t *testing.T) {
	input := mapInput{Identifiers: []string{
		"http://example.com/schemas/address",
		"tag:example.com,2020:name",
		"urn:isbn:0451450523",
	}}
	result, output, err := handleMapIdentifier(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)
	require.Len(t, output.Mappings, 3)
	assert.Equal(t, 1, output.Failed)

	assert.Equal(t, "http_example.com_schemas_address.json", output.Mappings[0].Filename)
	assert.Equal(t, []string{"example.com_schemas_address.json"}, output.Mappings[0].Alternates)
	assert.Equal(t, "tag_example.com,2020_name.json", output.Mappings[1].Filename)
	assert.Empty(t, output.Mappings[2].Filename)
	assert.NotEmpty(t, output.Mappings[2].Error)
}

func TestMapIdentifierTool_NoIdentifiers(t *testing.T) {
	result, _, err := handleMapIdentifier(context.Background(), &mcp.CallToolRequest{}, mapInput{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

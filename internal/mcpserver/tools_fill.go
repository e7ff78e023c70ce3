package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/schemaref/validator"
)

type fillInput struct {
	Schema schemaInput `json:"schema" jsonschema:"The JSON Schema document whose references are inlined"`
}

type fillOutput struct {
	Resolved     any             `json:"resolved"`
	SourceFormat string          `json:"source_format"`
	Stats        validator.Stats `json:"stats"`
}

func handleFillRefs(ctx context.Context, _ *mcp.CallToolRequest, input fillInput) (*mcp.CallToolResult, fillOutput, error) {
	ctx, cancel := withCallTimeout(ctx)
	defer cancel()

	opts, err := input.Schema.options()
	if err != nil {
		return errResult(err), fillOutput{}, nil
	}

	result, err := validator.FillWithOptions(opts...)
	if err != nil {
		return errResult(err), fillOutput{}, nil
	}
	if err := ctx.Err(); err != nil {
		return errResult(fmt.Errorf("fill cancelled: %w", err)), fillOutput{}, nil
	}

	return nil, fillOutput{
		Resolved:     result.Resolved,
		SourceFormat: result.SourceFormat,
		Stats:        result.Stats,
	}, nil
}

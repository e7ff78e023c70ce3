package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/schemaref/validator"
)

type checkInput struct {
	Schema     schemaInput `json:"schema"                jsonschema:"The JSON Schema document to check"`
	Engine     string      `json:"engine,omitempty"      jsonschema:"Validation engine: santhosh, gojsonschema, or google (default from SCHEMAREF_ENGINE)"`
	MetaSchema string      `json:"meta_schema,omitempty" jsonschema:"Check against this meta-schema identifier instead of the declared $schema"`
	Offset     int         `json:"offset,omitempty"      jsonschema:"Skip the first N violations (for pagination)"`
	Limit      int         `json:"limit,omitempty"       jsonschema:"Maximum number of violations to return (default 100)"`
}

type checkViolation struct {
	InstanceLocation string `json:"instance_location"`
	KeywordLocation  string `json:"keyword_location,omitempty"`
	Message          string `json:"message"`
}

type checkOutput struct {
	Valid          bool             `json:"valid"`
	MetaSchema     string           `json:"meta_schema,omitempty"`
	Engine         string           `json:"engine"`
	ViolationCount int              `json:"violation_count"`
	Returned       int              `json:"returned"`
	Violations     []checkViolation `json:"violations,omitempty"`
	Stats          validator.Stats  `json:"stats"`
}

func handleCheckSchema(ctx context.Context, _ *mcp.CallToolRequest, input checkInput) (*mcp.CallToolResult, checkOutput, error) {
	ctx, cancel := withCallTimeout(ctx)
	defer cancel()

	opts, err := input.Schema.options()
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}

	engine := cfg.Engine
	if input.Engine != "" {
		engine = input.Engine
	}
	opts = append(opts, validator.WithEngine(engine), validator.WithMetaSchema(input.MetaSchema))

	if err := ctx.Err(); err != nil {
		return errResult(fmt.Errorf("check cancelled: %w", err)), checkOutput{}, nil
	}

	result, err := validator.ValidateWithOptions(opts...)
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}

	// The check itself is not interruptible; a call that outlived its budget
	// still reports the timeout rather than a late result.
	if err := ctx.Err(); err != nil {
		return errResult(fmt.Errorf("check cancelled: %w", err)), checkOutput{}, nil
	}

	output := checkOutput{
		Valid:          result.Valid,
		MetaSchema:     result.MetaSchema,
		Engine:         result.Engine,
		ViolationCount: result.ViolationCount,
		Stats:          result.Stats,
	}

	output.Violations = makeSlice[checkViolation](len(result.Violations))
	for _, v := range result.Violations {
		output.Violations = append(output.Violations, checkViolation{
			InstanceLocation: v.InstanceLocation,
			KeywordLocation:  v.KeywordLocation,
			Message:          v.Message,
		})
	}

	output.Violations = paginate(output.Violations, input.Offset, input.Limit)
	output.Returned = len(output.Violations)

	return nil, output, nil
}

package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/schemaref/identifier"
)

type mapInput struct {
	Identifiers []string `json:"identifiers" jsonschema:"Schema identifiers to map, e.g. http://example.com/schemas/address or tag:example.com,2020:name"`
}

type mappedIdentifier struct {
	Identifier string   `json:"identifier"`
	Filename   string   `json:"filename,omitempty"`
	Alternates []string `json:"alternates,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type mapOutput struct {
	Mappings []mappedIdentifier `json:"mappings"`
	Failed   int                `json:"failed"`
}

func handleMapIdentifier(_ context.Context, _ *mcp.CallToolRequest, input mapInput) (*mcp.CallToolResult, mapOutput, error) {
	if len(input.Identifiers) == 0 {
		return errResult(errors.New("at least one identifier must be provided")), mapOutput{}, nil
	}

	output := mapOutput{Mappings: make([]mappedIdentifier, 0, len(input.Identifiers))}
	for _, raw := range input.Identifiers {
		m := mappedIdentifier{Identifier: raw}
		id, err := identifier.Parse(raw)
		if err != nil {
			m.Error = sanitizeError(err)
			output.Failed++
		} else {
			m.Filename = id.Filename()
			m.Alternates = id.AlternateFilenames()
		}
		output.Mappings = append(output.Mappings, m)
	}
	return nil, output, nil
}

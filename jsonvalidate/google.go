package jsonvalidate

import (
	"fmt"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/erraggy/schemaref/schemaerrors"
)

type googleEngine struct {
	loader Loader
}

func (e *googleEngine) Name() string { return EngineGoogle }

// Validate reports at most one violation: the library joins all failures into
// a single error.
func (e *googleEngine) Validate(instance, schema any) ([]schemaerrors.Violation, error) {
	s, err := toGoogleSchema(schema)
	if err != nil {
		return nil, err
	}
	opts := &jsonschema.ResolveOptions{}
	if e.loader != nil {
		opts.Loader = e.load
	}
	resolved, err := s.Resolve(opts)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	if err := resolved.Validate(instance); err != nil {
		return []schemaerrors.Violation{{Message: err.Error()}}, nil
	}
	return []schemaerrors.Violation{}, nil
}

func (e *googleEngine) load(uri *url.URL) (*jsonschema.Schema, error) {
	doc, err := e.loader(uri.String())
	if err != nil {
		return nil, err
	}
	return toGoogleSchema(doc)
}

func toGoogleSchema(v any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding schema: %w", err)
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	return &s, nil
}

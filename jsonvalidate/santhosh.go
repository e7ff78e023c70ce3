package jsonvalidate

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/erraggy/schemaref/identifier"
	"github.com/erraggy/schemaref/schemaerrors"
)

// schemaResourceURL names schemas that declare no usable $id.
const schemaResourceURL = "mem://schemaref/schema.json"

type santhoshEngine struct {
	loader Loader
}

func (e *santhoshEngine) Name() string { return EngineSanthosh }

func (e *santhoshEngine) Validate(instance, schema any) ([]schemaerrors.Violation, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("encoding schema: %w", err)
	}

	url := resourceURL(schema)
	c := jsonschema.NewCompiler()
	if e.loader != nil {
		c.LoadURL = e.loadURL
	}
	if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	err = compiled.Validate(instance)
	if err == nil {
		return []schemaerrors.Violation{}, nil
	}
	var vErr *jsonschema.ValidationError
	if !errors.As(err, &vErr) {
		return nil, fmt.Errorf("validating: %w", err)
	}
	violations := flattenSanthosh(vErr, nil)
	sortViolations(violations)
	return violations, nil
}

// loadURL serves compiler lookups from the configured loader and falls back
// to the library's own loaders.
func (e *santhoshEngine) loadURL(url string) (io.ReadCloser, error) {
	doc, err := e.loader(url)
	if err != nil {
		if rc, fallbackErr := jsonschema.LoadURL(url); fallbackErr == nil {
			return rc, nil
		}
		return nil, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// flattenSanthosh collects the leaf errors of a validation error tree. The
// top-level error only summarizes its causes.
func flattenSanthosh(e *jsonschema.ValidationError, out []schemaerrors.Violation) []schemaerrors.Violation {
	if len(e.Causes) == 0 {
		return append(out, schemaerrors.Violation{
			InstanceLocation: e.InstanceLocation,
			KeywordLocation:  e.KeywordLocation,
			Message:          e.Message,
		})
	}
	for _, cause := range e.Causes {
		out = flattenSanthosh(cause, out)
	}
	return out
}

// resourceURL registers a schema under its own absolute $id so that "#"
// references resolve inside it.
func resourceURL(schema any) string {
	obj, ok := schema.(map[string]any)
	if !ok {
		return schemaResourceURL
	}
	id, ok := obj["$id"].(string)
	if !ok {
		return schemaResourceURL
	}
	parsed, err := identifier.Parse(id)
	if err != nil {
		return schemaResourceURL
	}
	return parsed.String()
}

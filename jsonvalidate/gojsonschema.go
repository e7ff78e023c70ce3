package jsonvalidate

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/erraggy/schemaref/identifier"
	"github.com/erraggy/schemaref/schemaerrors"
)

type goJSONSchemaEngine struct {
	loader Loader
}

func (e *goJSONSchemaEngine) Name() string { return EngineGoJSONSchema }

func (e *goJSONSchemaEngine) Validate(instance, schema any) ([]schemaerrors.Violation, error) {
	sl := gojsonschema.NewSchemaLoader()
	if e.loader != nil {
		if err := e.preload(sl, schema); err != nil {
			return nil, err
		}
	}
	compiled, err := sl.Compile(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	result, err := compiled.Validate(gojsonschema.NewGoLoader(instance))
	if err != nil {
		return nil, fmt.Errorf("validating: %w", err)
	}

	violations := make([]schemaerrors.Violation, 0, len(result.Errors()))
	if result.Valid() {
		return violations, nil
	}
	for _, re := range result.Errors() {
		violations = append(violations, schemaerrors.Violation{
			InstanceLocation: contextPointer(re.Context()),
			KeywordLocation:  re.Type(),
			Message:          re.Description(),
		})
	}
	sortViolations(violations)
	return violations, nil
}

// preload registers every document the schema references by absolute
// identifier, and the documents those reference in turn. The library has no
// lookup hook, so the pool must be filled before compiling. Documents the
// loader cannot serve are left for the library's own resolution.
func (e *goJSONSchemaEngine) preload(sl *gojsonschema.SchemaLoader, schema any) error {
	seen := make(map[string]bool)
	for _, id := range collectIDs(schema, nil) {
		seen[id] = true
	}
	queue := externalRefs(schema, nil)
	for len(queue) > 0 {
		url := queue[0]
		queue = queue[1:]
		if seen[url] {
			continue
		}
		seen[url] = true

		doc, err := e.loader(url)
		if err != nil {
			continue
		}
		if err := sl.AddSchema(url, gojsonschema.NewGoLoader(doc)); err != nil {
			return fmt.Errorf("adding schema %s: %w", url, err)
		}
		queue = externalRefs(doc, queue)
	}
	return nil
}

// externalRefs appends the document part of every absolute $ref in v.
func externalRefs(v any, out []string) []string {
	switch t := v.(type) {
	case map[string]any:
		if ref, ok := t["$ref"].(string); ok && !strings.HasPrefix(ref, "#") {
			prefix, _, _ := strings.Cut(ref, "#")
			if id, err := identifier.Parse(prefix); err == nil {
				out = append(out, id.String())
			}
		}
		for _, item := range t {
			out = externalRefs(item, out)
		}
	case []any:
		for _, item := range t {
			out = externalRefs(item, out)
		}
	}
	return out
}

// collectIDs appends every $id declared in v. Those documents are already
// part of the schema and must not be registered twice.
func collectIDs(v any, out []string) []string {
	switch t := v.(type) {
	case map[string]any:
		if raw, ok := t["$id"].(string); ok {
			if id, err := identifier.Parse(raw); err == nil {
				out = append(out, id.String())
			}
		}
		for _, item := range t {
			out = collectIDs(item, out)
		}
	case []any:
		for _, item := range t {
			out = collectIDs(item, out)
		}
	}
	return out
}

// contextPointer converts a gojsonschema context such as "(root)/a/0" into a
// JSON Pointer ("/a/0").
func contextPointer(ctx *gojsonschema.JsonContext) string {
	if ctx == nil {
		return ""
	}
	return strings.TrimPrefix(ctx.String("/"), gojsonschema.STRING_CONTEXT_ROOT)
}

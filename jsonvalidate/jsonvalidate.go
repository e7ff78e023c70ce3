// Package jsonvalidate adapts third-party JSON Schema libraries to a single
// validate(instance, schema) capability.
//
// Three engines are available:
//
//   - EngineSanthosh: github.com/santhosh-tekuri/jsonschema/v5 (default).
//   - EngineGoJSONSchema: github.com/xeipuuv/gojsonschema.
//   - EngineGoogle: github.com/google/jsonschema-go (draft 2020-12 only).
//
// Every engine can serve absolute $ref URLs from a Loader. santhosh also
// uses it for unknown $schema URLs.
//
// All engines take decoded JSON trees (map[string]any, []any, json.Number, string,
// bool, nil) and report violations as schemaerrors.Violation values. An error
// return means the schema itself could not be used; a valid instance yields
// an empty slice.
package jsonvalidate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/schemaref/schemaerrors"
)

// Engine names.
const (
	EngineSanthosh     = "santhosh"
	EngineGoJSONSchema = "gojsonschema"
	EngineGoogle       = "google"
)

// DefaultEngine is used when no engine is named.
const DefaultEngine = EngineSanthosh

// Engines lists the supported engine names.
var Engines = []string{EngineSanthosh, EngineGoJSONSchema, EngineGoogle}

// Validator validates an instance against a schema.
type Validator interface {
	// Name returns the engine name.
	Name() string
	// Validate reports every way instance fails to conform to schema.
	Validate(instance, schema any) ([]schemaerrors.Violation, error)
}

// Loader returns the decoded document for a URL the engine cannot resolve on
// its own.
type Loader func(url string) (any, error)

// Option configures an engine.
type Option func(*config)

type config struct {
	loader Loader
}

// WithLoader sets the loader for URLs the engine cannot resolve itself.
func WithLoader(l Loader) Option {
	return func(c *config) {
		c.loader = l
	}
}

// New returns the engine called name. An empty name selects DefaultEngine.
func New(name string, opts ...Option) (Validator, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineSanthosh:
		return &santhoshEngine{loader: cfg.loader}, nil
	case EngineGoJSONSchema:
		return &goJSONSchemaEngine{loader: cfg.loader}, nil
	case EngineGoogle:
		return &googleEngine{loader: cfg.loader}, nil
	default:
		return nil, &schemaerrors.ConfigError{
			Option:  "engine",
			Value:   name,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(Engines, ", ")),
		}
	}
}

// IsValidEngine reports whether name is a supported engine.
func IsValidEngine(name string) bool {
	return name == "" || slices.Contains(Engines, strings.ToLower(name))
}

// sortViolations orders violations by instance location, then keyword.
func sortViolations(vs []schemaerrors.Violation) {
	slices.SortStableFunc(vs, func(a, b schemaerrors.Violation) int {
		if c := strings.Compare(a.InstanceLocation, b.InstanceLocation); c != 0 {
			return c
		}
		return strings.Compare(a.KeywordLocation, b.KeywordLocation)
	})
}

// Package metaschema checks that a schema document conforms to the meta-schema
// it declares via $schema.
//
// The meta-schema is looked up in the schema directory like any other
// identifier, fully inlined with the same resolver that serves the document,
// and handed to a validation engine with the document's root as the instance.
package metaschema

import (
	"fmt"

	"github.com/erraggy/schemaref"
	"github.com/erraggy/schemaref/identifier"
	"github.com/erraggy/schemaref/jsonvalidate"
	"github.com/erraggy/schemaref/resolver"
	"github.com/erraggy/schemaref/schemaerrors"
	"github.com/erraggy/schemaref/store"
)

// Checker validates documents against their meta-schemas.
type Checker struct {
	resolver  *resolver.Resolver
	validator jsonvalidate.Validator
	logger    schemaref.Logger
}

// Option configures a Checker.
type Option func(*Checker) error

// WithValidator sets the validation engine.
// Default: the default engine, loading unknown URLs from the resolver's store
func WithValidator(v jsonvalidate.Validator) Option {
	return func(c *Checker) error {
		if v == nil {
			return &schemaerrors.ConfigError{Option: "validator", Message: "must not be nil"}
		}
		c.validator = v
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l schemaref.Logger) Option {
	return func(c *Checker) error {
		c.logger = schemaref.OrNop(l)
		return nil
	}
}

// New creates a checker that loads and inlines meta-schemas with r.
func New(r *resolver.Resolver, opts ...Option) (*Checker, error) {
	if r == nil {
		return nil, &schemaerrors.ConfigError{Option: "resolver", Message: "a resolver is required"}
	}
	c := &Checker{resolver: r, logger: schemaref.NopLogger{}}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.validator == nil {
		v, err := jsonvalidate.New(jsonvalidate.DefaultEngine, jsonvalidate.WithLoader(StoreLoader(r.Store())))
		if err != nil {
			return nil, err
		}
		c.validator = v
	}
	return c, nil
}

// Declared returns the meta-schema identifier doc declares. ok is false when
// the document has no $schema.
func Declared(doc *store.Document) (id identifier.Identifier, ok bool, err error) {
	raw, ok := doc.MetaSchema()
	if !ok {
		return identifier.Identifier{}, false, nil
	}
	s, isString := raw.(string)
	if !isString {
		return identifier.Identifier{}, true, &schemaerrors.MetaSchemaError{
			MetaSchema: fmt.Sprint(raw),
			Message:    "$schema must be a string",
		}
	}
	id, err = identifier.Parse(s)
	if err != nil {
		return identifier.Identifier{}, true, &schemaerrors.MetaSchemaError{MetaSchema: s, Cause: err}
	}
	return id, true, nil
}

// Check validates doc against the meta-schema named by its $schema. A document
// without $schema passes.
func (c *Checker) Check(doc *store.Document) error {
	id, ok, err := Declared(doc)
	if err != nil {
		return err
	}
	if !ok {
		c.logger.Debug("no $schema declared, skipping meta-schema check", "document", doc.Name())
		return nil
	}
	return c.CheckAgainst(doc, id)
}

// CheckAgainst validates doc against the meta-schema identified by meta,
// regardless of what the document declares.
func (c *Checker) CheckAgainst(doc *store.Document, meta identifier.Identifier) error {
	name := meta.String()
	resolved, err := c.resolver.ResolveID(meta)
	if err != nil {
		return &schemaerrors.MetaSchemaError{MetaSchema: name, Cause: err}
	}

	violations, err := c.validator.Validate(doc.Root, resolved)
	if err != nil {
		return &schemaerrors.MetaSchemaError{
			MetaSchema: name,
			Message:    fmt.Sprintf("%s engine rejected the meta-schema", c.validator.Name()),
			Cause:      err,
		}
	}
	if len(violations) > 0 {
		c.logger.Debug("meta-schema violations", "document", doc.Name(), "meta_schema", name, "count", len(violations))
		return &schemaerrors.ValidationError{MetaSchema: name, Violations: violations}
	}
	c.logger.Debug("document conforms to meta-schema", "document", doc.Name(), "meta_schema", name)
	return nil
}

// StoreLoader serves validation engine lookups from st. URLs that are not
// valid identifiers, or that the store cannot load, return an error.
func StoreLoader(st *store.Store) jsonvalidate.Loader {
	return func(url string) (any, error) {
		id, err := identifier.Parse(url)
		if err != nil {
			return nil, err
		}
		doc, err := st.Load(id)
		if err != nil {
			return nil, err
		}
		return doc.Root, nil
	}
}

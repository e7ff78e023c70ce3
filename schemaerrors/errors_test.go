package schemaerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapperError(t *testing.T) {
	err := &MapperError{Identifier: "urn:isbn:123"}
	assert.Equal(t, `unsupported identifier scheme: "urn:isbn:123" is neither an http(s) URI nor a tag: URI`, err.Error())
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
	assert.NotErrorIs(t, err, ErrDocument)
}

func TestDocumentError(t *testing.T) {
	t.Run("not found with cause", func(t *testing.T) {
		cause := errors.New("no such file or directory")
		err := &DocumentError{Kind: NotFound, Path: "schemas/a.json", Identifier: "http://example.com/a", Cause: cause}
		assert.Equal(t, "document error (not found) in schemas/a.json for http://example.com/a: no such file or directory", err.Error())
		assert.ErrorIs(t, err, ErrDocument)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrMalformed)
		assert.Same(t, cause, err.Unwrap())
	})

	t.Run("id mismatch", func(t *testing.T) {
		err := &DocumentError{Kind: IDMismatch, Path: "a.json", Expected: "http://example.com/a", Found: "http://example.com/b"}
		assert.Equal(t, `document error ($id mismatch) in a.json: expected $id "http://example.com/a", found "http://example.com/b"`, err.Error())
		assert.ErrorIs(t, err, ErrIDMismatch)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("id missing", func(t *testing.T) {
		err := &DocumentError{Kind: IDMismatch, Expected: "tag:x"}
		assert.Equal(t, `document error ($id mismatch): expected $id "tag:x" but the document declares none`, err.Error())
	})

	t.Run("malformed", func(t *testing.T) {
		err := &DocumentError{Kind: Malformed}
		assert.ErrorIs(t, err, ErrMalformed)
		assert.Nil(t, err.Unwrap())
	})
}

func TestResolveError(t *testing.T) {
	tests := []struct {
		kind     ResolveKind
		sentinel error
	}{
		{PointerNotFound, ErrPointerNotFound},
		{NotAnObject, ErrNotAnObject},
		{UnrecognizedRefForm, ErrUnrecognizedRefForm},
		{CyclicReference, ErrCyclicReference},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := &ResolveError{Kind: tt.kind, Ref: "#/definitions/x"}
			assert.ErrorIs(t, err, ErrResolve)
			assert.ErrorIs(t, err, tt.sentinel)
			for _, other := range tests {
				if other.kind != tt.kind {
					assert.NotErrorIs(t, err, other.sentinel)
				}
			}
		})
	}

	err := &ResolveError{Kind: PointerNotFound, Ref: "#/definitions/missing", Pointer: "/definitions/missing", Document: "root.json", Message: `missing key "missing"`}
	assert.Equal(t, `pointer not found: #/definitions/missing (pointer /definitions/missing) in root.json: missing key "missing"`, err.Error())
}

func TestMetaSchemaError(t *testing.T) {
	cause := &DocumentError{Kind: NotFound, Path: "meta.json"}
	err := &MetaSchemaError{MetaSchema: "http://example.com/meta", Cause: cause}

	assert.ErrorIs(t, err, ErrMetaSchema)
	assert.ErrorIs(t, err, ErrNotFound, "cause should be reachable through Unwrap")

	var docErr *DocumentError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &docErr))
	assert.Equal(t, "meta.json", docErr.Path)
}

func TestValidationError(t *testing.T) {
	t.Run("single violation", func(t *testing.T) {
		err := &ValidationError{
			MetaSchema: "http://example.com/meta",
			Violations: []Violation{{InstanceLocation: "", Message: "expected object, but got array"}},
		}
		assert.Equal(t, "schema does not conform to meta-schema http://example.com/meta: /: expected object, but got array", err.Error())
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("many violations", func(t *testing.T) {
		err := &ValidationError{Violations: []Violation{
			{InstanceLocation: "/type", Message: "a"},
			{InstanceLocation: "/title", Message: "b"},
			{InstanceLocation: "/x", Message: "c"},
		}}
		assert.Equal(t, "schema does not conform to meta-schema: /type: a (and 2 more)", err.Error())
	})
}

func TestResourceLimitError(t *testing.T) {
	err := &ResourceLimitError{ResourceType: "ref_depth", Limit: 100, Actual: 101, Message: "structure too deeply nested"}
	assert.Equal(t, "resource limit exceeded: ref_depth (limit: 100, actual: 101): structure too deeply nested", err.Error())
	assert.ErrorIs(t, err, ErrResourceLimit)
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "engine", Value: "bogus", Message: "unknown engine"}
	assert.Equal(t, "configuration error for engine (value: bogus): unknown engine", err.Error())
	assert.ErrorIs(t, err, ErrConfig)
}

package jsonvalidate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/schemaref/internal/jsonutil"
	"github.com/erraggy/schemaref/schemaerrors"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	v, err := jsonutil.Decode([]byte(s), jsonutil.FormatJSON)
	require.NoError(t, err)
	return v
}

const personSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "number", "minimum": 0}
	}
}`

func TestEnginesValid(t *testing.T) {
	for _, name := range Engines {
		t.Run(name, func(t *testing.T) {
			v, err := New(name)
			require.NoError(t, err)
			assert.Equal(t, name, v.Name())

			violations, err := v.Validate(decode(t, `{"name": "ada", "age": 36}`), decode(t, personSchema))
			require.NoError(t, err)
			assert.Empty(t, violations)
			assert.NotNil(t, violations)
		})
	}
}

func TestEnginesInvalid(t *testing.T) {
	for _, name := range Engines {
		t.Run(name, func(t *testing.T) {
			v, err := New(name)
			require.NoError(t, err)

			violations, err := v.Validate(decode(t, `{"age": -1}`), decode(t, personSchema))
			require.NoError(t, err)
			assert.NotEmpty(t, violations)
		})
	}
}

func TestEnginesRejectNonObject(t *testing.T) {
	for _, name := range Engines {
		t.Run(name, func(t *testing.T) {
			v, err := New(name)
			require.NoError(t, err)

			violations, err := v.Validate(decode(t, `["not", "an", "object"]`), decode(t, `{"type": "object"}`))
			require.NoError(t, err)
			assert.NotEmpty(t, violations)
		})
	}
}

func TestEnginesRecursiveRootRef(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {"child": {"$ref": "#"}},
		"additionalProperties": false
	}`
	for _, name := range Engines {
		t.Run(name, func(t *testing.T) {
			v, err := New(name)
			require.NoError(t, err)

			violations, err := v.Validate(decode(t, `{"child": {"child": {}}}`), decode(t, schema))
			require.NoError(t, err)
			assert.Empty(t, violations)

			violations, err = v.Validate(decode(t, `{"child": {"bogus": 1}}`), decode(t, schema))
			require.NoError(t, err)
			assert.NotEmpty(t, violations)
		})
	}
}

func TestEnginesBadSchema(t *testing.T) {
	for _, name := range Engines {
		t.Run(name, func(t *testing.T) {
			v, err := New(name)
			require.NoError(t, err)

			_, err = v.Validate(decode(t, `{}`), decode(t, `{"type": 12}`))
			assert.Error(t, err)
		})
	}
}

func TestSanthoshViolationLocations(t *testing.T) {
	v, err := New(EngineSanthosh)
	require.NoError(t, err)

	violations, err := v.Validate(decode(t, `{"age": -1}`), decode(t, personSchema))
	require.NoError(t, err)
	require.Len(t, violations, 2)

	// sorted by instance location: the root (missing name) first
	assert.Equal(t, "", violations[0].InstanceLocation)
	assert.Equal(t, "/required", violations[0].KeywordLocation)
	assert.Equal(t, "/age", violations[1].InstanceLocation)
	assert.Equal(t, "/properties/age/minimum", violations[1].KeywordLocation)
}

func TestGoJSONSchemaViolationLocations(t *testing.T) {
	v, err := New(EngineGoJSONSchema)
	require.NoError(t, err)

	violations, err := v.Validate(decode(t, `{"age": -1}`), decode(t, personSchema))
	require.NoError(t, err)
	require.Len(t, violations, 2)
	assert.Equal(t, "", violations[0].InstanceLocation)
	assert.Equal(t, "required", violations[0].KeywordLocation)
	assert.Equal(t, "/age", violations[1].InstanceLocation)
}

func TestSanthoshLoader(t *testing.T) {
	var requested []string
	loader := func(url string) (any, error) {
		requested = append(requested, url)
		if url != "http://example.com/defs" {
			return nil, errors.New("unknown document")
		}
		return decode(t, `{"definitions": {"count": {"type": "number", "minimum": 0}}}`), nil
	}

	v, err := New(EngineSanthosh, WithLoader(loader))
	require.NoError(t, err)

	schema := decode(t, `{"properties": {"n": {"$ref": "http://example.com/defs#/definitions/count"}}}`)

	violations, err := v.Validate(decode(t, `{"n": 1}`), schema)
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = v.Validate(decode(t, `{"n": -1}`), schema)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "/n", violations[0].InstanceLocation)

	assert.Contains(t, requested, "http://example.com/defs")
}

func TestEnginesLoadAbsoluteRef(t *testing.T) {
	loader := func(url string) (any, error) {
		if url != "http://example.com/count" {
			return nil, errors.New("unknown document")
		}
		return decode(t, `{"$id": "http://example.com/count", "type": "number", "minimum": 0}`), nil
	}
	schema := `{"type": "object", "properties": {"n": {"$ref": "http://example.com/count#"}}}`

	for _, name := range Engines {
		t.Run(name, func(t *testing.T) {
			v, err := New(name, WithLoader(loader))
			require.NoError(t, err)

			violations, err := v.Validate(decode(t, `{"n": 1}`), decode(t, schema))
			require.NoError(t, err)
			assert.Empty(t, violations)

			violations, err = v.Validate(decode(t, `{"n": -1}`), decode(t, schema))
			require.NoError(t, err)
			assert.NotEmpty(t, violations)
		})
	}
}

func TestExternalRefs(t *testing.T) {
	schema := decode(t, `{
		"$id": "http://example.com/root",
		"properties": {
			"a": {"$ref": "http://example.com/a#"},
			"b": {"items": [{"$ref": "tag:example.com,2020:b#/definitions/x"}]},
			"c": {"$ref": "#/definitions/c"},
			"d": {"$ref": "common.json"}
		}
	}`)
	assert.ElementsMatch(t, []string{"http://example.com/a", "tag:example.com,2020:b"}, externalRefs(schema, nil))
	assert.Equal(t, []string{"http://example.com/root"}, collectIDs(schema, nil))
}

func TestSanthoshSchemaWithID(t *testing.T) {
	v, err := New(EngineSanthosh)
	require.NoError(t, err)

	schema := decode(t, `{
		"$id": "http://example.com/meta#",
		"type": "object",
		"properties": {"nested": {"$ref": "#"}, "kind": {"enum": ["a", "b"]}}
	}`)
	violations, err := v.Validate(decode(t, `{"nested": {"kind": "c"}}`), schema)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "/nested/kind", violations[0].InstanceLocation)
}

func TestNewUnknownEngine(t *testing.T) {
	_, err := New("ajv")
	require.Error(t, err)
	assert.ErrorIs(t, err, schemaerrors.ErrConfig)

	var cfgErr *schemaerrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "engine", cfgErr.Option)
}

func TestNewDefaultEngine(t *testing.T) {
	v, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEngine, v.Name())

	v, err = New(" GoJSONSchema ")
	require.NoError(t, err)
	assert.Equal(t, EngineGoJSONSchema, v.Name())
}

func TestIsValidEngine(t *testing.T) {
	assert.True(t, IsValidEngine(""))
	assert.True(t, IsValidEngine("google"))
	assert.True(t, IsValidEngine("Santhosh"))
	assert.False(t, IsValidEngine("ajv"))
}

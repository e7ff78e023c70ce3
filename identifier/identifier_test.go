package identifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/schemaref/schemaerrors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind Kind
		wantURI  string
	}{
		{"http", "http://example.com/a/b", HTTP, "http://example.com/a/b"},
		{"https", "https://example.com/a", HTTP, "https://example.com/a"},
		{"tag", "tag:example.com,2020:x", Tag, "tag:example.com,2020:x"},
		{"empty fragment dropped", "http://json-schema.org/draft-07/schema#", HTTP, "http://json-schema.org/draft-07/schema"},
		{"surrounding space trimmed", "  tag:a:b ", Tag, "tag:a:b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, id.Kind())
			assert.Equal(t, tt.wantURI, id.String())
			assert.False(t, id.IsZero())
		})
	}
}

func TestParseUnsupported(t *testing.T) {
	for _, input := range []string{"", "urn:x:y", "ftp://example.com/a", "file:///tmp/a.json", "tag:", "schemas/a.json"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, schemaerrors.ErrUnsupportedScheme)

			var mErr *schemaerrors.MapperError
			require.ErrorAs(t, err, &mErr)
			assert.Equal(t, input, mErr.Identifier)
		})
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"http://example.com/a/b", "http_example.com_a_b.json"},
		{"https://example.com/schemas/address", "https_example.com_schemas_address.json"},
		{"http://example.com/schemas/address.json", "http_example.com_schemas_address.json"},
		{"http://json-schema.org/draft-07/schema#", "http_json-schema.org_draft-07_schema.json"},
		{"tag:example.com,2020:x", "tag_example.com,2020_x.json"},
		{"tag:example.com,2020:schemas/address", "tag_example.com,2020_schemas_address.json"},
		{"tag:example.com,2020:a.json", "tag_example.com,2020_a.json"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Map(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilenameDeterministic(t *testing.T) {
	for _, input := range []string{"http://example.com/a/b", "tag:example.com,2020:x"} {
		id := MustParse(input)
		first := id.Filename()
		for range 10 {
			assert.Equal(t, first, id.Filename())
			again, err := Map(input)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	}
}

func TestAlternateFilenames(t *testing.T) {
	assert.Equal(t, []string{"example.com_a_b.json"}, MustParse("http://example.com/a/b").AlternateFilenames())
	assert.Equal(t, []string{"tag_example.com2020_x.json"}, MustParse("tag:example.com,2020:x").AlternateFilenames())
	assert.Nil(t, MustParse("tag:example.com:x").AlternateFilenames(), "no commas means no alternate")
	assert.Nil(t, Identifier{}.AlternateFilenames())
}

func TestEqual(t *testing.T) {
	a := MustParse("http://example.com/a#")
	b := MustParse("http://example.com/a")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(MustParse("https://example.com/a")))
	assert.True(t, Identifier{}.IsZero())
	assert.Empty(t, Identifier{}.Filename())
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("urn:nope") })
}

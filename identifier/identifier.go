// Package identifier maps JSON Schema identifiers to local filenames.
//
// Schemas referenced by $ref or $schema are looked up in a schema directory
// where every file is named after the $id of the schema it holds. Two
// identifier schemes are supported:
//
//   - HTTP(S) URIs, e.g. "http://example.com/schemas/address"
//   - tag: URIs (RFC 4151), e.g. "tag:example.com,2020:address"
//
// The naming rule is fixed because files on disk are already named by it:
//
//	http://example.com/schemas/address  ->  http_example.com_schemas_address.json
//	tag:example.com,2020:address        ->  tag_example.com,2020_address.json
package identifier

import (
	"strings"

	"github.com/erraggy/schemaref/schemaerrors"
)

// Kind is the scheme family of an identifier.
type Kind int

const (
	// HTTP is an http:// or https:// URI.
	HTTP Kind = iota + 1
	// Tag is a tag: URI.
	Tag
)

// String returns "http" or "tag".
func (k Kind) String() string {
	switch k {
	case HTTP:
		return "http"
	case Tag:
		return "tag"
	default:
		return "unknown"
	}
}

const (
	jsonExt   = ".json"
	tagPrefix = "tag:"
)

// Identifier is a parsed schema identifier.
// The zero value is not a valid identifier.
type Identifier struct {
	kind Kind
	uri  string
}

// Parse classifies s as an HTTP or tag identifier. A trailing empty fragment
// ("#") is dropped, so "http://json-schema.org/draft-07/schema#" and
// "http://json-schema.org/draft-07/schema" are the same identifier.
func Parse(s string) (Identifier, error) {
	uri := strings.TrimSpace(s)
	uri = strings.TrimSuffix(uri, "#")
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return Identifier{kind: HTTP, uri: uri}, nil
	case strings.HasPrefix(uri, tagPrefix) && len(uri) > len(tagPrefix):
		return Identifier{kind: Tag, uri: uri}, nil
	default:
		return Identifier{}, &schemaerrors.MapperError{Identifier: s}
	}
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level constants.
func MustParse(s string) Identifier {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Kind returns the identifier's scheme family.
func (id Identifier) Kind() Kind { return id.kind }

// String returns the identifier URI without any trailing empty fragment.
func (id Identifier) String() string { return id.uri }

// IsZero reports whether id is the zero Identifier.
func (id Identifier) IsZero() bool { return id.kind == 0 }

// Equal reports whether two identifiers name the same schema.
func (id Identifier) Equal(other Identifier) bool {
	return id.kind == other.kind && id.uri == other.uri
}

// Filename returns the canonical filename for id within a schema directory.
func (id Identifier) Filename() string {
	var name string
	switch id.kind {
	case HTTP:
		name = strings.Replace(id.uri, "://", "_", 1)
		name = strings.ReplaceAll(name, "/", "_")
	case Tag:
		name = strings.Replace(id.uri, tagPrefix, "tag_", 1)
		name = strings.ReplaceAll(name, ":", "_")
		name = strings.ReplaceAll(name, "/", "_")
	default:
		return ""
	}
	return withJSONExt(name)
}

// AlternateFilenames returns legacy filenames that older schema folders use
// for id, in lookup order. The canonical Filename is not included.
//
// HTTP identifiers are also found under their scheme-less name
// ("example.com_a_b.json"); tag identifiers under the name with commas removed.
func (id Identifier) AlternateFilenames() []string {
	canonical := id.Filename()
	var alt string
	switch id.kind {
	case HTTP:
		_, rest, _ := strings.Cut(id.uri, "://")
		alt = withJSONExt(strings.ReplaceAll(rest, "/", "_"))
	case Tag:
		alt = strings.ReplaceAll(canonical, ",", "")
	default:
		return nil
	}
	if alt == canonical || alt == jsonExt {
		return nil
	}
	return []string{alt}
}

// Map parses s and returns its canonical filename. For
// "http://example.com/a/b" that is "http_example.com_a_b.json"; the store
// also accepts the scheme-less "example.com_a_b.json" (see AlternateFilenames).
func Map(s string) (string, error) {
	id, err := Parse(s)
	if err != nil {
		return "", err
	}
	return id.Filename(), nil
}

func withJSONExt(name string) string {
	if strings.HasSuffix(name, jsonExt) {
		return name
	}
	return name + jsonExt
}

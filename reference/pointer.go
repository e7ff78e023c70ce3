package reference

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"

	"github.com/erraggy/schemaref/schemaerrors"
)

// Pointer is a decoded JSON Pointer: the ordered member names used to walk
// from a document root to a nested value. An empty Pointer addresses the root.
type Pointer []string

// ParsePointer decodes the path part of a fragment, i.e. the text after "#/".
// Segments are split on "/", percent-decoded, and RFC 6901 unescaped
// ("~1" is "/", "~0" is "~"). An empty string yields the root pointer.
func ParsePointer(path string) Pointer {
	if path == "" {
		return Pointer{}
	}
	raw := strings.Split(path, "/")
	p := make(Pointer, len(raw))
	for i, seg := range raw {
		if decoded, err := url.PathUnescape(seg); err == nil {
			seg = decoded
		}
		p[i] = jsonpointer.Unescape(seg)
	}
	return p
}

// IsRoot reports whether p addresses the document root.
func (p Pointer) IsRoot() bool { return len(p) == 0 }

// String returns the RFC 6901 form ("/definitions/address"); the root
// pointer is the empty string.
func (p Pointer) String() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		b.WriteString(jsonpointer.Escape(seg))
	}
	return b.String()
}

// Fragment returns the pointer as a URI fragment, e.g. "#/definitions/address".
func (p Pointer) Fragment() string {
	if len(p) == 0 {
		return "#"
	}
	return "#" + p.String()
}

// Lookup walks doc along p. Objects are indexed by key and arrays by
// non-negative decimal index. Any segment that does not reach an existing
// member is a PointerNotFound ResolveError.
func (p Pointer) Lookup(doc any) (any, error) {
	current := doc
	for i, seg := range p {
		switch v := current.(type) {
		case map[string]any:
			next, ok := v[seg]
			if !ok {
				return nil, p.notFound(fmt.Sprintf("missing key %q", seg))
			}
			current = next
		case []any:
			index, err := strconv.Atoi(seg)
			if err != nil || index < 0 {
				return nil, p.notFound(fmt.Sprintf("invalid array index %q", seg))
			}
			if index >= len(v) {
				return nil, p.notFound(fmt.Sprintf("array index %d out of bounds (length %d)", index, len(v)))
			}
			current = v[index]
		default:
			return nil, p.notFound(fmt.Sprintf("cannot traverse into %s at %s", kindOf(v), p[:i].Fragment()))
		}
	}
	return current, nil
}

func (p Pointer) notFound(msg string) error {
	return &schemaerrors.ResolveError{
		Kind:    schemaerrors.PointerNotFound,
		Pointer: p.String(),
		Message: msg,
	}
}

// kindOf names the JSON kind of a decoded value for error messages.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "number"
	}
}

// Package reference parses $ref strings into typed targets.
//
// A $ref is either local, pointing into the document that contains it:
//
//	#
//	#/definitions/address
//
// or external, naming another schema by identifier and optionally a pointer
// into it:
//
//	http://example.com/schemas/address#/definitions/street
//	tag:example.com,2020:address#/
//	http://example.com/schemas/address
//
// An external reference without a pointer (or with an empty one) targets the
// whole external document.
package reference

import (
	"strings"

	"github.com/erraggy/schemaref/identifier"
	"github.com/erraggy/schemaref/schemaerrors"
)

// Target is a parsed $ref. A Target with a zero ID is local.
type Target struct {
	// ID is the external document identifier; zero for local references
	ID identifier.Identifier
	// Pointer addresses the referenced value inside the target document
	Pointer Pointer
}

// Local returns a local target for p.
func Local(p Pointer) Target { return Target{Pointer: p} }

// External returns an external target for id and p.
func External(id identifier.Identifier, p Pointer) Target {
	return Target{ID: id, Pointer: p}
}

// IsLocal reports whether the target points into the referring document.
func (t Target) IsLocal() bool { return t.ID.IsZero() }

// String renders the target back into $ref form.
func (t Target) String() string {
	if t.IsLocal() {
		return t.Pointer.Fragment()
	}
	if t.Pointer.IsRoot() {
		return t.ID.String()
	}
	return t.ID.String() + t.Pointer.Fragment()
}

// Parse classifies ref as a local or external target.
//
// Unrecognised shapes (relative file paths, plain-name anchors such as
// "#foo") are an UnrecognizedRefForm ResolveError; an external prefix with an
// unsupported scheme is a MapperError.
func Parse(ref string) (Target, error) {
	if ref == "#" {
		return Local(Pointer{}), nil
	}
	if rest, ok := strings.CutPrefix(ref, "#/"); ok {
		return Local(ParsePointer(rest)), nil
	}

	prefix, fragment, _ := strings.Cut(ref, "#")
	if prefix == "" || !(strings.Contains(prefix, "http") || strings.Contains(prefix, "tag")) {
		return Target{}, unrecognized(ref)
	}
	id, err := identifier.Parse(prefix)
	if err != nil {
		return Target{}, err
	}
	switch {
	case fragment == "":
		return External(id, Pointer{}), nil
	case strings.HasPrefix(fragment, "/"):
		return External(id, ParsePointer(fragment[1:])), nil
	default:
		return Target{}, unrecognized(ref)
	}
}

func unrecognized(ref string) error {
	return &schemaerrors.ResolveError{
		Kind:    schemaerrors.UnrecognizedRefForm,
		Ref:     ref,
		Message: `expected "#", "#/<pointer>", or an http(s)/tag: identifier optionally followed by "#/<pointer>"`,
	}
}

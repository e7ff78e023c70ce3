// Package validator is the one-call entry point for resolving and checking
// JSON Schema documents.
//
// Each call creates its own document store and resolver, loads the input,
// inlines every $ref it contains, and (for ValidateWithOptions) checks the
// document against its meta-schema. Nothing is shared between calls.
//
// # Schema Directory
//
// External references and meta-schemas are identified by HTTP(S) or tag: URIs
// and are looked up as files in a single schema directory:
//
//	http://example.com/schemas/address  ->  http_example.com_schemas_address.json
//	tag:example.com,2020:address        ->  tag_example.com,2020_address.json
//
// For HTTP identifiers the scheme-less name (example.com_schemas_address.json)
// is accepted as well. A loaded document must declare an $id equal to the
// identifier it was referenced by.
//
// # Reference Forms
//
//   - "#/definitions/x": a pointer into the current document
//   - "http://example.com/a#/definitions/x": a pointer into another document
//   - "http://example.com/a" (or with "#"): the whole other document
//   - "#": the current document's root, left in place
//
// Sibling keys of a $ref are dropped when it is inlined.
//
// # Errors
//
// Failures are typed errors from the schemaerrors package and can be tested
// with errors.Is and errors.As:
//
//	result, err := validator.ValidateWithOptions(validator.WithFilePath(path))
//	if errors.Is(err, schemaerrors.ErrCyclicReference) {
//		// ...
//	}
//
// Meta-schema violations are not errors; they are reported in
// ValidationResult.Violations.
package validator

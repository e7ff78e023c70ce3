// Package schemaref provides tools for resolving JSON Schema $ref references
// and checking schemas against the meta-schemas they declare.
//
// A schema directory holds every document a schema may reference. Each
// document is stored under a filename derived from its identifier, and must
// declare that identifier as its $id. Resolution rewrites the tree so that
// every $ref is replaced by the subtree it points at.
//
// # Overview
//
// The library consists of the following packages:
//
//   - identifier: Parse schema identifiers and map them to filenames
//   - reference: Classify $ref strings and evaluate JSON pointers
//   - store: Load and cache schema documents from a schema directory
//   - resolver: Inline $ref references, with cycle and depth detection
//   - jsonvalidate: Pluggable JSON Schema validation engines
//   - metaschema: Check a document against its declared $schema
//   - validator: One-call load, resolve, and check
//   - schemaerrors: Typed errors for errors.Is and errors.As
//
// This root package holds the shared Logger interface and build information.
//
// # Quick Start
//
// Check a schema against its meta-schema:
//
//	import "github.com/erraggy/schemaref/validator"
//
//	result, err := validator.ValidateWithOptions(
//		validator.WithFilePath("schemas/person.json"),
//		validator.WithSchemaDir("schemas"),
//	)
//	if err != nil {
//		log.Fatal(err) // load, reference, or meta-schema failure
//	}
//	if !result.Valid {
//		for _, v := range result.Violations {
//			fmt.Println(v)
//		}
//	}
//
// Inline every reference:
//
//	result, err := validator.FillWithOptions(validator.WithFilePath("schemas/person.json"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	data, _ := json.MarshalIndent(result.Resolved, "", "  ")
//
// Use the lower-level packages directly to share one store between several
// documents:
//
//	st, err := store.New("schemas", store.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//	r, _ := resolver.New(st)
//	doc, err := st.LoadPath("schemas/person.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	resolved, err := r.Resolve(doc)
//
// # Logging
//
// Store, resolver, and checker accept a [Logger]. Use [NewSlogAdapter] to log
// through log/slog; the default discards everything.
//
// # Command Line
//
// The schemaref command wraps the validator package:
//
//	schemaref -s person.json -sf schemas
//	schemaref fill --format yaml schemas/person.json
//	schemaref map http://example.com/schemas/address
//	schemaref lint schemas/*.json
//	schemaref mcp
package schemaref

// Package schemaerrors provides structured error types for schemaref.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), so callers can tell apart an unsupported identifier scheme, a
// missing schema file, a dangling JSON pointer, and a meta-schema violation.
//
// # Error Categories
//
//   - MapperError: an identifier that is neither an HTTP(S) URI nor a tag: URI
//   - DocumentError: a schema file that is missing, malformed, or whose $id
//     does not match the identifier it was looked up by
//   - ResolveError: a $ref that cannot be inlined (bad form, dangling pointer,
//     non-object target, or a reference cycle)
//   - MetaSchemaError: the declared $schema could not be loaded or resolved
//   - ValidationError: the document does not conform to its meta-schema
//   - ResourceLimitError: depth, size, or cache limits were exceeded
//   - ConfigError: invalid options
//
// # Usage with errors.Is
//
//	_, err := validator.ValidateWithOptions(
//	    validator.WithFilePath("schema.json"),
//	    validator.WithSchemaDir("schemas"),
//	)
//	if errors.Is(err, schemaerrors.ErrIDMismatch) {
//	    // a schema file is stored under the wrong name
//	}
package schemaerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrUnsupportedScheme indicates an identifier with an unsupported scheme.
	ErrUnsupportedScheme = errors.New("unsupported identifier scheme")

	// ErrDocument indicates any schema document load failure.
	ErrDocument = errors.New("document error")

	// ErrNotFound indicates a schema file is missing or unreadable.
	ErrNotFound = errors.New("schema document not found")

	// ErrMalformed indicates a schema file could not be parsed.
	ErrMalformed = errors.New("malformed schema document")

	// ErrIDMismatch indicates a loaded document declares a different $id.
	ErrIDMismatch = errors.New("$id mismatch")

	// ErrResolve indicates any $ref resolution failure.
	ErrResolve = errors.New("resolve error")

	// ErrPointerNotFound indicates a JSON pointer does not reach an existing member.
	ErrPointerNotFound = errors.New("pointer not found")

	// ErrNotAnObject indicates a $ref target is not a JSON object.
	ErrNotAnObject = errors.New("reference target is not an object")

	// ErrUnrecognizedRefForm indicates a $ref string that is neither local nor external.
	ErrUnrecognizedRefForm = errors.New("unrecognized $ref form")

	// ErrCyclicReference indicates a $ref that (transitively) refers to itself.
	ErrCyclicReference = errors.New("cyclic reference")

	// ErrMetaSchema indicates the declared meta-schema could not be loaded or resolved.
	ErrMetaSchema = errors.New("meta-schema error")

	// ErrValidation indicates a document does not conform to its meta-schema.
	ErrValidation = errors.New("validation error")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// MapperError reports an identifier that cannot be mapped to a filename.
type MapperError struct {
	// Identifier is the offending identifier string
	Identifier string
}

// Error returns a human-readable error message.
func (e *MapperError) Error() string {
	return fmt.Sprintf("unsupported identifier scheme: %q is neither an http(s) URI nor a tag: URI", e.Identifier)
}

// Is reports whether target matches this error type.
func (e *MapperError) Is(target error) bool {
	return target == ErrUnsupportedScheme
}

// DocumentKind classifies a DocumentError.
type DocumentKind int

const (
	// NotFound means the file is missing or unreadable.
	NotFound DocumentKind = iota + 1
	// Malformed means the file content could not be parsed.
	Malformed
	// IDMismatch means the declared $id differs from the requested identifier.
	IDMismatch
)

// String returns the kind name.
func (k DocumentKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Malformed:
		return "malformed"
	case IDMismatch:
		return "$id mismatch"
	default:
		return "unknown"
	}
}

// DocumentError represents a failure to load a schema document.
type DocumentError struct {
	// Kind classifies the failure
	Kind DocumentKind
	// Path is the file path that was read (or attempted)
	Path string
	// Identifier is the identifier the document was looked up by, if any
	Identifier string
	// Expected is the requested identifier (IDMismatch only)
	Expected string
	// Found is the declared $id, empty when absent (IDMismatch only)
	Found string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *DocumentError) Error() string {
	var b strings.Builder
	b.WriteString("document error")
	if e.Kind != 0 {
		b.WriteString(" (" + e.Kind.String() + ")")
	}
	if e.Path != "" {
		b.WriteString(" in " + e.Path)
	}
	if e.Identifier != "" && e.Kind != IDMismatch {
		b.WriteString(" for " + e.Identifier)
	}
	if e.Kind == IDMismatch {
		if e.Found == "" {
			fmt.Fprintf(&b, ": expected $id %q but the document declares none", e.Expected)
		} else {
			fmt.Fprintf(&b, ": expected $id %q, found %q", e.Expected, e.Found)
		}
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for error chaining.
func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrDocument, and the sentinel for the error's Kind.
func (e *DocumentError) Is(target error) bool {
	switch target {
	case ErrDocument:
		return true
	case ErrNotFound:
		return e.Kind == NotFound
	case ErrMalformed:
		return e.Kind == Malformed
	case ErrIDMismatch:
		return e.Kind == IDMismatch
	}
	return false
}

// ResolveKind classifies a ResolveError.
type ResolveKind int

const (
	// PointerNotFound means a pointer segment does not reach an existing member.
	PointerNotFound ResolveKind = iota + 1
	// NotAnObject means the pointer target is not a JSON object.
	NotAnObject
	// UnrecognizedRefForm means the $ref string has no recognised shape.
	UnrecognizedRefForm
	// CyclicReference means the reference is already being resolved further up the stack.
	CyclicReference
)

// String returns the kind name.
func (k ResolveKind) String() string {
	switch k {
	case PointerNotFound:
		return "pointer not found"
	case NotAnObject:
		return "not an object"
	case UnrecognizedRefForm:
		return "unrecognized $ref form"
	case CyclicReference:
		return "cyclic reference"
	default:
		return "unknown"
	}
}

// ResolveError represents a failure to inline a $ref.
type ResolveError struct {
	// Kind classifies the failure
	Kind ResolveKind
	// Ref is the $ref string being resolved
	Ref string
	// Pointer is the JSON pointer being looked up (e.g. "/definitions/x")
	Pointer string
	// Document is the identifier or path of the document the pointer was applied to
	Document string
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ResolveError) Error() string {
	msg := "resolve error"
	if e.Kind != 0 {
		msg = e.Kind.String()
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Pointer != "" {
		msg += " (pointer " + e.Pointer + ")"
	}
	if e.Document != "" {
		msg += " in " + e.Document
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ResolveError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrResolve, and the sentinel for the error's Kind.
func (e *ResolveError) Is(target error) bool {
	switch target {
	case ErrResolve:
		return true
	case ErrPointerNotFound:
		return e.Kind == PointerNotFound
	case ErrNotAnObject:
		return e.Kind == NotAnObject
	case ErrUnrecognizedRefForm:
		return e.Kind == UnrecognizedRefForm
	case ErrCyclicReference:
		return e.Kind == CyclicReference
	}
	return false
}

// MetaSchemaError represents a failure to load or resolve the meta-schema a
// document declares via $schema.
type MetaSchemaError struct {
	// MetaSchema is the declared $schema value
	MetaSchema string
	// Message describes the failure when there is no underlying cause
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *MetaSchemaError) Error() string {
	msg := "meta-schema error"
	if e.MetaSchema != "" {
		msg += " for " + e.MetaSchema
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *MetaSchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *MetaSchemaError) Is(target error) bool {
	return target == ErrMetaSchema
}

// Violation is a single structural rule failure reported by a validation engine.
type Violation struct {
	// InstanceLocation is the JSON pointer into the validated document
	InstanceLocation string `json:"instance_location"`
	// KeywordLocation is the JSON pointer into the meta-schema, when the engine reports it
	KeywordLocation string `json:"keyword_location,omitempty"`
	// Message describes the failure
	Message string `json:"message"`
}

// String returns "location: message".
func (v Violation) String() string {
	loc := v.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + v.Message
}

// ValidationError reports that a document does not conform to its meta-schema.
// Violations are passed through from the validation engine unchanged.
type ValidationError struct {
	// MetaSchema is the declared $schema value
	MetaSchema string
	// Violations lists every failure the engine reported
	Violations []Violation
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "schema does not conform to meta-schema"
	if e.MetaSchema != "" {
		msg += " " + e.MetaSchema
	}
	switch len(e.Violations) {
	case 0:
	case 1:
		msg += ": " + e.Violations[0].String()
	default:
		msg += fmt.Sprintf(": %s (and %d more)", e.Violations[0].String(), len(e.Violations)-1)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ResourceLimitError represents a resource exhaustion condition.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "ref_depth", "cached_documents", "file_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

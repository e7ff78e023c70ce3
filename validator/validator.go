package validator

import (
	"errors"
	"time"

	"github.com/erraggy/schemaref/identifier"
	"github.com/erraggy/schemaref/jsonvalidate"
	"github.com/erraggy/schemaref/metaschema"
	"github.com/erraggy/schemaref/resolver"
	"github.com/erraggy/schemaref/schemaerrors"
	"github.com/erraggy/schemaref/store"
)

// inlineSourceName labels inline content in diagnostics.
const inlineSourceName = "<inline>"

// Violation is a single meta-schema rule failure
type Violation = schemaerrors.Violation

// Stats combines document store and resolver activity for one operation
type Stats struct {
	// DocumentsLoaded is the number of files read, including the input file
	DocumentsLoaded int `json:"documents_loaded" yaml:"documents_loaded"`
	// CacheHits is the number of loads answered from the document cache
	CacheHits int `json:"cache_hits" yaml:"cache_hits"`
	// BytesRead is the total size of all files read
	BytesRead int64 `json:"bytes_read" yaml:"bytes_read"`
	// RefsInlined is the number of $ref nodes replaced by their targets
	RefsInlined int `json:"refs_inlined" yaml:"refs_inlined"`
	// RootRefsKept is the number of "#" references left in place
	RootRefsKept int `json:"root_refs_kept" yaml:"root_refs_kept"`
	// DocumentsResolved is the number of external documents fully inlined
	DocumentsResolved int `json:"documents_resolved" yaml:"documents_resolved"`
}

// FillResult contains a fully resolved schema
type FillResult struct {
	// Resolved is the input tree with every $ref inlined
	Resolved any
	// SourcePath is the input file path, or "<inline>" for inline content
	SourcePath string
	// SourceFormat is "json" or "yaml"
	SourceFormat string
	// SchemaDir is the directory references were loaded from
	SchemaDir string
	// Stats describes the work done
	Stats Stats
	// LoadTime is the time taken to load the input document
	LoadTime time.Duration
	// SourceSize is the size of the input in bytes
	SourceSize int64
}

// ValidationResult contains the outcome of a schema check
type ValidationResult struct {
	FillResult

	// Valid is true when references resolve and the document conforms to its
	// meta-schema (or declares none)
	Valid bool
	// MetaSchema is the meta-schema identifier checked against, empty if none
	MetaSchema string
	// Engine is the validation engine used
	Engine string
	// Violations lists every meta-schema failure
	Violations []Violation
	// ViolationCount is len(Violations)
	ViolationCount int
}

// operation is one resolution context: a store, a resolver over it, and the
// loaded input document.
type operation struct {
	cfg      *config
	store    *store.Store
	resolver *resolver.Resolver
	doc      *store.Document
	loadTime time.Duration
}

func newOperation(cfg *config) (*operation, error) {
	st, err := store.New(cfg.schemaDir,
		store.WithLogger(cfg.logger),
		store.WithMaxCachedDocuments(cfg.maxCachedDocuments),
		store.WithMaxFileSize(cfg.maxFileSize),
	)
	if err != nil {
		return nil, err
	}
	r, err := resolver.New(st,
		resolver.WithLogger(cfg.logger),
		resolver.WithMaxRefDepth(cfg.maxRefDepth),
		resolver.WithMaxInlinedNodes(cfg.maxInlinedNodes),
	)
	if err != nil {
		return nil, err
	}

	op := &operation{cfg: cfg, store: st, resolver: r}
	start := time.Now()
	if cfg.filePath != nil {
		op.doc, err = st.LoadPath(*cfg.filePath)
	} else {
		op.doc, err = st.LoadBytes(inlineSourceName, cfg.content, cfg.sourceFormat())
	}
	if err != nil {
		return nil, err
	}
	op.loadTime = time.Since(start)
	cfg.logger.Debug("loaded input", "source", op.doc.Path, "format", op.doc.Format, "bytes", op.doc.Size)
	return op, nil
}

func (op *operation) fill() (*FillResult, error) {
	resolved, err := op.resolver.Resolve(op.doc)
	if err != nil {
		return nil, err
	}
	return &FillResult{
		Resolved:     resolved,
		SourcePath:   op.doc.Path,
		SourceFormat: string(op.doc.Format),
		SchemaDir:    op.store.Dir(),
		Stats:        op.stats(),
		LoadTime:     op.loadTime,
		SourceSize:   op.doc.Size,
	}, nil
}

func (op *operation) stats() Stats {
	ss, rs := op.store.Stats(), op.resolver.Stats()
	return Stats{
		DocumentsLoaded:   ss.DocumentsLoaded,
		CacheHits:         ss.CacheHits,
		BytesRead:         ss.BytesRead,
		RefsInlined:       rs.RefsInlined,
		RootRefsKept:      rs.RootRefsKept,
		DocumentsResolved: rs.DocumentsResolved,
	}
}

// metaSchema returns the identifier to check against: the configured one, or
// the one the document declares.
func (op *operation) metaSchema() (identifier.Identifier, bool, error) {
	if op.cfg.metaSchema != nil {
		return *op.cfg.metaSchema, true, nil
	}
	return metaschema.Declared(op.doc)
}

// FillWithOptions loads a schema and returns it with every $ref inlined.
//
// Example:
//
//	result, err := validator.FillWithOptions(
//		validator.WithFilePath("schemas/person.json"),
//		validator.WithSchemaDir("schemas"),
//	)
func FillWithOptions(opts ...Option) (*FillResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	op, err := newOperation(cfg)
	if err != nil {
		return nil, err
	}
	return op.fill()
}

// ValidateWithOptions loads a schema, resolves every $ref it contains, and
// checks it against its meta-schema.
//
// Load, reference, and meta-schema loading failures are returned as errors.
// Meta-schema violations are not errors: they are reported in the result
// with Valid set to false.
//
// Example:
//
//	result, err := validator.ValidateWithOptions(
//		validator.WithFilePath("schemas/person.json"),
//		validator.WithSchemaDir("schemas"),
//		validator.WithEngine("gojsonschema"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !result.Valid {
//		for _, v := range result.Violations {
//			fmt.Println(v)
//		}
//	}
func ValidateWithOptions(opts ...Option) (*ValidationResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	op, err := newOperation(cfg)
	if err != nil {
		return nil, err
	}
	filled, err := op.fill()
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{
		FillResult: *filled,
		Valid:      true,
		Engine:     cfg.engine,
		Violations: []Violation{},
	}

	meta, ok, err := op.metaSchema()
	if err != nil {
		return nil, err
	}
	if !ok {
		cfg.logger.Debug("no meta-schema to check against", "source", op.doc.Path)
		return result, nil
	}
	result.MetaSchema = meta.String()

	engine, err := jsonvalidate.New(cfg.engine, jsonvalidate.WithLoader(metaschema.StoreLoader(op.store)))
	if err != nil {
		return nil, err
	}
	checker, err := metaschema.New(op.resolver,
		metaschema.WithValidator(engine),
		metaschema.WithLogger(cfg.logger),
	)
	if err != nil {
		return nil, err
	}

	err = checker.CheckAgainst(op.doc, meta)
	// the meta-schema load shows up in the stats
	result.Stats = op.stats()

	var vErr *schemaerrors.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &vErr):
		result.Valid = false
		result.Violations = vErr.Violations
		result.ViolationCount = len(vErr.Violations)
	default:
		return nil, err
	}
	return result, nil
}

package validator

import (
	"path/filepath"
	"strings"

	"github.com/erraggy/schemaref"
	"github.com/erraggy/schemaref/identifier"
	"github.com/erraggy/schemaref/internal/jsonutil"
	"github.com/erraggy/schemaref/internal/options"
	"github.com/erraggy/schemaref/jsonvalidate"
	"github.com/erraggy/schemaref/resolver"
	"github.com/erraggy/schemaref/schemaerrors"
	"github.com/erraggy/schemaref/store"
)

// Option is a function that configures a validate or fill operation
type Option func(*config) error

// config holds configuration for one operation
type config struct {
	// Input source (exactly one must be set)
	filePath *string
	content  []byte

	// Configuration options
	schemaDir          string
	engine             string
	metaSchema         *identifier.Identifier
	logger             schemaref.Logger
	maxRefDepth        int
	maxInlinedNodes    int
	maxCachedDocuments int
	maxFileSize        int64
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		engine:             jsonvalidate.DefaultEngine,
		logger:             schemaref.NopLogger{},
		maxRefDepth:        resolver.DefaultMaxRefDepth,
		maxInlinedNodes:    resolver.DefaultMaxInlinedNodes,
		maxCachedDocuments: store.DefaultMaxCachedDocuments,
		maxFileSize:        store.DefaultMaxFileSize,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"must specify an input source (use WithFilePath or WithBytes)",
		"must specify exactly one input source",
		cfg.filePath != nil, cfg.content != nil,
	); err != nil {
		return nil, err
	}

	if cfg.schemaDir == "" {
		if cfg.filePath == nil {
			return nil, &schemaerrors.ConfigError{
				Option:  "schema-folder",
				Message: "a schema directory is required for inline content (use WithSchemaDir)",
			}
		}
		cfg.schemaDir = filepath.Dir(*cfg.filePath)
	}

	return cfg, nil
}

// WithFilePath specifies a schema file as the input source
func WithFilePath(path string) Option {
	return func(cfg *config) error {
		cfg.filePath = &path
		return nil
	}
}

// WithBytes specifies inline schema content as the input source.
// JSON or YAML is detected from the content.
func WithBytes(data []byte) Option {
	return func(cfg *config) error {
		if data == nil {
			data = []byte{}
		}
		cfg.content = data
		return nil
	}
}

// WithSchemaDir sets the directory external references and meta-schemas are
// loaded from.
// Default: the directory of the input file
func WithSchemaDir(dir string) Option {
	return func(cfg *config) error {
		cfg.schemaDir = dir
		return nil
	}
}

// WithEngine selects the validation engine used for the meta-schema check
// Default: jsonvalidate.DefaultEngine
func WithEngine(name string) Option {
	return func(cfg *config) error {
		if !jsonvalidate.IsValidEngine(name) {
			return &schemaerrors.ConfigError{
				Option:  "engine",
				Value:   name,
				Message: "must be one of: " + strings.Join(jsonvalidate.Engines, ", "),
			}
		}
		if name != "" {
			cfg.engine = name
		}
		return nil
	}
}

// WithMetaSchema checks the input against the named meta-schema instead of
// the one it declares. Use it for documents whose root cannot carry $schema.
// An empty id keeps the declared meta-schema.
func WithMetaSchema(id string) Option {
	return func(cfg *config) error {
		if id == "" {
			cfg.metaSchema = nil
			return nil
		}
		parsed, err := identifier.Parse(id)
		if err != nil {
			return &schemaerrors.ConfigError{Option: "meta-schema", Value: id, Message: err.Error()}
		}
		cfg.metaSchema = &parsed
		return nil
	}
}

// WithLogger sets the logger passed to the store, resolver, and checker
// Default: no logging
func WithLogger(l schemaref.Logger) Option {
	return func(cfg *config) error {
		cfg.logger = schemaref.OrNop(l)
		return nil
	}
}

// WithMaxRefDepth bounds the number of nested reference expansions
// Default: resolver.DefaultMaxRefDepth
func WithMaxRefDepth(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return &schemaerrors.ConfigError{Option: "max-depth", Value: n, Message: "must be positive"}
		}
		cfg.maxRefDepth = n
		return nil
	}
}

// WithMaxInlinedNodes bounds the number of JSON nodes resolution may build
// Default: resolver.DefaultMaxInlinedNodes
func WithMaxInlinedNodes(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return &schemaerrors.ConfigError{Option: "max-inlined-nodes", Value: n, Message: "must be positive"}
		}
		cfg.maxInlinedNodes = n
		return nil
	}
}

// WithMaxCachedDocuments bounds the number of documents one operation may load
// Default: store.DefaultMaxCachedDocuments
func WithMaxCachedDocuments(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return &schemaerrors.ConfigError{Option: "max-cached-documents", Value: n, Message: "must be positive"}
		}
		cfg.maxCachedDocuments = n
		return nil
	}
}

// WithMaxFileSize bounds the size of any single schema file
// Default: store.DefaultMaxFileSize
func WithMaxFileSize(n int64) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return &schemaerrors.ConfigError{Option: "max-file-size", Value: n, Message: "must be positive"}
		}
		cfg.maxFileSize = n
		return nil
	}
}

// sourceFormat returns the format of inline content.
func (cfg *config) sourceFormat() jsonutil.Format {
	return jsonutil.FormatFromContent(cfg.content)
}

// Package store loads schema documents from a schema directory and caches
// them for the lifetime of one resolution.
//
// Documents referenced by identifier are located with the identifier package's
// naming rule: the store joins the mapped filename with its directory, reads
// and parses the file, and checks that the document's declared $id matches
// the identifier it was looked up by.
//
// A Store is not safe for concurrent use. Create one per top-level
// operation; nothing is shared across stores.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/erraggy/schemaref"
	"github.com/erraggy/schemaref/identifier"
	"github.com/erraggy/schemaref/internal/jsonutil"
	"github.com/erraggy/schemaref/schemaerrors"
)

const (
	// DefaultMaxCachedDocuments is the default number of documents one store may hold.
	DefaultMaxCachedDocuments = 100

	// DefaultMaxFileSize is the default maximum size (in bytes) of a schema file.
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10MB
)

// Document is a parsed schema document. Documents are immutable once loaded;
// callers that need to modify a tree must copy it first.
type Document struct {
	// Root is the decoded JSON tree
	Root any
	// ID is the parsed $id (or draft-04 id), or the zero Identifier when
	// absent or unparseable
	ID identifier.Identifier
	// DeclaredID is the raw $id string, empty when absent
	DeclaredID string
	// Path is the file the document was read from (or a display name for inline content)
	Path string
	// Format is the encoding the document was parsed from
	Format jsonutil.Format
	// Size is the source size in bytes
	Size int64
}

// Name returns the identifier if the document has one, otherwise its path.
func (d *Document) Name() string {
	if !d.ID.IsZero() {
		return d.ID.String()
	}
	return d.Path
}

// MetaSchema returns the raw $schema value and whether the root declares one.
func (d *Document) MetaSchema() (any, bool) {
	obj, ok := d.Root.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := obj["$schema"]
	return v, ok
}

// Stats reports store activity.
type Stats struct {
	// DocumentsLoaded counts files read and parsed
	DocumentsLoaded int
	// CacheHits counts loads answered from the cache
	CacheHits int
	// BytesRead is the total size of all files read
	BytesRead int64
}

// Store loads and caches schema documents.
type Store struct {
	dir                string
	logger             schemaref.Logger
	maxCachedDocuments int
	maxFileSize        int64

	byID   map[string]*Document
	byPath map[string]*Document
	stats  Stats
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets the logger used for load and cache diagnostics.
func WithLogger(l schemaref.Logger) Option {
	return func(s *Store) error {
		s.logger = schemaref.OrNop(l)
		return nil
	}
}

// WithMaxCachedDocuments limits how many documents the store may hold.
// Default: DefaultMaxCachedDocuments
func WithMaxCachedDocuments(n int) Option {
	return func(s *Store) error {
		if n <= 0 {
			return &schemaerrors.ConfigError{Option: "max-cached-documents", Value: n, Message: "must be positive"}
		}
		s.maxCachedDocuments = n
		return nil
	}
}

// WithMaxFileSize limits the size of any single schema file.
// Default: DefaultMaxFileSize
func WithMaxFileSize(n int64) Option {
	return func(s *Store) error {
		if n <= 0 {
			return &schemaerrors.ConfigError{Option: "max-file-size", Value: n, Message: "must be positive"}
		}
		s.maxFileSize = n
		return nil
	}
}

// New creates a store rooted at the schema directory dir.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, &schemaerrors.ConfigError{Option: "schema-folder", Message: "schema directory is required"}
	}
	s := &Store{
		dir:                dir,
		logger:             schemaref.NopLogger{},
		maxCachedDocuments: DefaultMaxCachedDocuments,
		maxFileSize:        DefaultMaxFileSize,
		byID:               make(map[string]*Document),
		byPath:             make(map[string]*Document),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Dir returns the schema directory.
func (s *Store) Dir() string { return s.dir }

// Stats returns a snapshot of store activity.
func (s *Store) Stats() Stats { return s.stats }

// Load returns the document stored under id's filename in the schema
// directory. The document must declare an $id equal to id. Repeated loads of
// the same identifier return the cached document.
func (s *Store) Load(id identifier.Identifier) (*Document, error) {
	key := id.String()
	if doc, ok := s.byID[key]; ok {
		s.stats.CacheHits++
		s.logger.Debug("document cache hit", "id", key)
		return doc, nil
	}
	if err := s.checkCapacity(); err != nil {
		return nil, err
	}

	path, err := s.locate(id)
	if err != nil {
		return nil, err
	}
	doc, err := s.read(path)
	if err != nil {
		var docErr *schemaerrors.DocumentError
		if errors.As(err, &docErr) {
			docErr.Identifier = key
		}
		return nil, err
	}
	if !doc.ID.Equal(id) {
		return nil, &schemaerrors.DocumentError{
			Kind:       schemaerrors.IDMismatch,
			Path:       path,
			Identifier: key,
			Expected:   key,
			Found:      doc.DeclaredID,
		}
	}

	s.byID[key] = doc
	s.logger.Debug("loaded document", "id", key, "path", path, "bytes", doc.Size)
	return doc, nil
}

// LoadPath reads the document at path. Its $id, if any, is recorded but not
// checked.
func (s *Store) LoadPath(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if doc, ok := s.byPath[abs]; ok {
		s.stats.CacheHits++
		return doc, nil
	}
	if err := s.checkCapacity(); err != nil {
		return nil, err
	}
	doc, err := s.read(path)
	if err != nil {
		return nil, err
	}
	s.byPath[abs] = doc
	s.logger.Debug("loaded document", "path", path, "bytes", doc.Size)
	return doc, nil
}

// LoadBytes parses inline content. name is used in diagnostics only. The
// document is not cached.
func (s *Store) LoadBytes(name string, data []byte, format jsonutil.Format) (*Document, error) {
	if int64(len(data)) > s.maxFileSize {
		return nil, s.tooLarge(name, int64(len(data)))
	}
	return s.parse(name, data, format)
}

// locate returns the first existing file for id: the canonical filename,
// then any alternates.
func (s *Store) locate(id identifier.Identifier) (string, error) {
	canonical := filepath.Join(s.dir, id.Filename())
	_, statErr := os.Stat(canonical)
	if statErr == nil {
		return canonical, nil
	}
	if errors.Is(statErr, fs.ErrNotExist) {
		for _, alt := range id.AlternateFilenames() {
			candidate := filepath.Join(s.dir, alt)
			if _, err := os.Stat(candidate); err == nil {
				s.logger.Debug("using alternate filename", "id", id.String(), "path", candidate)
				return candidate, nil
			}
		}
	}
	return "", &schemaerrors.DocumentError{
		Kind:       schemaerrors.NotFound,
		Path:       canonical,
		Identifier: id.String(),
		Cause:      statErr,
	}
}

func (s *Store) read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &schemaerrors.DocumentError{Kind: schemaerrors.NotFound, Path: path, Cause: err}
	}
	if int64(len(data)) > s.maxFileSize {
		return nil, s.tooLarge(path, int64(len(data)))
	}
	s.stats.DocumentsLoaded++
	s.stats.BytesRead += int64(len(data))
	return s.parse(path, data, jsonutil.FormatFromPath(path))
}

func (s *Store) parse(name string, data []byte, format jsonutil.Format) (*Document, error) {
	root, err := jsonutil.Decode(data, format)
	if err != nil {
		return nil, &schemaerrors.DocumentError{Kind: schemaerrors.Malformed, Path: name, Cause: err}
	}
	doc := &Document{Root: root, Path: name, Format: format, Size: int64(len(data))}
	if obj, ok := root.(map[string]any); ok {
		declared, ok := obj["$id"].(string)
		if !ok {
			// draft-04 and earlier spell it "id"
			declared, ok = obj["id"].(string)
		}
		if ok {
			doc.DeclaredID = declared
			if id, err := identifier.Parse(declared); err == nil {
				doc.ID = id
			}
		}
	}
	return doc, nil
}

func (s *Store) checkCapacity() error {
	if n := len(s.byID) + len(s.byPath); n >= s.maxCachedDocuments {
		return &schemaerrors.ResourceLimitError{
			ResourceType: "cached_documents",
			Limit:        int64(s.maxCachedDocuments),
			Actual:       int64(n),
			Message:      "too many referenced documents",
		}
	}
	return nil
}

func (s *Store) tooLarge(name string, size int64) error {
	return &schemaerrors.ResourceLimitError{
		ResourceType: "file_size",
		Limit:        s.maxFileSize,
		Actual:       size,
		Message:      fmt.Sprintf("schema file %s is too large", name),
	}
}

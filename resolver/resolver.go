// Package resolver inlines $ref nodes in JSON Schema documents.
//
// Resolution is a structural tree rewrite: every object holding a string
// "$ref" is replaced by an independent deep copy of the object it points to,
// and traversal continues into the replacement. Local pointers are looked up
// against the root of the document that contains them. External targets are
// loaded through a store.Store, fully inlined themselves, and then indexed by
// the pointer.
//
// A reference to a document root ("#") is left in place as a bare
// {"$ref": "#"}: it is how recursive schemas (including the standard
// meta-schemas) refer to themselves, and JSON Schema validators follow it
// natively. When a fragment of an external document is inlined, its kept root
// references are rewritten to "<id>#" so they still name that document rather
// than the one embedding it.
//
// References that lead back to a (document, pointer) pair already being
// inlined further up the stack fail with a CyclicReference error. The number
// of nested inlining steps and the number of nodes produced are both bounded.
package resolver

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/erraggy/schemaref"
	"github.com/erraggy/schemaref/identifier"
	"github.com/erraggy/schemaref/reference"
	"github.com/erraggy/schemaref/schemaerrors"
	"github.com/erraggy/schemaref/store"
)

const (
	// DefaultMaxRefDepth is the default maximum number of nested inlining steps.
	DefaultMaxRefDepth = 100
	// DefaultMaxInlinedNodes is the default maximum number of JSON nodes one
	// resolver may produce.
	DefaultMaxInlinedNodes = 1 << 20
)

// Stats reports resolver activity.
type Stats struct {
	// RefsInlined counts $ref nodes replaced by their targets
	RefsInlined int
	// RootRefsKept counts "#" references left in place
	RootRefsKept int
	// DocumentsResolved counts external documents fully inlined
	DocumentsResolved int
}

// Resolver inlines references. A Resolver and its Store together form one
// resolution context: create a fresh pair per top-level operation.
type Resolver struct {
	store    *store.Store
	logger   schemaref.Logger
	maxDepth int
	maxNodes int
	// nodes counts JSON nodes built so far, across every Resolve call
	nodes int

	// resolving holds "document#pointer" keys on the current inlining stack
	resolving map[string]bool
	// inProgress holds documents whose full inlining has started but not finished
	inProgress map[string]bool
	// resolved caches fully inlined external documents by identifier
	resolved map[string]any
	stats    Stats
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithLogger sets the logger used for per-reference diagnostics.
func WithLogger(l schemaref.Logger) Option {
	return func(r *Resolver) error {
		r.logger = schemaref.OrNop(l)
		return nil
	}
}

// WithMaxRefDepth bounds the number of nested inlining steps.
// Default: DefaultMaxRefDepth
func WithMaxRefDepth(n int) Option {
	return func(r *Resolver) error {
		if n <= 0 {
			return &schemaerrors.ConfigError{Option: "max-depth", Value: n, Message: "must be positive"}
		}
		r.maxDepth = n
		return nil
	}
}

// WithMaxInlinedNodes bounds the number of JSON nodes the resolver builds.
// Schemas whose definitions reference each other repeatedly can expand
// exponentially; this stops them before they exhaust memory.
// Default: DefaultMaxInlinedNodes
func WithMaxInlinedNodes(n int) Option {
	return func(r *Resolver) error {
		if n <= 0 {
			return &schemaerrors.ConfigError{Option: "max-inlined-nodes", Value: n, Message: "must be positive"}
		}
		r.maxNodes = n
		return nil
	}
}

// New creates a resolver that loads external documents from st.
func New(st *store.Store, opts ...Option) (*Resolver, error) {
	if st == nil {
		return nil, &schemaerrors.ConfigError{Option: "store", Message: "a document store is required"}
	}
	r := &Resolver{
		store:      st,
		logger:     schemaref.NopLogger{},
		maxDepth:   DefaultMaxRefDepth,
		maxNodes:   DefaultMaxInlinedNodes,
		resolving:  make(map[string]bool),
		inProgress: make(map[string]bool),
		resolved:   make(map[string]any),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Stats returns a snapshot of resolver activity.
func (r *Resolver) Stats() Stats { return r.stats }

// Store returns the document store the resolver loads from.
func (r *Resolver) Store() *store.Store { return r.store }

// Resolve returns a copy of doc.Root with every reachable $ref inlined.
// doc itself is not modified.
func (r *Resolver) Resolve(doc *store.Document) (any, error) {
	name := doc.Name()
	r.inProgress[name] = true
	r.resolving[stackKey(name, nil)] = true
	defer func() {
		delete(r.inProgress, name)
		delete(r.resolving, stackKey(name, nil))
	}()
	return r.walk(doc, doc.Root, 0)
}

// ResolveID loads the document identified by id and returns a fully inlined
// copy of it. Root references in the result stay "#", since the document is
// its own root.
func (r *Resolver) ResolveID(id identifier.Identifier) (any, error) {
	doc, obj, err := r.loadTarget(reference.External(id, reference.Pointer{}), id.String(), 0)
	if err != nil {
		return nil, err
	}
	return r.embed(obj, "", doc.Name())
}

func (r *Resolver) walk(doc *store.Document, node any, depth int) (any, error) {
	if err := r.grow(1, doc.Name()); err != nil {
		return nil, err
	}
	switch v := node.(type) {
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok {
			return r.inline(doc, v, ref, depth)
		}
		out := make(map[string]any, len(v))
		// Sorted traversal keeps the first reported error deterministic.
		for _, k := range slices.Sorted(maps.Keys(v)) {
			child, err := r.walk(doc, v[k], depth)
			if err != nil {
				return nil, err
			}
			out[k] = child
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			child, err := r.walk(doc, item, depth)
			if err != nil {
				return nil, err
			}
			out[i] = child
		}
		return out, nil
	default:
		return v, nil
	}
}

// inline replaces a $ref node with its target. Sibling keys are dropped.
func (r *Resolver) inline(doc *store.Document, node map[string]any, ref string, depth int) (any, error) {
	target, err := reference.Parse(ref)
	if err != nil {
		return nil, annotate(err, ref, doc.Name())
	}
	if target.IsLocal() && target.Pointer.IsRoot() {
		r.stats.RootRefsKept++
		return map[string]any{"$ref": ref}, nil
	}
	if depth >= r.maxDepth {
		return nil, &schemaerrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        int64(r.maxDepth),
			Actual:       int64(depth + 1),
			Message:      fmt.Sprintf("$ref %s in %s nests too deeply", ref, doc.Name()),
		}
	}

	var out any
	if target.IsLocal() {
		out, err = r.resolvePointer(doc, target.Pointer, ref, depth+1)
	} else {
		out, err = r.resolveExternal(target, ref, depth+1)
	}
	if err != nil {
		return nil, err
	}
	r.stats.RefsInlined++
	r.logger.Debug("inlined reference", "ref", ref, "document", doc.Name(), "depth", depth+1)
	return out, nil
}

// resolvePointer looks p up in doc's unresolved tree and inlines the target
// subtree in doc's context.
func (r *Resolver) resolvePointer(doc *store.Document, p reference.Pointer, ref string, depth int) (any, error) {
	name := doc.Name()
	key := stackKey(name, p)
	if r.resolving[key] {
		return nil, &schemaerrors.ResolveError{
			Kind:     schemaerrors.CyclicReference,
			Ref:      ref,
			Pointer:  p.String(),
			Document: name,
			Message:  "reference is already being inlined",
		}
	}
	obj, err := lookupObject(doc.Root, p, ref, name)
	if err != nil {
		return nil, err
	}

	r.resolving[key] = true
	defer delete(r.resolving, key)
	return r.walk(doc, obj, depth)
}

// resolveExternal loads the target document, inlines all of it (once per
// resolver), and returns a copy of the object the pointer addresses, with
// the document's root references made absolute.
func (r *Resolver) resolveExternal(t reference.Target, ref string, depth int) (any, error) {
	doc, obj, err := r.loadTarget(t, ref, depth)
	if err != nil {
		return nil, err
	}
	return r.embed(obj, doc.ID.String()+"#", doc.Name())
}

// loadTarget returns the inlined object t addresses. The result may be
// shared with the resolver's cache and must be copied before use.
func (r *Resolver) loadTarget(t reference.Target, ref string, depth int) (*store.Document, any, error) {
	doc, err := r.store.Load(t.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s for $ref %s: %w", t.ID, ref, err)
	}
	name := doc.Name()

	tree, ok := r.resolved[name]
	if !ok {
		if r.inProgress[name] {
			// The document is being inlined further up the stack; inline only
			// the addressed subtree so mutually referencing documents work.
			obj, err := r.resolvePointer(doc, t.Pointer, ref, depth)
			return doc, obj, err
		}
		tree, err = r.resolveDocument(doc, depth)
		if err != nil {
			return nil, nil, err
		}
	}

	obj, err := lookupObject(tree, t.Pointer, ref, name)
	if err != nil {
		return nil, nil, err
	}
	return doc, obj, nil
}

// embed deep-copies an inlined tree. A non-empty rootRef replaces every kept
// root reference, so the copy can live inside another document.
func (r *Resolver) embed(v any, rootRef, document string) (any, error) {
	if err := r.grow(1, document); err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case map[string]any:
		if ref, ok := t["$ref"].(string); ok && rootRef != "" && isRootRef(ref) {
			return map[string]any{"$ref": rootRef}, nil
		}
		out := make(map[string]any, len(t))
		for k, item := range t {
			child, err := r.embed(item, rootRef, document)
			if err != nil {
				return nil, err
			}
			out[k] = child
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			child, err := r.embed(item, rootRef, document)
			if err != nil {
				return nil, err
			}
			out[i] = child
		}
		return out, nil
	default:
		return v, nil
	}
}

// grow charges n nodes against the inlined node limit.
func (r *Resolver) grow(n int, document string) error {
	r.nodes += n
	if r.nodes > r.maxNodes {
		return &schemaerrors.ResourceLimitError{
			ResourceType: "inlined_nodes",
			Limit:        int64(r.maxNodes),
			Actual:       int64(r.nodes),
			Message:      fmt.Sprintf("inlining %s produces too many nodes", document),
		}
	}
	return nil
}

func (r *Resolver) resolveDocument(doc *store.Document, depth int) (any, error) {
	name := doc.Name()
	rootKey := stackKey(name, nil)
	r.inProgress[name] = true
	r.resolving[rootKey] = true
	defer func() {
		delete(r.inProgress, name)
		delete(r.resolving, rootKey)
	}()

	tree, err := r.walk(doc, doc.Root, depth)
	if err != nil {
		return nil, err
	}
	r.resolved[name] = tree
	r.stats.DocumentsResolved++
	r.logger.Debug("resolved document", "document", name, "path", doc.Path)
	return tree, nil
}

// lookupObject resolves p against root and requires an object result.
func lookupObject(root any, p reference.Pointer, ref, document string) (map[string]any, error) {
	target, err := p.Lookup(root)
	if err != nil {
		return nil, annotate(err, ref, document)
	}
	obj, ok := target.(map[string]any)
	if !ok {
		return nil, &schemaerrors.ResolveError{
			Kind:     schemaerrors.NotAnObject,
			Ref:      ref,
			Pointer:  p.String(),
			Document: document,
			Message:  fmt.Sprintf("target is %s, definitions must be objects", describe(target)),
		}
	}
	return obj, nil
}

// annotate fills in the reference and document on a ResolveError, or wraps
// any other error with them.
func annotate(err error, ref, document string) error {
	var rErr *schemaerrors.ResolveError
	if errors.As(err, &rErr) {
		if rErr.Ref == "" {
			rErr.Ref = ref
		}
		if rErr.Document == "" {
			rErr.Document = document
		}
		return err
	}
	return fmt.Errorf("$ref %s in %s: %w", ref, document, err)
}

func isRootRef(ref string) bool {
	return ref == "#" || ref == "#/"
}

func stackKey(document string, p reference.Pointer) string {
	return document + p.Fragment()
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case string:
		return "a string"
	case []any:
		return "an array"
	default:
		return "a number"
	}
}

// Package walker provides the generic recursive operations over the
// hierarchy catalog described in the spec's design notes: a table-driven
// walker parameterized by internal/catalog, replacing what would
// otherwise be a runtime-reflective recursive apply over a heterogeneous
// tree. The catalog is the compile-time constant; document payloads are
// dynamic docvalue.Doc trees.
package walker

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/packsmith/cpack/internal/catalog"
	"github.com/packsmith/cpack/internal/docvalue"
)

// maxConcurrentResolves bounds the fan-out used by Apply when recursing
// into a parent's embedded children; the spec permits either bounded
// parallelism or full serialization here, order within an array must be
// preserved regardless.
const maxConcurrentResolves = 8

// ApplyFunc is invoked once per visited document (primary or embedded).
// It returns the options value threaded down to that document's children.
type ApplyFunc func(ctx context.Context, doc docvalue.Doc, collection string, inherited interface{}) (next interface{}, err error)

// Apply runs fn over doc and, recursively, every embedded document
// reachable from it. fn is invoked for a node before any of its
// descendants; children of one parent may be visited concurrently
// (bounded), so the relative order of siblings is not fixed. When
// several calls fail, the error returned is the first one to occur.
func Apply(ctx context.Context, fn ApplyFunc, doc docvalue.Doc, collection string, inherited interface{}) error {
	next, err := fn(ctx, doc, collection, inherited)
	if err != nil {
		return err
	}

	embeds := catalog.Embeddeds(collection)
	if len(embeds) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentResolves)

	for _, emb := range embeds {
		emb := emb
		switch emb.Arity {
		case catalog.Array:
			items := docvalue.GetSlice(doc, emb.Name)
			for _, raw := range items {
				child, ok := docvalue.AsDoc(raw)
				if !ok {
					continue
				}
				child := child
				g.Go(func() error {
					return Apply(gctx, fn, child, emb.Name, next)
				})
			}
		case catalog.Single:
			if raw, ok := doc[emb.Name]; ok {
				if child, ok := docvalue.AsDoc(raw); ok {
					g.Go(func() error {
						return Apply(gctx, fn, child, emb.Name, next)
					})
				}
			}
		}
	}
	return g.Wait()
}

// IndexPrimary and IndexSingle are the sentinel index values ApplySync
// passes for a primary document and a single-arity embedded slot,
// respectively. Array elements pass their real 0-based index.
const (
	IndexPrimary = -2
	IndexSingle  = -1
)

// ApplySyncFunc is the synchronous counterpart of ApplyFunc; index is
// IndexPrimary for the root document, IndexSingle for a single-arity
// embedded document, or the element's position within its parent array.
type ApplySyncFunc func(doc docvalue.Doc, collection string, index int, inherited interface{}) (next interface{}, err error)

// ApplySync runs fn synchronously over doc and its embedded tree in
// depth-first pre-order, preserving array order exactly.
func ApplySync(fn ApplySyncFunc, doc docvalue.Doc, collection string, index int, inherited interface{}) error {
	next, err := fn(doc, collection, index, inherited)
	if err != nil {
		return err
	}

	for _, emb := range catalog.Embeddeds(collection) {
		switch emb.Arity {
		case catalog.Array:
			items := docvalue.GetSlice(doc, emb.Name)
			for i, raw := range items {
				child, ok := docvalue.AsDoc(raw)
				if !ok {
					continue
				}
				if err := ApplySync(fn, child, emb.Name, i, next); err != nil {
					return err
				}
			}
		case catalog.Single:
			if raw, ok := doc[emb.Name]; ok {
				if child, ok := docvalue.AsDoc(raw); ok {
					if err := ApplySync(fn, child, emb.Name, IndexSingle, next); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// MapFunc transforms one embedded document (or, for a missing slot, is
// not invoked at all) into the value that should be stored in its place.
type MapFunc func(child docvalue.Doc, embeddedCollection string) (interface{}, error)

// Map rewrites every embedded-collection slot of doc in place by
// applying fn to each element (array arity) or the value (single
// arity), storing nil for a missing single slot and an empty array for
// a missing/empty array slot. fn is only invoked for object-valued
// elements; any other element (such as a bare _id string) is kept as it
// is. Compile uses it to convert embedded documents to bare _id
// references before a sorted-store write; extract does not use Map to
// resolve references back (internal/pack's resolveAndAssignKeys does).
func Map(fn MapFunc, doc docvalue.Doc, collection string) error {
	for _, emb := range catalog.Embeddeds(collection) {
		switch emb.Arity {
		case catalog.Array:
			items := docvalue.GetSlice(doc, emb.Name)
			out := make([]interface{}, 0, len(items))
			for _, raw := range items {
				child, ok := docvalue.AsDoc(raw)
				if !ok {
					out = append(out, raw)
					continue
				}
				v, err := fn(child, emb.Name)
				if err != nil {
					return err
				}
				out = append(out, v)
			}
			doc[emb.Name] = out
		case catalog.Single:
			raw, present := doc[emb.Name]
			if !present || raw == nil {
				doc[emb.Name] = nil
				continue
			}
			child, ok := docvalue.AsDoc(raw)
			if !ok {
				continue
			}
			v, err := fn(child, emb.Name)
			if err != nil {
				return err
			}
			doc[emb.Name] = v
		}
	}
	return nil
}

// Package adventure implements the Adventure document's split/recombine
// behavior: on extract, an Adventure's adventure-embedded collections are
// split out into sibling files and replaced by path references; on
// compile, the reverse substitution reconstructs the inline documents.
package adventure

import (
	"fmt"
	"path/filepath"

	"github.com/packsmith/cpack/internal/catalog"
	"github.com/packsmith/cpack/internal/docvalue"
	"github.com/packsmith/cpack/internal/filenamepolicy"
	"github.com/packsmith/cpack/internal/serializer"
)

// EntryWriter is invoked once per file Expand needs persisted. collection
// is the embedded-collection name the document belongs to, or "" for the
// adventure's own primary document; relPath is the path, relative to the
// extraction destination, the caller should write doc to (after applying
// its own volatile-diff gate and filename transform, if any).
type EntryWriter func(collection, relPath string, doc docvalue.Doc) error

// ExpandOptions controls how Expand lays out the split adventure tree.
type ExpandOptions struct {
	// Folders wraps the adventure in its own directory containing
	// _Adventure.<Ext> and one grouped subfolder per embedded type.
	Folders bool
	// Ext is the file extension (without dot) used for every emitted file.
	Ext string
}

// Expand splits doc's adventure-embedded collections into individual
// files via write, replacing each inline subdocument with the relative
// path write persisted it under, then writes the adventure's own
// (now path-referencing) document last.
func Expand(doc docvalue.Doc, opts ExpandOptions, write EntryWriter) error {
	id := docvalue.GetString(doc, "_id")
	name := docvalue.GetString(doc, "name")

	clone, ok := docvalue.Clone(doc).(docvalue.Doc)
	if !ok {
		return fmt.Errorf("adventure: document is not an object")
	}

	var dirPrefix, primaryRelPath string
	if opts.Folders {
		dirPrefix = filenamepolicy.SafeName(name) + "_" + id
		primaryRelPath = dirPrefix + "/_Adventure." + opts.Ext
	} else {
		primaryRelPath = filenamepolicy.DeriveFilename(filenamepolicy.NameHint{Name: name, ID: id}, id, opts.Ext)
	}

	for _, coll := range catalog.AdventureEmbedded {
		items := docvalue.GetSlice(clone, coll)
		if len(items) == 0 {
			continue
		}
		paths := make([]interface{}, 0, len(items))
		for _, raw := range items {
			child, ok := docvalue.AsDoc(raw)
			if !ok {
				paths = append(paths, raw)
				continue
			}
			childID := docvalue.GetString(child, "_id")
			childName := docvalue.GetString(child, "name")
			filename := filenamepolicy.DeriveFilename(filenamepolicy.NameHint{Name: childName, ID: childID}, childID, opts.Ext)

			var childRel, recordedPath string
			if opts.Folders {
				childRel = dirPrefix + "/" + coll + "/" + filename
				recordedPath = coll + "/" + filename
			} else {
				childRel = filename
				recordedPath = filename
			}
			if err := write(coll, childRel, child); err != nil {
				return err
			}
			paths = append(paths, recordedPath)
		}
		clone[coll] = paths
	}

	return write("", primaryRelPath, clone)
}

// Collapse resolves every string-valued entry in doc's adventure-embedded
// collections into the parsed document found at that path, relative to
// baseDir (the directory containing the adventure's own source file).
func Collapse(doc docvalue.Doc, baseDir string) error {
	for _, coll := range catalog.AdventureEmbedded {
		items := docvalue.GetSlice(doc, coll)
		if items == nil {
			continue
		}
		out := make([]interface{}, 0, len(items))
		for _, raw := range items {
			path, ok := raw.(string)
			if !ok {
				out = append(out, raw)
				continue
			}
			full := filepath.Join(baseDir, path)
			child, err := serializer.Read(full)
			if err != nil {
				return fmt.Errorf("adventure: reading %s: %w", full, err)
			}
			out = append(out, child)
		}
		doc[coll] = out
	}
	return nil
}

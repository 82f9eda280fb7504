// Package folderproj builds the folder-tree projection used by extract
// in folders mode: a map from folder _id to {name, parent, type, path},
// derived by walking each folder up to its root ancestor.
package folderproj

import (
	"strings"

	"github.com/packsmith/cpack/internal/docvalue"
	"github.com/packsmith/cpack/internal/filenamepolicy"
)

// Descriptor describes one folder's place in the projected tree.
type Descriptor struct {
	Name   string
	Parent string
	Type   string
	Path   string
}

// NameTransformer lets a caller override the directory-name component
// derived for a folder; it receives the folder document and returns the
// name to use in place of the default policy.
type NameTransformer func(folder docvalue.Doc) string

// Options controls the projection.
type Options struct {
	// GroupByType prepends each folder's document type to its path.
	// The extract orchestrator does not set it.
	GroupByType bool
	// NameTransform overrides the default per-folder name derivation.
	NameTransform NameTransformer
}

// Build produces the folder map for the given set of Folder documents.
func Build(folders []docvalue.Doc, opts Options) map[string]Descriptor {
	byID := make(map[string]docvalue.Doc, len(folders))
	for _, f := range folders {
		id := docvalue.GetString(f, "_id")
		if id != "" {
			byID[id] = f
		}
	}

	out := make(map[string]Descriptor, len(folders))
	for _, f := range folders {
		id := docvalue.GetString(f, "_id")
		if id == "" {
			continue
		}
		out[id] = describe(f, byID, opts)
	}
	return out
}

func describe(f docvalue.Doc, byID map[string]docvalue.Doc, opts Options) Descriptor {
	name := folderName(f, opts.NameTransform)
	parent := docvalue.GetString(f, "folder")
	docType := docvalue.GetString(f, "type")

	segments := []string{name}
	cur := parent
	for cur != "" {
		parentDoc, ok := byID[cur]
		if !ok {
			break
		}
		segments = append([]string{folderName(parentDoc, opts.NameTransform)}, segments...)
		cur = docvalue.GetString(parentDoc, "folder")
	}

	if opts.GroupByType && docType != "" {
		segments = append([]string{docType}, segments...)
	}

	return Descriptor{
		Name:   name,
		Parent: parent,
		Type:   docType,
		Path:   strings.Join(segments, "/"),
	}
}

func folderName(f docvalue.Doc, transform NameTransformer) string {
	if transform != nil {
		return transform(f)
	}
	id := docvalue.GetString(f, "_id")
	name := docvalue.GetString(f, "name")
	if name != "" {
		return filenamepolicy.SafeName(name) + "_" + id
	}
	return id
}

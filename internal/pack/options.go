// Package pack implements the compile and extract orchestrators: the
// two operations that translate between a source tree and a compiled
// pack (sorted store or log store), wiring together every other
// internal package (scanner, walker, serializer, adventure, folderproj,
// volatilediff) into the pipelines described by the compile/extract
// component design.
package pack

import (
	"github.com/packsmith/cpack/internal/docvalue"
	"github.com/packsmith/cpack/internal/serializer"
)

// Logger receives diagnostic lines the way the teacher's debug package
// receives tagged log calls; nil disables logging.
type Logger func(format string, args ...interface{})

// EntryTransform may reject or rewrite a document before it is written.
// Returning keep=false drops the entry entirely.
type EntryTransform func(doc docvalue.Doc) (transformed docvalue.Doc, keep bool)

// NameTransform overrides the filename an extracted document would
// otherwise receive. defaultName is the name the built-in policy chose.
type NameTransform func(doc docvalue.Doc, defaultName string) string

// FolderNameTransform overrides the directory-name component the
// built-in folder projection would otherwise derive for a Folder doc.
type FolderNameTransform func(folder docvalue.Doc) string

// CompileOptions configures Compile (§4.11).
type CompileOptions struct {
	NeDB           bool
	YAML           bool
	Recursive      bool
	Exclude        []string
	Log            Logger
	TransformEntry EntryTransform
}

// ExtractOptions configures Extract (§4.12).
type ExtractOptions struct {
	NeDB                bool
	YAML                bool
	YAMLOptions         *serializer.YAMLOptions
	JSONOptions         *serializer.JSONOptions
	Log                 Logger
	DocumentType        string
	Collection          string
	Clean               bool
	Folders             bool
	ExpandAdventures    bool
	OmitVolatile        bool
	TransformEntry      EntryTransform
	TransformName       NameTransform
	TransformFolderName FolderNameTransform
}

// RepairOptions configures Repair.
type RepairOptions struct {
	Log Logger
}

func logf(log Logger, format string, args ...interface{}) {
	if log != nil {
		log(format, args...)
	}
}

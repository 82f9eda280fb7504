// Package filenamepolicy derives safe, stable filenames for documents
// written to a source tree, and classifies existing files by extension.
package filenamepolicy

import (
	"path/filepath"
	"strings"
)

// SafeName replaces every character outside ASCII letters, digits,
// underscore, and the Cyrillic range U+0410-U+044F with an underscore.
func SafeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 0x0410 && r <= 0x044F:
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// NameHint is the minimal shape filenamepolicy needs from a document; kept as
// an interface-free struct so callers pass the fields they have without
// importing docvalue here.
type NameHint struct {
	Name string
	ID   string
}

// DeriveFilename returns SafeName(doc.Name) + "_" + doc.ID + "." + ext
// when doc.Name is non-empty, otherwise idHint + "." + ext.
func DeriveFilename(doc NameHint, idHint, ext string) string {
	if doc.Name != "" {
		return SafeName(doc.Name) + "_" + doc.ID + "." + ext
	}
	return idHint + "." + ext
}

// Kind is the result of classifying a file by its extension.
type Kind string

const (
	KindYAML Kind = "yaml"
	KindJSON Kind = "json"
	KindSkip Kind = "skip"
)

// Classify returns KindYAML for .yml/.yaml, KindJSON for .json, and
// KindSkip for anything else.
func Classify(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return KindYAML
	case ".json":
		return KindJSON
	default:
		return KindSkip
	}
}

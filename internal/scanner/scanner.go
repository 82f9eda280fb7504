// Package scanner enumerates source-tree files for a compile operation,
// using github.com/bmatcuk/doublestar/v4 for the recursive case the way
// the teacher's file-discovery helpers lean on a globbing library rather
// than a hand-rolled filepath.Walk predicate.
package scanner

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/packsmith/cpack/internal/filenamepolicy"
)

// Options controls which files Scan collects.
type Options struct {
	// YAML selects .yml/.yaml files instead of .json.
	YAML bool
	// Recursive descends into every subdirectory.
	Recursive bool
	// Exclude holds doublestar glob patterns, matched against each
	// candidate's path relative to root; a match drops the file.
	Exclude []string
}

// targetKind returns the filenamepolicy.Kind Scan is collecting for.
func (o Options) targetKind() filenamepolicy.Kind {
	if o.YAML {
		return filenamepolicy.KindYAML
	}
	return filenamepolicy.KindJSON
}

// Scan enumerates every file under root matching the requested kind. A
// non-recursive scan reads only root's immediate entries, in readdir
// order; a recursive scan concatenates every subdirectory's matches in
// the order doublestar's walk visits them. Neither the compile
// orchestrator nor this package imposes any further ordering, since
// compile is order-independent by contract.
func Scan(root string, opts Options) ([]string, error) {
	kind := opts.targetKind()
	var out []string

	if !opts.Recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if excluded(e.Name(), opts.Exclude) {
				continue
			}
			path := filepath.Join(root, e.Name())
			if filenamepolicy.Classify(path) == kind {
				out = append(out, path)
			}
		}
		return out, nil
	}

	pattern := "**/*.json"
	if opts.YAML {
		pattern = "**/*.{yml,yaml}"
	}
	fsys := os.DirFS(root)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if excluded(m, opts.Exclude) {
			continue
		}
		path := filepath.Join(root, m)
		if filenamepolicy.Classify(path) == kind {
			out = append(out, path)
		}
	}
	return out, nil
}

// excluded reports whether relPath matches any of the doublestar glob
// patterns in exclude.
func excluded(relPath string, exclude []string) bool {
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

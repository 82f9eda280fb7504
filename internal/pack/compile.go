package pack

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/packsmith/cpack/internal/adventure"
	"github.com/packsmith/cpack/internal/cpackerrors"
	"github.com/packsmith/cpack/internal/docvalue"
	"github.com/packsmith/cpack/internal/keycodec"
	"github.com/packsmith/cpack/internal/logstore"
	"github.com/packsmith/cpack/internal/scanner"
	"github.com/packsmith/cpack/internal/serializer"
	"github.com/packsmith/cpack/internal/sortedstore"
	"github.com/packsmith/cpack/internal/walker"
)

const keyField = "_key"

// Compile implements the compile orchestrator (§4.11): it reads a
// directory of source documents and writes a compiled pack, either a
// log store (nedb=true) or a sorted store.
func Compile(src, dest string, opts CompileOptions) error {
	if opts.NeDB && filepath.Ext(dest) != ".db" {
		return cpackerrors.NewBadTarget("compile", dest)
	}

	files, err := scanner.Scan(src, scanner.Options{YAML: opts.YAML, Recursive: opts.Recursive, Exclude: opts.Exclude})
	if err != nil {
		return err
	}
	logf(opts.Log, "cpack: compiling %d source file(s) from %s", len(files), src)

	if opts.NeDB {
		return compileLogStore(dest, files, opts)
	}
	return compileSortedStore(dest, files, opts)
}

func readSourceEntry(path string, opts CompileOptions) (docvalue.Doc, error) {
	doc, err := serializer.Read(path)
	if err != nil {
		logf(opts.Log, "cpack: parse failure in %s: %v", path, err)
		return nil, cpackerrors.NewParseFailure("compile", path, err)
	}
	return doc, nil
}

func compileLogStore(dest string, files []string, opts CompileOptions) error {
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return err
	}
	store, err := logstore.Open(dest, true)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{})

	for _, path := range files {
		doc, err := readSourceEntry(path, opts)
		if err != nil {
			return err
		}

		key := docvalue.GetString(doc, keyField)
		if key == "" {
			continue // MissingKey: silently skip
		}
		if strings.HasPrefix(key, "!adventures") {
			if err := adventure.Collapse(doc, filepath.Dir(path)); err != nil {
				return err
			}
		}
		if strings.HasPrefix(key, "!folders") {
			continue // FolderInLogStore: silently skip
		}
		if opts.TransformEntry != nil {
			transformed, keep := opts.TransformEntry(doc)
			if !keep {
				continue
			}
			doc = transformed
		}

		root := keycodec.Sublevel(key)
		err = walker.ApplySync(func(d docvalue.Doc, collection string, index int, inherited interface{}) (interface{}, error) {
			if err := markSeenAndStripKey(d, seen, path); err != nil {
				return nil, err
			}
			return nil, nil
		}, doc, root, walker.IndexPrimary, nil)
		if err != nil {
			return err
		}

		store.Insert(doc)
	}

	return store.Compact()
}

func compileSortedStore(dest string, files []string, opts CompileOptions) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	store, err := sortedstore.Open(dest, true)
	if err != nil {
		return err
	}
	defer store.Close()

	batch := &sortedstore.Batch{}
	seen := make(map[string]struct{})

	for _, path := range files {
		doc, err := readSourceEntry(path, opts)
		if err != nil {
			return err
		}

		key := docvalue.GetString(doc, keyField)
		if key == "" {
			continue // MissingKey: silently skip
		}
		if strings.HasPrefix(key, "!adventures") {
			if err := adventure.Collapse(doc, filepath.Dir(path)); err != nil {
				return err
			}
		}
		if opts.TransformEntry != nil {
			transformed, keep := opts.TransformEntry(doc)
			if !keep {
				continue
			}
			doc = transformed
		}

		root := keycodec.Sublevel(key)
		err = walker.ApplySync(func(d docvalue.Doc, collection string, index int, inherited interface{}) (interface{}, error) {
			k := docvalue.GetString(d, keyField)
			if k == "" {
				return nil, nil
			}
			if err := markSeenAndStripKey(d, seen, path); err != nil {
				return nil, err
			}
			clone, _ := docvalue.Clone(d).(docvalue.Doc)
			if err := walker.Map(func(child docvalue.Doc, embeddedCollection string) (interface{}, error) {
				return docvalue.GetString(child, "_id"), nil
			}, clone, collection); err != nil {
				return nil, err
			}
			return nil, batch.Put(k, clone)
		}, doc, root, walker.IndexPrimary, nil)
		if err != nil {
			return err
		}
	}

	if err := store.Iterate(func(key string, _ docvalue.Doc) error {
		if _, ok := seen[key]; !ok {
			batch.Delete(key)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := store.WriteBatch(batch); err != nil {
		return err
	}

	return store.CompactAfterRewrite()
}

func markSeenAndStripKey(d docvalue.Doc, seen map[string]struct{}, path string) error {
	k := docvalue.GetString(d, keyField)
	if k == "" {
		return nil
	}
	if _, dup := seen[k]; dup {
		return cpackerrors.NewDuplicateKey("compile", k, path)
	}
	seen[k] = struct{}{}
	docvalue.DeleteField(d, keyField)
	return nil
}

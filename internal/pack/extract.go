package pack

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/packsmith/cpack/internal/adventure"
	"github.com/packsmith/cpack/internal/catalog"
	"github.com/packsmith/cpack/internal/cpackerrors"
	"github.com/packsmith/cpack/internal/docvalue"
	"github.com/packsmith/cpack/internal/filenamepolicy"
	"github.com/packsmith/cpack/internal/folderproj"
	"github.com/packsmith/cpack/internal/keycodec"
	"github.com/packsmith/cpack/internal/logstore"
	"github.com/packsmith/cpack/internal/serializer"
	"github.com/packsmith/cpack/internal/sortedstore"
	"github.com/packsmith/cpack/internal/volatilediff"
	"github.com/packsmith/cpack/internal/walker"
)

func writeSerialized(path string, doc docvalue.Doc, opts ExtractOptions) error {
	return serializer.Write(path, doc, opts.YAML, opts.YAMLOptions, opts.JSONOptions)
}

// Extract implements the extract orchestrator (§4.12): it reads a
// compiled pack (log store or sorted store) and writes a directory of
// source documents, via a crash-safe staging directory.
func Extract(src, dest string, opts ExtractOptions) error {
	collection := opts.Collection
	if opts.NeDB {
		if filepath.Ext(src) != ".db" {
			return cpackerrors.NewBadTarget("extract", src)
		}
		if collection == "" && opts.DocumentType != "" {
			collection, _ = catalog.CollectionForType(opts.DocumentType)
		}
		if collection == "" {
			return cpackerrors.NewMissingType("extract")
		}
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}

	staging, err := newStagingDir()
	if err != nil {
		return err
	}
	defer removeWithRetry(staging)

	logf(opts.Log, "cpack: extracting %s into staging directory %s", src, staging)

	if opts.NeDB {
		err = extractLogStore(src, staging, dest, collection, opts)
	} else {
		err = extractSortedStore(src, staging, dest, opts)
	}
	if err != nil {
		return err
	}

	if opts.Clean {
		if err := removeWithRetry(dest); err != nil {
			return err
		}
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return err
		}
	}
	return copyTree(staging, dest)
}

// Repair runs the sorted store's on-disk recovery routine against src.
func Repair(src string, opts RepairOptions) error {
	logf(opts.Log, "cpack: repairing %s", src)
	return sortedstore.Repair(src)
}

func extForOptions(opts ExtractOptions) string {
	if opts.YAML {
		return "yml"
	}
	return "json"
}

// writeEntry applies the volatile-diff gate and, when the gate says the
// destination can be left untouched, copies the existing file's exact
// bytes into staging instead of re-serializing — so a clean=true
// extraction still reproduces a byte-identical file (§8 property 7).
func writeEntry(staging, dest, relPath, collection string, doc docvalue.Doc, opts ExtractOptions) error {
	destPath := filepath.Join(dest, relPath)
	stagingPath := filepath.Join(staging, relPath)

	if opts.OmitVolatile && volatilediff.Resolve(destPath, collection, doc) {
		if _, err := os.Stat(destPath); err == nil {
			return copyFile(destPath, stagingPath)
		}
	}
	return writeSerialized(stagingPath, doc, opts)
}

func extractLogStore(src, staging, dest, collection string, opts ExtractOptions) error {
	store, err := logstore.Open(src, false)
	if err != nil {
		return err
	}
	ext := extForOptions(opts)

	for _, doc := range store.FindAll() {
		assignKeys(doc, collection, keyParts{})

		if opts.TransformEntry != nil {
			transformed, keep := opts.TransformEntry(doc)
			if !keep {
				continue
			}
			doc = transformed
		}

		id := docvalue.GetString(doc, "_id")
		name := docvalue.GetString(doc, "name")
		defaultName := filenamepolicy.DeriveFilename(filenamepolicy.NameHint{Name: name, ID: id}, id, ext)
		relPath := defaultName
		if opts.TransformName != nil {
			relPath = opts.TransformName(doc, defaultName)
		}

		if err := writeEntry(staging, dest, relPath, collection, doc, opts); err != nil {
			return err
		}
	}
	return nil
}

func extractSortedStore(src, staging, dest string, opts ExtractOptions) error {
	store, err := sortedstore.Open(src, false)
	if err != nil {
		return err
	}
	defer store.Close()

	ext := extForOptions(opts)

	var folderMap map[string]folderproj.Descriptor
	if opts.Folders {
		var folders []docvalue.Doc
		if err := store.Iterate(func(key string, value docvalue.Doc) error {
			if strings.HasPrefix(key, "!folders") && !keycodec.IsEmbedded(key) {
				folders = append(folders, value)
			}
			return nil
		}); err != nil {
			return err
		}
		folderMap = folderproj.Build(folders, folderproj.Options{
			NameTransform: folderNameTransformer(opts.TransformFolderName),
		})
	}

	return store.Iterate(func(key string, value docvalue.Doc) error {
		if keycodec.IsEmbedded(key) {
			return nil
		}
		collection := keycodec.Sublevel(key)

		if _, err := resolveAndAssignKeys(store, value, collection, keyParts{}); err != nil {
			return err
		}

		doc := value
		if opts.TransformEntry != nil {
			transformed, keep := opts.TransformEntry(doc)
			if !keep {
				return nil
			}
			doc = transformed
		}

		if strings.HasPrefix(key, "!adventures") && opts.ExpandAdventures {
			return extractAdventure(doc, staging, dest, opts)
		}

		id := docvalue.GetString(doc, "_id")
		name := docvalue.GetString(doc, "name")
		defaultName := filenamepolicy.DeriveFilename(filenamepolicy.NameHint{Name: name, ID: id}, id, ext)

		var relPath string
		switch {
		case opts.TransformName != nil:
			relPath = opts.TransformName(doc, defaultName)
		case collection == "folders":
			if desc, ok := folderMap[id]; ok {
				relPath = desc.Path + "/_Folder." + ext
			} else {
				relPath = defaultName
			}
		default:
			relPath = defaultName
		}

		if opts.Folders && collection != "folders" {
			if parent := docvalue.GetString(doc, "folder"); parent != "" {
				if desc, ok := folderMap[parent]; ok {
					relPath = desc.Path + "/" + relPath
				}
			}
		}

		return writeEntry(staging, dest, relPath, collection, doc, opts)
	})
}

func extractAdventure(doc docvalue.Doc, staging, dest string, opts ExtractOptions) error {
	ext := extForOptions(opts)
	return adventure.Expand(doc, adventure.ExpandOptions{Folders: opts.Folders, Ext: ext}, func(collection, relPath string, child docvalue.Doc) error {
		gateCollection := collection
		if gateCollection == "" {
			gateCollection = "adventures"
		}
		return writeEntry(staging, dest, relPath, gateCollection, child, opts)
	})
}

func folderNameTransformer(fn FolderNameTransform) folderproj.NameTransformer {
	if fn == nil {
		return nil
	}
	return folderproj.NameTransformer(fn)
}

// keyParts threads the sublevel and id path segments down through a
// document's embedded tree while assigning _key values.
type keyParts struct {
	sublevel []string
	id       []string
}

func descend(parent keyParts, collection, id string) keyParts {
	if parent.sublevel == nil {
		return keyParts{sublevel: []string{collection}, id: []string{id}}
	}
	sub := append(append([]string{}, parent.sublevel...), collection)
	ids := append(append([]string{}, parent.id...), id)
	return keyParts{sublevel: sub, id: ids}
}

// assignKeys walks doc's embedded tree in place, assigning a `_key`
// field at every level from the sublevel/id path built up along the way.
func assignKeys(doc docvalue.Doc, collection string, parent keyParts) string {
	id := docvalue.GetString(doc, "_id")
	cur := descend(parent, collection, id)
	key := keycodec.Encode(cur.sublevel, cur.id)
	doc["_key"] = key

	for _, emb := range catalog.Embeddeds(collection) {
		switch emb.Arity {
		case catalog.Array:
			for _, raw := range docvalue.GetSlice(doc, emb.Name) {
				if child, ok := docvalue.AsDoc(raw); ok {
					assignKeys(child, emb.Name, cur)
				}
			}
		case catalog.Single:
			if child, ok := docvalue.AsDoc(doc[emb.Name]); ok {
				assignKeys(child, emb.Name, cur)
			}
		}
	}
	return key
}

// resolveAndAssignKeys is the sorted-store counterpart of assignKeys: it
// additionally resolves each embedded slot's bare `_id` reference back
// into the full subdocument, fetched from store. It is built on
// walker.Apply: the per-node callback fetches and substitutes a node's
// direct embedded references before returning, so Apply's own recursion
// sees already-resolved child documents and can fan its bounded pool of
// goroutines out across sibling store.Get calls at every level.
func resolveAndAssignKeys(store *sortedstore.Store, doc docvalue.Doc, collection string, parent keyParts) (string, error) {
	var topKey string
	fn := func(_ context.Context, d docvalue.Doc, coll string, inherited interface{}) (interface{}, error) {
		cur := descend(inherited.(keyParts), coll, docvalue.GetString(d, "_id"))
		key := keycodec.Encode(cur.sublevel, cur.id)
		d["_key"] = key
		if topKey == "" {
			topKey = key
		}

		for _, emb := range catalog.Embeddeds(coll) {
			switch emb.Arity {
			case catalog.Array:
				items := docvalue.GetSlice(d, emb.Name)
				resolved := make([]interface{}, 0, len(items))
				for _, raw := range items {
					childID, ok := raw.(string)
					if !ok {
						resolved = append(resolved, raw)
						continue
					}
					childKey := keycodec.Encode(append(append([]string{}, cur.sublevel...), emb.Name), append(append([]string{}, cur.id...), childID))
					childDoc, found, err := store.Get(childKey)
					if err != nil {
						return nil, err
					}
					if !found {
						continue
					}
					resolved = append(resolved, childDoc)
				}
				d[emb.Name] = resolved
			case catalog.Single:
				raw, present := d[emb.Name]
				if !present {
					continue
				}
				childID, ok := raw.(string)
				if !ok {
					continue
				}
				childKey := keycodec.Encode(append(append([]string{}, cur.sublevel...), emb.Name), append(append([]string{}, cur.id...), childID))
				childDoc, found, err := store.Get(childKey)
				if err != nil {
					return nil, err
				}
				if !found {
					d[emb.Name] = nil
					continue
				}
				d[emb.Name] = childDoc
			}
		}
		return cur, nil
	}

	if err := walker.Apply(context.Background(), fn, doc, collection, parent); err != nil {
		return "", err
	}
	return topKey, nil
}

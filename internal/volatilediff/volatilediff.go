// Package volatilediff implements the change-detection gate run before
// every extract write: when the only differences between a freshly
// extracted document and what is already checked in are housekeeping
// timestamps, the existing file is kept untouched rather than rewritten.
package volatilediff

import (
	"encoding/json"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/packsmith/cpack/internal/catalog"
	"github.com/packsmith/cpack/internal/docvalue"
	"github.com/packsmith/cpack/internal/serializer"
)

// Resolve reports whether destPath can be left untouched: an existing
// file at destPath parses successfully and either is already fully
// identical to candidate, or both documents carry _stats and overlaying
// the existing entry's volatile fields onto a clone of candidate makes
// the two deep-equal. When keepExisting is true, re-serializing
// candidate would not reproduce the existing file byte-for-byte, so the
// extract orchestrator copies the existing file's bytes instead.
//
// collection is the hierarchy-catalog name for candidate; it may be a
// name catalog does not recognize (an adventure-embedded subdocument
// extracted under its own collection key), in which case the overlay
// simply does not recurse any further, which is the intended fallback
// to a full top-level compare.
func Resolve(destPath, collection string, candidate docvalue.Doc) (keepExisting bool) {
	if _, err := os.Stat(destPath); err != nil {
		return false
	}
	existing, err := serializer.Read(destPath)
	if err != nil {
		return false
	}

	// Fast path: if the two documents are already fully identical (not
	// merely identical modulo volatile fields), a cheap hash compare
	// skips the clone/overlay/DeepEqual work below entirely. Mirrors the
	// fastHash-before-deep-compare pattern used for file content equality.
	if h1, ok1 := canonicalHash(candidate); ok1 {
		if h2, ok2 := canonicalHash(existing); ok2 && h1 == h2 {
			return true
		}
	}

	if docvalue.GetDoc(candidate, "_stats") == nil || docvalue.GetDoc(existing, "_stats") == nil {
		return false
	}

	overlaid, ok := docvalue.Clone(candidate).(docvalue.Doc)
	if !ok {
		return false
	}
	overlayVolatile(collection, overlaid, existing)

	return docvalue.DeepEqual(overlaid, existing)
}

// overlayVolatile copies every volatile _stats field from existing onto
// candidate, in place, then recurses into the embedded collections the
// catalog knows about for collection, matching array elements by index
// and a single slot by presence on both sides.
func overlayVolatile(collection string, candidate, existing docvalue.Doc) {
	applyStats(candidate, existing)

	for _, emb := range catalog.Embeddeds(collection) {
		switch emb.Arity {
		case catalog.Array:
			candItems := docvalue.GetSlice(candidate, emb.Name)
			existItems := docvalue.GetSlice(existing, emb.Name)
			for i, raw := range candItems {
				if i >= len(existItems) {
					break
				}
				child, ok := docvalue.AsDoc(raw)
				if !ok {
					continue
				}
				existChild, ok := docvalue.AsDoc(existItems[i])
				if !ok {
					continue
				}
				overlayVolatile(emb.Name, child, existChild)
			}
		case catalog.Single:
			candChild, ok1 := docvalue.AsDoc(candidate[emb.Name])
			existChild, ok2 := docvalue.AsDoc(existing[emb.Name])
			if ok1 && ok2 {
				overlayVolatile(emb.Name, candChild, existChild)
			}
		}
	}
}

// canonicalHash hashes doc's canonical JSON encoding (encoding/json sorts
// map keys, so two structurally equal docs always hash the same way).
func canonicalHash(doc docvalue.Doc) (uint64, bool) {
	data, err := json.Marshal(doc)
	if err != nil {
		return 0, false
	}
	return xxhash.Sum64(data), true
}

func applyStats(candidate, existing docvalue.Doc) {
	candStats := docvalue.GetDoc(candidate, "_stats")
	existStats := docvalue.GetDoc(existing, "_stats")
	if candStats == nil || existStats == nil {
		return
	}
	for _, field := range catalog.VolatileStatsFields {
		if v, ok := existStats[field]; ok {
			candStats[field] = v
		}
	}
}

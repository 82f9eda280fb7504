package volatilediff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packsmith/cpack/internal/docvalue"
	"github.com/packsmith/cpack/internal/serializer"
)

func writeExisting(t *testing.T, doc docvalue.Doc) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Hero_aaa.json")
	require.NoError(t, serializer.WriteJSON(path, doc, nil))
	return path
}

func TestResolveKeepsExistingWhenOnlyVolatileFieldsDiffer(t *testing.T) {
	existing := docvalue.Doc{
		"_id":  "aaa",
		"name": "Hero",
		"_stats": docvalue.Doc{
			"modifiedTime": float64(1000),
		},
	}
	path := writeExisting(t, existing)

	candidate := docvalue.Doc{
		"_id":  "aaa",
		"name": "Hero",
		"_stats": docvalue.Doc{
			"modifiedTime": float64(2000),
		},
	}

	assert.True(t, Resolve(path, "actors", candidate))
}

func TestResolveWritesWhenNonVolatileFieldsDiffer(t *testing.T) {
	existing := docvalue.Doc{
		"_id":  "aaa",
		"name": "Hero",
		"_stats": docvalue.Doc{
			"modifiedTime": float64(1000),
		},
	}
	path := writeExisting(t, existing)

	candidate := docvalue.Doc{
		"_id":  "aaa",
		"name": "Hero the Bold",
		"_stats": docvalue.Doc{
			"modifiedTime": float64(2000),
		},
	}

	assert.False(t, Resolve(path, "actors", candidate))
}

func TestResolveFalseWhenNoExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	assert.False(t, Resolve(path, "actors", docvalue.Doc{"_id": "aaa"}))
}

func TestResolveRecursesThroughEmbeddedDocuments(t *testing.T) {
	existing := docvalue.Doc{
		"_id":  "aaa",
		"name": "Hero",
		"_stats": docvalue.Doc{
			"modifiedTime": float64(1000),
		},
		"items": []interface{}{
			docvalue.Doc{
				"_id":  "i1",
				"name": "Sword",
				"_stats": docvalue.Doc{
					"modifiedTime": float64(1000),
				},
			},
		},
	}
	path := writeExisting(t, existing)

	candidate := docvalue.Doc{
		"_id":  "aaa",
		"name": "Hero",
		"_stats": docvalue.Doc{
			"modifiedTime": float64(9999),
		},
		"items": []interface{}{
			docvalue.Doc{
				"_id":  "i1",
				"name": "Sword",
				"_stats": docvalue.Doc{
					"modifiedTime": float64(9999),
				},
			},
		},
	}

	assert.True(t, Resolve(path, "actors", candidate))
}

func TestResolveToleratesUnknownCollection(t *testing.T) {
	existing := docvalue.Doc{"_id": "i1", "name": "Sword", "_stats": docvalue.Doc{"modifiedTime": float64(1)}}
	path := writeExisting(t, existing)

	candidate := docvalue.Doc{"_id": "i1", "name": "Sword", "_stats": docvalue.Doc{"modifiedTime": float64(2)}}

	// A collection name the catalog does not know stops the overlay's
	// recursion; the gate must still fall through to a full top-level
	// compare.
	assert.True(t, Resolve(path, "not-a-real-collection", candidate))
}

func TestResolveTrueWhenDocumentsAreFullyIdenticalWithoutStats(t *testing.T) {
	existing := docvalue.Doc{"_id": "aaa", "name": "Hero"}
	path := writeExisting(t, existing)

	candidate := docvalue.Doc{"_id": "aaa", "name": "Hero"}

	// Neither document carries _stats, so the volatile-field overlay
	// below would normally bail out; the fully-identical fast path
	// must still catch this case.
	assert.True(t, Resolve(path, "actors", candidate))
}

func TestResolveFalseOnUnparsableExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	candidate := docvalue.Doc{"_id": "aaa", "_stats": docvalue.Doc{"modifiedTime": float64(1)}}
	assert.False(t, Resolve(path, "actors", candidate))
}

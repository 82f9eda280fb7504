package serializer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packsmith/cpack/internal/docvalue"
)

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "actor1.json")
	doc := docvalue.Doc{"_id": "aaa", "name": "Hero", "hp": float64(10)}

	require.NoError(t, WriteJSON(path, doc, nil))

	got, err := Read(path)
	require.NoError(t, err)
	assert.True(t, docvalue.DeepEqual(doc, got))
}

func TestWriteJSONAppendsTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actor1.json")
	require.NoError(t, WriteJSON(path, docvalue.Doc{"_id": "aaa"}, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

func TestYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actor1.yml")
	doc := docvalue.Doc{"_id": "aaa", "name": "Hero"}

	require.NoError(t, WriteYAML(path, doc, nil))

	got, err := Read(path)
	require.NoError(t, err)
	assert.True(t, docvalue.DeepEqual(doc, got))
}

func TestReadRejectsUnrecognizedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actor1.txt")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := Read(path)
	assert.Error(t, err)
}

func TestWriteJSONAppliesReplacer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actor1.json")
	doc := docvalue.Doc{"_id": "aaa", "_stats": docvalue.Doc{"modifiedTime": float64(123)}}

	opts := &JSONOptions{
		Replacer: func(key string, value interface{}) interface{} {
			if key == "modifiedTime" {
				return nil
			}
			return value
		},
	}
	require.NoError(t, WriteJSON(path, doc, opts))

	got, err := Read(path)
	require.NoError(t, err)
	stats := docvalue.GetDoc(got, "_stats")
	require.NotNil(t, stats)
	assert.Nil(t, stats["modifiedTime"])
}

func TestWriteDispatchesOnYAMLMode(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "a.json")
	yamlPath := filepath.Join(t.TempDir(), "a.yml")
	doc := docvalue.Doc{"_id": "aaa"}

	require.NoError(t, Write(jsonPath, doc, false, nil, nil))
	require.NoError(t, Write(yamlPath, doc, true, nil, nil))

	_, err := Read(jsonPath)
	require.NoError(t, err)
	_, err = Read(yamlPath)
	require.NoError(t, err)
}

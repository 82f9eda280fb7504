package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadIndexesPacksAcrossManifests(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "core.json", `{"id":"core","type":"system","packs":[{"name":"actors","type":"Actor"},{"name":"items","type":"Item"}]}`)
	writeManifest(t, dir, "module-a.json", `{"id":"module-a","type":"module","packs":[{"name":"module-actors","type":"Actor"}]}`)

	reg, err := Load(dir)
	require.NoError(t, err)

	docType, ok := reg.DocumentType("actors")
	require.True(t, ok)
	assert.Equal(t, "Actor", docType)

	docType, ok = reg.DocumentType("module-actors")
	require.True(t, ok)
	assert.Equal(t, "Actor", docType)
}

func TestLoadSkipsMalformedManifestFiles(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "broken.json", `not json`)
	writeManifest(t, dir, "good.json", `{"id":"good","type":"system","packs":[{"name":"things","type":"Item"}]}`)

	reg, err := Load(dir)
	require.NoError(t, err)

	_, ok := reg.DocumentType("things")
	assert.True(t, ok)
}

func TestDocumentTypeReportsMissing(t *testing.T) {
	reg, err := Load(t.TempDir())
	require.NoError(t, err)

	_, ok := reg.DocumentType("nope")
	assert.False(t, ok)
}

func TestLoadErrorsOnMissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBinaryPath string

func TestMain(m *testing.M) {
	tempBinary := filepath.Join(os.TempDir(), fmt.Sprintf("cpack-test-%d", time.Now().UnixNano()))

	buildCmd := exec.Command("go", "build", "-o", tempBinary, ".")
	var buildOut bytes.Buffer
	buildCmd.Stdout = &buildOut
	buildCmd.Stderr = &buildOut
	if err := buildCmd.Run(); err != nil {
		fmt.Printf("failed to build cpack for testing: %v\nbuild output: %s\n", err, buildOut.String())
		os.Exit(1)
	}
	testBinaryPath = tempBinary

	code := m.Run()
	os.Remove(testBinaryPath)
	os.Exit(code)
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := exec.Command(testBinaryPath, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

func TestCompileThenExtractRoundTripsThroughTheCLI(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(t.TempDir(), "pack")
	out := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(src, "Hero_aaa.json"),
		[]byte(`{"_id":"aaa","name":"Hero","_key":"!actors!aaa"}`), 0o644))

	_, stderr, err := runCLI(t, "compile", src, dest)
	require.NoError(t, err, stderr)

	_, stderr, err = runCLI(t, "extract", dest, out)
	require.NoError(t, err, stderr)

	data, err := os.ReadFile(filepath.Join(out, "Hero_aaa.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Hero"`)
}

func TestExtractResolvesDocumentTypeFromManifestDir(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(t.TempDir(), "pack.db")
	out := t.TempDir()
	manifestDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(src, "Hero_aaa.json"),
		[]byte(`{"_id":"aaa","name":"Hero","_key":"!actors!aaa"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(manifestDir, "my-module.json"),
		[]byte(`{"id":"my-module","packs":[{"name":"characters","type":"Actor"}]}`), 0o644))

	_, stderr, err := runCLI(t, "compile", "--nedb", src, dest)
	require.NoError(t, err, stderr)

	nedbSrc := filepath.Join(filepath.Dir(dest), "characters.db")
	require.NoError(t, os.Rename(dest, nedbSrc))

	_, stderr, err = runCLI(t, "extract", "--nedb", "--manifest-dir", manifestDir, nedbSrc, out)
	require.NoError(t, err, stderr)

	data, err := os.ReadFile(filepath.Join(out, "Hero_aaa.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Hero"`)
}

func TestCompileMissingArgsReportsUsageError(t *testing.T) {
	_, stderr, err := runCLI(t, "compile", "onlyone")
	assert.Error(t, err)
	assert.Contains(t, stderr, "usage: cpack compile")
}

func TestVersionFlagPrintsVersion(t *testing.T) {
	stdout, stderr, err := runCLI(t, "--version")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "cpack")
}

package lockprobe

import (
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeUnlockedWhenPathDoesNotExist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LOCK")
	locked, err := Probe(path)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestProbeLockedWhenHeldByAnotherHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LOCK")

	holder := flock.New(path)
	ok, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer holder.Unlock()

	locked, err := Probe(path)
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestProbeReleasesItsOwnLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LOCK")

	locked, err := Probe(path)
	require.NoError(t, err)
	assert.False(t, locked)

	// Probe must release the lock it took, so a second probe (or an
	// external holder) succeeds immediately afterward.
	holder := flock.New(path)
	ok, err := holder.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)
	holder.Unlock()
}

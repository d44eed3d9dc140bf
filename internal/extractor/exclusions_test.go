package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExclusions_MissingFileIsEmpty(t *testing.T) {
	e, err := OpenExclusions(filepath.Join(t.TempDir(), "exclusions.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, e.Len())
	assert.False(t, e.Contains("anything"))
}

func TestExclusions_AddPersistsAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclusions.txt")
	e, err := OpenExclusions(path)
	require.NoError(t, err)

	require.NoError(t, e.Add("  Whereas "))
	assert.True(t, e.Contains("whereas"))
	assert.True(t, e.Contains("WHEREAS"))
	assert.Equal(t, 1, e.Len())

	// Duplicate adds are no-ops on disk.
	require.NoError(t, e.Add("whereas"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "whereas\n", string(data))

	// A fresh open sees the persisted term.
	reloaded, err := OpenExclusions(path)
	require.NoError(t, err)
	assert.True(t, reloaded.Contains("Whereas"))
}

func TestExclusions_RejectsEmptyTerm(t *testing.T) {
	e, err := OpenExclusions(filepath.Join(t.TempDir(), "exclusions.txt"))
	require.NoError(t, err)
	assert.Error(t, e.Add("   "))
}

func TestExclusions_LoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclusions.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\n\n  Beta \n"), 0o644))
	e, err := OpenExclusions(path)
	require.NoError(t, err)
	assert.Equal(t, 2, e.Len())
	assert.True(t, e.Contains("beta"))
}

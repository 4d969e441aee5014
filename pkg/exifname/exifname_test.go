package exifname

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Missing or unreadable metadata must never be fatal: the plain stem
// always comes back usable, with the cause for the caller to log.
func TestRenameFallsBackWithoutExif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DSC0042.raf")
	require.NoError(t, os.WriteFile(path, []byte("not a real raw file"), 0644))

	stem, err := Rename(path)
	assert.Error(t, err)
	assert.Equal(t, "DSC0042", stem)
}

func TestRenameMissingFile(t *testing.T) {
	stem, err := Rename(filepath.Join(t.TempDir(), "gone.nef"))
	assert.Error(t, err)
	assert.Equal(t, "gone", stem)
}

func TestCompactTimestamp(t *testing.T) {
	assert.Equal(t, "20170821T113453", compactTimestamp("2017:08:21 11:34:53"))
}

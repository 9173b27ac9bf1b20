package fs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ngen/internal/adapters/fs"
)

func TestHasher_HashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build.ninja")
	require.NoError(t, os.WriteFile(path, []byte("default all\n"), 0o600))

	h := fs.NewHasher()
	sum, err := h.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, xxhash.Sum64String("default all\n"), sum)

	fromReader, err := h.HashReader(strings.NewReader("default all\n"))
	require.NoError(t, err)
	assert.Equal(t, sum, fromReader)
	assert.Equal(t, sum, h.HashString("default all\n"))
}

func TestHasher_HashFileMissing(t *testing.T) {
	h := fs.NewHasher()
	_, err := h.HashFile(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

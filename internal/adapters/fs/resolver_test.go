package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ngen/internal/adapters/fs"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))
	}
}

func TestResolver_ResolveInputs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/main.c", "src/util/a.c", "src/util/b.c", "src/util/b.h", "README")

	resolver := fs.NewResolver()

	tests := []struct {
		name   string
		inputs []string
		want   []string
	}{
		{
			name:   "recursive glob",
			inputs: []string{"src/**/*.c"},
			want:   []string{"src/main.c", "src/util/a.c", "src/util/b.c"},
		},
		{
			name:   "plain paths pass through",
			inputs: []string{"gen/version.c", "./src/main.c"},
			want:   []string{"gen/version.c", "src/main.c"},
		},
		{
			name:   "pattern order is kept and duplicates dropped",
			inputs: []string{"src/util/*.h", "src/**/*.c", "src/main.c"},
			want:   []string{"src/util/b.h", "src/main.c", "src/util/a.c", "src/util/b.c"},
		},
		{
			name:   "alternatives",
			inputs: []string{"src/util/*.{c,h}"},
			want:   []string{"src/util/a.c", "src/util/b.c", "src/util/b.h"},
		},
		{
			name:   "no matches",
			inputs: []string{"*.cpp"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.ResolveInputs(tt.inputs, root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_ResolveInputs_Absolute(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "lib/x.c", "lib/y.c")

	pattern := filepath.ToSlash(root) + "/lib/*.c"
	got, err := fs.NewResolver().ResolveInputs([]string{pattern}, "/elsewhere")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.ToSlash(root) + "/lib/x.c",
		filepath.ToSlash(root) + "/lib/y.c",
	}, got)
}

func TestResolver_ResolveInputs_BadPattern(t *testing.T) {
	_, err := fs.NewResolver().ResolveInputs([]string{"src/[a.c"}, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to glob path")
}

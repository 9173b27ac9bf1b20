package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ngen/internal/app"
)

func TestRun(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		config       string
		args         []string
		expectedExit int
	}{
		{
			name: "Success with valid project",
			config: `targets:
  - name: docs
    kind: utility
`,
			args:         []string{"ngen", "generate"},
			expectedExit: 0,
		},
		{
			name:         "Invalid project",
			config:       "targets:\n  - {name: all, kind: utility}\n",
			args:         []string{"ngen", "generate"},
			expectedExit: 1,
		},
		{
			name:         "Unknown command",
			config:       "",
			args:         []string{"ngen", "build"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "ngen.yaml"), []byte(tt.config), 0o600))
			t.Chdir(tmpDir)

			os.Args = tt.args
			exitCode := run(func(a *app.App) {
				a.WithToolCommand("ngen")
			})
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func TestRun_GeneratesBuildFiles(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "ngen.yaml"), []byte("targets:\n  - {name: docs, kind: utility}\n"), 0o600))
	t.Chdir(tmpDir)

	os.Args = []string{"ngen", "generate", "-B", "out"}
	require.Equal(t, 0, run())

	assert.FileExists(t, filepath.Join(tmpDir, "out", "build.ninja"))
	assert.FileExists(t, filepath.Join(tmpDir, "out", "rules.ninja"))
	assert.FileExists(t, filepath.Join(tmpDir, "out", "ngen_state.json"))
}

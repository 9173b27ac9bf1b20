package app_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ngen/internal/adapters/cas"
	"go.trai.ch/ngen/internal/adapters/config"
	"go.trai.ch/ngen/internal/adapters/fs"
	"go.trai.ch/ngen/internal/adapters/logger"
	"go.trai.ch/ngen/internal/adapters/telemetry"
	"go.trai.ch/ngen/internal/adapters/toolchain"
	"go.trai.ch/ngen/internal/app"
	"go.trai.ch/ngen/internal/engine/generator"
)

func newRealApp(t *testing.T) *app.App {
	t.Helper()
	log := logger.New()
	log.SetOutput(io.Discard)
	return app.New(
		config.NewLoader(log, fs.NewResolver()),
		toolchain.NewFactory(),
		fs.NewWriter(fs.NewHasher(), log),
		cas.NewStore(),
		generator.New(log, telemetry.NewNoOpTracer()),
		log,
	).WithVersion("1.0.0").WithToolCommand("ngen")
}

// regenerationInputs returns the implicit inputs of the edge that rebuilds build.ninja.
func regenerationInputs(t *testing.T, buildDir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(buildDir, generator.BuildFile))
	require.NoError(t, err)
	for line := range strings.Lines(string(data)) {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "build "+generator.BuildFile+": RERUN_NGEN | ")
		if !ok {
			continue
		}
		var inputs []string
		for _, in := range strings.Fields(rest) {
			if !filepath.IsAbs(in) {
				in = filepath.Join(buildDir, in)
			}
			inputs = append(inputs, in)
		}
		return inputs
	}
	t.Fatalf("no regeneration statement in %s", generator.BuildFile)
	return nil
}

func assertManifestSettled(t *testing.T, buildDir string) {
	t.Helper()
	manifest, err := os.Stat(filepath.Join(buildDir, generator.BuildFile))
	require.NoError(t, err)

	inputs := regenerationInputs(t, buildDir)
	assert.Contains(t, inputs, filepath.Join(buildDir, cas.StateFileName))
	for _, in := range inputs {
		info, err := os.Stat(in)
		require.NoError(t, err)
		assert.False(t, info.ModTime().After(manifest.ModTime()),
			"implicit input %s is newer than %s", in, generator.BuildFile)
	}
}

func TestApp_Generate_ManifestIsNotOlderThanItsInputs(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "ngen.yaml"),
		[]byte("targets:\n  - {name: docs, kind: utility}\n"), 0o600))
	buildDir := filepath.Join(src, "build")
	ctx := context.Background()

	_, err := newRealApp(t).Generate(ctx, app.GenerateOptions{ProjectFile: src})
	require.NoError(t, err)
	assertManifestSettled(t, buildDir)

	// What the regeneration edge runs.
	_, err = newRealApp(t).Generate(ctx, app.GenerateOptions{BuildDir: buildDir, Regenerate: true})
	require.NoError(t, err)
	assertManifestSettled(t, buildDir)

	// Only the persisted options change; the manifest still follows the state.
	_, err = newRealApp(t).Generate(ctx, app.GenerateOptions{
		ProjectFile:   src,
		RuleConflicts: generator.ConflictError,
	})
	require.NoError(t, err)
	assertManifestSettled(t, buildDir)

	state, err := cas.NewStore().Get(buildDir)
	require.NoError(t, err)
	assert.Equal(t, string(generator.ConflictError), state.RuleConflicts)
}

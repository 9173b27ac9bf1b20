package commands_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ngen/cmd/ngen/commands"
	"go.trai.ch/ngen/internal/adapters/cas"
	"go.trai.ch/ngen/internal/adapters/config"
	"go.trai.ch/ngen/internal/adapters/fs"
	"go.trai.ch/ngen/internal/adapters/logger"
	"go.trai.ch/ngen/internal/adapters/telemetry"
	"go.trai.ch/ngen/internal/adapters/toolchain"
	"go.trai.ch/ngen/internal/app"
	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/engine/generator"
)

const utilityProject = `
project: docs
targets:
  - name: docs
    kind: utility
    post_build:
      - command: [doxygen, Doxyfile]
`

func newCLI(t *testing.T) (*commands.CLI, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	log := logger.New()
	log.SetOutput(io.Discard)
	a := app.New(
		config.NewLoader(log, fs.NewResolver()),
		toolchain.NewFactory(),
		fs.NewWriter(fs.NewHasher(), log),
		cas.NewStore(),
		generator.New(log, telemetry.NewNoOpTracer()),
		log,
	).WithVersion("1.0.0").WithToolCommand("ngen")

	cli := commands.New(a)
	var out bytes.Buffer
	cli.SetOutput(&out)
	return cli, &out
}

func writeProject(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ngen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGenerate(t *testing.T) {
	dir := writeProject(t, utilityProject)
	cli, out := newCLI(t)

	cli.SetArgs([]string{"generate", "-f", dir})
	require.NoError(t, cli.Execute(context.Background()))

	buildDir := filepath.Join(dir, "build")
	build := readFile(t, filepath.Join(buildDir, "build.ninja"))
	assert.Contains(t, build, "# Generated by ngen version 1.0.0")
	assert.Contains(t, build, "include rules.ninja")
	assert.NotContains(t, build, "build all: phony docs")
	assert.Contains(t, readFile(t, filepath.Join(buildDir, "rules.ninja")), "rule RERUN_NGEN")
	assert.FileExists(t, filepath.Join(buildDir, cas.StateFileName))
	assert.Contains(t, out.String(), "✓ 1 targets")
}

func TestGenerate_FlagsAndRegenerate(t *testing.T) {
	dir := writeProject(t, utilityProject)
	buildDir := filepath.Join(t.TempDir(), "out")

	cli, _ := newCLI(t)
	cli.SetArgs([]string{"generate", "-f", filepath.Join(dir, "ngen.yaml"), "-B", buildDir, "--utilities-in-all"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, readFile(t, filepath.Join(buildDir, "build.ninja")), "build all: phony docs")

	require.NoError(t, os.Remove(filepath.Join(buildDir, "build.ninja")))

	// Regeneration restores the project file and options from the state.
	cli, _ = newCLI(t)
	cli.SetArgs([]string{"generate", "--regenerate", "-B", buildDir})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, readFile(t, filepath.Join(buildDir, "build.ninja")), "build all: phony docs")
}

func TestGenerate_RegenerateWithoutState(t *testing.T) {
	cli, _ := newCLI(t)
	cli.SetArgs([]string{"generate", "--regenerate", "-B", t.TempDir()})

	err := cli.Execute(context.Background())
	require.ErrorIs(t, err, domain.ErrNoGeneratorState)
}

func TestGenerate_InvalidConflictPolicy(t *testing.T) {
	dir := writeProject(t, utilityProject)
	cli, _ := newCLI(t)
	cli.SetArgs([]string{"generate", "-f", dir, "--rule-conflicts", "panic"})

	err := cli.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rule conflict policy")
	assert.NoDirExists(t, filepath.Join(dir, "build"))
}

func TestGenerate_FailedTargetsKeepPreviousGraph(t *testing.T) {
	dir := writeProject(t, utilityProject)
	cli, _ := newCLI(t)
	cli.SetArgs([]string{"generate", "-f", dir})
	require.NoError(t, cli.Execute(context.Background()))
	buildFile := filepath.Join(dir, "build", "build.ninja")
	before := readFile(t, buildFile)

	// An executable without a link template cannot be lowered.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.c"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ngen.yaml"), []byte(utilityProject+`
  - name: app
    kind: executable
    sources: [main.c]
`), 0o600))

	cli, out := newCLI(t)
	cli.SetArgs([]string{"generate", "-f", dir})
	err := cli.Execute(context.Background())
	require.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.Contains(t, out.String(), "✗ 1 target(s) failed: app")
	assert.Equal(t, before, readFile(t, buildFile))
}

func TestVersion(t *testing.T) {
	cli, out := newCLI(t)
	cli.SetArgs([]string{"version"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "ngen version")
}

func TestTool_SymlinkExecutable(t *testing.T) {
	dir := t.TempDir()
	realPath := filepath.Join(dir, "app-1.0")
	link := filepath.Join(dir, "app")
	require.NoError(t, os.WriteFile(realPath, nil, 0o600))

	cli, _ := newCLI(t)
	cli.SetArgs([]string{"tool", "symlink-executable", realPath, link})
	require.NoError(t, cli.Execute(context.Background()))

	dest, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, "app-1.0", dest)
}

func TestTool_SymlinkLibraryArgs(t *testing.T) {
	cli, _ := newCLI(t)
	cli.SetArgs([]string{"tool", "symlink-library", "libx.so.1"})
	require.Error(t, cli.Execute(context.Background()))
}

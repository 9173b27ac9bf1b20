// Package app implements the application layer for ngen.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/core/ports"
	"go.trai.ch/ngen/internal/engine/generator"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader     ports.ProjectLoader
	toolchains ports.ToolchainFactory
	files      ports.FileWriter
	store      ports.StateStore
	generator  *generator.Generator
	logger     ports.Logger

	version     string
	toolCommand string
}

// New creates a new App instance.
func New(
	loader ports.ProjectLoader,
	toolchains ports.ToolchainFactory,
	files ports.FileWriter,
	store ports.StateStore,
	gen *generator.Generator,
	logger ports.Logger,
) *App {
	return &App{
		loader:      loader,
		toolchains:  toolchains,
		files:       files,
		store:       store,
		generator:   gen,
		logger:      logger,
		version:     "dev",
		toolCommand: "ngen",
	}
}

// WithVersion sets the version written into generated files and the state.
func (a *App) WithVersion(version string) *App {
	a.version = version
	return a
}

// WithToolCommand sets how the generated graph invokes ngen again.
func (a *App) WithToolCommand(cmd string) *App {
	a.toolCommand = cmd
	return a
}

// SetVerbose enables debug output when the logger supports it.
func (a *App) SetVerbose(verbose bool) {
	if v, ok := a.logger.(interface{ SetVerbose(bool) }); ok {
		v.SetVerbose(verbose)
	}
}

// GenerateOptions configure a generation run.
type GenerateOptions struct {
	// ProjectFile is the project description. Empty means ngen.yaml in the working directory.
	ProjectFile string
	// BuildDir is the directory the graph is written to.
	BuildDir string
	// Regenerate reloads the project file and options from the state of BuildDir.
	Regenerate bool
	// RuleConflicts is the rule divergence policy.
	RuleConflicts generator.ConflictPolicy
	// UtilitiesInAll adds utility targets to "all".
	UtilitiesInAll bool
}

// Generate loads the project, writes its build graph and persists the
// generator state. Nothing is published when generation fails.
func (a *App) Generate(ctx context.Context, opts GenerateOptions) (generator.Result, error) {
	if opts.Regenerate {
		var err error
		if opts, err = a.restore(opts); err != nil {
			return generator.Result{}, err
		}
	}

	project, err := a.loader.Load(ctx, opts.ProjectFile, opts.BuildDir)
	if err != nil {
		return generator.Result{}, zerr.Wrap(err, "failed to load project")
	}
	a.bindProject(project)

	toolchain, err := a.toolchains.New(project)
	if err != nil {
		return generator.Result{}, zerr.Wrap(err, "failed to build toolchain")
	}

	state := a.stateOf(project, opts)
	result, err := a.write(ctx, project, toolchain, opts, state)
	if err != nil {
		return result, err
	}

	a.logger.Info(fmt.Sprintf("generated %d targets, %d rules and %d build statements in %s",
		result.Targets, result.Rules, result.Builds, project.BinaryDir))
	return result, nil
}

// stateOf returns the state that lets a later run regenerate project with opts.
func (a *App) stateOf(project *domain.Project, opts GenerateOptions) domain.GeneratorState {
	state := domain.GeneratorState{
		SourceDir:      project.SourceDir,
		BinaryDir:      project.BinaryDir,
		Version:        a.version,
		ListFiles:      project.ListFiles,
		RuleConflicts:  string(opts.RuleConflicts),
		UtilitiesInAll: opts.UtilitiesInAll,
	}
	if len(project.ListFiles) > 0 {
		state.ProjectFile = project.ListFiles[0]
	}
	return state
}

// restore fills opts from the state persisted in the build directory.
func (a *App) restore(opts GenerateOptions) (GenerateOptions, error) {
	buildDir := opts.BuildDir
	if buildDir == "" {
		buildDir = "."
	}
	state, err := a.store.Get(buildDir)
	if err != nil {
		return opts, zerr.Wrap(err, "failed to read generator state")
	}
	if state == nil {
		return opts, zerr.With(zerr.Wrap(domain.ErrNoGeneratorState, "regenerate"), "build_dir", buildDir)
	}

	opts.ProjectFile = state.ProjectFile
	if state.BinaryDir != "" {
		opts.BuildDir = state.BinaryDir
	}
	opts.RuleConflicts = generator.ConflictPolicy(state.RuleConflicts)
	opts.UtilitiesInAll = state.UtilitiesInAll
	a.logger.Debug("regenerating from " + a.store.Path(buildDir))
	return opts, nil
}

// bindProject records how the generated graph refers back to ngen.
func (a *App) bindProject(project *domain.Project) {
	statePath := a.store.Path(project.BinaryDir)
	if rel, err := filepath.Rel(filepath.FromSlash(project.BinaryDir), statePath); err == nil {
		statePath = rel
	}
	project.StateFile = filepath.ToSlash(statePath)
	project.ToolCommand = a.toolCommand
}

// write streams the graph into staged files and publishes them only when
// generation succeeded. The state is an input of the graph, so it is
// persisted before the streams are committed.
func (a *App) write(
	ctx context.Context,
	project *domain.Project,
	toolchain ports.Toolchain,
	opts GenerateOptions,
	state domain.GeneratorState,
) (generator.Result, error) {
	rules, err := a.files.Open(filepath.Join(filepath.FromSlash(project.BinaryDir), generator.RulesFile))
	if err != nil {
		return generator.Result{}, err
	}
	build, err := a.files.Open(filepath.Join(filepath.FromSlash(project.BinaryDir), generator.BuildFile))
	if err != nil {
		return generator.Result{}, errors.Join(err, rules.Discard())
	}

	result, err := a.generator.Generate(ctx, project, toolchain, rules, build, generator.Options{
		RuleConflicts:    opts.RuleConflicts,
		UtilitiesInAll:   opts.UtilitiesInAll,
		Version:          a.version,
		StateFingerprint: state.Fingerprint(),
	})
	if err != nil {
		return result, errors.Join(err, rules.Discard(), build.Discard())
	}

	if err := a.store.Put(project.BinaryDir, state); err != nil {
		err = zerr.Wrap(err, "failed to persist generator state")
		return result, errors.Join(err, rules.Discard(), build.Discard())
	}

	if err := rules.Commit(); err != nil {
		return result, errors.Join(err, build.Discard())
	}
	if err := build.Commit(); err != nil {
		return result, err
	}
	return result, nil
}

// ToolCommand returns the command that invokes the running executable.
func ToolCommand() string {
	exe, err := os.Executable()
	if err != nil {
		return "ngen"
	}
	return exe
}

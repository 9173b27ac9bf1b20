// Package config provides the project description loader for ngen.
package config

import (
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is the project description looked up when no file is given.
	DefaultFile = "ngen.yaml"
	// DefaultBuildDir is the build directory used when none is given, relative to the project.
	DefaultBuildDir = "build"
)

var _ ports.ProjectLoader = (*Loader)(nil)

// Loader implements ports.ProjectLoader using YAML files.
type Loader struct {
	Logger   ports.Logger
	Resolver ports.InputResolver
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger, resolver ports.InputResolver) *Loader {
	return &Loader{Logger: logger, Resolver: resolver}
}

// descriptionFile is one parsed project description.
type descriptionFile struct {
	path string
	dir  string
	file *Projectfile
}

// Load reads the project description at path, follows its includes and
// returns the validated project model.
func (l *Loader) Load(ctx context.Context, path, buildDir string) (*domain.Project, error) {
	if path == "" {
		path = DefaultFile
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve project file"), "path", path)
	}
	if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
		absPath = filepath.Join(absPath, DefaultFile)
	}
	sourceDir := filepath.Dir(absPath)

	if buildDir == "" {
		buildDir = filepath.Join(sourceDir, DefaultBuildDir)
	}
	absBuild, err := filepath.Abs(buildDir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve build directory"), "path", buildDir)
	}

	files, err := l.loadTree(ctx, absPath, nil)
	if err != nil {
		return nil, err
	}
	files = dedupeFiles(files)

	name := files[0].file.Project
	if name == "" {
		name = filepath.Base(sourceDir)
	}
	project := domain.NewProject(name, filepath.ToSlash(sourceDir), filepath.ToSlash(absBuild))
	for _, f := range files {
		project.ListFiles = append(project.ListFiles, filepath.ToSlash(f.path))
	}

	if err := mergeToolchain(project, files); err != nil {
		return nil, err
	}

	b := newTargetBuilder(l, project)
	for _, f := range files {
		if err := b.addFile(f); err != nil {
			return nil, err
		}
	}
	if err := b.finish(); err != nil {
		return nil, err
	}

	l.Logger.Debug("loaded project " + project.Name)
	return project, nil
}

// loadTree reads path and every file it includes, depth first. Includes of
// one file are read concurrently and merged in declaration order.
func (l *Loader) loadTree(ctx context.Context, path string, chain []string) ([]descriptionFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if slices.Contains(chain, path) {
		err := zerr.With(zerr.Wrap(domain.ErrInvalidProject, "include cycle"), "path", path)
		return nil, zerr.With(err, "chain", strings.Join(slices.Concat(chain, []string{path}), " -> "))
	}

	var pf Projectfile
	if err := readAndUnmarshalYAML(path, &pf); err != nil {
		return nil, err
	}
	self := descriptionFile{path: path, dir: filepath.Dir(path), file: &pf}
	l.Logger.Debug("read project description " + path)

	includes, err := l.resolveIncludes(self)
	if err != nil {
		return nil, err
	}

	nested := make([][]descriptionFile, len(includes))
	g, gctx := errgroup.WithContext(ctx)
	chain = slices.Concat(chain, []string{path})
	for i, inc := range includes {
		g.Go(func() error {
			files, err := l.loadTree(gctx, inc, chain)
			nested[i] = files
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append([]descriptionFile{self}, slices.Concat(nested...)...), nil
}

// resolveIncludes expands the include patterns of f. A directory includes
// its default description file.
func (l *Loader) resolveIncludes(f descriptionFile) ([]string, error) {
	if len(f.file.Includes) == 0 {
		return nil, nil
	}
	matches, err := l.Resolver.ResolveInputs(f.file.Includes, f.dir)
	if err != nil {
		return nil, zerr.With(err, "path", f.path)
	}

	includes := make([]string, 0, len(matches))
	for _, m := range matches {
		p := filepath.FromSlash(m)
		if !filepath.IsAbs(p) {
			p = filepath.Join(f.dir, p)
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			p = filepath.Join(p, DefaultFile)
		}
		includes = append(includes, p)
	}
	return includes, nil
}

// dedupeFiles keeps the first occurrence of every file.
func dedupeFiles(files []descriptionFile) []descriptionFile {
	seen := make(map[string]bool, len(files))
	out := files[:0]
	for _, f := range files {
		if seen[f.path] {
			continue
		}
		seen[f.path] = true
		out = append(out, f)
	}
	return out
}

// mergeToolchain collects the languages of every file. A language or a
// source extension may only be claimed once.
func mergeToolchain(project *domain.Project, files []descriptionFile) error {
	owners := make(map[string]string)
	for _, f := range files {
		for _, name := range slices.Sorted(maps.Keys(f.file.Toolchain)) {
			if _, exists := project.Toolchain[name]; exists {
				err := zerr.With(zerr.Wrap(domain.ErrInvalidProject, "language defined twice"), "language", name)
				return zerr.With(err, "path", f.path)
			}
			dto := f.file.Toolchain[name]
			if dto == nil {
				dto = &LanguageDTO{}
			}
			for _, ext := range dto.Extensions {
				ext = strings.TrimPrefix(ext, ".")
				if owner, taken := owners[ext]; taken {
					err := zerr.With(zerr.Wrap(domain.ErrInvalidProject, "extension claimed by two languages"), "extension", ext)
					return zerr.With(zerr.With(err, "language", name), "owner", owner)
				}
				owners[ext] = name
			}
			project.Toolchain[name] = toLanguage(name, dto)
		}
	}
	return nil
}

func toLanguage(name string, dto *LanguageDTO) domain.Language {
	exts := make([]string, 0, len(dto.Extensions))
	for _, ext := range dto.Extensions {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	commands := map[domain.Operation]string{
		domain.OpCompileObject:       dto.CompileObject,
		domain.OpCreateStaticLibrary: dto.CreateStaticLibrary,
		domain.OpArchiveCreate:       dto.ArchiveCreate,
		domain.OpArchiveFinish:       dto.ArchiveFinish,
		domain.OpCreateSharedLibrary: dto.CreateSharedLibrary,
		domain.OpLinkExecutable:      dto.LinkExecutable,
	}
	maps.DeleteFunc(commands, func(_ domain.Operation, v string) bool { return strings.TrimSpace(v) == "" })
	return domain.Language{
		Name:        name,
		Extensions:  exts,
		Commands:    commands,
		Flags:       dto.Flags,
		SharedFlags: dto.SharedFlags,
		LinkFlags:   dto.LinkFlags,
	}
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
// Unknown keys are rejected. An empty file yields the zero value.
func readAndUnmarshalYAML[T any](path string, target *T) error {
	f, err := os.Open(path) //nolint:gosec // path is provided by user
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read project description"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.With(zerr.Wrap(err, "failed to parse project description"), "path", path)
	}
	return nil
}

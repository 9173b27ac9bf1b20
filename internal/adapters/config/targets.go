package config

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/zerr"
)

var (
	headerExtensions = map[string]bool{"h": true, "hh": true, "hpp": true, "hxx": true, "inl": true}
	objectExtensions = map[string]bool{"o": true, "obj": true}
)

// targetBuilder turns target definitions into domain targets. Paths that
// depend on the whole project (command dependencies, link closure) are
// resolved in finish once every file has been added.
type targetBuilder struct {
	loader     *Loader
	project    *domain.Project
	extensions map[string]string

	// outputs holds every custom command output, relative to the build directory.
	outputs map[string]bool
	pending []pendingDepends
	links   map[domain.InternedString]linkRequest
	closure map[domain.InternedString]*linkClosure
}

// pendingDepends is a dependency list waiting for project-wide resolution.
type pendingDepends struct {
	deps     *[]string
	srcDir   string
	buildSub string
}

type linkRequest struct {
	entries []string
	file    string
}

type linkClosure struct {
	items     []string
	externals []string
}

func newTargetBuilder(loader *Loader, project *domain.Project) *targetBuilder {
	extensions := make(map[string]string)
	for name, lang := range project.Toolchain {
		for _, ext := range lang.Extensions {
			extensions[ext] = name
		}
	}
	return &targetBuilder{
		loader:     loader,
		project:    project,
		extensions: extensions,
		outputs:    make(map[string]bool),
		links:      make(map[domain.InternedString]linkRequest),
		closure:    make(map[domain.InternedString]*linkClosure),
	}
}

// addFile adds the targets declared in f.
func (b *targetBuilder) addFile(f descriptionFile) error {
	rel, err := filepath.Rel(filepath.FromSlash(b.project.SourceDir), f.dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidProject, "project description outside the source directory"), "path", f.path)
	}
	buildSub := ""
	if rel != "." {
		buildSub = filepath.ToSlash(rel)
	}

	for _, dto := range f.file.Targets {
		if dto == nil {
			continue
		}
		target, err := b.newTarget(f, buildSub, dto)
		if err != nil {
			return zerr.With(err, "path", f.path)
		}
		if err := b.project.Graph.AddTarget(target); err != nil {
			return zerr.With(err, "path", f.path)
		}
		if len(dto.Link) > 0 {
			b.links[target.Name] = linkRequest{entries: dto.Link, file: f.path}
		}
	}
	return nil
}

func (b *targetBuilder) newTarget(f descriptionFile, buildSub string, dto *TargetDTO) (*domain.Target, error) {
	if err := validateTargetName(dto.Name); err != nil {
		return nil, err
	}
	kind, ok := domain.ParseTargetKind(dto.Kind)
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrUnknownTargetKind, "parse target"), "kind", dto.Kind)
		return nil, zerr.With(err, "target", dto.Name)
	}

	srcDir := filepath.ToSlash(f.dir)
	target := &domain.Target{
		Name:           domain.NewInternedString(dto.Name),
		Kind:           kind,
		LinkLanguage:   dto.LinkLanguage,
		Names:          outputNames(dto.Name, kind, dto.Version, dto.SOVersion),
		OutputDir:      buildPath(buildSub, dto.OutputDir),
		Depends:        domain.NewInternedStrings(dto.Depends),
		Defines:        dto.Defines,
		CompileFlags:   dto.CompileFlags,
		LinkFlags:      dto.LinkFlags,
		ExcludeFromAll: dto.ExcludeFromAll,
		Echo:           dto.Echo,
		ListFile:       filepath.ToSlash(f.path),
	}

	for _, src := range dto.Sources {
		if src == nil {
			continue
		}
		files, err := b.sources(f, srcDir, buildSub, src)
		if err != nil {
			return nil, zerr.With(err, "target", dto.Name)
		}
		target.Sources = append(target.Sources, files...)
	}

	for _, c := range dto.CustomCommands {
		cmd := b.command(srcDir, buildSub, c)
		for _, out := range cmd.Outputs {
			src := &domain.SourceFile{Path: out, Generated: true, Command: cmd}
			b.classify(src, "")
			target.Sources = append(target.Sources, src)
		}
	}

	for _, phase := range []struct {
		name string
		dtos []*CommandDTO
		dst  *[]*domain.CustomCommand
	}{
		{"pre_build", dto.PreBuild, &target.PreBuild},
		{"pre_link", dto.PreLink, &target.PreLink},
		{"post_build", dto.PostBuild, &target.PostBuild},
	} {
		cmds, err := b.commands(srcDir, buildSub, phase.name, phase.dtos)
		if err != nil {
			return nil, zerr.With(err, "target", dto.Name)
		}
		*phase.dst = cmds
	}

	if kind.IsLinkable() && len(target.Sources) == 0 {
		b.loader.Logger.Warn("target " + dto.Name + " has no sources")
	}
	return target, nil
}

// sources expands one source entry. Generated sources live in the build
// directory and are never globbed.
func (b *targetBuilder) sources(f descriptionFile, srcDir, buildSub string, dto *SourceDTO) ([]*domain.SourceFile, error) {
	var paths []string
	if dto.Generated {
		paths = []string{buildPath(buildSub, dto.Path)}
	} else {
		matches, err := b.loader.Resolver.ResolveInputs([]string{dto.Path}, f.dir)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			paths = append(paths, sourcePath(srcDir, m))
		}
	}

	files := make([]*domain.SourceFile, 0, len(paths))
	for _, p := range paths {
		src := &domain.SourceFile{
			Path:          p,
			Generated:     dto.Generated,
			ObjectDepends: slices.Clone(dto.ObjectDepends),
		}
		b.classify(src, dto.Language)
		b.resolveLater(&src.ObjectDepends, srcDir, buildSub)
		files = append(files, src)
	}
	return files, nil
}

func (b *targetBuilder) classify(src *domain.SourceFile, language string) {
	if language != "" {
		src.Language = language
		return
	}
	ext := strings.TrimPrefix(path.Ext(src.Path), ".")
	switch {
	case headerExtensions[ext]:
		src.HeaderOnly = true
	case objectExtensions[ext]:
		src.ExternalObject = true
	default:
		src.Language = b.extensions[ext]
	}
}

// commands converts the commands attached to a target phase. They run inside
// the link or stamp edge, which cannot declare their outputs.
func (b *targetBuilder) commands(srcDir, buildSub, phase string, dtos []*CommandDTO) ([]*domain.CustomCommand, error) {
	cmds := make([]*domain.CustomCommand, 0, len(dtos))
	for _, dto := range dtos {
		if dto == nil {
			continue
		}
		if len(dto.Outputs) > 0 {
			err := zerr.With(zerr.Wrap(domain.ErrInvalidProject, "target commands cannot declare outputs"), "phase", phase)
			return nil, zerr.With(err, "output", dto.Outputs[0])
		}
		cmds = append(cmds, b.command(srcDir, buildSub, dto))
	}
	return cmds, nil
}

// command converts a command definition. Outputs are build-relative, the
// working directory defaults to the build directory.
func (b *targetBuilder) command(srcDir, buildSub string, dto *CommandDTO) *domain.CustomCommand {
	cmd := &domain.CustomCommand{
		Depends:      slices.Clone(dto.Depends),
		CommandLines: dto.Command,
		Comment:      dto.Comment,
	}
	for _, out := range dto.Outputs {
		p := buildPath(buildSub, out)
		cmd.Outputs = append(cmd.Outputs, p)
		b.outputs[p] = true
	}
	if dto.WorkingDir != "" {
		cmd.WorkingDir = sourcePath(srcDir, dto.WorkingDir)
	}
	b.resolveLater(&cmd.Depends, srcDir, buildSub)
	return cmd
}

func (b *targetBuilder) resolveLater(deps *[]string, srcDir, buildSub string) {
	if len(*deps) > 0 {
		b.pending = append(b.pending, pendingDepends{deps: deps, srcDir: srcDir, buildSub: buildSub})
	}
}

// finish resolves dependencies that need the whole project, validates the
// graph and computes link closures.
func (b *targetBuilder) finish() error {
	for _, p := range b.pending {
		for i, dep := range *p.deps {
			(*p.deps)[i] = b.resolveDepend(dep, p.srcDir, p.buildSub)
		}
	}

	// Linked targets are prerequisites, so validation covers link cycles.
	for name, req := range b.links {
		target, _ := b.project.Graph.Target(name)
		for _, entry := range req.entries {
			dep := domain.NewInternedString(entry)
			if _, ok := b.project.Graph.Target(dep); ok && !slices.Contains(target.Depends, dep) {
				target.Depends = append(target.Depends, dep)
			}
		}
	}

	if err := b.project.Graph.Validate(); err != nil {
		return err
	}

	for target := range b.project.Graph.Declared() {
		if !target.Kind.IsLinkable() {
			continue
		}
		c, err := b.closureOf(target)
		if err != nil {
			return err
		}
		target.LinkItems = c.items
		target.ExternalLibraries = c.externals
	}
	return nil
}

// resolveDepend maps a declared dependency to the path the build graph uses:
// a custom command output, the primary output of a target, or a source file.
func (b *targetBuilder) resolveDepend(dep, srcDir, buildSub string) string {
	if path.IsAbs(filepath.ToSlash(dep)) {
		return filepath.ToSlash(dep)
	}
	if out := buildPath(buildSub, dep); b.outputs[out] {
		return out
	}
	if target, ok := b.project.Graph.Target(domain.NewInternedString(dep)); ok {
		return target.PrimaryOutput()
	}
	return sourcePath(srcDir, dep)
}

// closureOf returns the link items of target: linked static libraries
// contribute their archive followed by their own items, shared libraries
// their link name. External entries follow in order.
func (b *targetBuilder) closureOf(target *domain.Target) (*linkClosure, error) {
	if c, ok := b.closure[target.Name]; ok {
		return c, nil
	}

	c := &linkClosure{}
	req := b.links[target.Name]
	for _, entry := range req.entries {
		dep, ok := b.project.Graph.Target(domain.NewInternedString(entry))
		if !ok {
			if !isExternalLibrary(entry) {
				err := zerr.With(zerr.Wrap(domain.ErrMissingDependency, "resolve link"), "dependency", entry)
				return nil, zerr.With(zerr.With(err, "target", target.Name.String()), "path", req.file)
			}
			c.externals = append(c.externals, entry)
			continue
		}

		switch dep.Kind {
		case domain.KindStaticLibrary:
			nested, err := b.closureOf(dep)
			if err != nil {
				return nil, err
			}
			c.items = append(c.items, dep.RealOutputPath())
			c.items = append(c.items, nested.items...)
			c.externals = append(c.externals, nested.externals...)
		case domain.KindSharedLibrary:
			c.items = append(c.items, dep.OutputPath())
		default:
			err := zerr.With(zerr.Wrap(domain.ErrInvalidProject, "only libraries can be linked"), "dependency", entry)
			return nil, zerr.With(zerr.With(err, "target", target.Name.String()), "path", req.file)
		}
	}

	c.items = uniqueStrings(c.items)
	c.externals = uniqueStrings(c.externals)
	b.closure[target.Name] = c
	return c, nil
}

// isExternalLibrary reports whether a link entry names something outside the
// project: a linker flag or a library file.
func isExternalLibrary(entry string) bool {
	return strings.HasPrefix(entry, "-") || strings.ContainsAny(entry, "/.")
}

// outputNames follows the usual Unix naming conventions.
func outputNames(name string, kind domain.TargetKind, version, soversion string) domain.OutputNames {
	switch kind {
	case domain.KindExecutable:
		names := domain.OutputNames{Out: name}
		if version != "" {
			names.Real = name + "-" + version
		}
		return names
	case domain.KindStaticLibrary:
		return domain.OutputNames{Out: "lib" + name + ".a"}
	case domain.KindSharedLibrary:
		out := "lib" + name + ".so"
		names := domain.OutputNames{Out: out, SOName: out}
		if version != "" {
			names.Real = out + "." + version
		}
		if soversion == "" {
			soversion = version
		}
		if soversion != "" {
			names.SOName = out + "." + soversion
		}
		return names
	default:
		return domain.OutputNames{}
	}
}

func validateTargetName(name string) error {
	if name == "" {
		return zerr.Wrap(domain.ErrInvalidProject, "target without a name")
	}
	if name == "all" {
		return zerr.With(zerr.Wrap(domain.ErrReservedTargetName, "validate target"), "target", name)
	}
	if i := strings.IndexAny(name, " :$/\t\n"); i >= 0 {
		err := zerr.With(zerr.Wrap(domain.ErrInvalidProject, "invalid target name"), "invalid_character", name[i:i+1])
		return zerr.With(err, "target", name)
	}
	return nil
}

// buildPath places p in the build directory mirror of the declaring file.
func buildPath(buildSub, p string) string {
	p = filepath.ToSlash(p)
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	joined := path.Join(buildSub, p)
	if joined == "." {
		return ""
	}
	return joined
}

// sourcePath returns the absolute path of p relative to the declaring file.
func sourcePath(srcDir, p string) string {
	p = filepath.ToSlash(p)
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(srcDir, p)
}

func uniqueStrings(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

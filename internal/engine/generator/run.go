package generator

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/core/ports"
	"go.trai.ch/ngen/internal/engine/ninja"
	"go.trai.ch/zerr"
)

// runState is the context of one generation run. It owns both output
// streams and every ledger that grows while targets are lowered.
type runState struct {
	project   *domain.Project
	toolchain ports.Toolchain
	logger    ports.Logger
	opts      Options

	rules    *ninja.Writer
	build    *ninja.Writer
	registry *RuleRegistry

	// customOutputs holds every output of a lowered custom command.
	customOutputs map[string]bool
	// loweredCommands holds the keys of lowered custom commands.
	loweredCommands map[string]bool

	assumed      []assumedDependency
	assumedIndex map[string]int

	allDeps   []string
	listFiles map[string]bool
}

type assumedDependency struct {
	path      string
	orderOnly []string
}

func newRunState(
	project *domain.Project,
	toolchain ports.Toolchain,
	rules, build io.Writer,
	logger ports.Logger,
	opts Options,
) *runState {
	if opts.RuleConflicts == "" {
		opts.RuleConflicts = ConflictWarn
	}
	rulesWriter := ninja.NewWriter(rules, logger)

	s := &runState{
		project:         project,
		toolchain:       toolchain,
		logger:          logger,
		opts:            opts,
		rules:           rulesWriter,
		build:           ninja.NewWriter(build, logger),
		registry:        NewRuleRegistry(rulesWriter, logger, opts.RuleConflicts),
		customOutputs:   make(map[string]bool),
		loweredCommands: make(map[string]bool),
		assumedIndex:    make(map[string]int),
		listFiles:       make(map[string]bool),
	}
	for _, f := range project.ListFiles {
		s.trackListFile(f)
	}
	return s
}

func (s *runState) writeHeaders() error {
	if err := s.rules.Banner(toolName, s.opts.Version,
		"This file contains all the rules used to get the outputs files\nbuilt from the input files.\nIt is included in the main '"+BuildFile+"'."); err != nil {
		return err
	}
	title := "This file contains all the build statements describing the\ncompilation DAG.\nProject: " + s.project.Name
	if s.opts.StateFingerprint != "" {
		title += "\nState: " + s.opts.StateFingerprint
	}
	if err := s.build.Banner(toolName, s.opts.Version, title); err != nil {
		return err
	}
	if err := s.build.Variable("ninja_required_version", requiredNinjaVersion,
		"Minimal version of Ninja required by this file", 0); err != nil {
		return err
	}
	if err := s.build.BlankLine(); err != nil {
		return err
	}
	return s.build.Include(RulesFile, "Include auxiliary files.")
}

// lowerer writes the rules and build statements of one target.
type lowerer interface {
	lower(target *domain.Target) error
}

func (s *runState) lowererFor(kind domain.TargetKind) (lowerer, error) {
	switch kind {
	case domain.KindExecutable, domain.KindSharedLibrary, domain.KindStaticLibrary:
		return normalLowerer{state: s}, nil
	case domain.KindUtility, domain.KindGlobal:
		return utilityLowerer{state: s}, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownTargetKind, "select lowering"), "kind", kind.String())
	}
}

// dependencyOutputs returns the primary outputs of the target-level prerequisites.
func (s *runState) dependencyOutputs(target *domain.Target) []string {
	outs := make([]string, 0, len(target.Depends))
	for _, name := range target.Depends {
		dep, ok := s.project.Graph.Target(name)
		if !ok {
			continue
		}
		outs = append(outs, dep.PrimaryOutput())
	}
	return unique(outs)
}

// objectPath returns the object file built from src. Sources sharing a base
// name in different directories map to different objects.
func (s *runState) objectPath(target *domain.Target, src *domain.SourceFile) string {
	dir := target.ObjectDir
	if dir == "" {
		dir = path.Join(objectRoot, target.Name.String()+".dir")
	}
	return path.Join(filepath.ToSlash(dir), s.objectName(src.Path)) + ".o"
}

// objectName maps file to a path below the object directory. Build-tree
// files live under buildTreeDir so they never meet a source-tree file of the
// same relative name; anything outside both trees is keyed by its directory hash.
func (s *runState) objectName(file string) string {
	if rel, ok := relativeTo(s.project.BinaryDir, file); ok {
		return path.Join(buildTreeDir, rel)
	}
	if rel, ok := relativeTo(s.project.SourceDir, file); ok {
		return rel
	}
	clean := path.Clean(filepath.ToSlash(file))
	if !path.IsAbs(clean) && !strings.HasPrefix(clean, "../") && clean != ".." {
		return path.Join(buildTreeDir, clean)
	}
	dir := path.Dir(clean)
	return fmt.Sprintf("%016x/%s", xxhash.Sum64String(dir), path.Base(clean))
}

func relativeTo(root, file string) (string, bool) {
	if root == "" || !filepath.IsAbs(root) || !filepath.IsAbs(file) {
		return "", false
	}
	rel, err := filepath.Rel(root, file)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// assume records a generated source that has no known producer yet.
func (s *runState) assume(file string, orderOnly []string) {
	if i, ok := s.assumedIndex[file]; ok {
		s.assumed[i].orderOnly = unique(append(s.assumed[i].orderOnly, orderOnly...))
		return
	}
	s.logger.Debug(fmt.Sprintf("no producer known for generated source %s, assuming one", file))
	s.assumedIndex[file] = len(s.assumed)
	s.assumed = append(s.assumed, assumedDependency{path: file, orderOnly: slices.Clone(orderOnly)})
}

func (s *runState) trackListFile(file string) {
	if file != "" {
		s.listFiles[file] = true
	}
}

func (s *runState) toolCommand() string {
	if s.project.ToolCommand != "" {
		return s.project.ToolCommand
	}
	return toolName
}

// unique removes duplicates and empty entries, keeping the first occurrence.
func unique(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

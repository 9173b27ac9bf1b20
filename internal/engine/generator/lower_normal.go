package generator

import (
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/engine/ninja"
	"go.trai.ch/zerr"
)

const (
	symlinkExecutableRuleName = "NGEN_SYMLINK_EXECUTABLE"
	symlinkLibraryRuleName    = "NGEN_SYMLINK_LIBRARY"
)

// normalLowerer lowers executables, shared libraries and static libraries.
type normalLowerer struct {
	state *runState
}

// linkPlan holds the command templates a target needs, resolved before
// anything is written so a missing template leaves no partial output.
type linkPlan struct {
	language string
	compile  map[string]ninja.Rule
	link     ninja.Rule
}

func (l normalLowerer) lower(target *domain.Target) error {
	s := l.state
	plan, err := l.resolve(target)
	if err != nil {
		return err
	}

	s.registry.BeginSection(fmt.Sprintf("Rules for %s target %s", target.Kind, target.Name))
	if err := s.build.Section(fmt.Sprintf("Object build statements for %s target %s", target.Kind, target.Name)); err != nil {
		return err
	}

	deps := s.dependencyOutputs(target)
	if err := s.lowerSourceCommands(target, deps); err != nil {
		return err
	}

	objects, err := l.writeObjectEdges(target, plan, deps)
	if err != nil {
		return err
	}

	if err := s.build.Section(fmt.Sprintf("Link build statements for %s target %s", target.Kind, target.Name)); err != nil {
		return err
	}
	if err := l.writeLinkEdge(target, plan, objects, deps); err != nil {
		return err
	}
	if err := l.writeSymlinkEdge(target); err != nil {
		return err
	}
	return l.writeShortcut(target)
}

func (l normalLowerer) resolve(target *domain.Target) (linkPlan, error) {
	tc := l.state.toolchain
	plan := linkPlan{compile: make(map[string]ninja.Rule)}

	for _, lang := range target.Languages() {
		cmd, err := tc.RequiredTemplate(lang, domain.OpCompileObject)
		if err != nil {
			return linkPlan{}, err
		}
		plan.compile[lang] = compileRule(lang, cmd)
	}

	plan.language = target.LinkLanguage
	if plan.language == "" {
		if langs := target.Languages(); len(langs) > 0 {
			plan.language = langs[0]
		}
	}
	if plan.language == "" {
		return linkPlan{}, zerr.With(zerr.Wrap(domain.ErrMissingDefinition, "determine link language"), "kind", target.Kind.String())
	}

	cmd, err := l.linkCommand(target.Kind, plan.language)
	if err != nil {
		return linkPlan{}, err
	}
	plan.link = linkRule(plan.language, target.Kind, cmd)
	return plan, nil
}

// linkCommand returns the link or archive command of kind for lang.
// Multi-step archives are joined into one command.
func (l normalLowerer) linkCommand(kind domain.TargetKind, lang string) (string, error) {
	tc := l.state.toolchain
	switch kind {
	case domain.KindExecutable:
		return tc.RequiredTemplate(lang, domain.OpLinkExecutable)
	case domain.KindSharedLibrary:
		return tc.RequiredTemplate(lang, domain.OpCreateSharedLibrary)
	default:
		if cmd, ok := tc.Template(lang, domain.OpCreateStaticLibrary); ok {
			return cmd, nil
		}
		create, err := tc.RequiredTemplate(lang, domain.OpArchiveCreate)
		if err != nil {
			return "", err
		}
		steps := []string{create}
		if finish, ok := tc.Template(lang, domain.OpArchiveFinish); ok {
			steps = append(steps, finish)
		}
		return strings.Join(steps, " && "), nil
	}
}

func compileRule(lang, command string) ninja.Rule {
	rule := ninja.Rule{
		Name:        lang + "_COMPILER",
		Command:     command,
		Comment:     fmt.Sprintf("Rule for compiling %s files.", lang),
		Description: fmt.Sprintf("Building %s object $out", lang),
	}
	if strings.Contains(command, "$DEP_FILE") {
		rule.DepFile = "$DEP_FILE"
		rule.Vars = map[string]string{"deps": "gcc"}
	}
	return rule
}

func linkRule(lang string, kind domain.TargetKind, command string) ninja.Rule {
	return ninja.Rule{
		Name:        fmt.Sprintf("%s_%s_LINKER", lang, kind),
		Command:     "$PRE_LINK" + command + "$POST_BUILD",
		Comment:     fmt.Sprintf("Rule for linking %s %s.", lang, kind.VisibleName()),
		Description: fmt.Sprintf("Linking %s %s $out", lang, kind.VisibleName()),
	}
}

// writeObjectEdges writes one compile statement per compiled source, in
// source order, and returns the objects feeding the link step.
func (l normalLowerer) writeObjectEdges(target *domain.Target, plan linkPlan, deps []string) ([]string, error) {
	s := l.state
	base := slices.Concat(deps, headerCommandOutputs(target))

	var objects []string
	for _, src := range target.Sources {
		switch {
		case src.ExternalObject:
			objects = append(objects, src.Path)
			continue
		case src.HeaderOnly, src.Language == "":
			continue
		}

		rule := plan.compile[src.Language]
		if err := s.registry.AddRule(rule); err != nil {
			return nil, err
		}

		if src.Generated && src.Command == nil && !s.customOutputs[src.Path] {
			s.assume(src.Path, deps)
		}

		obj := s.objectPath(target, src)
		vars := map[string]string{
			"FLAGS":   s.toolchain.CompileFlags(target, src, src.Language),
			"DEFINES": s.toolchain.Defines(target, src.Language),
		}
		if rule.DepFile != "" {
			vars["DEP_FILE"] = obj + ".d"
		}

		err := s.build.Build(ninja.Build{
			Rule:      rule.Name,
			Outputs:   []string{obj},
			Explicit:  []string{src.Path},
			OrderOnly: unique(slices.Concat(base, src.ObjectDepends)),
			Vars:      vars,
		})
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func (l normalLowerer) writeLinkEdge(target *domain.Target, plan linkPlan, objects, deps []string) error {
	s := l.state
	if err := s.registry.AddRule(plan.link); err != nil {
		return err
	}

	var implicit []string
	if target.Kind != domain.KindStaticLibrary {
		implicit = slices.Clone(target.LinkItems)
	}
	implicit = unique(append(implicit, commandDepends(target.PreBuild, target.PreLink, target.PostBuild)...))

	vars := map[string]string{
		"FLAGS":      s.toolchain.CompileFlags(target, nil, plan.language),
		"LINK_FLAGS": s.toolchain.LinkFlags(target, plan.language),
	}
	if target.Kind != domain.KindStaticLibrary {
		vars["LINK_LIBRARIES"] = s.toolchain.LinkLibraries(target)
	}
	if target.Kind == domain.KindSharedLibrary && target.Names.SOName != "" {
		vars["SONAME"] = target.Names.SOName
	}
	if pre := commandChain(target.PreBuild, target.PreLink); pre != "" {
		vars["PRE_LINK"] = pre + " && "
	}
	if post := commandChain(target.PostBuild); post != "" {
		vars["POST_BUILD"] = " && " + post
	}

	return s.build.Build(ninja.Build{
		Comment:   fmt.Sprintf("Link the %s %s", target.Kind.VisibleName(), target.RealOutputPath()),
		Rule:      plan.link.Name,
		Outputs:   []string{target.RealOutputPath()},
		Explicit:  objects,
		Implicit:  implicit,
		OrderOnly: deps,
		Vars:      vars,
	})
}

// writeSymlinkEdge links the logical output to the real one when they differ.
func (l normalLowerer) writeSymlinkEdge(target *domain.Target) error {
	s := l.state
	if target.Names.Real == "" || target.Names.Real == target.Names.Out {
		return nil
	}

	realPath := target.RealOutputPath()
	out := target.OutputPath()
	stmt := ninja.Build{
		Comment:  fmt.Sprintf("Create the symlinks for %s %s", target.Kind.VisibleName(), target.Name),
		Outputs:  []string{out},
		Explicit: []string{realPath},
	}

	var rule ninja.Rule
	switch target.Kind {
	case domain.KindExecutable:
		rule = ninja.Rule{
			Name:        symlinkExecutableRuleName,
			Command:     s.toolCommand() + " tool symlink-executable $in $out",
			Comment:     "Rule for creating executable symlink.",
			Description: "Creating executable symlink $out",
		}
	case domain.KindSharedLibrary:
		rule = ninja.Rule{
			Name:        symlinkLibraryRuleName,
			Command:     s.toolCommand() + " tool symlink-library $in $SONAME $LINK_NAME",
			Comment:     "Rule for creating library symlink.",
			Description: "Creating library symlink $LINK_NAME",
		}
		soname := target.SONamePath()
		if soname == "" {
			soname = realPath
		}
		if soname != realPath && soname != out {
			stmt.Outputs = append(stmt.Outputs, soname)
		}
		stmt.Vars = map[string]string{
			"SONAME":    ninja.EscapeCommand(soname),
			"LINK_NAME": ninja.EscapeCommand(out),
		}
	default:
		return nil
	}

	if err := s.registry.AddRule(rule); err != nil {
		return err
	}
	stmt.Rule = rule.Name
	return s.build.Build(stmt)
}

// writeShortcut makes the bare target name an alias of its logical output.
func (l normalLowerer) writeShortcut(target *domain.Target) error {
	name, out := target.Name.String(), target.OutputPath()
	if name == out {
		return nil
	}
	return l.state.build.Phony(ninja.Build{
		Comment:  "Use the target name as an alias for the target output.",
		Outputs:  []string{name},
		Explicit: []string{out},
	})
}

// headerCommandOutputs returns the outputs of commands attached to header-only sources.
func headerCommandOutputs(target *domain.Target) []string {
	var outs []string
	for _, src := range target.Sources {
		if src.HeaderOnly && src.Command != nil {
			outs = append(outs, src.Command.Outputs...)
		}
	}
	return outs
}

// Package generator lowers a project model into a Ninja build graph.
package generator

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// BuildFile is the name of the generated build statements file.
	BuildFile = "build.ninja"
	// RulesFile is the name of the generated rules file included by BuildFile.
	RulesFile = "rules.ninja"
	// AllTarget is the name of the default aggregate target.
	AllTarget = "all"

	toolName             = "ngen"
	objectRoot           = "ngen_files"
	buildTreeDir         = "__build"
	requiredNinjaVersion = "1.5"
)

// ConflictPolicy selects what happens when a rule name is registered twice
// with different bodies. The first registration always wins.
type ConflictPolicy string

const (
	// ConflictIgnore keeps the first body silently.
	ConflictIgnore ConflictPolicy = "ignore"
	// ConflictWarn keeps the first body and logs a warning.
	ConflictWarn ConflictPolicy = "warn"
	// ConflictError fails the target that registered the divergent body.
	ConflictError ConflictPolicy = "error"
)

// ParseConflictPolicy converts a flag value into a ConflictPolicy.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(strings.ToLower(s)); p {
	case ConflictIgnore, ConflictWarn, ConflictError:
		return p, nil
	case "":
		return ConflictWarn, nil
	default:
		return "", zerr.With(zerr.New("unknown rule conflict policy"), "policy", s)
	}
}

// Options tune a generation run.
type Options struct {
	// RuleConflicts is the divergence policy of the rule registry. Empty means warn.
	RuleConflicts ConflictPolicy

	// UtilitiesInAll adds utility targets to the "all" aggregate.
	UtilitiesInAll bool

	// Version is written into the generated-file banners.
	Version string

	// StateFingerprint identifies the persisted generator state. It is written
	// into the build file so that a changed state always rewrites the manifest.
	StateFingerprint string
}

// Result summarizes a generation run.
type Result struct {
	// Targets is the number of targets lowered successfully.
	Targets int
	// Rules is the number of distinct rules registered.
	Rules int
	// Builds is the number of build statements written.
	Builds int
	// Failed lists the targets whose lowering failed.
	Failed []string
	// Inputs are the project description files the graph depends on.
	Inputs []string
}

// Generator lowers projects into Ninja files.
type Generator struct {
	logger ports.Logger
	tracer ports.Tracer
}

// New creates a new Generator.
func New(logger ports.Logger, tracer ports.Tracer) *Generator {
	return &Generator{
		logger: logger,
		tracer: tracer,
	}
}

// Generate runs one generation pass over the whole project, writing the rules
// and build statements to the given streams. Targets are lowered in declaration
// order. A target whose command templates are missing is skipped and reported;
// the remaining targets and the aggregate statements are still written.
func (g *Generator) Generate(
	ctx context.Context,
	project *domain.Project,
	toolchain ports.Toolchain,
	rules, build io.Writer,
	opts Options,
) (Result, error) {
	ctx, span := g.tracer.Start(ctx, "generate", ports.WithAttribute("project", project.Name))
	defer span.End()

	state := newRunState(project, toolchain, rules, build, g.logger, opts)
	if err := state.writeHeaders(); err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	var names []string
	for target := range project.Graph.Declared() {
		names = append(names, target.Name.String())
	}
	g.tracer.EmitPlan(ctx, names)

	var (
		result Result
		errs   error
	)
	for target := range project.Graph.Declared() {
		err := g.lowerTarget(ctx, state, target)
		if err == nil {
			result.Targets++
			continue
		}
		if !isTargetError(err) {
			span.RecordError(err)
			return Result{}, err
		}
		g.logger.Error(err)
		result.Failed = append(result.Failed, target.Name.String())
		errs = errors.Join(errs, err)
	}

	if err := state.writeAggregate(); err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	result.Rules = state.registry.Len()
	result.Builds = state.build.Stats().Builds
	result.Inputs = state.regenerationInputs()
	span.SetAttribute("targets", result.Targets)
	span.SetAttribute("rules", result.Rules)
	span.SetAttribute("edges", result.Builds)

	if errs != nil {
		err := zerr.With(zerr.Wrap(domain.ErrGenerationFailed, "lower targets"), "targets", strings.Join(result.Failed, ", "))
		span.RecordError(err)
		return result, errors.Join(err, errs)
	}
	return result, nil
}

func (g *Generator) lowerTarget(ctx context.Context, state *runState, target *domain.Target) error {
	name := target.Name.String()
	_, span := g.tracer.Start(ctx, "lower "+name, ports.WithAttribute("target.kind", target.Kind.String()))
	defer span.End()

	state.trackListFile(target.ListFile)
	edges, rules := state.build.Stats().Builds, state.registry.Len()

	l, err := state.lowererFor(target.Kind)
	if err == nil {
		err = l.lower(target)
	}

	span.SetAttribute("edges", state.build.Stats().Builds-edges)
	span.SetAttribute("rules", state.registry.Len()-rules)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, "lower target"), "target", name)
		span.RecordError(err)
		return err
	}

	state.registerAsAllDependency(target)
	return nil
}

// isTargetError reports whether err only invalidates the target being lowered.
func isTargetError(err error) bool {
	return errors.Is(err, domain.ErrMissingDefinition) ||
		errors.Is(err, domain.ErrUnknownTargetKind) ||
		errors.Is(err, domain.ErrRuleConflict)
}

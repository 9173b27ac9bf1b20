package generator

import (
	"maps"
	"slices"

	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/engine/ninja"
)

const regenerateRuleName = "RERUN_NGEN"

// registerAsAllDependency adds the primary output of target to the "all" aggregate.
func (s *runState) registerAsAllDependency(target *domain.Target) {
	if target.ExcludeFromAll {
		return
	}
	switch target.Kind {
	case domain.KindGlobal:
		return
	case domain.KindUtility:
		if !s.opts.UtilitiesInAll {
			return
		}
	}
	s.allDeps = append(s.allDeps, target.PrimaryOutput())
}

// writeAggregate writes the statements depending on every lowered target.
func (s *runState) writeAggregate() error {
	if err := s.writeAllTarget(); err != nil {
		return err
	}
	if err := s.writeRegeneration(); err != nil {
		return err
	}
	return s.writeAssumedDependencies()
}

func (s *runState) writeAllTarget() error {
	if err := s.build.Section("Top-level targets of project " + s.project.Name); err != nil {
		return err
	}
	err := s.build.Phony(ninja.Build{
		Comment:  "The main all target.",
		Outputs:  []string{AllTarget},
		Explicit: s.allDeps,
	})
	if err != nil {
		return err
	}
	return s.build.Default(AllTarget)
}

// regenerationInputs returns the sorted project description files read for this run.
func (s *runState) regenerationInputs() []string {
	return slices.Sorted(maps.Keys(s.listFiles))
}

func (s *runState) regenerateCommand() string {
	if s.project.RegenerateCommand != "" {
		return s.project.RegenerateCommand
	}
	return s.toolCommand() + " generate --regenerate --build-dir ."
}

// writeRegeneration makes the build file depend on every project description
// file so that editing one regenerates the graph before anything else builds.
func (s *runState) writeRegeneration() error {
	s.registry.BeginSection("Rules for re-running " + toolName)
	err := s.registry.AddRule(ninja.Rule{
		Name:        regenerateRuleName,
		Command:     s.regenerateCommand(),
		Comment:     "Rule for re-running " + toolName + ".",
		Description: "Re-running " + toolName + "...",
		Generator:   true,
	})
	if err != nil {
		return err
	}

	inputs := s.regenerationInputs()
	if s.project.StateFile != "" && !s.listFiles[s.project.StateFile] {
		inputs = append(inputs, s.project.StateFile)
	}

	if err := s.build.Section("Re-run " + toolName + " if any of its inputs changed."); err != nil {
		return err
	}
	err = s.build.Build(ninja.Build{
		Rule:     regenerateRuleName,
		Outputs:  []string{BuildFile},
		Implicit: inputs,
	})
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return nil
	}
	return s.build.Phony(ninja.Build{
		Comment: "A missing project description file triggers regeneration instead of failing the build.",
		Outputs: inputs,
	})
}

// writeAssumedDependencies gives every generated source without a producer a
// phony statement ordered after the prerequisites of its target.
func (s *runState) writeAssumedDependencies() error {
	var pending []assumedDependency
	for _, dep := range s.assumed {
		if !s.customOutputs[dep.path] {
			pending = append(pending, dep)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	if err := s.build.Section("Assume dependencies for generated source files."); err != nil {
		return err
	}
	for _, dep := range pending {
		err := s.build.Phony(ninja.Build{
			Outputs:   []string{dep.path},
			OrderOnly: dep.orderOnly,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

package generator

import (
	"fmt"
	"path"

	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/engine/ninja"
)

// utilityLowerer lowers utility and global targets: command-only targets
// aliased by their name.
type utilityLowerer struct {
	state *runState
}

func (l utilityLowerer) lower(target *domain.Target) error {
	s := l.state
	name := target.Name.String()

	s.registry.BeginSection(fmt.Sprintf("Rules for %s target %s", target.Kind, name))
	if err := s.build.Section(fmt.Sprintf("Utility command for %s", name)); err != nil {
		return err
	}

	deps := s.dependencyOutputs(target)
	if err := s.lowerSourceCommands(target, deps); err != nil {
		return err
	}

	inputs := commandDepends(target.PreBuild, target.PreLink, target.PostBuild)
	for _, src := range target.Sources {
		if src.Command != nil {
			inputs = append(inputs, src.Command.Outputs...)
		}
	}
	inputs = unique(append(inputs, deps...))

	command := commandChain(target.PreBuild, target.PreLink, target.PostBuild)
	if command == "" {
		return s.build.Phony(ninja.Build{
			Comment:  fmt.Sprintf("Utility command for %s", name),
			Outputs:  []string{name},
			Explicit: inputs,
		})
	}

	if err := s.registry.AddRule(customCommandRule()); err != nil {
		return err
	}

	stamp := path.Join(objectRoot, name+".util")
	description := oneLine(target.Echo)
	if description == "" {
		description = fmt.Sprintf("Running utility command for %s", name)
	}
	err := s.build.Build(ninja.Build{
		Comment:  fmt.Sprintf("Utility command for %s", name),
		Rule:     customCommandRuleName,
		Outputs:  []string{stamp},
		Explicit: inputs,
		Vars: map[string]string{
			"COMMAND": command,
			"DESC":    ninja.EscapeCommand(description),
		},
	})
	if err != nil {
		return err
	}

	return s.build.Phony(ninja.Build{
		Outputs:  []string{name},
		Explicit: []string{stamp},
	})
}

package generator

import (
	"fmt"
	"strings"

	"go.trai.ch/ngen/internal/core/domain"
	"go.trai.ch/ngen/internal/engine/ninja"
)

const customCommandRuleName = "CUSTOM_COMMAND"

// customCommandRule runs arbitrary commands bound through edge variables.
func customCommandRule() ninja.Rule {
	return ninja.Rule{
		Name:        customCommandRuleName,
		Command:     "$COMMAND",
		Comment:     "Rule for running custom commands.",
		Description: "$DESC",
	}
}

// lowerCustomCommand writes the build statement of cmd. A command whose output
// set was already lowered in this run is skipped.
func (s *runState) lowerCustomCommand(cmd *domain.CustomCommand, orderOnly []string) error {
	if len(cmd.Outputs) > 0 {
		key := cmd.Key()
		if s.loweredCommands[key] {
			s.logger.Debug(fmt.Sprintf("custom command for %s already lowered", strings.Join(cmd.Outputs, ", ")))
			return nil
		}
		s.loweredCommands[key] = true
		for _, out := range cmd.Outputs {
			s.customOutputs[out] = true
		}
	}

	if !cmd.HasCommands() {
		return s.build.Phony(ninja.Build{
			Comment:  cmd.Comment,
			Outputs:  cmd.Outputs,
			Explicit: unique(cmd.Depends),
		})
	}

	if err := s.registry.AddRule(customCommandRule()); err != nil {
		return err
	}
	return s.build.Build(ninja.Build{
		Comment:   "Custom command for " + strings.Join(cmd.Outputs, " "),
		Rule:      customCommandRuleName,
		Outputs:   cmd.Outputs,
		Explicit:  unique(cmd.Depends),
		OrderOnly: orderOnly,
		Vars: map[string]string{
			"COMMAND": commandLine(cmd),
			"DESC":    ninja.EscapeCommand(commandDescription(cmd)),
		},
	})
}

// lowerSourceCommands lowers the commands attached to the sources of target.
func (s *runState) lowerSourceCommands(target *domain.Target, orderOnly []string) error {
	for _, src := range target.Sources {
		if src.Command == nil {
			continue
		}
		if err := s.lowerCustomCommand(src.Command, orderOnly); err != nil {
			return err
		}
	}
	return nil
}

// commandLine joins the lines of cmd into one shell command.
func commandLine(cmd *domain.CustomCommand) string {
	lines := make([]string, 0, len(cmd.CommandLines))
	for _, line := range cmd.CommandLines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, ninja.EscapeCommand(line))
	}
	if len(lines) == 0 {
		return ""
	}
	joined := strings.Join(lines, " && ")
	if cmd.WorkingDir != "" {
		joined = "cd " + ninja.EscapeCommand(cmd.WorkingDir) + " && " + joined
	}
	return joined
}

// commandChain joins several commands into one shell command.
func commandChain(cmds ...[]*domain.CustomCommand) string {
	var parts []string
	for _, group := range cmds {
		for _, cmd := range group {
			if line := commandLine(cmd); line != "" {
				parts = append(parts, line)
			}
		}
	}
	return strings.Join(parts, " && ")
}

// commandDepends returns the declared dependencies of several commands.
func commandDepends(cmds ...[]*domain.CustomCommand) []string {
	var deps []string
	for _, group := range cmds {
		for _, cmd := range group {
			deps = append(deps, cmd.Depends...)
		}
	}
	return unique(deps)
}

func commandDescription(cmd *domain.CustomCommand) string {
	if cmd.Comment != "" {
		return oneLine(cmd.Comment)
	}
	return "Generating " + strings.Join(cmd.Outputs, ", ")
}

// oneLine folds multi-line descriptions; the manifest cannot carry line breaks.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

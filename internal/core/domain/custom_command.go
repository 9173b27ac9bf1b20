package domain

import (
	"slices"
	"strings"
)

// CustomCommand is an arbitrary command attached to a source file or a target.
type CustomCommand struct {
	// Outputs are the files the command declares it produces.
	Outputs []string

	// Depends are the declared input dependencies.
	Depends []string

	// CommandLines are run in order; an empty list marks a dependency-only command.
	CommandLines []string

	// WorkingDir is the directory the command lines run in.
	WorkingDir string

	// Comment is the human readable description of the command.
	Comment string
}

// Key returns the identity of the command: its sorted output set.
// Two attachments of the same command share one key.
func (c *CustomCommand) Key() string {
	outs := slices.Clone(c.Outputs)
	slices.Sort(outs)
	outs = slices.Compact(outs)
	return strings.Join(outs, "\x00")
}

// HasCommands reports whether the command runs anything.
func (c *CustomCommand) HasCommands() bool {
	for _, line := range c.CommandLines {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}

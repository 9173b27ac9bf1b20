package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/ngen/internal/adapters/fs" //nolint:depguard // Helpers invoked by generated build statements
)

// newToolCmd groups the helpers that generated build statements call back into.
func (c *CLI) newToolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "tool",
		Short:  "Helpers invoked by generated build files",
		Hidden: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "symlink-executable <real> <link>",
		Short: "Point an executable name at its versioned file",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return fs.SymlinkExecutable(args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "symlink-library <real> <soname> <link>",
		Short: "Create the soname and link name chain of a shared library",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			return fs.SymlinkLibrary(args[0], args[1], args[2])
		},
	})

	return cmd
}

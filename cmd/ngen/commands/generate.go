package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.trai.ch/ngen/internal/app"
	"go.trai.ch/ngen/internal/engine/generator"
)

func (c *CLI) newGenerateCmd() *cobra.Command {
	var (
		opts          app.GenerateOptions
		ruleConflicts string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write build.ninja and rules.ninja for a project",
		Long: `Loads the project description, lowers every target into Ninja rules and
build statements, and writes build.ninja and rules.ninja into the build directory.
The previous files are left untouched when generation fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy, err := generator.ParseConflictPolicy(ruleConflicts)
			if err != nil {
				return err
			}
			opts.RuleConflicts = policy

			result, err := c.app.Generate(cmd.Context(), opts)
			printSummary(cmd.OutOrStdout(), result, err)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.ProjectFile, "file", "f", "",
		"Project description file or directory (default \"ngen.yaml\")")
	cmd.Flags().StringVarP(&opts.BuildDir, "build-dir", "B", "",
		"Directory the build files are written to (default \"<source>/build\")")
	cmd.Flags().StringVar(&ruleConflicts, "rule-conflicts", string(generator.ConflictWarn),
		"Policy for rules registered twice with different bodies: ignore, warn or error")
	cmd.Flags().BoolVar(&opts.UtilitiesInAll, "utilities-in-all", false,
		"Build utility targets as part of \"all\"")
	cmd.Flags().BoolVar(&opts.Regenerate, "regenerate", false,
		"Regenerate from the state stored in the build directory")

	return cmd
}

func printSummary(w io.Writer, result generator.Result, err error) {
	if len(result.Failed) > 0 {
		_, _ = color.New(color.FgRed, color.Bold).Fprint(w, "✗ ")
		_, _ = fmt.Fprintf(w, "%d target(s) failed: %s\n", len(result.Failed), strings.Join(result.Failed, ", "))
	}
	if err != nil {
		return
	}
	_, _ = color.New(color.FgGreen, color.Bold).Fprint(w, "✓ ")
	_, _ = fmt.Fprintf(w, "%d targets, %d rules, %d build statements\n",
		result.Targets, result.Rules, result.Builds)
}

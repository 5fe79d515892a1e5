package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"shireesh.com/starter/internal/answers"
	"shireesh.com/starter/internal/cleanup"
)

func newHookCmd(a *app) *cobra.Command {
	hookCmd := &cobra.Command{
		Use:   "hook",
		Short: "Run generation hooks against an already rendered project",
	}

	var (
		root, pkg            string
		example, exampleData string
		dryRun               bool
	)
	postGen := &cobra.Command{
		Use:   "post-gen",
		Short: "Remove the example files declined at generation time",
		Long: `Remove the example pipeline and its parameters when --include-example is
not affirmative, and the raw iris dataset when neither --include-example nor
--include-example-data is. Only "yes" and "True" are affirmative.

Missing targets are an error; the hook is meant to run once per project.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			choices := cleanup.Choices{
				IncludeExample:     answers.IsAffirmative(example),
				IncludeExampleData: answers.IsAffirmative(exampleData),
			}
			targets := cleanup.Targets(pkg, choices)
			if dryRun {
				for _, t := range targets {
					fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(root, t))
				}
				return nil
			}
			if err := cleanup.Run(root, pkg, choices); err != nil {
				return err
			}
			for _, t := range targets {
				a.log.WithField("path", filepath.ToSlash(t)).Info("removed example")
			}
			return nil
		},
	}
	f := postGen.Flags()
	f.StringVar(&root, "root", ".", "generated project root")
	f.StringVar(&pkg, "package", "", "python package name of the project")
	f.StringVar(&example, "include-example", "", `"yes"/"True" to keep the example pipeline`)
	f.StringVar(&exampleData, "include-example-data", "", `"yes"/"True" to keep the example dataset`)
	f.BoolVar(&dryRun, "dry-run", false, "print the paths that would be removed")
	_ = postGen.MarkFlagRequired("package")

	hookCmd.AddCommand(postGen)
	return hookCmd
}

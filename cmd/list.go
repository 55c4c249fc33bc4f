package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/testforge/internal/domain"
)

const listLongDescription = `List the C# source units found under the given paths together with
the features extracted from them: type name, public methods and
constructor dependencies. Files without a type or public methods are
not listed since no test would be generated for them.`

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List source units and their extracted features",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := currentWorkflow(cmd.Context(), false)
			if err != nil {
				return err
			}

			return wf.List(domain.ListArgs{
				Paths:   parsePaths(args),
				Exclude: cfg.Exclude,
			})
		},
	}
	cmd.Flags().StringArrayVarP(&excludeFlags, "exclude", "x", nil, "exclude files matching regex (can be repeated)")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}

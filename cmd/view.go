package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/testforge/internal/domain"
	m "github.com/mouse-blink/testforge/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View stored session reports",
		Long:  "View the session reports written by previous runs, with the last diagnostics of every failed unit.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			wf, err := currentWorkflow(cmd.Context(), false)
			if err != nil {
				return err
			}

			return wf.View(domain.ViewArgs{Reports: m.Path(cfg.Reports)})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

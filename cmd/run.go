package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/testforge/internal/config"
	"github.com/mouse-blink/testforge/internal/domain"
	m "github.com/mouse-blink/testforge/internal/model"
)

var parallelFlag int
var maxAttemptsFlag int
var providerFlag string
var modelFlag string
var policyFlag string
var excludeFlags []string
var forceFlag bool

const runLongDescription = `Generate a test file for every C# source unit under the given paths.

For each unit the nearest .sln is located, a <Solution>.Tests project is
created and registered when missing, and the generate/build/test cycle
runs until the tests pass or the attempt budget is spent. Units whose last
report is a success for the same source hash are skipped unless --force
is given.`

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Generate and repair tests for source units",
		Long:  runLongDescription,
		RunE:  runGeneration,
	}
	addRunFlags(cmd)

	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&parallelFlag, "parallel", "p", config.DefaultParallel, "number of units processed concurrently")
	cmd.Flags().IntVarP(&maxAttemptsFlag, "max-attempts", "n", config.DefaultMaxAttempts, "generation attempts per unit")
	cmd.Flags().StringVar(&providerFlag, "provider", config.DefaultProvider, "oracle backend: openai, gemini or anthropic")
	cmd.Flags().StringVarP(&modelFlag, "model", "m", "", "model name (provider default when empty)")
	cmd.Flags().StringVar(&policyFlag, "descriptor-policy", config.DefaultPolicy, "how to pick among several .sln files: first or interactive")
	cmd.Flags().StringArrayVarP(&excludeFlags, "exclude", "x", nil, "exclude files matching regex (can be repeated)")
	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "regenerate units with an unchanged successful report")
}

// interruptible is implemented by UIs that let the user stop a run.
type interruptible interface {
	OnInterrupt(fn func())
}

func runGeneration(cmd *cobra.Command, args []string) error {
	wf, err := currentWorkflow(cmd.Context(), true)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if i, ok := ui.(interruptible); ok {
		i.OnInterrupt(cancel)
	}

	return wf.Run(ctx, domain.RunArgs{
		ListArgs: domain.ListArgs{
			Paths:   parsePaths(args),
			Exclude: cfg.Exclude,
		},
		Reports:  m.Path(cfg.Reports),
		Parallel: cfg.Parallel,
		Force:    forceFlag,
	})
}

func init() {
	rootCmd.AddCommand(runCmd)
}

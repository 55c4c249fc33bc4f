// Package cmd provides the root command and CLI setup for testforge.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/testforge/internal/adapter"
	"github.com/mouse-blink/testforge/internal/config"
	"github.com/mouse-blink/testforge/internal/controller"
	"github.com/mouse-blink/testforge/internal/domain"
	m "github.com/mouse-blink/testforge/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var workflow domain.Workflow
var ui controller.UI
var cfg config.Config
var logger = slog.Default()

func init() {
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
}

var configFlag string
var verboseFlag bool
var reportsOutputDirFlag string

const rootLongDescription = `testforge generates xUnit test files for C# sources with a language model
and repairs them until they compile and pass.

Each source unit gets a bounded number of attempts: generate, build the
solution, run the tests, and on failure feed the diagnostics back to the
model. Results are stored as YAML reports.

Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./src/...      recursively scan src directory
  - ./src ./lib    scan multiple directories`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "testforge [paths...]",
		Short:             "LLM-driven unit test generation for C# projects",
		Long:              rootLongDescription,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runGeneration,
	}
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", config.FileName, "path to the config file")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVarP(&reportsOutputDirFlag, "reports", "r", config.DefaultReports, "directory for session reports")
	addRunFlags(cmd)

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if verboseFlag {
		level = slog.LevelDebug
	}

	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	loaded, err := config.Load(configFlag)
	if err != nil {
		return err
	}

	applyFlags(cmd, &loaded)

	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded

	return nil
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("reports") {
		c.Reports = reportsOutputDirFlag
	}

	if flags.Changed("parallel") {
		c.Parallel = parallelFlag
	}

	if flags.Changed("max-attempts") {
		c.MaxAttempts = maxAttemptsFlag
	}

	if flags.Changed("provider") {
		c.Provider = strings.ToLower(providerFlag)
	}

	if flags.Changed("model") {
		c.Model = modelFlag
	}

	if flags.Changed("descriptor-policy") {
		c.DescriptorPolicy = strings.ToLower(policyFlag)
	}

	if flags.Changed("exclude") {
		c.Exclude = append(c.Exclude, excludeFlags...)
	}
}

// currentWorkflow returns the injected workflow or builds one from cfg. The
// oracle is only needed, and its credentials only checked, for generation.
func currentWorkflow(ctx context.Context, withOracle bool) (domain.Workflow, error) {
	if workflow != nil {
		return workflow, nil
	}

	choose, err := adapter.ChooserFor(cfg.DescriptorPolicy)
	if err != nil {
		return nil, err
	}

	descriptors := adapter.NewDescriptorLocator(fsAdapter, choose)
	projects := adapter.NewFileLocator(fsAdapter, adapter.ProjectPattern, adapter.FirstMatch)
	preparer := domain.NewScaffolder(fsAdapter, projects, domain.NewProjectGraph(fsAdapter), domain.ScaffoldOptions{
		TargetFramework: cfg.TargetFramework,
	})

	var orchestrator domain.Orchestrator

	if withOracle {
		oracle, err := adapter.NewOracle(ctx, adapter.OracleConfig{
			Provider:          cfg.Provider,
			Model:             cfg.Model,
			BaseURL:           cfg.BaseURL,
			System:            domain.SystemInstructions,
			RequestsPerSecond: cfg.RequestsPerSecond,
			MaxTokens:         cfg.MaxTokens,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("oracle: %w", err)
		}

		orchestrator = domain.NewOrchestrator(
			fsAdapter,
			adapter.NewLocalBuildTestRunner(cfg.BuildCommand, cfg.TestCommand),
			domain.NewSynthesizer(oracle, domain.SynthesisOptions{MinLength: cfg.MinLength}),
			domain.OrchestratorOptions{
				MaxAttempts: cfg.MaxAttempts,
				Timeouts: domain.Timeouts{
					Generate: cfg.Timeouts.Generate,
					Build:    cfg.Timeouts.Build,
					Test:     cfg.Timeouts.Test,
				},
			},
			logger,
		)
	}

	return domain.NewWorkflow(fsAdapter, reportStore, ui, orchestrator, descriptors, preparer, logger), nil
}

func parsePaths(args []string) []m.Path {
	if len(args) == 0 {
		return []m.Path{"./..."}
	}

	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

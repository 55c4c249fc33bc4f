package controller

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/testforge/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
	out sync.Mutex

	mu      sync.Mutex
	mode    StartMode
	results []m.SessionResult
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(options ...StartOption) error {
	cfg := newStartConfig(options)

	s.mu.Lock()
	s.mode = cfg.mode
	s.results = nil
	s.mu.Unlock()

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {
}

// Wait prints the run summary once all sessions are done.
func (s *SimpleUI) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeRun {
		return
	}

	s.printSummary(s.results)
}

// DisplayUnits prints one row per discovered source unit.
func (s *SimpleUI) DisplayUnits(units []m.SourceUnit) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Type", "Methods", "Dependencies"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	methods := 0

	for _, unit := range units {
		table.Append([]string{
			string(unit.Path),
			unit.Features.TypeName,
			fmt.Sprintf("%d", len(unit.Features.Methods)),
			strings.Join(unit.Features.DependencyTypes, ", "),
		})

		methods += len(unit.Features.Methods)
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(units)), "", fmt.Sprintf("%d", methods), ""})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplayPlan shows how many units will run and on how many workers.
func (s *SimpleUI) DisplayPlan(total int, parallel int) {
	s.printf("Running %d unit(s) with %d worker(s)\n", total, parallel)
}

// DisplaySessionStarted shows that a worker picked up a unit.
func (s *SimpleUI) DisplaySessionStarted(unit m.Path, worker int) {
	s.printf("[%d] %s: started\n", worker, unit)
}

// DisplayStateChanged shows a state transition of a session.
func (s *SimpleUI) DisplayStateChanged(unit m.Path, attempt int, state m.SessionState) {
	if state.Terminal() {
		return
	}

	s.printf("    %s: attempt %d %s\n", unit, attempt, state)
}

// DisplaySessionFinished shows the outcome of a session and keeps it for the
// summary.
func (s *SimpleUI) DisplaySessionFinished(result m.SessionResult) {
	s.mu.Lock()
	s.results = append(s.results, result)
	s.mu.Unlock()

	line := fmt.Sprintf("%s: %s", result.Source, result.Status)
	if result.Reason != m.ReasonNone {
		line += fmt.Sprintf(" (%s)", result.Reason)
	}

	if result.Err != nil {
		line += fmt.Sprintf(": %v", result.Err)
	}

	s.printf("%s\n", line)
}

// DisplayReports prints stored reports with the diagnostics of failed ones.
func (s *SimpleUI) DisplayReports(reports []m.Report) error {
	results := make([]m.SessionResult, 0, len(reports))

	for _, report := range reports {
		results = append(results, reportResult(report))
	}

	s.printSummary(results)

	for _, report := range reports {
		if report.Status == m.StatusSuccess {
			continue
		}

		s.printDiagnostics(report)
	}

	return nil
}

func (s *SimpleUI) printSummary(results []m.SessionResult) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Source", "Status", "Reason", "Attempts", "Artifact"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	succeeded := 0

	for _, result := range results {
		table.Append([]string{
			string(result.Source),
			string(result.Status),
			string(result.Reason),
			fmt.Sprintf("%d", result.Attempts),
			string(result.ArtifactPath),
		})

		if result.Status == m.StatusSuccess {
			succeeded++
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(results)),
		fmt.Sprintf("Success %d", succeeded),
		"", "", "",
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())
}

func (s *SimpleUI) printDiagnostics(report m.Report) {
	if len(report.History) == 0 {
		if report.Error != "" {
			s.printf("\n%s: %s\n", report.Source, report.Error)
		}

		return
	}

	last := report.History[len(report.History)-1]
	s.printf("\n%s: attempt %d failed at %s\n", report.Source, last.Attempt, last.Stage)

	for _, line := range diagnosticLines(last.Outcome.Diagnostics) {
		s.printf("  %s\n", line)
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	s.out.Lock()
	defer s.out.Unlock()

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func reportResult(report m.Report) m.SessionResult {
	return m.SessionResult{
		Source:       report.Source,
		ArtifactPath: report.ArtifactPath,
		Status:       report.Status,
		Reason:       report.Reason,
		Attempts:     report.Attempts,
		FinalOutcome: report.Outcome,
		History:      report.History,
	}
}

// diagnosticLines renders records the way the compiler prints them.
func diagnosticLines(records []m.DiagnosticRecord) []string {
	lines := make([]string, 0, len(records))

	for _, d := range records {
		var b strings.Builder

		if d.File != "" {
			fmt.Fprintf(&b, "%s(%d,%d): ", d.File, d.Line, d.Column)
		}

		if d.Code != "" {
			fmt.Fprintf(&b, "%s %s: ", d.Severity, d.Code)
		}

		if d.Test != "" {
			fmt.Fprintf(&b, "[%s] ", d.Test)
		}

		b.WriteString(d.Message)
		lines = append(lines, b.String())
	}

	return lines
}

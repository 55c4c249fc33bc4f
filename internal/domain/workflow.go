package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/testforge/internal/adapter"
	"github.com/mouse-blink/testforge/internal/controller"
	m "github.com/mouse-blink/testforge/internal/model"
)

// ErrUnitsFailed is returned by Run when at least one unit did not succeed.
var ErrUnitsFailed = errors.New("some units did not succeed")

// ListArgs selects the source units to work on.
type ListArgs struct {
	Paths   []m.Path
	Exclude []string
}

// RunArgs configures a generation run.
type RunArgs struct {
	ListArgs
	Reports  m.Path
	Parallel int
	// Force regenerates units whose stored report is an unchanged success.
	Force bool
}

// ViewArgs locates stored reports.
type ViewArgs struct {
	Reports m.Path
}

// Workflow defines the user-facing operations.
type Workflow interface {
	List(args ListArgs) error
	Run(ctx context.Context, args RunArgs) error
	View(args ViewArgs) error
}

type workflow struct {
	fsAdapter   adapter.SourceFSAdapter
	reportStore adapter.ReportStore
	ui          controller.UI
	orch        Orchestrator
	descriptors adapter.Locator
	preparer    TestProjectPreparer
	logger      *slog.Logger
	now         func() time.Time
}

// NewWorkflow creates a new Workflow instance with the provided adapters.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	orch Orchestrator,
	descriptors adapter.Locator,
	preparer TestProjectPreparer,
	logger *slog.Logger,
) Workflow {
	if logger == nil {
		logger = slog.Default()
	}

	return &workflow{
		fsAdapter:   fsAdapter,
		reportStore: reportStore,
		ui:          ui,
		orch:        orch,
		descriptors: descriptors,
		preparer:    preparer,
		logger:      logger,
		now:         time.Now,
	}
}

// List discovers source units and shows their extracted features.
func (w *workflow) List(args ListArgs) error {
	units, err := w.getUnits(args)
	if err != nil {
		return err
	}

	if err := w.ui.Start(controller.WithListMode()); err != nil {
		return fmt.Errorf("start UI: %w", err)
	}
	defer w.ui.Close()

	if err := w.ui.DisplayUnits(units); err != nil {
		return err
	}

	w.ui.Wait()

	return nil
}

// View shows the reports stored by earlier runs.
func (w *workflow) View(args ViewArgs) error {
	reports, err := w.reportStore.LoadReports(args.Reports)
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}

	if err := w.ui.Start(controller.WithViewMode()); err != nil {
		return fmt.Errorf("start UI: %w", err)
	}
	defer w.ui.Close()

	if err := w.ui.DisplayReports(reports); err != nil {
		return err
	}

	w.ui.Wait()

	return nil
}

// Run generates, builds and repairs tests for every selected unit. A failing
// unit never stops the others.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	units, err := w.getUnits(args.ListArgs)
	if err != nil {
		return err
	}

	if !args.Force {
		pending, err := w.reportStore.CheckUpdates(args.Reports, units)
		if err != nil {
			return fmt.Errorf("check reports: %w", err)
		}

		if skipped := len(units) - len(pending); skipped > 0 {
			w.logger.Info("skipping units with an up-to-date successful report", "count", skipped)
		}

		units = pending
	}

	// Descriptor lookup may prompt, so it runs before the UI takes the terminal.
	jobs, results := w.planJobs(units)

	parallel := max(args.Parallel, 1)

	if err := w.ui.Start(controller.WithRunMode()); err != nil {
		return fmt.Errorf("start UI: %w", err)
	}
	defer w.ui.Close()

	w.ui.DisplayPlan(len(units), parallel)

	for _, result := range results {
		if result != nil {
			w.ui.DisplaySessionFinished(*result)
		}
	}

	w.runJobs(ctx, jobs, results, parallel)

	if err := w.saveReports(args.Reports, units, results); err != nil {
		return err
	}

	w.ui.Wait()

	failed := 0

	for _, result := range results {
		if result.Status != m.StatusSuccess {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrUnitsFailed, failed, len(results))
	}

	return nil
}

// getUnits discovers C# files under the selected paths and extracts their
// features. Files declaring no type or no public method are skipped.
func (w *workflow) getUnits(args ListArgs) ([]m.SourceUnit, error) {
	exclude, err := compileExcludes(args.Exclude)
	if err != nil {
		return nil, err
	}

	paths, err := w.fsAdapter.Get(args.Paths, exclude)
	if err != nil {
		return nil, fmt.Errorf("get sources: %w", err)
	}

	units := make([]m.SourceUnit, 0, len(paths))

	for _, path := range paths {
		unit, ok, err := w.loadUnit(path)
		if err != nil {
			return nil, err
		}

		if ok {
			units = append(units, unit)
		}
	}

	return units, nil
}

func (w *workflow) loadUnit(path m.Path) (m.SourceUnit, bool, error) {
	content, err := w.fsAdapter.ReadFile(path)
	if err != nil {
		return m.SourceUnit{}, false, fmt.Errorf("read %s: %w", path, err)
	}

	hash, err := w.fsAdapter.HashFile(path)
	if err != nil {
		return m.SourceUnit{}, false, fmt.Errorf("hash %s: %w", path, err)
	}

	features, keep := ApplyIgnoreDirectives(string(content), ExtractFeatures(string(content)))
	if !keep {
		w.logger.Debug("skipping ignored source", "path", path)
		return m.SourceUnit{}, false, nil
	}

	if features.TypeName == "" || len(features.Methods) == 0 {
		w.logger.Debug("skipping source without public methods", "path", path)
		return m.SourceUnit{}, false, nil
	}

	return m.SourceUnit{Path: path, Text: string(content), Hash: hash, Features: features}, true, nil
}

// planJobs locates the descriptor of every unit. Units without one get a
// finished result instead of a job.
func (w *workflow) planJobs(units []m.SourceUnit) ([]*pendingJob, []*m.SessionResult) {
	results := make([]*m.SessionResult, len(units))
	cache := make(map[string]m.Path)

	var jobs []*pendingJob

	for i := range units {
		unit := &units[i]
		dir := filepath.Dir(string(unit.Path))

		descriptor, ok := cache[dir]
		if !ok {
			var err error

			descriptor, err = w.descriptors.Locate(unit.Path)
			if err != nil {
				results[i] = abortedResult(unit, "", m.ReasonDiscovery, err)
				continue
			}

			cache[dir] = descriptor
		}

		jobs = append(jobs, &pendingJob{index: i, unit: unit, descriptor: descriptor})
	}

	return jobs, results
}

type pendingJob struct {
	index      int
	unit       *m.SourceUnit
	descriptor m.Path
}

func (w *workflow) runJobs(ctx context.Context, jobs []*pendingJob, results []*m.SessionResult, parallel int) {
	slots := make(chan int, parallel)
	for i := range parallel {
		slots <- i
	}

	var g errgroup.Group

	g.SetLimit(parallel)

	for _, job := range jobs {
		g.Go(func() error {
			worker := <-slots
			defer func() { slots <- worker }()

			w.ui.DisplaySessionStarted(job.unit.Path, worker)

			result := w.runJob(ctx, job)
			results[job.index] = &result

			w.ui.DisplaySessionFinished(result)

			return nil
		})
	}

	_ = g.Wait()
}

func (w *workflow) runJob(ctx context.Context, job *pendingJob) m.SessionResult {
	tp, err := w.preparer.Prepare(job.descriptor, job.unit.Path)
	if err != nil {
		reason := m.ReasonIO

		switch {
		case errors.Is(err, ErrProjectNotFound):
			reason = m.ReasonDiscovery
		case errors.Is(err, ErrMalformedDescriptor):
			reason = m.ReasonDescriptor
		}

		return *abortedResult(job.unit, "", reason, err)
	}

	observer := ObserverFunc(w.ui.DisplayStateChanged)

	return w.orch.Repair(ctx, RepairJob{
		Unit:         job.unit,
		ArtifactPath: ArtifactPath(job.descriptor, tp, job.unit.Path),
		Descriptor:   job.descriptor,
		TestProject:  tp.Project,
	}, observer)
}

func (w *workflow) saveReports(dir m.Path, units []m.SourceUnit, results []*m.SessionResult) error {
	finishedAt := w.now()
	reports := make([]m.Report, 0, len(results))

	for i, result := range results {
		reports = append(reports, m.NewReport(*result, units[i].Hash, finishedAt))
	}

	if err := w.reportStore.SaveReports(dir, reports); err != nil {
		return fmt.Errorf("save reports: %w", err)
	}

	if err := w.reportStore.RegenerateIndex(dir); err != nil {
		return fmt.Errorf("regenerate report index: %w", err)
	}

	return nil
}

func abortedResult(unit *m.SourceUnit, artifact m.Path, reason m.Reason, err error) *m.SessionResult {
	return &m.SessionResult{
		Source:       unit.Path,
		ArtifactPath: artifact,
		Status:       m.StatusAborted,
		Reason:       reason,
		Err:          err,
	}
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	exclude := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		exclude = append(exclude, re)
	}

	return exclude, nil
}

package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mouse-blink/testforge/internal/adapter"
	m "github.com/mouse-blink/testforge/internal/model"
)

// DefaultMaxAttempts bounds the generate/build/test cycles of one session.
const DefaultMaxAttempts = 3

// Default per-call timeouts.
const (
	DefaultGenerateTimeout = 2 * time.Minute
	DefaultBuildTimeout    = 5 * time.Minute
	DefaultTestTimeout     = 5 * time.Minute
)

var tracer = otel.Tracer("testforge.domain")

// RepairJob is everything a session needs to know about one source unit.
type RepairJob struct {
	Unit         *m.SourceUnit
	ArtifactPath m.Path
	Descriptor   m.Path
	TestProject  m.Path
}

// Timeouts bound each external call. Zero means no limit beyond ctx.
type Timeouts struct {
	Generate time.Duration
	Build    time.Duration
	Test     time.Duration
}

// OrchestratorOptions configures the repair loop.
type OrchestratorOptions struct {
	MaxAttempts int
	Timeouts    Timeouts
}

// Observer receives every state transition of a session.
type Observer interface {
	StateChanged(unit m.Path, attempt int, state m.SessionState)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(unit m.Path, attempt int, state m.SessionState)

// StateChanged calls f.
func (f ObserverFunc) StateChanged(unit m.Path, attempt int, state m.SessionState) {
	f(unit, attempt, state)
}

// Orchestrator drives one source unit through generate, build and test until
// the tests pass, the attempt budget runs out, or a fatal error occurs.
type Orchestrator interface {
	Repair(ctx context.Context, job RepairJob, observer Observer) m.SessionResult
}

type orchestrator struct {
	fsAdapter   adapter.SourceFSAdapter
	runner      adapter.BuildTestRunner
	synthesizer Synthesizer
	opts        OrchestratorOptions
	logger      *slog.Logger
	// projects serializes write, build and test per test project.
	projects    *keyedMutex
}

// NewOrchestrator constructs an Orchestrator backed by the provided
// filesystem, process runner and synthesizer.
func NewOrchestrator(
	fsAdapter adapter.SourceFSAdapter,
	runner adapter.BuildTestRunner,
	synthesizer Synthesizer,
	opts OrchestratorOptions,
	logger *slog.Logger,
) Orchestrator {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &orchestrator{
		fsAdapter:   fsAdapter,
		runner:      runner,
		synthesizer: synthesizer,
		opts:        opts,
		logger:      logger,
		projects:    newKeyedMutex(),
	}
}

// repairRun is the mutable state of one Repair call.
type repairRun struct {
	job         RepairJob
	session     *m.RepairSession
	lastOutcome m.RunOutcome
	err         error
	logger      *slog.Logger
	attemptSpan trace.Span
	// filter scopes the test run to the classes of the current artifact.
	filter      string
	unlock      func()
}

func (to *orchestrator) Repair(ctx context.Context, job RepairJob, observer Observer) m.SessionResult {
	ctx, span := tracer.Start(ctx, "testforge.session", trace.WithAttributes(
		attribute.String("unit", string(job.Unit.Path)),
		attribute.String("artifact", string(job.ArtifactPath)),
		attribute.Int("max_attempts", to.opts.MaxAttempts),
	))
	defer span.End()

	if observer == nil {
		observer = ObserverFunc(func(m.Path, int, m.SessionState) {})
	}

	run := &repairRun{
		job: job,
		session: &m.RepairSession{
			Unit:     job.Unit,
			Artifact: m.CandidateArtifact{Path: job.ArtifactPath, Unit: job.Unit},
		},
		logger: to.logger.With("unit", string(job.Unit.Path)),
	}

	state := m.StateInit
	for !state.Terminal() {
		state = to.step(ctx, run, state)

		run.logger.Debug("state changed", "attempt", run.session.Attempt, "state", state)
		observer.StateChanged(job.Unit.Path, to.reportedAttempts(run.session), state)
	}

	run.releaseProject()
	run.endAttempt(run.err)

	result := to.result(run)

	span.SetAttributes(
		attribute.String("status", string(result.Status)),
		attribute.String("reason", string(result.Reason)),
		attribute.Int("attempts", result.Attempts),
	)

	if result.Status != m.StatusSuccess {
		span.SetStatus(codes.Error, string(result.Reason))
	}

	run.logger.Info("session finished", "status", result.Status, "reason", result.Reason, "attempts", result.Attempts)

	return result
}

func (to *orchestrator) step(ctx context.Context, run *repairRun, state m.SessionState) m.SessionState {
	s := run.session

	switch state {
	case m.StateInit:
		s.Attempt = 1
		return m.StateGenerating
	case m.StateGenerating:
		return to.generate(ctx, run)
	case m.StateBuilding:
		return to.build(ctx, run)
	case m.StateTesting:
		return to.test(ctx, run)
	case m.StateBuildFailed:
		return to.retry(run, m.ReasonBuild)
	case m.StateTestFailed:
		return to.retry(run, m.ReasonTest)
	default:
		return to.abort(run, m.ReasonIO, fmt.Errorf("unexpected state %q", state))
	}
}

func (to *orchestrator) generate(ctx context.Context, run *repairRun) m.SessionState {
	s := run.session
	run.beginAttempt(ctx, s.Attempt)

	callCtx, cancel := withTimeout(ctx, to.opts.Timeouts.Generate)
	defer cancel()

	var (
		text string
		err  error
	)

	if last, ok := s.LastBatch(); ok && s.Artifact.Text != "" {
		text, err = to.synthesizer.Repair(callCtx, s.Unit, s.Artifact.Text, last)
	} else {
		text, err = to.synthesizer.Initial(callCtx, s.Unit)
	}

	if err != nil {
		if reason, fatal := contextReason(ctx, err); fatal {
			return to.abort(run, reason, err)
		}

		run.logger.Warn("synthesis rejected", "attempt", s.Attempt, "error", err)
		run.err = err

		return to.retry(run, m.ReasonSynthesis)
	}

	run.holdProject(to.projects)

	if err := to.writeArtifact(s.Artifact.Path, text); err != nil {
		return to.abort(run, m.ReasonIO, err)
	}

	s.Artifact.Text = text
	s.Artifact.Attempt = s.Attempt
	run.filter = testFilter(text, s.Unit)
	run.err = nil

	return m.StateBuilding
}

func (to *orchestrator) build(ctx context.Context, run *repairRun) m.SessionState {
	callCtx, cancel := withTimeout(ctx, to.opts.Timeouts.Build)
	defer cancel()

	res, err := to.runner.Build(callCtx, run.job.Descriptor)
	outcome := ParseBuildOutput(res.Code, res.Stdout, res.Stderr)
	run.lastOutcome = outcome

	if err != nil {
		reason, fatal := contextReason(ctx, err)
		if !fatal {
			reason = m.ReasonIO
		}

		return to.abort(run, reason, fmt.Errorf("build: %w", err))
	}

	if res.Code == 0 {
		return m.StateTesting
	}

	run.record(m.StageBuild, outcome)

	return m.StateBuildFailed
}

func (to *orchestrator) test(ctx context.Context, run *repairRun) m.SessionState {
	callCtx, cancel := withTimeout(ctx, to.opts.Timeouts.Test)
	defer cancel()

	res, err := to.runner.Test(callCtx, run.job.TestProject, run.filter)
	outcome := ParseTestOutput(res.Code, res.Stdout, res.Stderr)
	run.lastOutcome = outcome

	if err != nil {
		reason, fatal := contextReason(ctx, err)
		if !fatal {
			reason = m.ReasonIO
		}

		return to.abort(run, reason, fmt.Errorf("test: %w", err))
	}

	if res.Code != 0 || outcome.Counts.Failed > 0 {
		run.record(m.StageTest, outcome)
		return m.StateTestFailed
	}

	run.session.Status = m.StatusSuccess

	return m.StateSuccess
}

// retry consumes one attempt. Running out of attempts ends the session with
// reason.
func (to *orchestrator) retry(run *repairRun, reason m.Reason) m.SessionState {
	s := run.session
	run.releaseProject()
	run.endAttempt(errors.New(string(reason)))

	s.Attempt++
	if s.Attempt > to.opts.MaxAttempts {
		s.Status = m.StatusExhausted
		s.Reason = reason

		return m.StateExhausted
	}

	return m.StateGenerating
}

func (to *orchestrator) abort(run *repairRun, reason m.Reason, err error) m.SessionState {
	run.releaseProject()
	run.session.Status = m.StatusAborted
	run.session.Reason = reason
	run.err = err

	run.logger.Error("session aborted", "attempt", run.session.Attempt, "reason", reason, "error", err)

	return m.StateAborted
}

func (to *orchestrator) writeArtifact(path m.Path, text string) error {
	if err := to.fsAdapter.MkdirAll(m.Path(filepath.Dir(string(path)))); err != nil {
		return fmt.Errorf("failed to create artifact dir: %w", err)
	}

	if err := to.fsAdapter.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	return nil
}

func (to *orchestrator) reportedAttempts(s *m.RepairSession) int {
	return min(s.Attempt, to.opts.MaxAttempts)
}

func (to *orchestrator) result(run *repairRun) m.SessionResult {
	s := run.session
	result := m.SessionResult{
		Source:       s.Unit.Path,
		ArtifactPath: s.Artifact.Path,
		Status:       s.Status,
		Reason:       s.Reason,
		Attempts:     to.reportedAttempts(s),
		FinalOutcome: run.lastOutcome,
		History:      s.History,
		Err:          run.err,
	}

	if last, ok := s.LastBatch(); ok {
		result.FinalDiagnostics = last.Outcome.Diagnostics
	}

	return result
}

func (run *repairRun) record(stage m.Stage, outcome m.RunOutcome) {
	run.session.History = append(run.session.History, m.DiagnosticBatch{
		Attempt: run.session.Attempt,
		Stage:   stage,
		Outcome: outcome,
	})
}

// holdProject locks the test project until the attempt leaves the
// write/build/test stretch. Sessions sharing a project take turns there.
func (run *repairRun) holdProject(projects *keyedMutex) {
	if run.unlock == nil {
		run.unlock = projects.Lock(string(run.job.TestProject))
	}
}

func (run *repairRun) releaseProject() {
	if run.unlock != nil {
		run.unlock()
		run.unlock = nil
	}
}

func (run *repairRun) beginAttempt(ctx context.Context, attempt int) {
	if run.attemptSpan != nil {
		return
	}

	_, run.attemptSpan = tracer.Start(ctx, "testforge.attempt", trace.WithAttributes(
		attribute.Int("attempt", attempt),
	))
}

func (run *repairRun) endAttempt(err error) {
	if run.attemptSpan == nil {
		return
	}

	if err != nil {
		run.attemptSpan.SetStatus(codes.Error, err.Error())
	}

	run.attemptSpan.End()
	run.attemptSpan = nil
}

// contextReason maps a deadline or cancellation to the abort reason. A
// per-call deadline counts as a timeout even when ctx itself is still live.
func contextReason(ctx context.Context, err error) (m.Reason, bool) {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return m.ReasonCanceled, true
	case errors.Is(err, context.DeadlineExceeded):
		return m.ReasonTimeout, true
	default:
		return m.ReasonNone, false
	}
}

// testFilter names the test class declared by an artifact, with a trailing
// dot so that only its own methods match a FullyQualifiedName~ filter.
func testFilter(text string, unit *m.SourceUnit) string {
	features := ExtractFeatures(text)

	name := features.TypeName
	if name == "" {
		name = TestClassName(unit)
	}

	if features.Namespace == "" {
		return name + "."
	}

	return features.Namespace + "." + name + "."
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, d)
}

package domain_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/testforge/internal/adapter"
	adaptermocks "github.com/mouse-blink/testforge/internal/adapter/mocks"
	"github.com/mouse-blink/testforge/internal/domain"
	domainmocks "github.com/mouse-blink/testforge/internal/domain/mocks"
	m "github.com/mouse-blink/testforge/internal/model"
)

const (
	failingTestOutput  = "  Failed Shop.Tests.OrderServiceTests.Total_Works [3 ms]\n  Error Message:\n   boom\n"
	failingBuildOutput = "/repo/Shop.Tests/OrderServiceTests.cs(12,5): error CS0103: The name 'sut' does not exist [/repo/Shop.Tests/Shop.Tests.csproj]\n"
)

type orchestratorFixture struct {
	fs     *adaptermocks.MockSourceFSAdapter
	runner *adaptermocks.MockBuildTestRunner
	synth  *domainmocks.MockSynthesizer
	job    domain.RepairJob

	mu     sync.Mutex
	states []m.SessionState
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()

	return &orchestratorFixture{
		fs:     adaptermocks.NewMockSourceFSAdapter(t),
		runner: adaptermocks.NewMockBuildTestRunner(t),
		synth:  domainmocks.NewMockSynthesizer(t),
		job: domain.RepairJob{
			Unit:         &m.SourceUnit{Path: "/repo/src/OrderService.cs", Text: "public class OrderService {}"},
			ArtifactPath: "/repo/Shop.Tests/src/OrderServiceTests.cs",
			Descriptor:   "/repo/Shop.sln",
			TestProject:  "/repo/Shop.Tests/Shop.Tests.csproj",
		},
	}
}

func (f *orchestratorFixture) orchestrator(opts domain.OrchestratorOptions) domain.Orchestrator {
	return domain.NewOrchestrator(f.fs, f.runner, f.synth, opts, nil)
}

func (f *orchestratorFixture) observer() domain.Observer {
	return domain.ObserverFunc(func(_ m.Path, _ int, state m.SessionState) {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.states = append(f.states, state)
	})
}

func (f *orchestratorFixture) expectWrites(times int) {
	f.fs.EXPECT().MkdirAll(m.Path("/repo/Shop.Tests/src")).Return(nil).Times(times)
	f.fs.EXPECT().WriteFile(f.job.ArtifactPath, mock.Anything, os.FileMode(0o644)).Return(nil).Times(times)
}

func TestRepair_SuccessOnFirstAttempt(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.synth.EXPECT().Initial(mock.Anything, f.job.Unit).Return("// generated v1", nil).Once()
	f.fs.EXPECT().MkdirAll(m.Path("/repo/Shop.Tests/src")).Return(nil).Once()
	f.fs.EXPECT().WriteFile(f.job.ArtifactPath, []byte("// generated v1\n"), os.FileMode(0o644)).Return(nil).Once()
	f.runner.EXPECT().Build(mock.Anything, f.job.Descriptor).Return(adapter.ProcessResult{Code: 0}, nil).Once()
	f.runner.EXPECT().Test(mock.Anything, f.job.TestProject, "OrderServiceTests.").
		Return(adapter.ProcessResult{Code: 0, Stdout: "Passed!\nPassed!\n"}, nil).Once()

	result := f.orchestrator(domain.OrchestratorOptions{MaxAttempts: 3}).Repair(context.Background(), f.job, f.observer())

	assert.Equal(t, m.StatusSuccess, result.Status)
	assert.Equal(t, m.ReasonNone, result.Reason)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, f.job.ArtifactPath, result.ArtifactPath)
	assert.Equal(t, m.TestCounts{Passed: 2}, result.FinalOutcome.Counts)
	assert.Empty(t, result.History)
	assert.NoError(t, result.Err)
	assert.Equal(t, []m.SessionState{m.StateGenerating, m.StateBuilding, m.StateTesting, m.StateSuccess}, f.states)
}

func TestRepair_BuildFailureFeedsRepair(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectWrites(2)
	f.synth.EXPECT().Initial(mock.Anything, f.job.Unit).Return("v1", nil).Once()
	f.synth.EXPECT().
		Repair(mock.Anything, f.job.Unit, "v1", mock.MatchedBy(func(last m.DiagnosticBatch) bool {
			return last.Attempt == 1 && last.Stage == m.StageBuild &&
				len(last.Outcome.Diagnostics) == 1 && last.Outcome.Diagnostics[0].Code == "CS0103"
		})).
		Return("v2", nil).Once()
	f.runner.EXPECT().Build(mock.Anything, f.job.Descriptor).
		Return(adapter.ProcessResult{Code: 1, Stdout: failingBuildOutput}, nil).Once()
	f.runner.EXPECT().Build(mock.Anything, f.job.Descriptor).Return(adapter.ProcessResult{Code: 0}, nil).Once()
	f.runner.EXPECT().Test(mock.Anything, f.job.TestProject, mock.Anything).Return(adapter.ProcessResult{Code: 0}, nil).Once()

	result := f.orchestrator(domain.OrchestratorOptions{MaxAttempts: 3}).Repair(context.Background(), f.job, f.observer())

	assert.Equal(t, m.StatusSuccess, result.Status)
	assert.Equal(t, 2, result.Attempts)
	require.Len(t, result.History, 1)
	assert.Equal(t, m.StageBuild, result.History[0].Stage)
	assert.Equal(t, []m.SessionState{
		m.StateGenerating, m.StateBuilding, m.StateBuildFailed,
		m.StateGenerating, m.StateBuilding, m.StateTesting, m.StateSuccess,
	}, f.states)
}

func TestRepair_ExhaustsOnRepeatedTestFailures(t *testing.T) {
	const maxAttempts = 3

	f := newOrchestratorFixture(t)
	f.expectWrites(maxAttempts)
	f.synth.EXPECT().Initial(mock.Anything, f.job.Unit).Return("v1", nil).Once()

	for attempt := 1; attempt < maxAttempts; attempt++ {
		current := fmt.Sprintf("v%d", attempt)
		f.synth.EXPECT().
			Repair(mock.Anything, f.job.Unit, current, mock.MatchedBy(func(last m.DiagnosticBatch) bool {
				return last.Attempt == attempt && last.Stage == m.StageTest
			})).
			Return(fmt.Sprintf("v%d", attempt+1), nil).Once()
	}

	f.runner.EXPECT().Build(mock.Anything, f.job.Descriptor).Return(adapter.ProcessResult{Code: 0}, nil).Times(maxAttempts)
	f.runner.EXPECT().Test(mock.Anything, f.job.TestProject, mock.Anything).
		Return(adapter.ProcessResult{Code: 1, Stdout: failingTestOutput}, nil).Times(maxAttempts)

	result := f.orchestrator(domain.OrchestratorOptions{MaxAttempts: maxAttempts}).Repair(context.Background(), f.job, nil)

	assert.Equal(t, m.StatusExhausted, result.Status)
	assert.Equal(t, m.ReasonTest, result.Reason)
	assert.Equal(t, maxAttempts, result.Attempts)
	require.Len(t, result.History, maxAttempts)

	for i, batch := range result.History {
		assert.Equal(t, i+1, batch.Attempt)
		assert.Equal(t, m.StageTest, batch.Stage)
	}

	assert.Equal(t, []m.DiagnosticRecord{{
		Test:     "Shop.Tests.OrderServiceTests.Total_Works",
		Message:  "boom",
		Severity: m.SeverityError,
	}}, result.FinalDiagnostics)
	assert.Equal(t, m.TestCounts{Failed: 1}, result.FinalOutcome.Counts)
}

func TestRepair_FailedCountWithZeroExitCode(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectWrites(1)
	f.synth.EXPECT().Initial(mock.Anything, f.job.Unit).Return("v1", nil).Once()
	f.runner.EXPECT().Build(mock.Anything, f.job.Descriptor).Return(adapter.ProcessResult{}, nil).Once()
	f.runner.EXPECT().Test(mock.Anything, f.job.TestProject, mock.Anything).
		Return(adapter.ProcessResult{Code: 0, Stdout: failingTestOutput}, nil).Once()

	result := f.orchestrator(domain.OrchestratorOptions{MaxAttempts: 1}).Repair(context.Background(), f.job, nil)

	assert.Equal(t, m.StatusExhausted, result.Status)
	assert.Equal(t, m.ReasonTest, result.Reason)
	assert.Equal(t, 1, result.Attempts)
}

func TestRepair_SynthesisFailureSkipsBuild(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectWrites(1)
	f.synth.EXPECT().Initial(mock.Anything, f.job.Unit).
		Return("", fmt.Errorf("%w: %w", domain.ErrSynthesis, domain.ErrEmptyOutput)).Once()
	f.synth.EXPECT().Initial(mock.Anything, f.job.Unit).Return("v2", nil).Once()
	f.runner.EXPECT().Build(mock.Anything, f.job.Descriptor).Return(adapter.ProcessResult{}, nil).Once()
	f.runner.EXPECT().Test(mock.Anything, f.job.TestProject, mock.Anything).Return(adapter.ProcessResult{}, nil).Once()

	result := f.orchestrator(domain.OrchestratorOptions{MaxAttempts: 2}).Repair(context.Background(), f.job, f.observer())

	assert.Equal(t, m.StatusSuccess, result.Status)
	assert.Equal(t, 2, result.Attempts)
	assert.Empty(t, result.History)
	assert.NoError(t, result.Err)
	assert.Equal(t, []m.SessionState{
		m.StateGenerating, m.StateGenerating, m.StateBuilding, m.StateTesting, m.StateSuccess,
	}, f.states)
}

func TestRepair_ExhaustsOnSynthesisFailures(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.synth.EXPECT().Initial(mock.Anything, f.job.Unit).
		Return("", fmt.Errorf("%w: %w", domain.ErrSynthesis, domain.ErrOutputTooShort)).Times(2)

	result := f.orchestrator(domain.OrchestratorOptions{MaxAttempts: 2}).Repair(context.Background(), f.job, nil)

	assert.Equal(t, m.StatusExhausted, result.Status)
	assert.Equal(t, m.ReasonSynthesis, result.Reason)
	assert.Equal(t, 2, result.Attempts)
	assert.ErrorIs(t, result.Err, domain.ErrOutputTooShort)
}

func TestRepair_Aborts(t *testing.T) {
	t.Run("write failure", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		f.synth.EXPECT().Initial(mock.Anything, f.job.Unit).Return("v1", nil).Once()
		f.fs.EXPECT().MkdirAll(mock.Anything).Return(nil).Once()
		f.fs.EXPECT().WriteFile(mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

		result := f.orchestrator(domain.OrchestratorOptions{}).Repair(context.Background(), f.job, nil)

		assert.Equal(t, m.StatusAborted, result.Status)
		assert.Equal(t, m.ReasonIO, result.Reason)
		assert.ErrorContains(t, result.Err, "disk full")
	})

	t.Run("build command cannot start", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		f.expectWrites(1)
		f.synth.EXPECT().Initial(mock.Anything, f.job.Unit).Return("v1", nil).Once()
		f.runner.EXPECT().Build(mock.Anything, f.job.Descriptor).
			Return(adapter.ProcessResult{Code: -1}, errors.New(`exec: "dotnet": executable file not found`)).Once()

		result := f.orchestrator(domain.OrchestratorOptions{}).Repair(context.Background(), f.job, nil)

		assert.Equal(t, m.StatusAborted, result.Status)
		assert.Equal(t, m.ReasonIO, result.Reason)
		assert.Equal(t, 1, result.Attempts)
	})

	t.Run("test timeout", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		f.expectWrites(1)
		f.synth.EXPECT().Initial(mock.Anything, f.job.Unit).Return("v1", nil).Once()
		f.runner.EXPECT().Build(mock.Anything, f.job.Descriptor).Return(adapter.ProcessResult{}, nil).Once()
		f.runner.EXPECT().Test(mock.Anything, f.job.TestProject, mock.Anything).
			RunAndReturn(func(ctx context.Context, _ m.Path, _ string) (adapter.ProcessResult, error) {
				<-ctx.Done()
				return adapter.ProcessResult{Code: -1}, ctx.Err()
			}).Once()

		opts := domain.OrchestratorOptions{Timeouts: domain.Timeouts{Test: 20 * time.Millisecond}}
		result := f.orchestrator(opts).Repair(context.Background(), f.job, f.observer())

		assert.Equal(t, m.StatusAborted, result.Status)
		assert.Equal(t, m.ReasonTimeout, result.Reason)
		assert.ErrorIs(t, result.Err, context.DeadlineExceeded)
		assert.Equal(t, m.StateAborted, f.states[len(f.states)-1])
	})

	t.Run("generation timeout", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		f.synth.EXPECT().Initial(mock.Anything, f.job.Unit).
			RunAndReturn(func(ctx context.Context, _ *m.SourceUnit) (string, error) {
				<-ctx.Done()
				return "", fmt.Errorf("oracle: %w", ctx.Err())
			}).Once()

		opts := domain.OrchestratorOptions{Timeouts: domain.Timeouts{Generate: 20 * time.Millisecond}}
		result := f.orchestrator(opts).Repair(context.Background(), f.job, nil)

		assert.Equal(t, m.StatusAborted, result.Status)
		assert.Equal(t, m.ReasonTimeout, result.Reason)
	})

	t.Run("canceled", func(t *testing.T) {
		f := newOrchestratorFixture(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f.synth.EXPECT().Initial(mock.Anything, f.job.Unit).
			RunAndReturn(func(ctx context.Context, _ *m.SourceUnit) (string, error) {
				return "", ctx.Err()
			}).Once()

		result := f.orchestrator(domain.OrchestratorOptions{}).Repair(ctx, f.job, nil)

		assert.Equal(t, m.StatusAborted, result.Status)
		assert.Equal(t, m.ReasonCanceled, result.Reason)
		assert.Equal(t, 1, result.Attempts)
	})
}

// projectRunner stands in for `dotnet test <csproj>`: it runs every test
// class under the project directory that the filter admits. A class fails
// when its source calls Assert.Fail.
type projectRunner struct {
	mu         sync.Mutex
	active     int
	overlapped bool
	filters    []string
}

func (r *projectRunner) enter() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active++
	if r.active > 1 {
		r.overlapped = true
	}
}

func (r *projectRunner) leave() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active--
}

func (r *projectRunner) Build(context.Context, m.Path) (adapter.ProcessResult, error) {
	r.enter()
	defer r.leave()

	time.Sleep(2 * time.Millisecond)

	return adapter.ProcessResult{}, nil
}

func (r *projectRunner) Test(_ context.Context, project m.Path, filter string) (adapter.ProcessResult, error) {
	r.enter()
	defer r.leave()

	r.mu.Lock()
	r.filters = append(r.filters, filter)
	r.mu.Unlock()

	time.Sleep(2 * time.Millisecond)

	var (
		out            strings.Builder
		passed, failed int
	)

	err := filepath.WalkDir(filepath.Dir(string(project)), func(path string, _ os.DirEntry, err error) error {
		if err != nil || !strings.HasSuffix(path, "Tests.cs") {
			return err
		}

		text, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		features := domain.ExtractFeatures(string(text))
		name := features.Namespace + "." + features.TypeName + ".Works"

		if !strings.Contains(name, filter) {
			return nil
		}

		if strings.Contains(string(text), "Assert.Fail") {
			failed++
			fmt.Fprintf(&out, "  Failed %s [1 ms]\n  Error Message:\n   boom\n", name)
		} else {
			passed++
			fmt.Fprintf(&out, "  Passed %s [1 ms]\n", name)
		}

		return nil
	})
	if err != nil {
		return adapter.ProcessResult{Code: -1}, err
	}

	code, status := 0, "Passed!"
	if failed > 0 {
		code, status = 1, "Failed!"
	}

	fmt.Fprintf(&out, "\n%s  - Failed: %d, Passed: %d, Skipped: 0, Total: %d\n", status, failed, passed, failed+passed)

	return adapter.ProcessResult{Code: code, Stdout: out.String()}, nil
}

func testClassSource(class string, fails bool) string {
	body := "Assert.Equal(1, 1);"
	if fails {
		body = `Assert.Fail("boom");`
	}

	return "namespace Shop.Tests;\n\npublic class " + class + "\n{\n    [Fact]\n    public void Works()\n    {\n        " +
		body + "\n    }\n}"
}

type sharedProjectFixture struct {
	runner *projectRunner
	orch   domain.Orchestrator
	order  domain.RepairJob
	price  domain.RepairJob
}

// newSharedProjectFixture puts two units under one test project. The
// synthesizer always writes failing tests for OrderService and passing tests
// for PriceCalculator.
func newSharedProjectFixture(t *testing.T) *sharedProjectFixture {
	t.Helper()

	dir := t.TempDir()
	testDir := filepath.Join(dir, "Shop.Tests")
	job := func(name string) domain.RepairJob {
		return domain.RepairJob{
			Unit: &m.SourceUnit{
				Path:     m.Path(filepath.Join(dir, "src", name+".cs")),
				Features: m.Features{Namespace: "Shop", TypeName: name},
			},
			ArtifactPath: m.Path(filepath.Join(testDir, "src", name+"Tests.cs")),
			Descriptor:   m.Path(filepath.Join(dir, "Shop.sln")),
			TestProject:  m.Path(filepath.Join(testDir, "Shop.Tests.csproj")),
		}
	}

	synth := domainmocks.NewMockSynthesizer(t)
	generate := func(unit *m.SourceUnit) string {
		return testClassSource(unit.Features.TypeName+"Tests", unit.Features.TypeName == "OrderService")
	}

	synth.EXPECT().Initial(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, unit *m.SourceUnit) (string, error) {
			return generate(unit), nil
		}).Maybe()
	synth.EXPECT().Repair(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, unit *m.SourceUnit, _ string, _ m.DiagnosticBatch) (string, error) {
			return generate(unit), nil
		}).Maybe()

	runner := &projectRunner{}

	return &sharedProjectFixture{
		runner: runner,
		orch:   domain.NewOrchestrator(adapter.NewLocalSourceFSAdapter(), runner, synth, domain.OrchestratorOptions{MaxAttempts: 3}, nil),
		order:  job("OrderService"),
		price:  job("PriceCalculator"),
	}
}

func TestRepair_SharedTestProjectContainsFailures(t *testing.T) {
	f := newSharedProjectFixture(t)

	order := f.orch.Repair(context.Background(), f.order, nil)
	price := f.orch.Repair(context.Background(), f.price, nil)

	assert.Equal(t, m.StatusExhausted, order.Status)
	assert.Equal(t, m.ReasonTest, order.Reason)
	assert.Equal(t, 3, order.Attempts)
	assert.FileExists(t, string(f.order.ArtifactPath))

	assert.Equal(t, m.StatusSuccess, price.Status)
	assert.Equal(t, 1, price.Attempts)
	assert.Equal(t, m.TestCounts{Passed: 1}, price.FinalOutcome.Counts)
	assert.Empty(t, price.History)

	assert.Equal(t, "Shop.Tests.PriceCalculatorTests.", f.runner.filters[len(f.runner.filters)-1])
	assert.Equal(t, "Shop.Tests.OrderServiceTests.", f.runner.filters[0])
}

func TestRepair_SharedTestProjectSerializesRuns(t *testing.T) {
	f := newSharedProjectFixture(t)

	var (
		wg           sync.WaitGroup
		order, price m.SessionResult
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		order = f.orch.Repair(context.Background(), f.order, nil)
	}()

	go func() {
		defer wg.Done()
		price = f.orch.Repair(context.Background(), f.price, nil)
	}()

	wg.Wait()

	assert.False(t, f.runner.overlapped, "build/test ran concurrently on one test project")
	assert.Equal(t, m.StatusExhausted, order.Status)
	assert.Equal(t, m.StatusSuccess, price.Status)
}

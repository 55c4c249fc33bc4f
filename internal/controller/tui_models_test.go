package controller

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/mouse-blink/testforge/internal/model"
)

func TestUnitsModel_Lifecycle(t *testing.T) {
	model := newUnitsModel()

	cmd := model.Init()
	require.NotNil(t, cmd)
	_, ok := cmd().(tickMsg)
	require.True(t, ok, "Init() cmd did not return tickMsg")

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	model = updated.(unitsModel)

	assert.Contains(t, model.View(), "Loading source units")

	updated, _ = model.Update(unitsMsg{units: []m.SourceUnit{
		{Path: "src/OrderService.cs", Features: m.Features{TypeName: "OrderService", Methods: []m.MethodSignature{{Name: "Place"}, {Name: "Cancel"}}}},
		{Path: "src/Invoice.cs", Features: m.Features{TypeName: "Invoice", Methods: []m.MethodSignature{{Name: "Total"}}}},
	}})
	model = updated.(unitsModel)

	assert.Equal(t, 2, model.totalUnits)
	assert.Equal(t, 3, model.totalMethods)

	view := model.View()
	assert.Contains(t, view, "testforge source units")
	assert.Contains(t, view, "OrderService")

	updated, cmd = model.Update(tickMsg(time.Now()))
	model = updated.(unitsModel)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, model.animOffset)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model = updated.(unitsModel)
	assert.Equal(t, 1, model.lastSelected)
	assert.Equal(t, 0, model.animOffset)

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
}

func TestSessionModel_RunLifecycle(t *testing.T) {
	model := newSessionModel()
	assert.Contains(t, model.View(), "Initializing")

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model = updated.(sessionModel)

	updated, _ = model.Update(planMsg{total: 2, parallel: 2})
	model = updated.(sessionModel)
	assert.False(t, model.finished)

	updated, _ = model.Update(sessionStartedMsg{worker: 1, path: "src/A.cs"})
	model = updated.(sessionModel)

	updated, _ = model.Update(stateChangedMsg{path: "src/A.cs", attempt: 2, state: m.StateBuilding})
	model = updated.(sessionModel)

	assert.Equal(t, workerState{file: "src/A.cs", attempt: 2, state: m.StateBuilding}, model.workerStates[1])

	view := model.View()
	assert.Contains(t, view, "testforge test generation")
	assert.Contains(t, view, "src/A.cs")
	assert.Contains(t, view, "building")

	// unknown paths are ignored
	updated, _ = model.Update(stateChangedMsg{path: "src/Unknown.cs", attempt: 1, state: m.StateTesting})
	model = updated.(sessionModel)
	assert.Len(t, model.workerStates, 1)

	updated, _ = model.Update(sessionFinishedMsg{result: m.SessionResult{Source: "src/A.cs", Status: m.StatusSuccess, Attempts: 2}})
	model = updated.(sessionModel)
	assert.Empty(t, model.workerStates)
	assert.InDelta(t, 0.5, model.progressPercent, 0.001)
	assert.False(t, model.finished)

	updated, _ = model.Update(sessionFinishedMsg{result: m.SessionResult{
		Source:   "src/B.cs",
		Status:   m.StatusExhausted,
		Reason:   m.ReasonTest,
		Attempts: 3,
		History:  []m.DiagnosticBatch{{Attempt: 3, Stage: m.StageTest}},
		FinalDiagnostics: []m.DiagnosticRecord{
			{Test: "BTests.Works", Message: "Assert.Equal() Failure", Severity: m.SeverityError},
		},
	}})
	model = updated.(sessionModel)
	require.True(t, model.finished)

	view = model.View()
	assert.Contains(t, view, "testforge results")
	assert.Contains(t, view, "Exhausted:")

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model = updated.(sessionModel)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(sessionModel)
	require.True(t, model.showDetails)
	assert.Contains(t, model.selectedDetails, "attempt 3 failed at test")
	assert.Contains(t, model.View(), "Details • src/B.cs")

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(sessionModel)
	assert.False(t, model.showDetails)
}

func TestSessionModel_QuitBeforeFinishInterrupts(t *testing.T) {
	interrupted := false

	model := newSessionModel()
	model.onQuit = func() { interrupted = true }

	updated, _ := model.Update(planMsg{total: 3, parallel: 1})
	model = updated.(sessionModel)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, interrupted)
}

func TestSessionModel_QuitAfterFinishDoesNotInterrupt(t *testing.T) {
	interrupted := false

	model := newSessionModel()
	model.onQuit = func() { interrupted = true }

	updated, _ := model.Update(planMsg{total: 0, parallel: 1})
	model = updated.(sessionModel)
	require.True(t, model.finished)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.False(t, interrupted)
}

func TestSessionModel_Reports(t *testing.T) {
	model := newSessionModel()

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model = updated.(sessionModel)

	updated, _ = model.Update(reportsMsg{reports: []m.Report{
		{Source: "src/B.cs", Status: m.StatusAborted, Reason: m.ReasonIO, Error: "disk full"},
		{Source: "src/A.cs", Status: m.StatusSuccess, Attempts: 1, ArtifactPath: "App.Tests/ATests.cs"},
	}})
	model = updated.(sessionModel)

	require.True(t, model.finished)
	require.Len(t, model.results, 2)
	assert.Equal(t, "src/A.cs", model.results[0].file)
	assert.Contains(t, model.results[1].details, "disk full")
	assert.Contains(t, model.View(), "testforge stored reports")
}

func TestNewSessionItem(t *testing.T) {
	item := newSessionItem(m.SessionResult{
		Source:       "src/A.cs",
		ArtifactPath: "App.Tests/ATests.cs",
		Status:       m.StatusAborted,
		Reason:       m.ReasonTimeout,
		Attempts:     2,
		Err:          errors.New("context deadline exceeded"),
		FinalDiagnostics: []m.DiagnosticRecord{
			{File: "ATests.cs", Line: 3, Column: 1, Code: "CS0246", Severity: m.SeverityError, Message: "type not found"},
		},
	})

	lines := strings.Split(item.details, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "artifact: App.Tests/ATests.cs", lines[0])
	assert.Equal(t, "context deadline exceeded", lines[1])
	assert.Equal(t, "ATests.cs(3,1): error CS0246: type not found", lines[2])
	assert.Equal(t, "src/A.cs aborted timeout", item.FilterValue())
}

func TestTruncateAndScroll(t *testing.T) {
	assert.Equal(t, "short", truncateFile("short", 10))
	assert.Equal(t, "abcd…", truncateFile("abcdefgh", 5))
	assert.Equal(t, "", truncateFile("abc", 0))
	assert.Equal(t, "…", truncateFile("abc", 1))

	assert.Equal(t, "abcd…", animateScrollFile("abcdefgh", 5, 0))
	assert.Equal(t, "bcdef", animateScrollFile("abcdefgh", 5, 6))
	assert.Equal(t, "short", animateScrollFile("short", 10, 20))
}

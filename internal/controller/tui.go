package controller

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	m "github.com/mouse-blink/testforge/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output      io.Writer
	mu          sync.Mutex
	program     *tea.Program
	done        chan struct{}
	err         error
	onInterrupt func()
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// OnInterrupt registers fn to run when the user quits before a run ends.
func (t *TUI) OnInterrupt(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.onInterrupt = fn
}

// Start launches the Bubble Tea program for the given mode.
func (t *TUI) Start(options ...StartOption) error {
	cfg := newStartConfig(options)

	var model tea.Model

	switch cfg.mode {
	case ModeList:
		units := newUnitsModel()
		units.width, units.height = t.size()
		model = units
	default:
		session := newSessionModel()
		session.width, session.height = t.size()
		session.onQuit = t.interrupt
		model = session
	}

	return t.startWithModel(model)
}

func (t *TUI) startWithModel(model tea.Model) error {
	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen(), tea.WithMouseCellMotion())
	done := make(chan struct{})

	t.mu.Lock()
	t.program = program
	t.done = done
	t.err = nil
	t.mu.Unlock()

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil {
			t.mu.Lock()
			t.err = err
			t.mu.Unlock()
		}
	}()

	return nil
}

// Close stops the program without waiting for the user.
func (t *TUI) Close() {
	t.mu.Lock()
	program, done := t.program, t.done
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the user quits the program.
func (t *TUI) Wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return
	}

	<-done
}

// DisplayUnits sends the discovered units to the list view.
func (t *TUI) DisplayUnits(units []m.SourceUnit) error {
	t.send(unitsMsg{units: units})

	return t.runErr()
}

// DisplayPlan sends the run plan.
func (t *TUI) DisplayPlan(total int, parallel int) {
	t.send(planMsg{total: total, parallel: parallel})
}

// DisplaySessionStarted sends a worker assignment.
func (t *TUI) DisplaySessionStarted(unit m.Path, worker int) {
	t.send(sessionStartedMsg{worker: worker, path: string(unit)})
}

// DisplayStateChanged sends a state transition.
func (t *TUI) DisplayStateChanged(unit m.Path, attempt int, state m.SessionState) {
	t.send(stateChangedMsg{path: string(unit), attempt: attempt, state: state})
}

// DisplaySessionFinished sends a finished session.
func (t *TUI) DisplaySessionFinished(result m.SessionResult) {
	t.send(sessionFinishedMsg{result: result})
}

// DisplayReports sends stored reports to the results view.
func (t *TUI) DisplayReports(reports []m.Report) error {
	t.send(reportsMsg{reports: reports})

	return t.runErr()
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

func (t *TUI) runErr() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.err
}

func (t *TUI) interrupt() {
	t.mu.Lock()
	fn := t.onInterrupt
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (t *TUI) size() (int, int) {
	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd())) //nolint:gosec // fd fits in int
		if err == nil {
			return width, height
		}
	}

	return 80, 24
}

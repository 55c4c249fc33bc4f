package controller

import (
	"fmt"
	"strings"
	"time"

	m "github.com/mouse-blink/testforge/internal/model"
)

// Message types.
type tickMsg time.Time

type unitsMsg struct {
	units []m.SourceUnit
}

type planMsg struct {
	total    int
	parallel int
}

type sessionStartedMsg struct {
	worker int
	path   string
}

type stateChangedMsg struct {
	path    string
	attempt int
	state   m.SessionState
}

type sessionFinishedMsg struct {
	result m.SessionResult
}

type reportsMsg struct {
	reports []m.Report
}

// List item types.
type unitItem struct {
	path     string
	typeName string
	methods  int
}

func (u unitItem) FilterValue() string {
	return u.path + " " + u.typeName
}

// sessionItem is one finished session in the results list.
type sessionItem struct {
	file     string
	status   string
	reason   string
	attempts int
	details  string
}

func (r sessionItem) FilterValue() string {
	return r.file + " " + r.status + " " + r.reason
}

func newSessionItem(result m.SessionResult) sessionItem {
	item := sessionItem{
		file:     string(result.Source),
		status:   string(result.Status),
		reason:   string(result.Reason),
		attempts: result.Attempts,
	}

	lines := diagnosticLines(result.FinalDiagnostics)
	if result.Err != nil {
		lines = append([]string{result.Err.Error()}, lines...)
	}

	if len(result.History) > 0 {
		last := result.History[len(result.History)-1]
		lines = append([]string{fmt.Sprintf("attempt %d failed at %s", last.Attempt, last.Stage)}, lines...)
	}

	if result.ArtifactPath != "" {
		lines = append([]string{"artifact: " + string(result.ArtifactPath)}, lines...)
	}

	item.details = strings.Join(lines, "\n")

	return item
}

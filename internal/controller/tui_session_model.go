package controller

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	model "github.com/mouse-blink/testforge/internal/model"
)

var statusColors = map[string]lipgloss.Color{
	string(model.StatusSuccess):   lipgloss.Color("2"), // Green
	string(model.StatusExhausted): lipgloss.Color("3"), // Yellow
	string(model.StatusAborted):   lipgloss.Color("1"), // Red
}

// sessionDelegate renders finished sessions in the results list.
type sessionDelegate struct {
	offset int
}

func (d sessionDelegate) Height() int  { return 1 }
func (d sessionDelegate) Spacing() int { return 0 }
func (d sessionDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d sessionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	result, ok := item.(sessionItem)
	if !ok {
		return
	}

	isSelected := index == m.Index()
	fileWidth := m.Width() - 40 // status, reason and attempts columns

	statusStyle, reasonStyle, attemptStyle, fileStyle, displayFile := d.getStylesAndFile(result, isSelected, fileWidth)

	line := fmt.Sprintf("%s  %s  %s  %s",
		statusStyle.Render(result.status),
		reasonStyle.Render(result.reason),
		attemptStyle.Render(fmt.Sprintf("%d", result.attempts)),
		fileStyle.Render(displayFile),
	)
	_, _ = fmt.Fprint(w, line)
}

func (d sessionDelegate) getStylesAndFile(result sessionItem, isSelected bool, fileWidth int) (lipgloss.Style, lipgloss.Style, lipgloss.Style, lipgloss.Style, string) {
	if isSelected {
		selected := lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)

		return selected.Width(10).Align(lipgloss.Left),
			selected.Width(11).Align(lipgloss.Left),
			selected.Width(8).Align(lipgloss.Center),
			selected,
			animateScrollFile(result.file, fileWidth, d.offset)
	}

	statusColor, ok := statusColors[result.status]
	if !ok {
		statusColor = lipgloss.Color("8")
	}

	return lipgloss.NewStyle().Foreground(statusColor).Bold(true).Width(10).Align(lipgloss.Left),
		lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Width(11).Align(lipgloss.Left),
		lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Width(8).Align(lipgloss.Center),
		lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		truncateFile(result.file, fileWidth)
}

// workerState is what one worker is doing right now.
type workerState struct {
	file    string
	attempt int
	state   model.SessionState
}

// sessionModel shows live repair sessions and, once all are done, the
// browsable results. Stored reports are shown with the same results view.
type sessionModel struct {
	width           int
	height          int
	progressBar     progress.Model
	total           int
	completedCount  int
	progressPercent float64
	workers         int
	workerStates    map[int]workerState
	workerByFile    map[string]int
	rendered        bool
	finished        bool
	title           string
	results         []sessionItem
	resultsList     list.Model
	delegate        sessionDelegate
	animOffset      int
	lastSelected    int
	showDetails     bool
	selectedDetails string
	selectedPath    string
	onQuit          func()
}

func newSessionModel() sessionModel {
	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	delegate := sessionDelegate{}
	resultsList := list.New([]list.Item{}, delegate, 80, 20)
	resultsList.SetShowPagination(false)
	resultsList.SetShowFilter(true)
	resultsList.SetShowHelp(false)
	resultsList.SetShowTitle(false)
	resultsList.SetShowStatusBar(false)
	resultsList.FilterInput.Placeholder = "Filter results…"

	return sessionModel{
		progressBar:  prog,
		resultsList:  resultsList,
		delegate:     delegate,
		workerStates: make(map[int]workerState),
		workerByFile: make(map[string]int),
		lastSelected: -1,
		title:        "testforge results",
	}
}

func (m sessionModel) Init() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)

	case tea.KeyMsg:
		m, cmd = m.handleKeyMsg(msg)

	case tea.MouseMsg:
		m, cmd = m.handleMouseMsg(msg)

	case tickMsg:
		return m.handleTickMsg(msg)

	case planMsg:
		m.total = msg.total
		m.workers = msg.parallel
		m.completedCount = 0
		m.progressPercent = 0
		m.rendered = true
		m.finished = msg.total == 0

	case sessionStartedMsg:
		m = m.handleSessionStarted(msg)

	case stateChangedMsg:
		m = m.handleStateChanged(msg)

	case sessionFinishedMsg:
		m = m.handleSessionFinished(msg)

	case reportsMsg:
		m = m.handleReports(msg)
	}

	return m, cmd
}

func (m sessionModel) View() string {
	if !m.rendered {
		return "Initializing sessions…\n"
	}

	if m.finished {
		return m.viewResults()
	}

	return m.viewProgress()
}

func (m sessionModel) viewProgress() string {
	accentColor := lipgloss.Color("6")

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(accentColor)

	title := titleStyle.Render("testforge test generation")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Progress: %s / %s  •  Workers: %s",
		accentStyle.Render(fmt.Sprintf("%d", m.completedCount)),
		accentStyle.Render(fmt.Sprintf("%d", m.total)),
		accentStyle.Render(fmt.Sprintf("%d", m.workers)),
	))

	progressView := lipgloss.NewStyle().Padding(0, 2).Render(m.progressBar.ViewAs(m.progressPercent))

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width).
		Render("Press q to stop")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		progressView,
		m.renderWorkerBox(accentColor),
		footer,
	)
}

func (m sessionModel) renderWorkerBox(accentColor lipgloss.Color) string {
	contentStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1).
		Margin(1, 1, 1, 0).
		Width(max(m.width-4, 20))

	fileStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	stateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	// width minus border and padding
	availableWidth := m.width - 8
	prefixWidth := 0
	labelFormat := ""

	if m.workers > 1 {
		digits := len(fmt.Sprintf("%d", m.workers-1))
		prefixWidth = 7 + digits + 2 // "Worker " + digits + ": "
		labelFormat = fmt.Sprintf("Worker %%%dd: %%s", digits)
	}

	lines := make([]string, 0, m.workers)

	for i := range m.workers {
		ws, busy := m.workerStates[i]

		content := "idle"

		if busy {
			stateText := fmt.Sprintf("#%d %-12s ", ws.attempt, ws.state)
			remaining := max(availableWidth-prefixWidth-len(stateText), 10)
			content = stateStyle.Render(stateText) + fileStyle.Render(truncateFile(ws.file, remaining))
		}

		if m.workers > 1 {
			content = fmt.Sprintf(labelFormat, i, content)
		}

		lines = append(lines, content)
	}

	return contentStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m sessionModel) viewResults() string {
	accentColor := lipgloss.Color("6")

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(accentColor)

	title := titleStyle.Render(m.title)

	summary := summaryStyle.Render(fmt.Sprintf(
		"Total: %s  •  Success: %s  •  Exhausted: %s  •  Aborted: %s",
		accentStyle.Render(fmt.Sprintf("%d", len(m.results))),
		accentStyle.Render(fmt.Sprintf("%d", m.countStatus(string(model.StatusSuccess)))),
		accentStyle.Render(fmt.Sprintf("%d", m.countStatus(string(model.StatusExhausted)))),
		accentStyle.Render(fmt.Sprintf("%d", m.countStatus(string(model.StatusAborted)))),
	))

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width).
		Render("↑/k up • ↓/j down • g/G top/bottom • / filter • enter/space/click details • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		m.renderResultsBox(accentColor),
		footer,
	)
}

func (m sessionModel) renderResultsBox(accentColor lipgloss.Color) string {
	listWidth := m.width - 4
	listHeight := max(m.height-9-m.detailsBoxHeight(), 5)

	m.resultsList.SetHeight(listHeight)
	m.resultsList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%-10s  %-11s  %-8s  %s", "Status", "Reason", "Attempts", "File"))

	resultsBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Margin(0, 1, 0, 0).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, headers, m.resultsList.View()))

	detailsBox := m.renderDetailsBox(accentColor, listWidth)
	if detailsBox == "" {
		return resultsBox
	}

	return lipgloss.JoinVertical(lipgloss.Left, resultsBox, detailsBox)
}

func (m sessionModel) countStatus(status string) int {
	count := 0

	for _, result := range m.results {
		if result.status == status {
			count++
		}
	}

	return count
}

func animateScrollFile(text string, width int, offset int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	gap := "   "

	// ticks before scrolling starts
	pause := 5

	if offset < pause {
		return truncateFile(text, width)
	}

	runes := []rune(text + gap)
	n := len(runes)
	start := (offset - pause) % n

	res := make([]rune, 0, width)
	for i := range width {
		res = append(res, runes[(start+i)%n])
	}

	return string(res)
}

func truncateFile(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

func (m sessionModel) handleSessionStarted(msg sessionStartedMsg) sessionModel {
	m.workerStates[msg.worker] = workerState{file: msg.path, attempt: 1, state: model.StateInit}
	m.workerByFile[msg.path] = msg.worker
	m.rendered = true

	return m
}

func (m sessionModel) handleStateChanged(msg stateChangedMsg) sessionModel {
	worker, ok := m.workerByFile[msg.path]
	if !ok {
		return m
	}

	m.workerStates[worker] = workerState{file: msg.path, attempt: msg.attempt, state: msg.state}

	return m
}

func (m sessionModel) handleSessionFinished(msg sessionFinishedMsg) sessionModel {
	path := string(msg.result.Source)
	if worker, ok := m.workerByFile[path]; ok {
		delete(m.workerStates, worker)
		delete(m.workerByFile, path)
	}

	m.completedCount++
	m.results = append(m.results, newSessionItem(msg.result))
	m.setItems()

	if m.total > 0 {
		m.progressPercent = float64(m.completedCount) / float64(m.total)
		if m.completedCount >= m.total {
			m.finished = true
		}
	}

	return m
}

func (m sessionModel) handleReports(msg reportsMsg) sessionModel {
	m.title = "testforge stored reports"
	m.results = m.results[:0]

	reports := append([]model.Report(nil), msg.reports...)
	sort.Slice(reports, func(i, j int) bool { return reports[i].Source < reports[j].Source })

	for _, report := range reports {
		result := reportResult(report)
		if len(report.History) > 0 {
			result.FinalDiagnostics = report.History[len(report.History)-1].Outcome.Diagnostics
		}

		item := newSessionItem(result)
		if report.Error != "" {
			item.details = strings.TrimSpace(report.Error + "\n" + item.details)
		}

		m.results = append(m.results, item)
	}

	m.setItems()
	m.total = len(m.results)
	m.completedCount = m.total
	m.rendered = true
	m.finished = true

	return m
}

func (m *sessionModel) setItems() {
	items := make([]list.Item, 0, len(m.results))
	for _, r := range m.results {
		items = append(items, r)
	}

	m.resultsList.SetItems(items)
}

func (m sessionModel) handleKeyMsg(msg tea.KeyMsg) (sessionModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "q", "ctrl+c":
		if !m.finished && m.onQuit != nil {
			m.onQuit()
		}

		return m, tea.Quit
	default:
		if !m.finished {
			return m, nil
		}

		if msg.String() == "enter" || msg.String() == " " {
			m.toggleSelectedDetails()
			return m, nil
		}

		m.resultsList, cmd = m.resultsList.Update(msg)
		m.resetSelection()

		return m, cmd
	}
}

func (m sessionModel) handleMouseMsg(msg tea.MouseMsg) (sessionModel, tea.Cmd) {
	var cmd tea.Cmd

	if !m.finished {
		return m, nil
	}

	m.resultsList, cmd = m.resultsList.Update(msg)
	m.resetSelection()

	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease && m.resultsList.FilterState() != list.Filtering {
		m.toggleSelectedDetails()
	}

	return m, cmd
}

func (m *sessionModel) resetSelection() {
	if m.resultsList.Index() == m.lastSelected {
		return
	}

	m.lastSelected = m.resultsList.Index()
	m.animOffset = 0
	m.delegate.offset = 0
	m.resultsList.SetDelegate(m.delegate)
	m.showDetails = false
	m.selectedDetails = ""
	m.selectedPath = ""
}

func (m *sessionModel) toggleSelectedDetails() {
	result, ok := m.resultsList.SelectedItem().(sessionItem)
	if !ok {
		return
	}

	details := strings.TrimSpace(result.details)
	if details == "" || (m.showDetails && m.selectedDetails == details) {
		m.showDetails = false
		m.selectedDetails = ""
		m.selectedPath = ""

		return
	}

	m.showDetails = true
	m.selectedDetails = details
	m.selectedPath = result.file
}

func (m sessionModel) detailsMaxLines() int {
	return min(max(m.height/3, 6), 20)
}

func (m sessionModel) detailsBoxHeight() int {
	if !m.showDetails || strings.TrimSpace(m.selectedDetails) == "" {
		return 0
	}

	lines := strings.Split(strings.TrimSpace(m.selectedDetails), "\n")

	return min(len(lines), m.detailsMaxLines()) + 3
}

func (m sessionModel) renderDetailsBox(accentColor lipgloss.Color, width int) string {
	details := strings.TrimSpace(m.selectedDetails)
	if !m.showDetails || details == "" {
		return ""
	}

	lines := strings.Split(details, "\n")
	maxLines := m.detailsMaxLines()
	truncated := false

	if len(lines) > maxLines {
		lines = lines[:maxLines-1]
		truncated = true
	}

	contentWidth := max(width-4, 10)

	bodyLines := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		bodyLines = append(bodyLines, renderDetailLine(line, contentWidth))
	}

	if truncated {
		bodyLines = append(bodyLines, "…")
	}

	headerText := "Details"
	if m.selectedPath != "" {
		headerText = fmt.Sprintf("Details • %s", m.selectedPath)
	}

	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Render(truncateFile(headerText, contentWidth))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Margin(0, 1, 0, 0).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.JoinVertical(lipgloss.Left, bodyLines...)))
}

func renderDetailLine(line string, width int) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	switch {
	case strings.Contains(line, " error "), strings.HasPrefix(line, "error"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	case strings.Contains(line, " warning "):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	case strings.HasPrefix(line, "artifact: "), strings.HasPrefix(line, "attempt "):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	}

	return style.Render(truncateFile(line, width))
}

func (m sessionModel) handleWindowSize(msg tea.WindowSizeMsg) sessionModel {
	m.width = msg.Width
	m.height = msg.Height
	m.progressBar.Width = max(m.width-8, 20)

	return m
}

func (m sessionModel) handleTickMsg(_ tickMsg) (sessionModel, tea.Cmd) {
	if m.finished && m.resultsList.FilterState() != list.Filtering {
		m.animOffset++
		m.delegate.offset = m.animOffset
		m.resultsList.SetDelegate(m.delegate)
	}

	return m, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

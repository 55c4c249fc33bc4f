package controller

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// unitsDelegate renders one discovered unit per line.
type unitsDelegate struct {
	offset int
}

func (d unitsDelegate) Height() int  { return 1 }
func (d unitsDelegate) Spacing() int { return 0 }
func (d unitsDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d unitsDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	unit, ok := item.(unitItem)
	if !ok {
		return
	}

	isSelected := index == m.Index()
	width := m.Width() - 32 // count (7) + type (22) + spacing

	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true).Width(7).Align(lipgloss.Right)
	typeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Width(22)
	pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	displayPath := truncateFile(unit.path, width)

	if isSelected {
		selected := lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Bold(true)
		countStyle = selected.Width(7).Align(lipgloss.Right)
		typeStyle = selected.Width(22)
		pathStyle = selected
		displayPath = animateScrollFile(unit.path, width, d.offset)
	}

	line := fmt.Sprintf("%s  %s  %s",
		countStyle.Render(fmt.Sprintf("%d", unit.methods)),
		typeStyle.Render(truncateFile(unit.typeName, 22)),
		pathStyle.Render(displayPath),
	)
	_, _ = fmt.Fprint(w, line)
}

// unitsModel lists discovered source units and their public method counts.
type unitsModel struct {
	width        int
	height       int
	unitList     list.Model
	delegate     unitsDelegate
	totalMethods int
	totalUnits   int
	rendered     bool
	animOffset   int
	lastSelected int
}

func newUnitsModel() unitsModel {
	delegate := unitsDelegate{}
	unitList := list.New([]list.Item{}, delegate, 80, 20)
	unitList.SetShowPagination(false)
	unitList.SetShowFilter(true)
	unitList.SetShowHelp(false)
	unitList.SetShowTitle(false)
	unitList.SetShowStatusBar(false)
	unitList.FilterInput.Placeholder = "Filter by path or type…"

	return unitsModel{
		unitList:     unitList,
		delegate:     delegate,
		lastSelected: -1,
	}
}

func (m unitsModel) Init() tea.Cmd {
	return tea.Tick(time.Second/2, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m unitsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.unitList.SetWidth(m.width)

	case tickMsg:
		if m.unitList.FilterState() != list.Filtering && m.rendered {
			m.animOffset++
			m.delegate.offset = m.animOffset
			m.unitList.SetDelegate(m.delegate)
		}

		return m, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		default:
			m.unitList, cmd = m.unitList.Update(msg)

			if m.unitList.Index() != m.lastSelected {
				m.lastSelected = m.unitList.Index()
				m.animOffset = 0
				m.delegate.offset = 0
				m.unitList.SetDelegate(m.delegate)
			}

			return m, cmd
		}

	case unitsMsg:
		m = m.handleUnitsMsg(msg)
	}

	return m, cmd
}

func (m unitsModel) handleUnitsMsg(msg unitsMsg) unitsModel {
	items := make([]list.Item, 0, len(msg.units))
	m.totalMethods = 0

	for _, unit := range msg.units {
		items = append(items, unitItem{
			path:     string(unit.Path),
			typeName: unit.Features.TypeName,
			methods:  len(unit.Features.Methods),
		})
		m.totalMethods += len(unit.Features.Methods)
	}

	m.totalUnits = len(msg.units)
	m.unitList.SetItems(items)
	m.rendered = true

	if len(items) > 0 && m.lastSelected == -1 {
		m.lastSelected = 0
	}

	return m
}

func (m unitsModel) View() string {
	if !m.rendered {
		return "Loading source units…\n"
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	title := titleStyle.Render("testforge source units")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Units: %s   Public methods: %s",
		accentStyle.Render(fmt.Sprintf("%d", m.totalUnits)),
		accentStyle.Render(fmt.Sprintf("%d", m.totalMethods)),
	))

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • g/G top/bottom • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		m.renderTable(),
		footer,
	)
}

func (m unitsModel) renderTable() string {
	// title, summary, footer, border and headers take 9 rows
	listHeight := max(m.height-9, 5)
	listWidth := m.width - 6

	m.unitList.SetHeight(listHeight)
	m.unitList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%7s  %-22s  %s", "Methods", "Type", "File Path"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			m.unitList.View(),
		),
	)
}

// Package tui renders the live day dashboard: template progress, plan and
// credit scores, the running session, and a history chart of closed days.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jvrecio/ritmo/internal/constants"
	"github.com/jvrecio/ritmo/internal/models"
	"github.com/jvrecio/ritmo/internal/schedule"
	"github.com/jvrecio/ritmo/internal/utils"
)

type viewState int

const (
	viewDay viewState = iota
	viewHistory
)

const historyDays = 14

type tickMsg time.Time

type stateChangedMsg struct{}

// Model is the root Bubble Tea model.
type Model struct {
	engine *schedule.Engine
	width  int
	height int

	activeView viewState
	dayKey     string
	data       schedule.DayData
	summaries  []models.DaySummary
	chart      barchart.Model

	help     help.Model
	showHelp bool
	status   string

	changes     chan struct{}
	unsubscribe func()
}

func New(engine *schedule.Engine) *Model {
	h := help.New()
	h.ShowAll = false

	m := &Model{
		engine:  engine,
		help:    h,
		chart:   barchart.New(60, 10),
		changes: make(chan struct{}, 1),
	}
	m.dayKey = m.todayKey()
	m.unsubscribe = engine.State().Subscribe(func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})
	return m
}

func (m *Model) todayKey() string {
	settings := m.engine.State().Settings()
	closeMin := schedule.ParseCloseTime(settings.DayCloseTime)
	return schedule.DayKeyAt(time.Now(), closeMin, m.engine.State().Location())
}

func (m *Model) Init() tea.Cmd {
	m.refresh()
	return tea.Batch(tickCmd(), m.waitForChange())
}

func tickCmd() tea.Cmd {
	return tea.Tick(constants.RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return stateChangedMsg{}
	}
}

// refresh recomputes the viewed day and the history chart from the engine.
func (m *Model) refresh() {
	m.data = m.engine.BuildDayData(m.dayKey)

	var summaries []models.DaySummary
	key := m.dayKey
	for i := 0; i < historyDays; i++ {
		if sum, ok := m.engine.State().Summary(key); ok {
			summaries = append(summaries, sum)
		}
		prev, err := utils.AddDays(key, -1)
		if err != nil {
			break
		}
		key = prev
	}
	// Oldest first for the chart.
	for i, j := 0, len(summaries)-1; i < j; i, j = i+1, j-1 {
		summaries[i], summaries[j] = summaries[j], summaries[i]
	}
	m.summaries = summaries
	m.buildChart()
}

func (m *Model) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 30 {
		chartWidth = 60
	}

	m.chart = barchart.New(chartWidth, 10)

	var bars []barchart.BarData
	for _, sum := range m.summaries {
		style := metStyle
		if sum.Label == models.LabelMissed {
			style = overStyle
		}
		bars = append(bars, barchart.BarData{
			Label: sum.DayKey[5:],
			Values: []barchart.BarValue{
				{Name: sum.DayKey, Value: float64(sum.Score), Style: style},
			},
		})
	}
	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.buildChart()
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tickCmd()

	case stateChangedMsg:
		m.refresh()
		return m, m.waitForChange()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			if m.unsubscribe != nil {
				m.unsubscribe()
			}
			return m, tea.Quit

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			return m, nil

		case key.Matches(msg, keys.Refresh):
			m.refresh()
			m.status = "Refreshed"
			return m, nil

		case key.Matches(msg, keys.Tab):
			if m.activeView == viewDay {
				m.activeView = viewHistory
			} else {
				m.activeView = viewDay
			}
			return m, nil

		case key.Matches(msg, keys.Left):
			if prev, err := utils.AddDays(m.dayKey, -1); err == nil {
				m.dayKey = prev
				m.refresh()
			}
			return m, nil

		case key.Matches(msg, keys.Right):
			if next, err := utils.AddDays(m.dayKey, 1); err == nil && next <= m.todayKey() {
				m.dayKey = next
				m.refresh()
			}
			return m, nil

		case key.Matches(msg, keys.Close):
			sum, err := m.engine.CloseDay(m.dayKey, models.CloseSourceManual)
			if err != nil {
				m.status = "Close failed: " + err.Error()
			} else {
				m.status = fmt.Sprintf("Closed %s: score %d (%s)", sum.DayKey, sum.Score, sum.Label)
				m.refresh()
			}
			return m, nil
		}
	}

	return m, nil
}

func (m *Model) View() string {
	var body string
	if m.activeView == viewDay {
		body = m.dayView()
	} else {
		body = m.historyView()
	}

	status := ""
	if m.status != "" {
		status = mutedStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		body,
		status,
		m.help.View(keys),
	)
}

func (m *Model) header() string {
	dayTab := inactiveTabStyle.Render("Day")
	historyTab := inactiveTabStyle.Render("History")
	if m.activeView == viewDay {
		dayTab = activeTabStyle.Render("Day")
	} else {
		historyTab = activeTabStyle.Render("History")
	}

	label := fmt.Sprintf("%s (%s, %s)", m.dayKey, strings.ToLower(m.data.Weekday.String()), m.data.Shift)
	if m.data.UsingOverride {
		label += " *"
	}

	return lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render(constants.AppName), "  ", dayTab, historyTab, "  ", mutedStyle.Render(label))
}

func (m *Model) dayView() string {
	var sections []string

	if sum, closed := m.engine.State().Summary(m.dayKey); closed {
		line := fmt.Sprintf("Closed: score %d (%s, %s)", sum.Score, sum.Label, sum.CloseSource)
		style := metStyle
		if sum.Label == models.LabelMissed {
			style = overStyle
		}
		sections = append(sections, style.Render(line))
	}

	if len(m.data.Goals) > 0 {
		sections = append(sections, titleStyle.Render("Goals"))
		for _, row := range m.data.Goals {
			sections = append(sections, m.progressLine(row))
		}
	}
	if len(m.data.Limits) > 0 {
		sections = append(sections, "", titleStyle.Render("Limits"))
		for _, row := range m.data.Limits {
			sections = append(sections, m.progressLine(row))
		}
	}
	if len(m.data.Neutrals) > 0 {
		sections = append(sections, "", titleStyle.Render("Tracked"))
		for _, row := range m.data.Neutrals {
			sections = append(sections, fmt.Sprintf("  %-20s %s", row.Name, formatAmount(row.Done, row.Mode)))
		}
	}
	if len(m.data.Goals) == 0 && len(m.data.Limits) == 0 && len(m.data.Neutrals) == 0 {
		sections = append(sections, mutedStyle.Render("No template entries for this day."))
	}

	sections = append(sections, "", m.scoreLine())

	width := m.width - 4
	if width < 40 {
		width = 76
	}
	return panelStyle.Width(width).Render(strings.Join(sections, "\n"))
}

func (m *Model) progressLine(row schedule.HabitProgress) string {
	marker := " "
	style := lipgloss.NewStyle()
	switch {
	case row.Running:
		marker = ">"
		style = runningStyle
	case row.Completed && row.Mode.IsGoal():
		marker = "✓"
		style = metStyle
	case row.Exceeded > 0 && row.Mode.IsLimit():
		marker = "!"
		style = overStyle
	}

	bar := renderBar(row.Percent, 20)
	line := fmt.Sprintf("%s %-20s %s %3d%%  %s / %s",
		marker, row.Name, bar, row.Percent,
		formatAmount(row.Done, row.Mode), formatAmount(float64(row.Target), row.Mode))
	return style.Render(line)
}

func formatAmount(v float64, mode models.Mode) string {
	if mode.IsCount() {
		return fmt.Sprintf("%g×", v)
	}
	return fmt.Sprintf("%gm", v)
}

func renderBar(percent, width int) string {
	filled := percent * width / 100
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (m *Model) scoreLine() string {
	settings := m.engine.State().Settings()

	parts := []string{fmt.Sprintf("Plan %d", m.data.PlanScore)}
	credit := fmt.Sprintf("Credit %d", m.data.CreditScore)
	if m.data.Credit.CreditsEarned > 0 {
		credit += fmt.Sprintf(" (+%.0fm earned)", m.data.Credit.CreditsEarned)
	}
	parts = append(parts, creditStyle.Render(credit))
	if settings.NetScoreEnabled {
		parts = append(parts, fmt.Sprintf("Net %d", m.data.NetScore))
	}

	return strings.Join(parts, "   ")
}

func (m *Model) historyView() string {
	if len(m.summaries) == 0 {
		width := m.width - 4
		if width < 40 {
			width = 76
		}
		return panelStyle.Width(width).Render(mutedStyle.Render("No closed days yet."))
	}

	met := 0
	for _, sum := range m.summaries {
		if sum.Label == models.LabelMet {
			met++
		}
	}
	footer := mutedStyle.Render(fmt.Sprintf("%d/%d days met in the last %d", met, len(m.summaries), historyDays))

	width := m.width - 4
	if width < 40 {
		width = 76
	}
	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, m.chart.View(), "", footer))
}

// Run starts the TUI and blocks until it exits.
func Run(engine *schedule.Engine) error {
	p := tea.NewProgram(New(engine), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Package tui provides a Bubble Tea TUI for browsing study time and task logs.
package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/fakeyudi/studylapse/internal/app"
	"github.com/fakeyudi/studylapse/internal/report"
	"github.com/fakeyudi/studylapse/internal/studytime"
	"github.com/fakeyudi/studylapse/internal/tasklog"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	openStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	// Bar colors cycle per task in the Hours chart.
	barColors = []string{"86", "205", "214", "39", "141", "82", "196"}
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabSessions
	tabHours
	tabTasks
	tabHistory
	tabCount
)

var tabNames = [tabCount]string{
	"Summary", "Sessions", "Hours", "Tasks", "History",
}

// ── Data ────────────────────

// Snapshot is everything the viewer shows for one date.
type Snapshot struct {
	Date     string
	Status   app.Status
	Sessions []tasklog.Session
	Report   *report.DailyReport // nil when the date has no closed sessions
	Tasks    []app.TaskTotal
	History  studytime.Daily
}

// Loader produces a Snapshot for a date (YYYY-MM-DD).
type Loader func(date string) Snapshot

// ControllerLoader returns a Loader backed by c.
func ControllerLoader(c *app.Controller) Loader {
	return func(date string) Snapshot {
		rep, _ := c.Report(date)
		return Snapshot{
			Date:     date,
			Status:   c.Status(),
			Sessions: c.DailyLog(date),
			Report:   rep,
			Tasks:    c.Tasks(),
			History:  c.History(),
		}
	}
}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	load      Loader
	data      Snapshot
	now       func() time.Time
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
}

// New creates a model showing date.
func New(load Loader, date string) Model {
	return Model{load: load, data: load(date), now: time.Now}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3", "4", "5":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "[":
			m.shiftDate(-1)
			return m, nil
		case "]":
			m.shiftDate(1)
			return m, nil
		case "r":
			m.data = m.load(m.data.Date)
			m.refreshViewports()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m *Model) shiftDate(days int) {
	d, err := time.ParseInLocation(tasklog.DateLayout, m.data.Date, time.Local)
	if err != nil {
		return
	}
	m.data = m.load(d.AddDate(0, 0, days).Format(tasklog.DateLayout))
	m.refreshViewports()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  studylapse  " + m.data.Date)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  [/] day  r reload  q quit"
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(hint + strings.Repeat(" ", pad) + pct)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

func (m *Model) refreshViewports() {
	if !m.ready {
		return
	}
	for i := tabID(0); i < tabCount; i++ {
		m.viewports[i].SetContent(m.renderTab(i))
		m.viewports[i].GotoTop()
	}
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabSessions:
		return m.renderSessions()
	case tabHours:
		return m.renderHours()
	case tabTasks:
		return m.renderTasks()
	case tabHistory:
		return m.renderHistory()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func (m *Model) renderSummary() string {
	st := m.data.Status
	var sb strings.Builder
	sb.WriteString(heading("Today"))

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-14s", label)) + "  " + value + "\n")
	}
	row("Day:", st.Day)
	row("Study time:", report.FormatSeconds(st.StudySeconds))
	if st.CurrentTask != "" {
		row("Current task:", openStyle.Render(st.CurrentTask))
		row("Started:", st.CurrentSince.Format("15:04:05")+dimStyle.Render(" ("+humanize.RelTime(st.CurrentSince, m.now(), "ago", "from now")+")"))
		row("Task total:", report.FormatSeconds(int64(st.TaskSeconds)))
	} else {
		row("Current task:", dimStyle.Render("(none)"))
	}
	if st.Compiling {
		row("Video:", "compiling…")
	}

	sb.WriteString(heading("Selected day " + m.data.Date))
	row("Sessions:", fmt.Sprintf("%d", len(m.data.Sessions)))
	if m.data.Report != nil {
		row("Task hours:", fmt.Sprintf("%.2f", m.data.Report.TotalHours))
		row("Study time:", report.FormatSeconds(m.data.Report.StudySeconds))
	} else {
		row("Task hours:", dimStyle.Render("no completed sessions"))
		row("Study time:", report.FormatSeconds(m.data.History[m.data.Date]))
	}
	return sb.String()
}

func (m *Model) renderSessions() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Sessions (%d)", len(m.data.Sessions))))
	if len(m.data.Sessions) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for _, s := range m.data.Sessions {
		start := timeStyle.Render(s.StartTime.Format("15:04:05"))
		var end, dur string
		if s.Open() {
			end = openStyle.Render("running ")
			dur = dimStyle.Render("   --   ")
		} else {
			end = timeStyle.Render(s.EndTime.Format("15:04:05"))
			dur = report.FormatSeconds(int64(s.Duration().Seconds()))
		}
		sb.WriteString(fmt.Sprintf("  %s → %s  %s  %s\n", start, end, dur, s.TaskName))
	}
	return sb.String()
}

func (m *Model) renderHours() string {
	var sb strings.Builder
	sb.WriteString(heading("Hours per task " + m.data.Date))
	rep := m.data.Report
	if rep == nil {
		sb.WriteString(dimStyle.Render("  No completed sessions for this day, nothing to chart.") + "\n")
		return sb.String()
	}

	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}
	chart := barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for i, row := range rep.Rows {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(barColors[i%len(barColors)]))
		bars = append(bars, barchart.BarData{
			Label:  truncate(row.Task, 10),
			Values: []barchart.BarValue{{Name: row.Task, Value: row.Hours, Style: style}},
		})
	}
	chart.PushAll(bars)
	chart.Draw()
	sb.WriteString(chart.View() + "\n\n")

	sb.WriteString(dimStyle.Render(fmt.Sprintf("  %-24s %8s %9s", "Task", "Hours", "Sessions")) + "\n")
	for _, row := range rep.Rows {
		sb.WriteString(fmt.Sprintf("  %-24s %8.2f %9d\n", truncate(row.Task, 24), row.Hours, row.Sessions))
	}
	sb.WriteString(fmt.Sprintf("\n  %-24s %8.2f\n", "Total", rep.TotalHours))
	return sb.String()
}

func (m *Model) renderTasks() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("All tasks (%d)", len(m.data.Tasks))))
	if len(m.data.Tasks) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for _, t := range m.data.Tasks {
		name := t.Name
		if t.Name == m.data.Status.CurrentTask {
			name = openStyle.Render(name + " ●")
		}
		sb.WriteString(fmt.Sprintf("  %s  %s\n", report.FormatSeconds(int64(t.Seconds)), name))
	}
	return sb.String()
}

func (m *Model) renderHistory() string {
	var sb strings.Builder
	days := make([]string, 0, len(m.data.History))
	for d := range m.data.History {
		days = append(days, d)
	}
	slices.Sort(days)
	slices.Reverse(days)

	sb.WriteString(heading(fmt.Sprintf("Study time history (%d days)", len(days))))
	if len(days) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for _, d := range days {
		line := fmt.Sprintf("  %s  %s", d, report.FormatSeconds(m.data.History[d]))
		if d == m.data.Date {
			line = labelStyle.Render(line)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Run starts the TUI for date.
func Run(load Loader, date string) error {
	p := tea.NewProgram(New(load, date), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

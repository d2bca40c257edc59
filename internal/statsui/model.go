// Package statsui provides the Bubble Tea dashboard.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/fitline/internal/calday"
	"github.com/verte-zerg/fitline/internal/daily"
	"github.com/verte-zerg/fitline/internal/model"
	"github.com/verte-zerg/fitline/internal/stats"
)

const (
	tabOverview = iota
	tabBreakdown
	tabTimeline
)

const (
	plotHeight = 10
	barWidth   = 30
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Settings are the report options the dashboard can change at runtime.
type Settings struct {
	Options     stats.Options
	CurveWindow int
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	src      stats.Source
	settings Settings

	report stats.Report
	errMsg string

	tabs           []string
	activeTab      int
	viewports      []viewport.Model
	dayTable       table.Model
	dayTableLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

type tableLayout struct {
	width  int
	height int
}

// NewModel constructs a dashboard model and computes the first report.
func NewModel(src stats.Source, settings Settings) *Model {
	if settings.CurveWindow < 1 {
		settings.CurveWindow = 1
	}
	m := &Model{
		src:      src,
		settings: settings,
		tabs:     []string{"Overview", "Breakdown", "Timeline"},
	}
	m.initInputs()
	m.dayTable = buildDayTable(nil, 0, 1)
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.settings.CurveWindow = nextCurveWindow(m.settings.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "-":
			m.settings.CurveWindow = prevCurveWindow(m.settings.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "r":
			m.refreshReport()
			m.updateLayout()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabTimeline {
				m.dayTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabTimeline {
				m.dayTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabTimeline {
				var cmd tea.Cmd
				m.dayTable, cmd = m.dayTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Start (YYYY-MM-DD): "),
		newFilterInput("Events (first/all): "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromSettings()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromSettings() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[0].SetValue(m.settings.Options.Timeline.Start.String())
	m.filterInputs[1].SetValue(string(m.settings.Options.Timeline.EventMerge))
	m.filterInputs[2].SetValue(strconv.Itoa(m.settings.CurveWindow))
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setDayTableSize(m.width, vpHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabTimeline {
		m.dayTable.Focus()
	} else {
		m.dayTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderSettingsSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderSettingsSummary() string {
	opts := m.settings.Options
	tz := "local"
	if opts.Timeline.Location != nil {
		tz = opts.Timeline.Location.String()
	}
	summary := fmt.Sprintf("Settings: start=%s  tz=%s  events=%s  window=%d",
		opts.Timeline.Start, tz, opts.Timeline.EventMerge, m.settings.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Reload: r  Quit: q")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: ctrl+c")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabTimeline && m.errMsg == "" {
		if len(m.report.Timeline) == 0 {
			return fitLines("No days found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.dayTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.src, m.settings.Options)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load report.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.applyDayTable(width, bodyHeight)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 || m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.settings.CurveWindow, width))
	m.viewports[tabBreakdown].SetContent(renderBreakdown(m.report.Breakdown, width))
}

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Timeline) == 0 {
		return "No data found."
	}
	parts := []string{renderSummaryCards(report.Timeline, report.Summary, width)}
	var buf bytes.Buffer
	if err := stats.RenderPauseStrip(&buf, report.Timeline, max(width-2, 10)); err == nil {
		parts = append(parts, strings.TrimRight(buf.String(), "\n"))
	}
	buf.Reset()
	if err := stats.RenderStepStrip(&buf, report.Timeline, max(width-2, 10)); err == nil {
		parts = append(parts, strings.TrimRight(buf.String(), "\n"))
	}
	parts = append(parts, renderCurves(report.Timeline, window, width))
	return strings.TrimRight(strings.Join(parts, "\n\n"), "\n")
}

func renderSummaryCards(entries []model.TimelineEntry, summary model.Summary, width int) string {
	top := "-"
	if best := stats.TopActivities(entries, 1); len(best) > 0 {
		top = fmt.Sprintf("%s (%dd)", stats.Humanize(best[0].Key), best[0].Days)
	}
	cards := []string{
		metricCard("Days", fmt.Sprintf("%d", len(entries))),
		metricCard("Active", fmt.Sprintf("%d", summary.ActiveDays)),
		metricCard("Pause", fmt.Sprintf("%d", summary.PauseDays)),
		metricCard("Training", fmt.Sprintf("%.1f h", summary.TotalTrainingHours)),
		metricCard("Distance", fmt.Sprintf("%.1f km", summary.TotalDistanceKm)),
		metricCard("Top activity", top),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(entries []model.TimelineEntry, window, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, entries, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// renderBreakdown draws one coloured bar per activity, scaled to the largest total.
func renderBreakdown(entries []model.BreakdownEntry, width int) string {
	if len(entries) == 0 {
		return "No activity calories found."
	}
	labelWidth := 0
	for _, e := range entries {
		labelWidth = max(labelWidth, lipgloss.Width(e.Label))
	}
	bars := min(barWidth, max(width-labelWidth-20, 5))
	top := entries[0].TotalCalories
	lines := []string{cardValueStyle.Render("Calories by Activity"), ""}
	for _, e := range entries {
		n := 0
		if top > 0 {
			n = max(e.TotalCalories*bars/top, 1)
		}
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render(strings.Repeat("█", n))
		label := padLine(e.Label, labelWidth)
		lines = append(lines, fmt.Sprintf("%s  %s%s  %6d kcal  %sk", label, bar, strings.Repeat(" ", bars-n), e.TotalCalories, e.TotalCaloriesK))
	}
	return strings.Join(lines, "\n")
}

func buildDayTable(entries []model.TimelineEntry, width, height int) table.Model {
	cols, rows := buildDayTableData(entries)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(dayTableStyles())
	return t
}

func buildDayTableData(entries []model.TimelineEntry) ([]table.Column, []table.Row) {
	headers, cells := stats.TimelineRows(entries)
	widths := []int{10, 7, 8, 9, 18, 18}
	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		columns[i] = table.Column{Title: h, Width: widths[i]}
	}
	rows := make([]table.Row, len(cells))
	for i, c := range cells {
		rows[i] = table.Row(c)
	}
	return columns, rows
}

func (m *Model) applyDayTable(width, height int) {
	cols, rows := buildDayTableData(m.report.Timeline)
	m.dayTable.SetColumns(cols)
	m.dayTable.SetRows(rows)
	m.dayTableLayout.width = 0
	m.setDayTableSize(width, height)
}

func (m *Model) setDayTableSize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.dayTableLayout.width == width && m.dayTableLayout.height == viewportHeight {
		return
	}
	m.dayTableLayout.width = width
	m.dayTableLayout.height = viewportHeight
	m.dayTable.SetWidth(width)
	m.dayTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustDayTableHeight(height)
	if m.dayTableLayout.height != viewportHeight {
		m.dayTableLayout.height = viewportHeight
		m.dayTable.SetHeight(viewportHeight)
	}
}

func dayTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// adjustDayTableHeight corrects for the header border, which the table
// does not count in its height.
func (m *Model) adjustDayTableHeight(bodyHeight int) int {
	target := max(1, bodyHeight)
	height := m.dayTable.Height()
	for range 2 {
		viewHeight := lipgloss.Height(m.dayTable.View())
		if viewHeight == target {
			return height
		}
		height = max(height+target-viewHeight, 1)
		m.dayTable.SetHeight(height)
	}
	return height
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromSettings()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	start, err := calday.Parse(strings.TrimSpace(m.filterInputs[0].Value()))
	if err != nil {
		return fmt.Errorf("invalid start date (expected YYYY-MM-DD)")
	}
	merge, err := daily.ParseEventMerge(strings.TrimSpace(m.filterInputs[1].Value()))
	if err != nil {
		return fmt.Errorf("invalid event policy (use first or all)")
	}
	window, err := strconv.Atoi(strings.TrimSpace(m.filterInputs[2].Value()))
	if err != nil || window < 1 {
		return fmt.Errorf("invalid curve window (use integer >= 1)")
	}
	m.settings.Options.Timeline.Start = start
	m.settings.Options.Timeline.EventMerge = merge
	m.settings.CurveWindow = window
	return nil
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

package tui

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/mindsgn-studio/passrate/metrics"
	"github.com/mindsgn-studio/passrate/report"
)

const (
	description = "Enter test results for both Smoke Tests and End to End Tests to generate visualizations."

	// Large enough for realistic suites, small enough to never overflow int.
	countCharLimit = 9

	columnWidth = 44
)

// fieldKind distinguishes the passed and failed input of a suite.
type fieldKind int

const (
	fieldPassed fieldKind = iota
	fieldFailed
)

// field is one numeric input of the dashboard.
type field struct {
	suite metrics.Suite
	kind  fieldKind
	input textinput.Model
	err   error
}

func (f field) label() string {
	if f.kind == fieldPassed {
		return "Passed " + f.suite.String()
	}
	return "Failed " + f.suite.String()
}

// Field order: smoke passed, smoke failed, e2e passed, e2e failed.
const numFields = 4

// Model is the main TUI model
type Model struct {
	title string

	fields   [numFields]field
	focusIdx int

	// Recomputed from scratch on every input change.
	report report.Report

	passBar progress.Model

	// Window size
	width  int
	height int

	statusMsg   string
	statusStyle lipgloss.Style

	log    logrus.FieldLogger
	styles Styles
}

// Styles contains all lipgloss styles
type Styles struct {
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Heading    lipgloss.Style
	Label      lipgloss.Style
	Input      lipgloss.Style
	InputFocus lipgloss.Style
	Metric     lipgloss.Style
	Passed     lipgloss.Style
	Failed     lipgloss.Style
	Error      lipgloss.Style
	Help       lipgloss.Style
	Footer     lipgloss.Style
}

func defaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")),
		Heading: lipgloss.NewStyle().
			Bold(true).
			MarginTop(1),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#333333")),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#888888")).
			Padding(0, 1).
			Width(columnWidth - 4),
		InputFocus: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Width(columnWidth - 4),
		Metric: lipgloss.NewStyle().
			Background(lipgloss.Color("#f0f2f6")).
			Foreground(lipgloss.Color("#000000")).
			Padding(0, 1).
			Width(columnWidth - 2),
		Passed: lipgloss.NewStyle().
			Foreground(lipgloss.Color(report.PassedColor)),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color(report.FailedColor)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")),
	}
}

// NewModel creates a dashboard with the given starting counts.
func NewModel(title string, smoke, e2e metrics.Counts, log logrus.FieldLogger) Model {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	m := Model{
		title:   title,
		passBar: progress.New(progress.WithSolidFill(report.PassedColor), progress.WithWidth(columnWidth-10)),
		log:     log,
		styles:  defaultStyles(),
	}

	initial := [numFields]int{smoke.Passed, smoke.Failed, e2e.Passed, e2e.Failed}
	for i := range m.fields {
		suite := metrics.Smoke
		if i >= 2 {
			suite = metrics.EndToEnd
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = "0"
		ti.CharLimit = countCharLimit
		ti.Width = columnWidth - 8
		if n := metrics.Clamp(initial[i]); n > 0 {
			ti.SetValue(strconv.Itoa(n))
		}
		m.fields[i] = field{suite: suite, kind: fieldKind(i % 2), input: ti}
	}
	m.fields[0].input.Focus()
	m.recompute()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Report returns the report for the current field values.
func (m Model) Report() report.Report {
	return m.report
}

// Counts returns the parsed inputs for both suites.
func (m Model) Counts() (smoke, e2e metrics.Counts) {
	v := m.values()
	return metrics.Counts{Passed: v[0], Failed: v[1]}, metrics.Counts{Passed: v[2], Failed: v[3]}
}

// Focused returns the index of the focused field.
func (m Model) Focused() int {
	return m.focusIdx
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	// Cursor blink and other component messages
	var cmd tea.Cmd
	m.fields[m.focusIdx].input, cmd = m.fields[m.focusIdx].input.Update(msg)
	return m, cmd
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "tab", "enter", "shift+tab":
		delta := 1
		if msg.String() == "shift+tab" {
			delta = -1
		}
		return m, m.setFocus((m.focusIdx + delta + numFields) % numFields)

	case "up", "+":
		m.step(1)
		return m, nil

	case "down", "-":
		m.step(-1)
		return m, nil

	case "ctrl+r":
		for i := range m.fields {
			m.fields[i].input.SetValue("")
		}
		m.recompute()
		m.statusMsg = "Reset all fields"
		m.statusStyle = m.styles.Subtitle
		return m, nil
	}

	if msg.Type == tea.KeyRunes {
		// Counts are whole non-negative numbers; drop everything else.
		var digits []rune
		for _, r := range msg.Runes {
			if r >= '0' && r <= '9' {
				digits = append(digits, r)
			}
		}
		if len(digits) == 0 {
			return m, nil
		}
		msg.Runes = digits
	}

	var cmd tea.Cmd
	m.fields[m.focusIdx].input, cmd = m.fields[m.focusIdx].input.Update(msg)
	m.recompute()
	return m, cmd
}

func (m *Model) setFocus(idx int) tea.Cmd {
	m.fields[m.focusIdx].input.Blur()
	m.focusIdx = idx
	return m.fields[m.focusIdx].input.Focus()
}

// step moves the focused count by delta, never below zero.
func (m *Model) step(delta int) {
	f := &m.fields[m.focusIdx]
	n, err := metrics.ParseCount(f.input.Value())
	if err != nil {
		n = 0
	}
	n = metrics.Clamp(n + delta)
	if n == 0 {
		f.input.SetValue("")
	} else {
		f.input.SetValue(strconv.Itoa(n))
	}
	f.input.CursorEnd()
	m.recompute()
}

func (m Model) values() [numFields]int {
	var out [numFields]int
	for i, f := range m.fields {
		n, err := metrics.ParseCount(f.input.Value())
		if err == nil {
			out[i] = n
		}
	}
	return out
}

// recompute rebuilds the report from the current field values.
func (m *Model) recompute() {
	m.statusMsg = ""
	for i := range m.fields {
		_, err := metrics.ParseCount(m.fields[i].input.Value())
		m.fields[i].err = err
		if err != nil {
			m.statusMsg = m.fields[i].label() + ": " + err.Error()
			m.statusStyle = m.styles.Error
		}
	}
	smoke, e2e := m.Counts()
	m.report = report.Build(smoke, e2e)
	m.log.WithFields(logrus.Fields{
		"smoke_passed": smoke.Passed,
		"smoke_failed": smoke.Failed,
		"e2e_passed":   e2e.Passed,
		"e2e_failed":   e2e.Failed,
		"sections":     len(m.report.Sections),
	}).Debug("Recomputed report")
}

// View renders the UI
func (m Model) View() string {
	title := m.styles.Title.Render(m.title)
	subtitle := m.styles.Subtitle.Render(description)

	inputs := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderSuiteInputs(metrics.Smoke),
		"  ",
		m.renderSuiteInputs(metrics.EndToEnd),
	)

	parts := []string{title, subtitle, "", inputs}
	if m.report.HasData() {
		parts = append(parts, m.renderReport())
	}

	if m.statusMsg != "" {
		parts = append(parts, "", m.statusStyle.Render(m.statusMsg))
	}

	rule := strings.Repeat("─", 2*columnWidth+2)
	parts = append(parts,
		"",
		m.styles.Footer.Render(rule),
		m.styles.Help.Render("[tab] Next field  [↑/+] Increment  [↓/-] Decrement  [ctrl+r] Reset  [esc] Quit"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderSuiteInputs renders the passed/failed inputs of one suite as a column.
func (m Model) renderSuiteInputs(s metrics.Suite) string {
	rows := []string{m.styles.Heading.Render(s.String())}
	for i, f := range m.fields {
		if f.suite != s {
			continue
		}
		box := m.styles.Input
		if i == m.focusIdx {
			box = m.styles.InputFocus
		}
		rows = append(rows, m.styles.Label.Render(f.label()), box.Render(f.input.View()))
		if f.err != nil {
			rows = append(rows, m.styles.Error.Render(f.err.Error()))
		}
	}
	return lipgloss.NewStyle().Width(columnWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderReport renders the metric blocks and ring charts of every suite with data.
func (m Model) renderReport() string {
	metricCols := make([]string, 0, len(metrics.Suites))
	chartCols := make([]string, 0, len(metrics.Suites))
	for _, s := range metrics.Suites {
		col := lipgloss.NewStyle().Width(columnWidth)
		sec, ok := m.report.Section(s)
		if !ok {
			metricCols = append(metricCols, col.Render(""))
			chartCols = append(chartCols, col.Render(""))
			continue
		}
		metricCols = append(metricCols, col.Render(m.renderMetrics(sec)))
		chartCols = append(chartCols, col.Render(m.renderChart(sec)))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.styles.Heading.Render(m.report.Title),
		lipgloss.JoinHorizontal(lipgloss.Top, metricCols[0], "  ", metricCols[1]),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, chartCols[0], "  ", chartCols[1]),
	)
}

func (m Model) renderMetrics(sec report.Section) string {
	lines := sec.Lines()
	for i := range lines {
		lines[i] = "• " + lines[i]
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(sec.Name),
		m.styles.Metric.Render(strings.Join(lines, "\n")),
	)
}

func (m Model) renderChart(sec report.Section) string {
	legend := m.styles.Passed.Render("■") + " " + report.PassedLabel + "  " +
		m.styles.Failed.Render("■") + " " + report.FailedLabel

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(sec.Chart.Title),
		legend,
		renderRing(sec.Chart, ringRadius, m.styles.Passed, m.styles.Failed),
		m.passBar.ViewAs(sec.Result.PassRate/100),
	)
}

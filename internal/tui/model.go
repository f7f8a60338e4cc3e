// Package tui provides the Bubble Tea evaluation interface.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/settei/internal/model"
	"github.com/verte-zerg/settei/internal/report"
	"github.com/verte-zerg/settei/internal/stats"
)

const (
	inputSpins = iota
	inputHits
)

const (
	noFocus      = -1
	cardWidth    = 38
	minCardsWide = 2*cardWidth + 4
)

var spinSteps = map[string]int{"s": 50, "S": 100, "d": 500, "D": 1000}

var hitSteps = map[string]int{"h": 1, "j": 5, "k": 10, "l": 20}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A9BDC")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	starStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Width(cardWidth).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	shareStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A9BDC"))
)

var settingPalette = []lipgloss.Color{"#7A7A7A", "#4A4A4A", "#F0C419", "#FF9F43", "#FF6B6B", "#B07CFF"}

// Model implements the Bubble Tea evaluation UI. Counts live only in the model.
type Model struct {
	builder *report.Builder

	spins  int
	hits   int
	report model.Report

	inputs    []textinput.Model
	focus     int
	inputErr  string
	showShare bool
	shared    bool

	width  int
	height int
}

// NewModel constructs an evaluation TUI starting from the given counts.
func NewModel(b *report.Builder, spins, hits int) *Model {
	m := &Model{builder: b, focus: noFocus}
	m.inputs = []textinput.Model{newCountInput("spins"), newCountInput("hits")}
	m.setCounts(spins, hits)
	return m
}

func newCountInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 7
	in.Width = 8
	return in
}

// Report returns the evaluation for the current counts.
func (m *Model) Report() model.Report {
	return m.report
}

// ShareRequested reports whether the user asked to print the share text on exit.
func (m *Model) ShareRequested() bool {
	return m.shared
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
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.focus != noFocus {
			return m.updateInput(msg)
		}
		return m.updateCounters(msg)
	default:
		return m, nil
	}
}

func (m *Model) updateCounters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if step, ok := spinSteps[key]; ok {
		m.setCounts(m.spins+step, m.hits)
		return m, nil
	}
	if step, ok := hitSteps[key]; ok {
		m.setCounts(m.spins, m.hits+step)
		return m, nil
	}
	switch key {
	case "q":
		return m, tea.Quit
	case "x":
		m.setCounts(m.spins, m.hits-1)
	case "r":
		m.setCounts(0, 0)
	case "y":
		m.showShare = !m.showShare
	case "p":
		m.shared = true
		return m, tea.Quit
	case "tab", "enter":
		return m, m.focusInput(inputSpins)
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.blurInputs()
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		return m, m.focusInput(1 - m.focus)
	case tea.KeyEnter:
		m.applyInputs()
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusInput(idx int) tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = idx
	m.inputErr = ""
	m.inputs[idx].CursorEnd()
	return m.inputs[idx].Focus()
}

func (m *Model) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = noFocus
}

func (m *Model) applyInputs() {
	spins, err := parseCount(m.inputs[inputSpins].Value(), m.spins)
	if err != nil {
		m.inputErr = fmt.Sprintf("spins: %v", err)
		return
	}
	hits, err := parseCount(m.inputs[inputHits].Value(), m.hits)
	if err != nil {
		m.inputErr = fmt.Sprintf("hits: %v", err)
		return
	}
	m.setCounts(spins, hits)
	m.blurInputs()
}

func parseCount(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("must be >= 0")
	}
	return n, nil
}

func (m *Model) setCounts(spins, hits int) {
	if spins < 0 {
		spins = 0
	}
	if hits < 0 {
		hits = 0
	}
	m.spins = spins
	m.hits = hits
	m.inputs[inputSpins].SetValue(strconv.Itoa(spins))
	m.inputs[inputHits].SetValue(strconv.Itoa(hits))
	m.report = m.builder.Evaluate(spins, hits)
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{
		titleStyle.Render("Setting estimator"),
		m.renderInputs(),
		m.renderCards(),
		labelStyle.Render("Observed rate ") + valueStyle.Render(m.report.ObservedRate.String()),
		m.renderPosterior(),
	}
	if m.showShare {
		sections = append(sections, shareStyle.Render(m.report.Share))
	}
	sections = append(sections, m.renderFooter())
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, content)
}

func (m *Model) renderInputs() string {
	line := fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("Spins (G)"), m.inputs[inputSpins].View(),
		labelStyle.Render("Hits"), m.inputs[inputHits].View())
	if m.inputErr != "" {
		line += "  " + errorStyle.Render(m.inputErr)
	}
	return line
}

func (m *Model) renderCards() string {
	broad := renderCard(m.report.Broad)
	narrow := renderCard(m.report.Narrow)
	if m.width > 0 && m.width < minCardsWide {
		return lipgloss.JoinVertical(lipgloss.Left, broad, narrow)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, broad, narrow)
}

func renderCard(g model.GoalResult) string {
	lines := []string{
		labelStyle.Render(g.Goal.Label + " chance"),
		valueStyle.Render(fmt.Sprintf("%.1f%%", g.Probability*100)) + "  " + starStyle.Render(g.Rating.String()),
		g.Comment,
	}
	if g.Note != "" {
		lines = append(lines, noteStyle.Render(g.Note))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPosterior() string {
	rows := make([]string, 0, len(m.report.Settings)+1)
	rows = append(rows, labelStyle.Render("Posterior by setting"))
	for i, s := range m.report.Settings {
		p := m.report.Posterior[s.Name]
		bar := lipgloss.NewStyle().Foreground(settingPalette[i%len(settingPalette)]).Render(stats.Bar(p, stats.DefaultBarSize))
		rows = append(rows, fmt.Sprintf("%-3s %s %5.1f%%", s.Name, bar, p*100))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderFooter() string {
	if m.focus != noFocus {
		return footerStyle.Render("enter apply  tab switch  esc cancel")
	}
	segments := []string{
		"s/S +50/+100",
		"d/D +500/+1000",
		"h/j/k/l +1/+5/+10/+20 hits",
		"x -1 hit",
		"tab edit",
		"r reset",
		"y share",
		"p print & quit",
		"q quit",
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

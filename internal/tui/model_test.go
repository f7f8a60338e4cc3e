package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/settei/internal/config"
	"github.com/verte-zerg/settei/internal/report"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	b, err := report.NewBuilder(config.DefaultMachine())
	require.NoError(t, err)
	return NewModel(b, 0, 0)
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func TestCounterKeys(t *testing.T) {
	m := newTestModel(t)
	press(m, "s", "S", "d", "D", "h", "j", "k", "l")
	assert.Equal(t, 1650, m.spins)
	assert.Equal(t, 36, m.hits)
	assert.Equal(t, 1650, m.Report().Observation.Spins)
}

func TestCountsNeverNegative(t *testing.T) {
	m := newTestModel(t)
	press(m, "x", "x")
	assert.Equal(t, 0, m.hits)
	press(m, "h", "h", "x")
	assert.Equal(t, 1, m.hits)
}

func TestReset(t *testing.T) {
	m := newTestModel(t)
	press(m, "D", "l", "r")
	assert.Equal(t, 0, m.spins)
	assert.Equal(t, 0, m.hits)
	assert.False(t, m.Report().ObservedRate.Valid)
}

func TestDirectEntry(t *testing.T) {
	m := newTestModel(t)
	press(m, "tab", "backspace", "1", "0", "0", "0", "tab", "backspace", "3", "5", "enter")
	assert.Equal(t, noFocus, m.focus)
	assert.Equal(t, 1000, m.spins)
	assert.Equal(t, 35, m.hits)
	assert.Equal(t, "1/28.6", m.Report().ObservedRate.String())
}

func TestDirectEntryRejectsGarbage(t *testing.T) {
	m := newTestModel(t)
	m.focusInput(inputSpins)
	m.inputs[inputSpins].SetValue("-5")
	press(m, "enter")
	assert.NotEmpty(t, m.inputErr)
	assert.Equal(t, 0, m.spins)

	press(m, "esc")
	assert.Equal(t, noFocus, m.focus)
}

func TestViewShowsReport(t *testing.T) {
	m := newTestModel(t)
	press(m, "D", "l", "l", "k", "j")
	press(m, "y")
	out := m.View()
	for _, want := range []string{"456 chance", "56 chance", "Posterior by setting", "Observed rate", "Total spins: 1000G", "Hits: 55"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderFooterSwitchesWithFocus(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.renderFooter(), "r reset")
	m.focusInput(inputHits)
	assert.Contains(t, m.renderFooter(), "enter apply")
}

func TestPrintAndQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	assert.True(t, m.ShareRequested())
	assert.NotNil(t, cmd)
}

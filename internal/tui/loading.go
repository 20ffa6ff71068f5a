package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 120 * time.Millisecond

// spinnerFrame selects a frame from the current time so it animates on
// re-render.
func spinnerFrame() string {
	return spinnerFrames[time.Now().UnixMilli()/spinnerInterval.Milliseconds()%int64(len(spinnerFrames))]
}

// renderLoadingPlaceholder renders an animated loading indicator.
func renderLoadingPlaceholder(label string, width, height int) string {
	loadingStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	text := loadingStyle.Render(spinnerFrame() + " " + label)
	if width <= 0 || height <= 0 {
		return text
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}

// SpinnerTickMsg triggers a re-render for loading spinners.
type SpinnerTickMsg struct{}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(_ time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}

// handleSpinnerTick re-schedules spinner ticks while any slot is loading.
func (m *Dashboard) handleSpinnerTick() tea.Cmd {
	if m.anyLoading() {
		return spinnerTick()
	}
	m.spinning = false
	return nil
}

// startSpinnerIfNeeded schedules a spinner tick if a slot is loading and no
// tick chain is already running.
func (m *Dashboard) startSpinnerIfNeeded() tea.Cmd {
	if m.spinning || !m.anyLoading() {
		return nil
	}
	m.spinning = true
	return spinnerTick()
}

func (m *Dashboard) anyLoading() bool {
	return m.race.State().Loading() ||
		m.championship.State().Loading() ||
		m.ratings.State().Loading() ||
		m.backtest.State().Loading() ||
		m.health.State().Loading()
}

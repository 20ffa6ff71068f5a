package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/pitwall/internal/fetch"
	"github.com/tinytelemetry/pitwall/internal/model"
	"github.com/tinytelemetry/pitwall/internal/query"
)

const (
	minWidth  = 60
	minHeight = 20

	// splitWidth is the width from which panels sit side by side.
	splitWidth = 110
)

var tabTitles = map[query.Tab]string{
	query.TabRace:         "Race",
	query.TabChampionship: "Championship",
	query.TabAnalysis:     "Analysis",
}

// View renders the dashboard.
func (m *Dashboard) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing dashboard..."
	}
	if m.width < minWidth || m.height < minHeight {
		return fmt.Sprintf("Terminal too small. Resize to at least %dx%d.", minWidth, minHeight)
	}

	header := m.renderHeader()
	status := m.renderStatusLine()
	helpView := m.help.View(m.keys)

	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(status)-lipgloss.Height(helpView), 1)

	var body string
	switch m.state.Tab {
	case query.TabChampionship:
		body = m.scrollBody(m.renderChampionship(m.width), bodyHeight)
	case query.TabAnalysis:
		body = m.scrollBody(m.renderAnalysis(m.width), bodyHeight)
	default:
		body = m.renderRace(m.width, bodyHeight)
	}
	body = lipgloss.NewStyle().Width(m.width).Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, helpView)
}

// scrollBody shows content through the viewport so long tabs can scroll.
func (m *Dashboard) scrollBody(content string, height int) string {
	m.viewport.Width = m.width
	m.viewport.Height = height
	m.viewport.SetContent(content)
	return m.viewport.View()
}

func (m *Dashboard) renderHeader() string {
	title := titleStyle.Render(fmt.Sprintf("PITWALL · %d F1 PREDICTIONS", m.seasonYear()))

	tabs := make([]string, 0, len(query.Tabs))
	for i, t := range query.Tabs {
		label := fmt.Sprintf("%d %s", i+1, tabTitles[t])
		if t == m.state.Tab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	rule := dimStyle.Render(strings.Repeat("─", m.width))
	return spread(title, row, m.width) + "\n" + rule
}

// renderStatusLine shows the shareable parameter set, backend health and the
// active tab's simulation count.
func (m *Dashboard) renderStatusLine() string {
	q := "(defaults)"
	if p := m.store.Params(); len(p) > 0 {
		q = "?" + p.String()
	}
	left := statusStyle.Render("view " + q)
	right := m.renderIterations() + "  " + m.renderHealth()
	return spread(left, right, m.width)
}

func (m *Dashboard) renderHealth() string {
	st := m.health.State()
	switch st.Phase() {
	case fetch.PhaseFailed:
		return lipgloss.NewStyle().Foreground(ColorRed).Render("● offline: " + truncate(st.Err(), 40))
	case fetch.PhaseReady:
		h, _ := st.Data()
		return lipgloss.NewStyle().Foreground(ColorGreen).Render("● ") +
			statusStyle.Render(fmt.Sprintf("api %s · %d · %d drivers · %d circuits", h.Version, h.Season, h.Drivers, h.Circuits))
	default:
		return statusStyle.Render(spinnerFrame() + " connecting")
	}
}

func (m *Dashboard) renderIterations() string {
	switch m.state.Tab {
	case query.TabChampionship:
		return statusStyle.Render(fmt.Sprintf("sims/race %d", m.championship.Iterations()))
	case query.TabAnalysis:
		return statusStyle.Render(fmt.Sprintf("backtest sims %d", m.backtest.Iterations()))
	default:
		return statusStyle.Render(fmt.Sprintf("sims %d", m.race.Iterations()))
	}
}

func (m *Dashboard) seasonYear() int {
	if m.season == nil {
		return model.DefaultSeason
	}
	return m.season.Year
}

// circuit returns the reference entry for round, or a bare placeholder.
func (m *Dashboard) circuit(round int) model.Circuit {
	if m.season != nil {
		if c, ok := m.season.Circuit(round); ok {
			return c
		}
	}
	return model.Circuit{Round: round, Name: fmt.Sprintf("Round %d", round)}
}

func (m *Dashboard) teamColor(team, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if m.season == nil {
		return ""
	}
	return m.season.TeamColor(team)
}

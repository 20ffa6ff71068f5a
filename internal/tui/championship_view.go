package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/pitwall/internal/fetch"
	"github.com/tinytelemetry/pitwall/internal/model"
)

func (m *Dashboard) renderChampionship(width int) string {
	st := m.championship.State()
	champ, ok := st.Data()
	if !ok {
		if st.Phase() == fetch.PhaseFailed {
			return failureBanner(st.Err(), "r to retry", width)
		}
		return renderLoadingPlaceholder("Simulating the season...", width, 8)
	}

	var notice string
	switch st.Phase() {
	case fetch.PhaseFailed:
		notice = failureBanner(st.Err(), "showing last result, r to retry", width)
	case fetch.PhaseLoading:
		notice = refreshingLine("re-simulating season...")
	default:
		notice = mutedStyle.Render(fmt.Sprintf("projected over %d races · %d simulations per race",
			champ.TotalRaces, champ.IterationsPerRace))
	}

	sections := []string{notice, "", m.renderPodium(champ.Standings, width), ""}

	if width >= splitWidth {
		left := width * 55 / 100
		drivers := m.renderDriverStandings(champ.Standings, left)
		constructors := m.renderConstructorStandings(champ.Constructors, width-left-2)
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, drivers, "  ", constructors))
	} else {
		sections = append(sections,
			m.renderDriverStandings(champ.Standings, width), "",
			m.renderConstructorStandings(champ.Constructors, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderPodium shows the projected top three as P2, P1, P3 steps.
func (m *Dashboard) renderPodium(standings []model.DriverStanding, width int) string {
	if len(standings) == 0 {
		return dimStyle.Render("no standings")
	}
	cardWidth := min(max(width/3-2, 14), 28)
	step := func(pos, height int) string {
		if pos > len(standings) {
			return ""
		}
		s := standings[pos-1]
		body := strings.Join([]string{
			mutedStyle.Render(fmt.Sprintf("P%d", pos)),
			teamStyle(m.teamColor(s.Team, s.TeamColor)).Bold(true).Render(s.Code),
			truncate(s.Name, cardWidth-2),
			valueStyle.Render(fmt.Sprintf("%.0f pts", s.ProjectedPts)),
		}, "\n")
		return cardStyle.Width(cardWidth).Height(height).Align(lipgloss.Center).Render(body)
	}
	podium := lipgloss.JoinHorizontal(lipgloss.Bottom, step(2, 5), step(1, 6), step(3, 4))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, podium)
}

func (m *Dashboard) renderDriverStandings(standings []model.DriverStanding, width int) string {
	lines := []string{sectionStyle.Render("Drivers' championship")}
	if len(standings) == 0 {
		return strings.Join(append(lines, dimStyle.Render("no standings")), "\n")
	}
	leader := max(standings[0].ProjectedPts, 1)
	nameWidth := max(min(width/3, 22), 8)
	barWidth := max(width-nameWidth-20, 4)

	for i, s := range standings {
		bullet := teamStyle(m.teamColor(s.Team, s.TeamColor)).Render("●")
		line := fmt.Sprintf("%2d %s %-3s %s %6.0f %s", i+1, bullet, s.Code, padRight(s.Name, nameWidth),
			s.ProjectedPts, bar(s.ProjectedPts/leader*100, barWidth, teamStyle(m.teamColor(s.Team, s.TeamColor))))
		lines = append(lines, truncate(line, width))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Dashboard) renderConstructorStandings(constructors []model.ConstructorStanding, width int) string {
	lines := []string{sectionStyle.Render("Constructors' championship")}
	if len(constructors) == 0 {
		return strings.Join(append(lines, dimStyle.Render("no standings")), "\n")
	}
	leader := max(constructors[0].TotalPts, 1)
	nameWidth := max(min(width/3, 16), 8)
	barWidth := max(width-nameWidth-24, 4)

	for i, c := range constructors {
		fill := teamStyle(m.teamColor(c.Team, c.TeamColor))
		line := fmt.Sprintf("%2d %s %s %s %6.0f %s", i+1, fill.Render("●"), padRight(c.Team, nameWidth),
			mutedStyle.Render(padRight(c.Engine, 8)), c.TotalPts, bar(c.TotalPts/leader*100, barWidth, fill))
		lines = append(lines, truncate(line, width))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/pitwall/internal/fetch"
	"github.com/tinytelemetry/pitwall/internal/model"
	"github.com/tinytelemetry/pitwall/internal/query"
)

// Overtaking scores at or beyond these mark a circuit as high or low.
const (
	overtakingHigh = 8
	overtakingLow  = 3
)

func (m *Dashboard) renderRace(width, height int) string {
	round := m.state.Round
	selector := m.renderRoundSelector(width)
	card := m.renderCircuitCard(width)
	top := lipgloss.JoinVertical(lipgloss.Left, selector, card)
	remaining := max(height-lipgloss.Height(top), 3)

	st := m.race.State()
	race, ok := m.currentRace()
	if !ok {
		if st.Phase() == fetch.PhaseFailed {
			return lipgloss.JoinVertical(lipgloss.Left, top, "",
				failureBanner(st.Err(), "r to retry", width))
		}
		return lipgloss.JoinVertical(lipgloss.Left, top,
			renderLoadingPlaceholder(fmt.Sprintf("Simulating round %d...", round), width, remaining))
	}

	var notice string
	switch st.Phase() {
	case fetch.PhaseFailed:
		notice = failureBanner(st.Err(), "showing last result, r to retry", width)
	case fetch.PhaseLoading:
		notice = refreshingLine("re-simulating...")
	default:
		notice = mutedStyle.Render(fmt.Sprintf("%d simulations", race.Iterations))
	}
	rows := max(remaining-2, 1)

	if width >= splitWidth {
		tableWidth := width * 55 / 100
		table := m.renderDriverTable(race, tableWidth, rows)
		detail := m.renderDriverDetail(width-tableWidth-2, rows)
		panels := lipgloss.JoinHorizontal(lipgloss.Top, table, "  ", detail)
		return lipgloss.JoinVertical(lipgloss.Left, top, notice, panels)
	}

	detail := ""
	if _, selected := m.selectedDriver(); selected {
		detail = m.renderDriverDetail(width, rows/2)
		rows -= lipgloss.Height(detail)
	}
	table := m.renderDriverTable(race, width, max(rows, 3))
	return lipgloss.JoinVertical(lipgloss.Left, top, notice, table, detail)
}

// renderRoundSelector shows a window of rounds around the selected one.
func (m *Dashboard) renderRoundSelector(width int) string {
	const pillWidth = 8
	round := m.state.Round
	n := max((width-4)/pillWidth, 1)
	start := max(1, min(round-n/2, query.MaxRound-n+1))
	end := min(start+n-1, query.MaxRound)

	pills := make([]string, 0, n)
	for r := start; r <= end; r++ {
		c := m.circuit(r)
		label := fmt.Sprintf("%02d %s", r, c.Short)
		if r == round {
			pills = append(pills, activePillStyle.Render(label))
		} else {
			pills = append(pills, pillStyle.Render(label))
		}
	}

	left, right := " ", " "
	if start > 1 {
		left = mutedStyle.Render("◀")
	}
	if end < query.MaxRound {
		right = mutedStyle.Render("▶")
	}
	return truncate(left+" "+strings.Join(pills, "  ")+" "+right, width)
}

func (m *Dashboard) renderCircuitCard(width int) string {
	c := m.circuit(m.state.Round)
	if race, ok := m.currentRace(); ok && race.Circuit.Name != "" {
		c = race.Circuit
	}

	marker := ""
	switch {
	case c.Overtaking >= overtakingHigh:
		marker = " " + lipgloss.NewStyle().Foreground(ColorGreen).Bold(true).Render("HIGH")
	case c.Overtaking > 0 && c.Overtaking <= overtakingLow:
		marker = " " + lipgloss.NewStyle().Foreground(ColorRed).Bold(true).Render("LOW")
	}

	name := valueStyle.Render(fmt.Sprintf("R%02d %s", c.Round, c.Name))
	if c.City != "" {
		name += mutedStyle.Render("  " + c.City)
	}
	facts := mutedStyle.Render(fmt.Sprintf("%s · %d laps · %d°C · overtaking %d/10", c.Type, c.Laps, c.Temp, c.Overtaking)) + marker
	if c.Laps == 0 {
		facts = ""
	}
	return spread(name, facts, width)
}

func (m *Dashboard) renderDriverTable(race model.RacePrediction, width, rows int) string {
	const fixed = 2 + 3 + 2 + 4 + 8 + 8 + 6 + 7
	nameWidth := max(width-fixed-12, 6)
	teamWidth := 12
	if width < 80 {
		teamWidth = 0
		nameWidth = max(width-fixed, 6)
	}

	header := fmt.Sprintf("  %2s   %-3s %s", "P", "DRV", padRight("NAME", nameWidth))
	if teamWidth > 0 {
		header += " " + padRight("TEAM", teamWidth-1)
	}
	header += fmt.Sprintf(" %7s %7s %5s %6s", "WIN", "POD", "EXP", "PTS")
	lines := []string{sectionStyle.Render(truncate(header, width))}

	visible := max(rows-1, 1)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(race.Results))

	for i := start; i < end; i++ {
		d := race.Results[i]
		mark := " "
		if i == m.cursor {
			mark = valueStyle.Render("▸")
		}
		code := fmt.Sprintf("%-3s", d.Code)
		if d.Code == m.state.Driver {
			code = activePillStyle.Render(code)
		} else {
			code = lipgloss.NewStyle().Bold(true).Render(code)
		}
		bullet := teamStyle(m.teamColor(d.Team, d.TeamColor)).Render("●")

		line := fmt.Sprintf("%s %2d %s %s %s", mark, i+1, bullet, code, padRight(d.Name, nameWidth))
		if teamWidth > 0 {
			line += " " + mutedStyle.Render(padRight(d.Team, teamWidth-1))
		}
		line += fmt.Sprintf(" %7s %7s %5.1f %6.1f", percent(d.WinPct), percent(d.PodiumPct), d.ExpectedPos, d.AvgPoints)
		lines = append(lines, truncate(line, width))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Dashboard) renderDriverDetail(width, height int) string {
	d, ok := m.selectedDriver()
	if !ok {
		return dimStyle.Render(truncate("enter selects a driver for details", width))
	}

	color := m.teamColor(d.Team, d.TeamColor)
	fill := teamStyle(color)
	head := fill.Render("● ") + valueStyle.Render(d.Name) +
		mutedStyle.Render(fmt.Sprintf("  #%d  %s", d.Number, d.Team))

	var tags []string
	if d.Rookie {
		tags = append(tags, pillStyle.Render("[ROOKIE]"))
	}
	if d.NewTeam {
		tags = append(tags, pillStyle.Render("[NEW TEAM]"))
	}
	if len(tags) > 0 {
		head += " " + strings.Join(tags, " ")
	}

	barWidth := max(width-18, 6)
	gauge := func(label string, pct float64) string {
		return fmt.Sprintf("%-7s %s %s", label, bar(pct, barWidth, fill), percent(pct))
	}
	lines := []string{
		truncate(head, width),
		"",
		gauge("Win", d.WinPct),
		gauge("Podium", d.PodiumPct),
		gauge("Points", d.PointsPct()),
		"",
		mutedStyle.Render(fmt.Sprintf("expected P%.1f · %.1f pts avg · driver %.1f · car %.1f",
			d.ExpectedPos, d.AvgPoints, d.DriverRating, d.CarRating)),
		sectionStyle.Render("Finishing positions"),
	}
	chartHeight := max(height-len(lines), 4)
	lines = append(lines, renderPositionHistogram(d.PosDistribution, color, width, chartHeight))
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

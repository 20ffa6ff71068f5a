package tui

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/pitwall/internal/fetch"
	"github.com/tinytelemetry/pitwall/internal/model"
)

var methodology = []string{
	"Each race is simulated independently. A driver's base score blends driver and car",
	"ratings, with the car weighted more on permanent circuits. Per-lap noise, circuit",
	"overtaking difficulty, heat and reliability risk for new teams and engines shape the",
	"finishing order. Championship points are averaged across every simulated season.",
}

func (m *Dashboard) renderAnalysis(width int) string {
	sections := []string{m.renderRatings(width), ""}
	if m.season != nil && len(m.season.Regulations) > 0 {
		sections = append(sections, sectionStyle.Render("2026 regulation changes"), m.renderRegulations(width), "")
	}
	sections = append(sections,
		m.renderBacktest(width), "",
		sectionStyle.Render("Methodology"),
		mutedStyle.Render(strings.Join(methodology, "\n")),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type rating struct {
	name  string
	value float64
	color string
}

// sortedRatings orders ratings by value, highest first, then by name.
func sortedRatings(values map[string]float64, color func(string) string) []rating {
	out := make([]rating, 0, len(values))
	for _, name := range slices.Sorted(maps.Keys(values)) {
		out = append(out, rating{name: name, value: values[name], color: color(name)})
	}
	slices.SortStableFunc(out, func(a, b rating) int { return cmp.Compare(b.value, a.value) })
	return out
}

func (m *Dashboard) renderRatings(width int) string {
	st := m.ratings.State()
	r, ok := st.Data()
	if !ok {
		if st.Phase() == fetch.PhaseFailed {
			return failureBanner(st.Err(), "r to retry", width)
		}
		return renderLoadingPlaceholder("Loading ratings...", width, 6)
	}

	driverTeam := map[string]string{}
	if m.season != nil {
		for _, d := range m.season.Drivers {
			driverTeam[d.Code] = d.Team
		}
	}
	carColor := func(team string) string {
		if info, ok := r.TeamsInfo[team]; ok {
			return m.teamColor(team, info.Color)
		}
		return m.teamColor(team, "")
	}

	drivers := ratingColumn("Driver ratings", sortedRatings(r.DriverRatings, func(code string) string {
		return carColor(driverTeam[code])
	}), 5)
	cars := ratingColumn("Car ratings", sortedRatings(r.CarRatings, carColor), 14)

	var notice string
	switch st.Phase() {
	case fetch.PhaseFailed:
		notice = failureBanner(st.Err(), "r to retry", width)
	case fetch.PhaseLoading:
		notice = refreshingLine("reloading ratings...")
	}

	var body string
	if width >= splitWidth {
		body = lipgloss.JoinHorizontal(lipgloss.Top, drivers, "    ", cars)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, drivers, "", cars)
	}
	if notice != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, notice, body)
	}
	return body
}

func ratingColumn(title string, ratings []rating, nameWidth int) string {
	const barWidth = 24
	lines := []string{sectionStyle.Render(title)}
	for _, r := range ratings {
		fill := teamStyle(r.color)
		lines = append(lines, fmt.Sprintf("%s %s %5.1f", padRight(r.name, nameWidth), bar(r.value, barWidth, fill), r.value))
	}
	return strings.Join(lines, "\n")
}

// renderRegulations lays the regulation cards out in rows that fit width.
func (m *Dashboard) renderRegulations(width int) string {
	const cardWidth = 26
	perRow := max(width/(cardWidth+2), 1)

	cards := make([]string, 0, len(m.season.Regulations))
	for _, reg := range m.season.Regulations {
		accent := teamStyle(reg.Color).Bold(true)
		body := strings.Join([]string{
			accent.Render(reg.Title),
			valueStyle.Render(reg.Value) + mutedStyle.Render(" "+reg.Unit),
			mutedStyle.Render(reg.Desc),
		}, "\n")
		cards = append(cards, cardStyle.Width(cardWidth).Render(body))
	}

	var rows []string
	for chunk := range slices.Chunk(cards, perRow) {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, chunk...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Dashboard) renderBacktest(width int) string {
	title := sectionStyle.Render("Backtest")
	st := m.backtest.State()
	iters := m.backtest.Iterations()

	report, ok := st.Data()
	var lines []string
	switch st.Phase() {
	case fetch.PhaseIdle:
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("press b to backtest the model (%d simulations per race)", iters)))
	case fetch.PhaseLoading:
		lines = append(lines, refreshingLine("backtesting..."))
	case fetch.PhaseFailed:
		lines = append(lines, failureBanner(st.Err(), "b to retry", width-4))
	}
	if ok {
		lines = append(lines, backtestMetrics(report)...)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, append([]string{title}, lines...)...)
	return cardStyle.Width(max(min(width-2, 90), 20)).Render(body)
}

func backtestMetrics(r model.BacktestReport) []string {
	mt := r.Metrics
	row := func(label, value, hint string) string {
		line := fmt.Sprintf("%-22s %s", label, valueStyle.Render(value))
		if hint != "" {
			line += "  " + dimStyle.Render(hint)
		}
		return line
	}
	lines := []string{
		row("Races tested", fmt.Sprintf("%d", mt.TotalRacesTested), ""),
		row("Winner hit rate", fmt.Sprintf("%.1f%%", mt.P1HitRate), ""),
		row("Podium overlap", fmt.Sprintf("%.2f / 3", mt.Top3OverlapPerRace), ""),
		row("Brier score (podium)", fmt.Sprintf("%.4f", mt.BrierScorePodium), mt.Interpretation["brier"]),
		row("Spearman rho", fmt.Sprintf("%.3f", mt.AvgSpearmanRho), mt.Interpretation["spearman"]),
	}
	if check := mt.Interpretation["overfitting_check"]; check != "" {
		lines = append(lines, mutedStyle.Render(check))
	}
	if r.Note != "" {
		lines = append(lines, dimStyle.Render(r.Note))
	}
	return lines
}

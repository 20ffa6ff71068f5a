package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/pitwall/internal/model"
)

// renderPositionHistogram draws a driver's finishing position distribution,
// one bar per position.
func renderPositionHistogram(dist []model.PositionShare, color string, width, height int) string {
	if len(dist) == 0 || width < 4 || height < 2 {
		return dimStyle.Render("no distribution")
	}

	shares := slices.Clone(dist)
	slices.SortFunc(shares, func(a, b model.PositionShare) int { return a.Pos - b.Pos })

	peak := 0.0
	for _, s := range shares {
		peak = max(peak, s.Pct)
	}
	if peak <= 0 {
		return dimStyle.Render("no distribution")
	}

	maxBars := (width + 1) / 2
	if len(shares) > maxBars {
		shares = shares[:maxBars]
	}
	chartWidth := len(shares)*2 - 1
	chartHeight := height - 1

	if color == "" {
		color = string(ColorOrange)
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Background(lipgloss.Color(color))

	bc := barchart.New(chartWidth, chartHeight,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)
	for _, s := range shares {
		bc.Push(barchart.BarData{
			Label: "",
			Values: []barchart.BarValue{
				{Name: fmt.Sprintf("P%d", s.Pos), Value: s.Pct, Style: style},
			},
		})
	}
	bc.Draw()

	first := fmt.Sprintf("P%d", shares[0].Pos)
	last := fmt.Sprintf("P%d", shares[len(shares)-1].Pos)
	axis := first
	if len(shares) > 1 {
		axis += strings.Repeat(" ", max(chartWidth-len(first)-len(last), 1)) + last
	}

	return lipgloss.JoinVertical(lipgloss.Left, bc.View(), dimStyle.Render(axis))
}

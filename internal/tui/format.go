package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// bar renders a horizontal gauge of width cells filled to pct percent.
func bar(pct float64, width int, fill lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	pct = max(0, min(pct, 100))
	n := int(pct/100*float64(width) + 0.5)
	return fill.Render(strings.Repeat("█", n)) + dimStyle.Render(strings.Repeat("░", width-n))
}

// truncate cuts s to width display cells, keeping escape sequences intact.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// padRight pads or truncates s to exactly width display cells.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return truncate(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

func percent(v float64) string {
	return fmt.Sprintf("%5.1f%%", v)
}

// spread lays out left and right on one line of width cells.
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return truncate(left+" "+right, width)
	}
	return left + strings.Repeat(" ", gap) + right
}

// failureBanner renders a failed request with its retry hint.
func failureBanner(message, hint string, width int) string {
	text := "✗ " + message
	if hint != "" {
		text += "  " + hint
	}
	return errorStyle.Render(truncate(text, max(width-2, 1)))
}

func refreshingLine(label string) string {
	return mutedStyle.Italic(true).Render(spinnerFrame() + " " + label)
}

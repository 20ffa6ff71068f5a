package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	ColorRed    = lipgloss.Color("#E8002D")
	ColorOrange = lipgloss.Color("#FF8000")
	ColorWhite  = lipgloss.Color("252")
	ColorGray   = lipgloss.Color("244")
	ColorDim    = lipgloss.Color("238")
	ColorGreen  = lipgloss.Color("42")
	ColorYellow = lipgloss.Color("220")
	ColorBlack  = lipgloss.Color("0")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)

	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorGray)

	tabStyle = lipgloss.NewStyle().Foreground(ColorGray).Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlack).
			Background(ColorOrange).
			Padding(0, 1)

	pillStyle = lipgloss.NewStyle().Foreground(ColorGray)

	activePillStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorOrange).Underline(true)

	dimStyle = lipgloss.NewStyle().Foreground(ColorDim)

	mutedStyle = lipgloss.NewStyle().Foreground(ColorGray)

	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorOrange)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(lipgloss.Color("52")).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite).Background(lipgloss.Color("236"))

	statusStyle = lipgloss.NewStyle().Foreground(ColorGray)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim).
			Padding(0, 1)
)

// teamStyle colors text with a team's hex color.
func teamStyle(hex string) lipgloss.Style {
	if hex == "" {
		return mutedStyle
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

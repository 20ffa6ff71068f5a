package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all dashboard key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Escape    key.Binding

	// Tabs
	RaceTab         key.Binding
	ChampionshipTab key.Binding
	AnalysisTab     key.Binding
	NextTab         key.Binding
	PrevTab         key.Binding

	// Rounds
	PrevRound  key.Binding
	NextRound  key.Binding
	FirstRound key.Binding
	LastRound  key.Binding

	// Navigation
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding

	// Actions
	Retry          key.Binding
	Backtest       key.Binding
	IterationsUp   key.Binding
	IterationsDown key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear driver"),
		),

		RaceTab: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "race"),
		),
		ChampionshipTab: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "championship"),
		),
		AnalysisTab: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "analysis"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),

		PrevRound: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev round"),
		),
		NextRound: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next round"),
		),
		FirstRound: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first round"),
		),
		LastRound: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last round"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select driver"),
		),

		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "re-simulate"),
		),
		Backtest: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "run backtest"),
		),
		IterationsUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more iterations"),
		),
		IterationsDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "fewer iterations"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.PrevRound, k.NextRound, k.Enter, k.Retry, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.RaceTab, k.ChampionshipTab, k.AnalysisTab, k.NextTab, k.PrevTab},
		{k.PrevRound, k.NextRound, k.FirstRound, k.LastRound},
		{k.Up, k.Down, k.Enter, k.Escape},
		{k.Retry, k.Backtest, k.IterationsUp, k.IterationsDown},
		{k.Help, k.Quit, k.ForceQuit},
	}
}

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/pitwall/internal/fetch"
	"github.com/tinytelemetry/pitwall/internal/model"
	"github.com/tinytelemetry/pitwall/internal/query"
)

// Update handles messages.
func (m *Dashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		if m.state.Tab == query.TabRace {
			return nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd

	case SpinnerTickMsg:
		return m.handleSpinnerTick()

	case fetch.Result[model.RacePrediction]:
		if m.race.Apply(msg) {
			m.syncCursor()
		}
	case fetch.Result[model.ChampionshipPrediction]:
		m.championship.Apply(msg)
	case fetch.Result[model.Ratings]:
		m.ratings.Apply(msg)
	case fetch.Result[model.BacktestReport]:
		m.backtest.Apply(msg)
	case fetch.Result[model.Health]:
		m.health.Apply(msg)
	}
	return nil
}

// handleKeyPress turns key presses into parameter updates and slot actions.
func (m *Dashboard) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit), key.Matches(msg, k.ForceQuit):
		return tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil

	case key.Matches(msg, k.RaceTab):
		return m.apply(query.TabChange(query.TabRace))
	case key.Matches(msg, k.ChampionshipTab):
		return m.apply(query.TabChange(query.TabChampionship))
	case key.Matches(msg, k.AnalysisTab):
		return m.apply(query.TabChange(query.TabAnalysis))
	case key.Matches(msg, k.NextTab):
		return m.apply(query.TabChange(m.stepTab(1)))
	case key.Matches(msg, k.PrevTab):
		return m.apply(query.TabChange(m.stepTab(-1)))

	case key.Matches(msg, k.Retry):
		return m.retryActive()
	case key.Matches(msg, k.Backtest):
		if m.state.Tab != query.TabAnalysis {
			return nil
		}
		if _, ok := m.backtest.Key(); !ok {
			return m.withSpinner(m.backtest.Observe(unkeyed{}))
		}
		return m.withSpinner(m.backtest.Retry())
	case key.Matches(msg, k.IterationsUp):
		m.turnKnob(Knob.Up)
		return nil
	case key.Matches(msg, k.IterationsDown):
		m.turnKnob(Knob.Down)
		return nil
	}

	if m.state.Tab == query.TabRace {
		return m.handleRaceKey(msg)
	}

	switch {
	case key.Matches(msg, k.Up):
		m.viewport.ScrollUp(1)
	case key.Matches(msg, k.Down):
		m.viewport.ScrollDown(1)
	case key.Matches(msg, k.FirstRound):
		m.viewport.GotoTop()
	case key.Matches(msg, k.LastRound):
		m.viewport.GotoBottom()
	}
	return nil
}

func (m *Dashboard) handleRaceKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	round := m.state.Round

	switch {
	case key.Matches(msg, k.PrevRound):
		if round > 1 {
			return m.apply(query.RoundChange(round - 1))
		}
	case key.Matches(msg, k.NextRound):
		if round < query.MaxRound {
			return m.apply(query.RoundChange(round + 1))
		}
	case key.Matches(msg, k.FirstRound):
		return m.apply(query.RoundChange(1))
	case key.Matches(msg, k.LastRound):
		return m.apply(query.RoundChange(query.MaxRound))

	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.Down):
		if race, ok := m.currentRace(); ok && m.cursor < len(race.Results)-1 {
			m.cursor++
		}
	case key.Matches(msg, k.Enter):
		race, ok := m.currentRace()
		if !ok || m.cursor >= len(race.Results) {
			return nil
		}
		code := race.Results[m.cursor].Code
		if code == m.state.Driver {
			code = ""
		}
		return m.apply(query.DriverChange(code))
	case key.Matches(msg, k.Escape):
		return m.apply(query.DriverChange(""))
	}
	return nil
}

// retryActive re-runs the active tab's primary request with the current
// iteration count.
func (m *Dashboard) retryActive() tea.Cmd {
	switch m.state.Tab {
	case query.TabRace:
		return m.withSpinner(m.race.Retry())
	case query.TabChampionship:
		return m.withSpinner(m.championship.Retry())
	case query.TabAnalysis:
		return m.withSpinner(m.ratings.Retry())
	}
	return nil
}

func (m *Dashboard) withSpinner(cmd tea.Cmd) tea.Cmd {
	return tea.Batch(cmd, m.startSpinnerIfNeeded())
}

// turnKnob moves the active tab's iteration count. It never refetches.
func (m *Dashboard) turnKnob(step func(Knob, int) int) {
	switch m.state.Tab {
	case query.TabRace:
		m.race.SetIterations(step(raceKnob, m.race.Iterations()))
	case query.TabChampionship:
		m.championship.SetIterations(step(championshipKnob, m.championship.Iterations()))
	case query.TabAnalysis:
		m.backtest.SetIterations(step(backtestKnob, m.backtest.Iterations()))
	}
}

func (m *Dashboard) stepTab(delta int) query.Tab {
	idx := 0
	for i, t := range query.Tabs {
		if t == m.state.Tab {
			idx = i
			break
		}
	}
	n := len(query.Tabs)
	return query.Tabs[((idx+delta)%n+n)%n]
}

// syncCursor places the cursor on the selected driver, or keeps it in range.
func (m *Dashboard) syncCursor() {
	race, ok := m.currentRace()
	if !ok {
		return
	}
	for i, r := range race.Results {
		if r.Code == m.state.Driver {
			m.cursor = i
			return
		}
	}
	m.cursor = min(m.cursor, max(len(race.Results)-1, 0))
}

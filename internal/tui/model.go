package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/pitwall/internal/fetch"
	"github.com/tinytelemetry/pitwall/internal/logging"
	"github.com/tinytelemetry/pitwall/internal/model"
	"github.com/tinytelemetry/pitwall/internal/query"
	"github.com/tinytelemetry/pitwall/internal/reference"
)

// Slot IDs.
const (
	slotRace         = "race"
	slotChampionship = "championship"
	slotRatings      = "ratings"
	slotBacktest     = "backtest"
	slotHealth       = "health"
)

// tabSlots lists the slots each tab mounts. Backtest is mounted with the
// analysis tab but only ever requested explicitly.
var tabSlots = map[query.Tab][]string{
	query.TabRace:         {slotRace},
	query.TabChampionship: {slotChampionship},
	query.TabAnalysis:     {slotRatings, slotBacktest},
}

// Dashboard is the main view: three tabs over one canonical parameter set.
// Every user action becomes a query.Update applied to the store; the store
// notifies the dashboard, which re-observes the slots of the active tab.
type Dashboard struct {
	store       *query.Store
	state       query.ViewState
	unsubscribe func()
	pending     []tea.Cmd

	orch         *fetch.Orchestrator
	race         *fetch.Slot[int, model.RacePrediction]
	championship *fetch.Slot[unkeyed, model.ChampionshipPrediction]
	ratings      *fetch.Slot[unkeyed, model.Ratings]
	backtest     *fetch.Slot[unkeyed, model.BacktestReport]
	health       *fetch.Slot[unkeyed, model.Health]

	mounted query.Tab
	season  *reference.Season
	log     logrus.FieldLogger

	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	cursor   int
	spinning bool

	width  int
	height int
}

// NewDashboard builds the dashboard over the initial parameter set.
func NewDashboard(ctx context.Context, initial query.Params, deps Deps) *Dashboard {
	log := deps.Logger
	if log == nil {
		log = logging.Discard()
	}
	src := deps.Source
	orch := fetch.New(ctx, fetch.Options{Timeout: deps.Timeout, Logger: log})

	m := &Dashboard{
		store:    query.NewStore(initial),
		orch:     orch,
		season:   deps.Season,
		log:      log,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(80, 20),
	}

	m.race = fetch.NewSlot(orch, slotRace,
		func(ctx context.Context, round, iters int) (model.RacePrediction, error) {
			return src.Race(ctx, round, iters)
		}, model.RaceIterations.Clamp(deps.RaceIterations))
	m.championship = fetch.NewSlot(orch, slotChampionship,
		func(ctx context.Context, _ unkeyed, iters int) (model.ChampionshipPrediction, error) {
			return src.Championship(ctx, iters)
		}, model.ChampionshipIterations.Clamp(deps.ChampionshipIterations))
	m.ratings = fetch.NewSlot(orch, slotRatings,
		func(ctx context.Context, _ unkeyed, _ int) (model.Ratings, error) {
			return src.Ratings(ctx)
		}, 0)
	m.backtest = fetch.NewSlot(orch, slotBacktest,
		func(ctx context.Context, _ unkeyed, iters int) (model.BacktestReport, error) {
			return src.Backtest(ctx, iters)
		}, model.BacktestIterations.Clamp(deps.BacktestIterations))
	m.health = fetch.NewSlot(orch, slotHealth,
		func(ctx context.Context, _ unkeyed, _ int) (model.Health, error) {
			return src.Health(ctx)
		}, 0)

	m.state = m.store.State()
	m.unsubscribe = m.store.Subscribe(m.onParams)
	return m
}

// Params returns the canonical parameter set.
func (m *Dashboard) Params() query.Params { return m.store.Params() }

// State returns the decoded view state.
func (m *Dashboard) State() query.ViewState { return m.state }

// Close unsubscribes from the store and cancels outstanding requests.
func (m *Dashboard) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.orch.Close()
}

// Init mounts the active tab and probes the backend once.
func (m *Dashboard) Init() tea.Cmd {
	cmds := []tea.Cmd{m.health.Observe(unkeyed{})}
	cmds = append(cmds, m.sync()...)
	cmds = append(cmds, m.startSpinnerIfNeeded())
	return tea.Batch(cmds...)
}

// apply routes an update through the store. Observations triggered by the
// resulting notification are returned as one command.
func (m *Dashboard) apply(u query.Update) tea.Cmd {
	m.store.Apply(u)
	cmds := m.pending
	m.pending = nil
	cmds = append(cmds, m.startSpinnerIfNeeded())
	return tea.Batch(cmds...)
}

func (m *Dashboard) onParams(p query.Params) {
	prev := m.state
	m.state = query.Decode(p)
	m.log.WithFields(logrus.Fields{"params": p.String(), "tab": m.state.Tab, "round": m.state.Round}).
		Debug("tui: parameters changed")
	if prev.Tab != m.state.Tab || prev.Round != m.state.Round {
		m.cursor = 0
		m.viewport.GotoTop()
	}
	m.pending = append(m.pending, m.sync()...)
}

// sync mounts the active tab's slots, unmounting the previous tab's, and
// observes their current keys.
func (m *Dashboard) sync() []tea.Cmd {
	if m.mounted != m.state.Tab {
		for _, id := range tabSlots[m.mounted] {
			m.orch.Discard(id)
		}
		m.mounted = m.state.Tab
	}

	switch m.state.Tab {
	case query.TabRace:
		return []tea.Cmd{m.race.Observe(m.state.Round)}
	case query.TabChampionship:
		return []tea.Cmd{m.championship.Observe(unkeyed{})}
	case query.TabAnalysis:
		return []tea.Cmd{m.ratings.Observe(unkeyed{})}
	}
	return nil
}

// selectedDriver resolves the driver parameter against the loaded race.
// A code that is not in the result set counts as no selection.
func (m *Dashboard) selectedDriver() (model.DriverPrediction, bool) {
	if !m.state.HasDriver() {
		return model.DriverPrediction{}, false
	}
	race, ok := m.currentRace()
	if !ok {
		return model.DriverPrediction{}, false
	}
	return race.Driver(m.state.Driver)
}

// currentRace returns the race payload when it belongs to the selected round.
func (m *Dashboard) currentRace() (model.RacePrediction, bool) {
	race, ok := m.race.State().Data()
	if !ok {
		return model.RacePrediction{}, false
	}
	if round, ok := m.race.DataKey(); !ok || round != m.state.Round {
		return model.RacePrediction{}, false
	}
	return race, true
}

// DashboardPage adapts Dashboard to the Page interface.
type DashboardPage struct {
	Model *Dashboard
}

// NewDashboardPage wraps a Dashboard as a Page.
func NewDashboardPage(m *Dashboard) *DashboardPage {
	return &DashboardPage{Model: m}
}

func (p *DashboardPage) ID() string { return PageDashboard }

func (p *DashboardPage) Init() tea.Cmd {
	return p.Model.Init()
}

func (p *DashboardPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	return p.Model.Update(msg), nil
}

func (p *DashboardPage) View(width, height int) string {
	p.Model.width = width
	p.Model.height = height
	return p.Model.View()
}

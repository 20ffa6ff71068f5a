package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/pitwall/internal/boot"
	"github.com/tinytelemetry/pitwall/internal/logging"
)

// bootEventMsg carries one sequencer event; ok is false once the channel
// has closed.
type bootEventMsg struct {
	ev boot.Event
	ok bool
}

func waitForBootEvent(ch <-chan boot.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		return bootEventMsg{ev: ev, ok: ok}
	}
}

// BootPage shows the staged start-up log and hands over to the dashboard
// on the ready event. Any key skips it.
type BootPage struct {
	seq    *boot.Sequencer
	events <-chan boot.Event
	log    logrus.FieldLogger
	keys   KeyMap

	revealed int
	percent  float64
	done     bool
	bar      progress.Model
}

// NewBootPage wraps a sequencer that has not been started yet.
func NewBootPage(seq *boot.Sequencer, log logrus.FieldLogger) *BootPage {
	if log == nil {
		log = logging.Discard()
	}
	return &BootPage{
		seq:  seq,
		log:  log,
		keys: DefaultKeyMap(),
		bar: progress.New(
			progress.WithGradient(string(ColorRed), string(ColorOrange)),
			progress.WithoutPercentage(),
		),
	}
}

func (p *BootPage) ID() string { return PageBoot }

func (p *BootPage) Init() tea.Cmd {
	ch, err := p.seq.Start()
	if err != nil {
		p.log.WithError(err).Warn("tui: boot sequence not started")
		p.done = true
		return func() tea.Msg { return bootEventMsg{ev: boot.Event{Kind: boot.EventReady}, ok: true} }
	}
	p.events = ch
	return waitForBootEvent(ch)
}

func (p *BootPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, p.keys.ForceQuit) {
			p.seq.Cancel()
			return tea.Quit, nil
		}
		p.seq.Cancel()
		p.done = true
		p.log.Debug("tui: boot skipped")
		return nil, &PageNav{PageID: PageDashboard}

	case bootEventMsg:
		if !msg.ok {
			return nil, nil
		}
		switch msg.ev.Kind {
		case boot.EventStep:
			p.revealed = msg.ev.Index + 1
			p.percent = msg.ev.Progress
			return waitForBootEvent(p.events), nil
		case boot.EventReady:
			p.done = true
			return nil, &PageNav{PageID: PageDashboard}
		}
	}
	return nil, nil
}

func (p *BootPage) View(width, height int) string {
	steps := p.seq.Steps()

	var b strings.Builder
	b.WriteString(titleStyle.Render("F1 2026 PREDICTOR"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Monte Carlo simulation engine"))
	b.WriteString("\n\n")

	for i := 0; i < p.revealed && i < len(steps); i++ {
		mark, style := "›", mutedStyle
		if i == len(steps)-1 {
			mark, style = "✓", lipgloss.NewStyle().Foreground(ColorGreen)
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %s", mark, steps[i].Text)))
		b.WriteString("\n")
	}
	if p.revealed < len(steps) && !p.done {
		b.WriteString(valueStyle.Render("▌"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	p.bar.Width = min(40, max(10, width-10))
	b.WriteString(p.bar.ViewAs(p.percent))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("press any key to skip"))

	if width <= 0 || height <= 0 {
		return b.String()
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

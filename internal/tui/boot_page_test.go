package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/pitwall/internal/boot"
	"github.com/tinytelemetry/pitwall/internal/reference"
)

func newTestSequencer(t *testing.T) *boot.Sequencer {
	t.Helper()
	seq, err := boot.New([]boot.Step{
		{Text: "WARMING TYRES", At: time.Millisecond},
		{Text: "MODEL READY", At: 2 * time.Millisecond},
	}, boot.WithSettle(time.Millisecond))
	if err != nil {
		t.Fatalf("boot.New: %v", err)
	}
	return seq
}

func TestBootPage_RevealsStepsThenNavigates(t *testing.T) {
	t.Parallel()

	p := NewBootPage(newTestSequencer(t), nil)
	cmd := p.Init()

	var nav *PageNav
	for i := 0; nav == nil; i++ {
		if i > 5 || cmd == nil {
			t.Fatalf("boot did not reach ready after %d events", i)
		}
		cmd, nav = p.Update(cmd())
	}

	if nav.PageID != PageDashboard {
		t.Fatalf("nav = %q, want %q", nav.PageID, PageDashboard)
	}
	if p.revealed != 2 || p.percent != 1 {
		t.Fatalf("revealed = %d percent = %v, want 2 and 1", p.revealed, p.percent)
	}
	view := p.View(80, 24)
	if !strings.Contains(view, "WARMING TYRES") || !strings.Contains(view, "✓ MODEL READY") {
		t.Fatalf("view missing steps:\n%s", view)
	}
}

func TestBootPage_AnyKeySkips(t *testing.T) {
	t.Parallel()

	seq := newTestSequencer(t)
	p := NewBootPage(seq, nil)
	p.Init()

	_, nav := p.Update(keyPress("x"))
	if nav == nil || nav.PageID != PageDashboard {
		t.Fatalf("nav = %+v, want dashboard", nav)
	}
	if st, _ := seq.Status(); st != boot.StatusCancelled {
		t.Fatalf("sequencer status = %v, want cancelled", st)
	}
}

func TestBootPage_RestartGoesStraightToReady(t *testing.T) {
	t.Parallel()

	seq := newTestSequencer(t)
	seq.Cancel()

	p := NewBootPage(seq, nil)
	_, nav := p.Update(p.Init()())
	if nav == nil || nav.PageID != PageDashboard {
		t.Fatalf("nav = %+v, want dashboard", nav)
	}
}

func TestApp_BootHandsOverToDashboard(t *testing.T) {
	t.Parallel()

	season := reference.MustLoad()
	dash := NewDashboard(context.Background(), nil, Deps{Source: &fakeSource{season: season}, Season: season})
	t.Cleanup(dash.Close)

	app := NewApp(NewBootPage(newTestSequencer(t), nil), NewDashboardPage(dash))
	app.Init()
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	_, cmd := app.Update(keyPress(" "))
	if got := app.ActivePage(); got != PageDashboard {
		t.Fatalf("active page = %q, want dashboard", got)
	}
	if cmd == nil {
		t.Fatal("switching pages did not init the dashboard")
	}
	if !dash.race.State().Loading() {
		t.Fatalf("race phase = %v, want loading after dashboard init", dash.race.State().Phase())
	}
}

func TestApp_HiddenDashboardTracksWindowSize(t *testing.T) {
	t.Parallel()

	season := reference.MustLoad()
	dash := NewDashboard(context.Background(), nil, Deps{Source: &fakeSource{season: season}, Season: season})
	t.Cleanup(dash.Close)

	app := NewApp(NewBootPage(newTestSequencer(t), nil), NewDashboardPage(dash))
	app.Init()
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if got := app.ActivePage(); got != PageBoot {
		t.Fatalf("active page = %q, want boot", got)
	}
	if dash.width != 120 || dash.height != 40 || dash.help.Width != 120 {
		t.Fatalf("dashboard size = %dx%d help %d, want 120x40 help 120", dash.width, dash.height, dash.help.Width)
	}

	app.Update(keyPress(" "))
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if dash.help.Width != 100 {
		t.Fatalf("help width after resize = %d, want 100", dash.help.Width)
	}
}

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDashboardView_RendersEachTab(t *testing.T) {
	t.Parallel()

	tests := []struct {
		params string
		keys   []string
		want   []string
	}{
		{"", nil, []string{"PITWALL", "Max Verstappen", "view (defaults)", "api 1.0.0"}},
		{"round=8", []string{"enter"}, []string{"Monaco", "LOW", "Finishing positions", "view ?driver=NOR&round=8"}},
		{"tab=championship", nil, []string{"Drivers' championship", "Lando Norris", "sims/race 500"}},
		{"tab=analysis", []string{"b"}, []string{"Driver ratings", "Backtest", "Races tested"}},
	}
	for _, tt := range tests {
		t.Run(tt.params, func(t *testing.T) {
			t.Parallel()

			m, _ := newTestDashboard(t, tt.params)
			settle(t, m, m.Init())
			press(t, m, tt.keys...)

			view := m.View()
			for _, want := range tt.want {
				if !strings.Contains(view, want) {
					t.Fatalf("view missing %q:\n%s", want, view)
				}
			}
		})
	}
}

func TestDashboardView_FailureBanner(t *testing.T) {
	t.Parallel()

	m, src := newTestDashboard(t, "round=2")
	src.raceErrs = map[int]error{2: errString("HTTP 503: simulator busy")}
	settle(t, m, m.Init())

	view := m.View()
	if !strings.Contains(view, "HTTP 503: simulator busy") {
		t.Fatalf("view missing error banner:\n%s", view)
	}
	if strings.Contains(view, "Max Verstappen") {
		t.Fatal("failed round rendered a result table")
	}
}

func TestDashboardView_TooSmall(t *testing.T) {
	t.Parallel()

	m, _ := newTestDashboard(t, "")
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if got := m.View(); !strings.Contains(got, "Terminal too small") {
		t.Fatalf("View() = %q", got)
	}
}

func TestDashboardView_NarrowLayout(t *testing.T) {
	t.Parallel()

	m, _ := newTestDashboard(t, "")
	m.Update(tea.WindowSizeMsg{Width: 70, Height: 30})
	settle(t, m, m.Init())
	press(t, m, "enter")

	view := m.View()
	for _, line := range strings.Split(view, "\n") {
		if w := len([]rune(line)); w > 70 {
			t.Fatalf("line is %d cells wide, want <= 70: %q", w, line)
		}
	}
}

type errString string

func (e errString) Error() string { return string(e) }

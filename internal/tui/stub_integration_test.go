package tui

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/pitwall/internal/apiclient"
	"github.com/tinytelemetry/pitwall/internal/fetch"
	"github.com/tinytelemetry/pitwall/internal/query"
	"github.com/tinytelemetry/pitwall/internal/reference"
	"github.com/tinytelemetry/pitwall/internal/stubserver"
)

func TestDashboard_AgainstStubServer(t *testing.T) {
	t.Parallel()

	season := reference.MustLoad()
	srv := httptest.NewServer(stubserver.New(season, stubserver.Options{Seed: 7}).Handler())
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL, apiclient.Options{})
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}

	m := NewDashboard(context.Background(), query.Params{"round": "8"}, Deps{
		Source:         client,
		Season:         season,
		Timeout:        5 * time.Second,
		RaceIterations: 200,
	})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	settle(t, m, m.Init())

	race, ok := m.currentRace()
	if !ok {
		t.Fatalf("race phase = %v (%s), want data for round 8", m.race.State().Phase(), m.race.State().Err())
	}
	if race.Circuit.Name != "Monaco" || race.Iterations != 200 || len(race.Results) != len(season.Drivers) {
		t.Fatalf("race = %s, %d iterations, %d results", race.Circuit.Name, race.Iterations, len(race.Results))
	}
	if h, ok := m.health.State().Data(); !ok || h.Season != season.Year {
		t.Fatalf("health = %+v, %v", h, ok)
	}

	press(t, m, "3", "b")
	if got := m.backtest.State().Phase(); got != fetch.PhaseReady {
		t.Fatalf("backtest phase = %v (%s), want ready", got, m.backtest.State().Err())
	}
}

package stubserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytelemetry/pitwall/internal/apiclient"
	"github.com/tinytelemetry/pitwall/internal/model"
	"github.com/tinytelemetry/pitwall/internal/reference"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	season, err := reference.Load()
	require.NoError(t, err)
	opts.Seed = 7
	return New(season, opts)
}

func perform(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	w := perform(t, h, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body model.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 2026, body.Season)
	assert.Equal(t, 22, body.Drivers)
	assert.Equal(t, 24, body.Circuits)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRatingsEndpoint(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	w := perform(t, h, "/api/ratings")
	require.Equal(t, http.StatusOK, w.Code)

	var body model.Ratings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.DriverRatings, 22)
	assert.InDelta(t, 97.0, body.CarRatings["McLaren"], 1e-9)
	assert.InDelta(t, 1.0, body.TireDeg["McLaren"], 1e-9)
	assert.Equal(t, "#FF8000", body.TeamsInfo["McLaren"].Color)
}

func TestCircuitsEndpoint(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	w := perform(t, h, "/api/circuits")
	require.Equal(t, http.StatusOK, w.Code)

	var body model.CircuitList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Circuits, 24)
	assert.Equal(t, "Abu Dhabi", body.Circuits[23].Name)
}

func TestRaceEndpoint_Validation(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	tests := []struct {
		path string
		code int
	}{
		{"/api/race/0", http.StatusBadRequest},
		{"/api/race/25", http.StatusBadRequest},
		{"/api/race/abc", http.StatusUnprocessableEntity},
		{"/api/race/3?iters=99", http.StatusUnprocessableEntity},
		{"/api/race/3?iters=20001", http.StatusUnprocessableEntity},
		{"/api/race/3?iters=many", http.StatusUnprocessableEntity},
		{"/api/championship?iters=49", http.StatusUnprocessableEntity},
		{"/api/backtest?iters=3001", http.StatusUnprocessableEntity},
		{"/api/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := perform(t, h, tt.path)
		assert.Equal(t, tt.code, w.Code, "GET %s", tt.path)
		assert.Contains(t, w.Body.String(), `"detail"`, "GET %s", tt.path)
	}
}

func TestRaceEndpoint_Payload(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	w := perform(t, h, "/api/race/8?iters=400")
	require.Equal(t, http.StatusOK, w.Code)

	var race model.RacePrediction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &race))
	assert.Equal(t, "Monaco", race.Circuit.Name)
	assert.Equal(t, 400, race.Iterations)
	require.Len(t, race.Results, 22)

	var winSum float64
	for i, r := range race.Results {
		winSum += r.WinPct
		assert.Len(t, r.PosDistribution, 12)
		assert.NotEmpty(t, r.TeamColor)
		if i > 0 {
			assert.LessOrEqual(t, r.WinPct, race.Results[i-1].WinPct, "results sorted by win pct")
		}
	}
	assert.InDelta(t, 100, winSum, 0.5)
}

func TestRaceEndpoint_Deterministic(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	a := perform(t, h, "/api/race/3?iters=200").Body.String()
	b := perform(t, h, "/api/race/3?iters=200").Body.String()
	assert.Equal(t, a, b)
}

func TestChampionshipEndpoint(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	w := perform(t, h, "/api/championship?iters=50")
	require.Equal(t, http.StatusOK, w.Code)

	var body model.ChampionshipPrediction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Standings, 22)
	assert.Len(t, body.Constructors, 11)
	assert.Equal(t, 50, body.IterationsPerRace)
	assert.Equal(t, 24, body.TotalRaces)
	assert.GreaterOrEqual(t, body.Standings[0].ProjectedPts, body.Standings[1].ProjectedPts)
}

func TestBacktestEndpoint(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	w := perform(t, h, "/api/backtest?iters=100")
	require.Equal(t, http.StatusOK, w.Code)

	var body model.BacktestReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Error)
	assert.Equal(t, 20, body.Metrics.TotalRacesTested)
	assert.GreaterOrEqual(t, body.Metrics.BrierScorePodium, 0.0)
	assert.LessOrEqual(t, body.Metrics.AvgSpearmanRho, 1.0)
	assert.NotEmpty(t, body.Metrics.Interpretation["brier"])
	assert.NotEmpty(t, body.Note)
}

func TestServer_ClientRoundTrip(t *testing.T) {
	srv := newTestServer(t, Options{Addr: "127.0.0.1:0"})
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Stop() })

	client, err := apiclient.New("http://"+srv.Addr(), apiclient.Options{})
	require.NoError(t, err)

	race, err := client.Race(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.Equal(t, "Australia", race.Circuit.Name)

	_, err = client.Race(context.Background(), 30, 100)
	assert.EqualError(t, err, "HTTP 400: Round must be between 1 and 24")
}

func TestServer_LatencyHonoursClientCancel(t *testing.T) {
	srv := newTestServer(t, Options{Latency: time.Minute})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client, err := apiclient.New(ts.URL, apiclient.Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = client.Health(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)
}

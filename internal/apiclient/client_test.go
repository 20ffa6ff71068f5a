package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/", Options{})
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New("ftp://example.com", Options{})
	assert.Error(t, err)
	_, err = New("://nope", Options{})
	assert.Error(t, err)
}

func TestRace_SendsRoundAndIterations(t *testing.T) {
	var gotPath, gotIters, gotReqID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotIters = r.URL.Query().Get("iters")
		gotReqID = r.Header.Get(RequestIDHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"circuit":{"round":5,"name":"Saudi Arabia","type":"street"},"iterations":2000,
			"results":[{"code":"VER","win_pct":31.5,"podium_pct":60.2,"pos_distribution":[{"pos":1,"pct":31.5}]}]}`))
	})

	race, err := c.Race(context.Background(), 5, 2000)
	require.NoError(t, err)
	assert.Equal(t, "/api/race/5", gotPath)
	assert.Equal(t, "2000", gotIters)
	assert.Len(t, gotReqID, 36, "request id should be a uuid")
	assert.Equal(t, "Saudi Arabia", race.Circuit.Name)
	assert.True(t, race.Circuit.Street())
	assert.Equal(t, 2000, race.Iterations)

	ver, ok := race.Driver("VER")
	require.True(t, ok)
	assert.InDelta(t, 31.5, ver.WinPct, 1e-9)
	assert.Equal(t, 1, ver.PosDistribution[0].Pos)
}

func TestFetch_StatusErrorCarriesDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Round must be between 1 and 24"}`))
	})

	_, err := c.Race(context.Background(), 30, 100)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "HTTP 400: Round must be between 1 and 24", err.Error())
}

func TestFetch_ValidationDetailList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["query","iters"],"msg":"Input should be less than or equal to 2000"}]}`))
	})

	_, err := c.Championship(context.Background(), 5000)
	assert.EqualError(t, err, "HTTP 422: Input should be less than or equal to 2000")
}

func TestFetch_StatusWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Health(context.Background())
	assert.EqualError(t, err, "HTTP 502: Bad Gateway")
}

func TestFetch_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})

	_, err := c.Ratings(context.Background())
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "/api/ratings", de.Path)
}

func TestFetch_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(base, Options{})
	require.NoError(t, err)
	_, err = c.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/api/health")
}

func TestFetch_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Championship(ctx, 50)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "err = %v", err)
}

func TestBacktest_PayloadErrorIsFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Could not fetch historical results","metrics":{}}`))
	})

	_, err := c.Backtest(context.Background(), 1000)
	var pe *PayloadError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Could not fetch historical results", err.Error())
}

func TestBacktest_MetricsErrorIsFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"metrics":{"error":"No valid races for backtesting"}}`))
	})

	_, err := c.Backtest(context.Background(), 1000)
	assert.EqualError(t, err, "No valid races for backtesting")
}

func TestCircuits_UnwrapsList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/circuits", r.URL.Path)
		_, _ = w.Write([]byte(`{"circuits":[{"round":1,"name":"Australia"},{"round":2,"name":"China"}]}`))
	})

	circuits, err := c.Circuits(context.Background())
	require.NoError(t, err)
	require.Len(t, circuits, 2)
	assert.Equal(t, "China", circuits[1].Name)
}

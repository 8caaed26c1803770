package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sgp-builder/internal/cache"
	"github.com/yourusername/sgp-builder/internal/models"
	"github.com/yourusername/sgp-builder/internal/scoring"
	"github.com/yourusername/sgp-builder/internal/service"
)

// fakeMarket serves a fixed pool for every game.
type fakeMarket struct {
	outcomes []models.Outcome
	err      error
}

func (f *fakeMarket) ResolveEvent(ctx context.Context, ref models.GameRef) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "evt-1", nil
}

func (f *fakeMarket) EventOutcomes(ctx context.Context, eventID string, markets []string) ([]models.Outcome, error) {
	return f.outcomes, nil
}

func (f *fakeMarket) Name() string { return "fake_market" }

func fixtureOutcomes() []models.Outcome {
	lines := []float64{25.5, 10.5, 8.5}
	return []models.Outcome{
		{Player: "LeBron James", MarketKey: "player_points", Side: models.SideOver, Line: &lines[0], AmericanOdds: -140},
		{Player: "Nikola Jokic", MarketKey: "player_rebounds", Side: models.SideOver, Line: &lines[1], AmericanOdds: -250},
		{Player: "Chris Paul", MarketKey: "player_assists", Side: models.SideOver, Line: &lines[2], AmericanOdds: 110},
	}
}

func testServer(t *testing.T, market *fakeMarket) *httptest.Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	builder := service.NewParlayBuilder(market, scoring.NewHeuristicScorer(),
		cache.New(time.Minute, nil), logger)

	mux := http.NewServeMux()
	NewHandler(builder, nil, logger).Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleBuild(t *testing.T) {
	server := testServer(t, &fakeMarket{outcomes: fixtureOutcomes()})

	wager := 10.0
	resp := postJSON(t, server.URL+"/v1/parlays", BuildRequest{
		HomeTeam:    "Boston Celtics",
		AwayTeam:    "Los Angeles Lakers",
		TargetCount: 3,
		Wager:       &wager,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body BuildResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Legs, 3)
	assert.Equal(t, 404, body.CombinedOdds)
	assert.Equal(t, "+404", body.OddsDisplay)
	require.NotNil(t, body.ToWin)
	assert.InDelta(t, 40.40, *body.ToWin, 1e-9)

	for _, leg := range body.Legs {
		assert.NotEmpty(t, leg.OddsDisplay)
		assert.NotEmpty(t, leg.Insight)
	}
}

func TestHandleBuildValidation(t *testing.T) {
	server := testServer(t, &fakeMarket{outcomes: fixtureOutcomes()})

	t.Run("requires POST", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/v1/parlays")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/v1/parlays", "application/json", bytes.NewReader([]byte("{")))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects missing teams", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/v1/parlays", BuildRequest{TargetCount: 3})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects bad date", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/v1/parlays", BuildRequest{
			HomeTeam: "A", AwayTeam: "B", Date: "01/15/2025", TargetCount: 3,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects zero target count", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/v1/parlays", BuildRequest{
			HomeTeam: "A", AwayTeam: "B", TargetCount: 0,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleBuildUpstreamFailure(t *testing.T) {
	server := testServer(t, &fakeMarket{err: errors.New("connection refused")})

	resp := postJSON(t, server.URL+"/v1/parlays", BuildRequest{
		HomeTeam: "A", AwayTeam: "B", TargetCount: 3,
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestHandlePrice(t *testing.T) {
	server := testServer(t, &fakeMarket{})

	resp := postJSON(t, server.URL+"/v1/parlays/price", PriceRequest{Odds: []int{-140, -250, 110}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body PriceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 404, body.CombinedOdds)
	assert.Equal(t, "+404", body.OddsDisplay)

	resp = postJSON(t, server.URL+"/v1/parlays/price", PriceRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleMulti(t *testing.T) {
	server := testServer(t, &fakeMarket{outcomes: fixtureOutcomes()})

	resp := postJSON(t, server.URL+"/v1/parlays/multi", MultiBuildRequest{
		Games: []BuildRequest{
			{HomeTeam: "Boston Celtics", AwayTeam: "Los Angeles Lakers"},
			{HomeTeam: "Denver Nuggets", AwayTeam: "Phoenix Suns"},
		},
		LegsPerGame: 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body service.MultiGameResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Games, 2)
	assert.NotZero(t, body.CombinedOdds)
}

func TestHandleMultiRejectsSingleGame(t *testing.T) {
	server := testServer(t, &fakeMarket{outcomes: fixtureOutcomes()})

	resp := postJSON(t, server.URL+"/v1/parlays/multi", MultiBuildRequest{
		Games: []BuildRequest{{HomeTeam: "A", AwayTeam: "B"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleHistoryDisabled(t *testing.T) {
	server := testServer(t, &fakeMarket{outcomes: fixtureOutcomes()})

	resp, err := http.Get(server.URL + "/v1/parlays/history?event_ref=LAL%20@%20BOS")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sgp-builder/internal/cache"
	"github.com/yourusername/sgp-builder/internal/datasource"
	"github.com/yourusername/sgp-builder/internal/models"
	"github.com/yourusername/sgp-builder/internal/scoring"
)

// stubMarket is an in-memory MarketDataSource.
type stubMarket struct {
	eventID       string
	outcomes      []models.Outcome
	resolveErr    error
	outcomesErr   error
	resolveCalls  int
	outcomesCalls int
}

func (s *stubMarket) ResolveEvent(ctx context.Context, ref models.GameRef) (string, error) {
	s.resolveCalls++
	if s.resolveErr != nil {
		return "", s.resolveErr
	}
	return s.eventID, nil
}

func (s *stubMarket) EventOutcomes(ctx context.Context, eventID string, markets []string) ([]models.Outcome, error) {
	s.outcomesCalls++
	if s.outcomesErr != nil {
		return nil, s.outcomesErr
	}
	return s.outcomes, nil
}

func (s *stubMarket) Name() string { return "stub_market" }

// stubStats serves fixed season averages.
type stubStats struct {
	averages map[string]float64
}

func (s *stubStats) SeasonAverage(ctx context.Context, player string, category models.Category) (float64, error) {
	avg, ok := s.averages[player]
	if !ok {
		return 0, datasource.ErrNotFound
	}
	return avg, nil
}

func (s *stubStats) Name() string { return "stub_stats" }

// stubRecorder captures history writes.
type stubRecorder struct {
	records []*models.ParlayRecord
	err     error
}

func (s *stubRecorder) Record(ctx context.Context, record *models.ParlayRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testOutcomes() []models.Outcome {
	lines := []float64{25.5, 10.5, 8.5, 3.5}
	return []models.Outcome{
		{Player: "LeBron James", MarketKey: "player_points", Side: models.SideOver, Line: &lines[0], AmericanOdds: -150},
		{Player: "Nikola Jokic", MarketKey: "player_rebounds", Side: models.SideOver, Line: &lines[1], AmericanOdds: -200},
		{Player: "Chris Paul", MarketKey: "player_assists", Side: models.SideOver, Line: &lines[2], AmericanOdds: -130},
		{Player: "Stephen Curry", MarketKey: "player_threes", Side: models.SideOver, Line: &lines[3], AmericanOdds: 120},
	}
}

func testGame() models.GameRef {
	return models.GameRef{
		HomeTeam: "Boston Celtics",
		AwayTeam: "Los Angeles Lakers",
		Date:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func newTestBuilder(market datasource.MarketDataSource, opts ...BuilderOption) *ParlayBuilder {
	return NewParlayBuilder(market, scoring.NewHeuristicScorer(),
		cache.New(time.Minute, nil), quietLogger(), opts...)
}

func TestBuildParlay(t *testing.T) {
	market := &stubMarket{eventID: "evt-1", outcomes: testOutcomes()}
	builder := newTestBuilder(market)

	result, err := builder.BuildParlay(context.Background(), testGame(), 3, Filters{})
	require.NoError(t, err)
	require.Len(t, result.Legs, 3)
	assert.NotZero(t, result.CombinedOdds)

	// Diversity pass order: points, rebounds, assists.
	assert.Equal(t, models.CategoryPoints, result.Legs[0].Category)
	assert.Equal(t, models.CategoryRebounds, result.Legs[1].Category)
	assert.Equal(t, models.CategoryAssists, result.Legs[2].Category)
}

func TestBuildParlayRejectsBadTargetCount(t *testing.T) {
	builder := newTestBuilder(&stubMarket{eventID: "evt-1", outcomes: testOutcomes()})

	for _, count := range []int{0, -1} {
		_, err := builder.BuildParlay(context.Background(), testGame(), count, Filters{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrInvalidInput))
	}
}

func TestBuildParlayRejectsUnknownTier(t *testing.T) {
	builder := newTestBuilder(&stubMarket{eventID: "evt-1", outcomes: testOutcomes()})

	_, err := builder.BuildParlay(context.Background(), testGame(), 3, Filters{Tier: "extreme"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestBuildParlayNoEventIsEmptyNotError(t *testing.T) {
	market := &stubMarket{resolveErr: datasource.NewDataSourceError(
		"stub_market", datasource.ErrCodeNotFound, "no event", datasource.ErrNotFound)}
	builder := newTestBuilder(market)

	result, err := builder.BuildParlay(context.Background(), testGame(), 3, Filters{})
	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.Zero(t, result.CombinedOdds)
}

func TestBuildParlayNoOutcomesIsEmptyNotError(t *testing.T) {
	market := &stubMarket{eventID: "evt-1", outcomes: nil}
	builder := newTestBuilder(market)

	result, err := builder.BuildParlay(context.Background(), testGame(), 3, Filters{})
	require.NoError(t, err)
	assert.True(t, result.Empty())
}

func TestBuildParlayUpstreamFailureCarriesTypedError(t *testing.T) {
	market := &stubMarket{resolveErr: errors.New("connection refused")}
	builder := newTestBuilder(market)

	result, err := builder.BuildParlay(context.Background(), testGame(), 3, Filters{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUpstream))
	require.NotNil(t, result)
	assert.True(t, result.Empty())
}

func TestBuildParlayCachesUpstreamLookups(t *testing.T) {
	market := &stubMarket{eventID: "evt-1", outcomes: testOutcomes()}
	builder := newTestBuilder(market)

	_, err := builder.BuildParlay(context.Background(), testGame(), 3, Filters{})
	require.NoError(t, err)
	_, err = builder.BuildParlay(context.Background(), testGame(), 3, Filters{})
	require.NoError(t, err)

	assert.Equal(t, 1, market.resolveCalls, "event resolution must be served from cache")
	assert.Equal(t, 1, market.outcomesCalls, "market data must be served from cache")
}

func TestBuildParlayUsesStatsSource(t *testing.T) {
	market := &stubMarket{eventID: "evt-1", outcomes: testOutcomes()}
	stats := &stubStats{averages: map[string]float64{"LeBron James": 28.0}}
	builder := newTestBuilder(market, WithStatsSource(stats))

	result, err := builder.BuildParlay(context.Background(), testGame(), 4, Filters{})
	require.NoError(t, err)
	require.False(t, result.Empty())

	withContext := findLeg(t, result.Legs, "LeBron James")
	withoutContext := findLeg(t, result.Legs, "Nikola Jokic")
	// 28 over a 25.5 line should pull the estimate above the odds-only
	// prior; players with no stats fall back to the prior untouched.
	assert.NotEqual(t, withContext.EstimatedProbability, withoutContext.EstimatedProbability)
}

func TestBuildParlayRecordsHistory(t *testing.T) {
	market := &stubMarket{eventID: "evt-1", outcomes: testOutcomes()}
	recorder := &stubRecorder{}
	builder := newTestBuilder(market, WithRecorder(recorder))

	result, err := builder.BuildParlay(context.Background(), testGame(), 3, Filters{})
	require.NoError(t, err)
	require.Len(t, recorder.records, 1)
	assert.Equal(t, testGame().Display(), recorder.records[0].EventRef)
	assert.Equal(t, result.CombinedOdds, recorder.records[0].CombinedOdds)
}

func TestBuildParlayHistoryFailureDoesNotFailBuild(t *testing.T) {
	market := &stubMarket{eventID: "evt-1", outcomes: testOutcomes()}
	recorder := &stubRecorder{err: errors.New("database unavailable")}
	builder := newTestBuilder(market, WithRecorder(recorder))

	result, err := builder.BuildParlay(context.Background(), testGame(), 3, Filters{})
	require.NoError(t, err)
	assert.False(t, result.Empty())
}

func TestBuildParlayOddsFilters(t *testing.T) {
	market := &stubMarket{eventID: "evt-1", outcomes: testOutcomes()}
	builder := newTestBuilder(market)

	minOdds := -140
	result, err := builder.BuildParlay(context.Background(), testGame(), 4, Filters{MinOdds: &minOdds})
	require.NoError(t, err)
	for _, leg := range result.Legs {
		assert.GreaterOrEqual(t, leg.AmericanOdds, minOdds)
	}
}

func TestConfidenceTierRange(t *testing.T) {
	tests := []struct {
		tier        ConfidenceTier
		expectedMin float64
	}{
		{tier: TierHigh, expectedMin: 80},
		{tier: TierMedium, expectedMin: 60},
		{tier: TierLow, expectedMin: 40},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			r, err := tt.tier.Range()
			require.NoError(t, err)
			require.NotNil(t, r)
			assert.Equal(t, tt.expectedMin, r.Min)
			assert.Equal(t, 100.0, r.Max)
		})
	}

	r, err := ConfidenceTier("").Range()
	require.NoError(t, err)
	assert.Nil(t, r)

	_, err = ConfidenceTier("bogus").Range()
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestResolveConfidenceExplicitRangeWins(t *testing.T) {
	explicit := &models.ConfidenceRange{Min: 55, Max: 95}
	got, err := resolveConfidence(Filters{ConfidenceRange: explicit, Tier: TierHigh})
	require.NoError(t, err)
	assert.Equal(t, explicit, got)

	_, err = resolveConfidence(Filters{ConfidenceRange: &models.ConfidenceRange{Min: 90, Max: 10}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func findLeg(t *testing.T, legs []models.ScoredProp, player string) models.ScoredProp {
	t.Helper()
	for _, leg := range legs {
		if leg.Player == player {
			return leg
		}
	}
	t.Fatalf("no leg for player %s", player)
	return models.ScoredProp{}
}

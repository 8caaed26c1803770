package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sgp-builder/internal/models"
	"github.com/yourusername/sgp-builder/internal/odds"
)

func outcome(americanOdds int) models.Outcome {
	line := 22.5
	return models.Outcome{
		Player:       "LeBron James",
		MarketKey:    "player_points",
		Side:         models.SideOver,
		Line:         &line,
		AmericanOdds: americanOdds,
	}
}

func TestScoreWithoutPerformanceContext(t *testing.T) {
	scorer := NewHeuristicScorer()

	tests := []struct {
		name               string
		americanOdds       int
		expectedEstimated  float64
		expectedConfidence float64
	}{
		// implied 0.75 -> prior 0.78, edge 0.04
		{name: "heavy favorite", americanOdds: -300, expectedEstimated: 0.78, expectedConfidence: 52},
		// implied 0.50 -> prior 0.53, edge 0.06
		{name: "even money", americanOdds: 100, expectedEstimated: 0.53, expectedConfidence: 53},
		// implied 0.3333 -> prior 0.35, edge 0.05
		{name: "underdog", americanOdds: 200, expectedEstimated: 0.35, expectedConfidence: 52.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(outcome(tt.americanOdds), nil)
			assert.InDelta(t, tt.expectedEstimated, got.EstimatedProbability, 1e-9)
			assert.InDelta(t, tt.expectedConfidence, got.ConfidenceScore, 1e-6)
			assert.InDelta(t, odds.ToImpliedProbability(tt.americanOdds), got.ImpliedProbability, 1e-9)
		})
	}
}

// Shorter odds must never produce a lower estimate than longer odds.
func TestEstimateMonotonicInOdds(t *testing.T) {
	scorer := NewHeuristicScorer()
	quotes := []int{-2000, -400, -300, -250, -150, -110, 100, 130, 200, 400, 1000}

	previous := 1.1
	for _, quote := range quotes {
		estimated := scorer.Score(outcome(quote), nil).EstimatedProbability
		assert.LessOrEqual(t, estimated, previous, "estimate rose from shorter to longer odds at %d", quote)
		previous = estimated
	}
}

func TestScoreBlendsPerformanceContext(t *testing.T) {
	scorer := NewHeuristicScorer()

	// Average well above the line: ratio clamps to 0.9.
	// implied(-110)=0.52381 -> prior 0.53; 0.6*0.53 + 0.4*0.9 = 0.678
	got := scorer.Score(outcome(-110), &models.PerformanceContext{Average: 28, Line: 22.5})
	assert.InDelta(t, 0.678, got.EstimatedProbability, 1e-9)
	assert.Greater(t, got.ConfidenceScore, 50.0)

	// Average far below the line: ratio clamps to 0.1.
	// 0.6*0.53 + 0.4*0.1 = 0.358
	got = scorer.Score(outcome(-110), &models.PerformanceContext{Average: 1, Line: 22.5})
	assert.InDelta(t, 0.358, got.EstimatedProbability, 1e-9)
	assert.Less(t, got.ConfidenceScore, 50.0)
}

func TestScoreIgnoresDegenerateContext(t *testing.T) {
	scorer := NewHeuristicScorer()
	baseline := scorer.Score(outcome(-110), nil)

	for _, perf := range []*models.PerformanceContext{
		nil,
		{Average: 0, Line: 22.5},
		{Average: 20, Line: 0},
	} {
		got := scorer.Score(outcome(-110), perf)
		assert.Equal(t, baseline, got)
	}
}

func TestScoreConfidenceStaysInRange(t *testing.T) {
	scorer := NewHeuristicScorer()
	for _, quote := range []int{-5000, -300, -110, 100, 250, 5000} {
		for _, perf := range []*models.PerformanceContext{
			nil,
			{Average: 50, Line: 10},
			{Average: 1, Line: 50},
		} {
			got := scorer.Score(outcome(quote), perf)
			assert.GreaterOrEqual(t, got.ConfidenceScore, 0.0)
			assert.LessOrEqual(t, got.ConfidenceScore, 100.0)
		}
	}
}

func TestScoreOutcomeAssemblesProp(t *testing.T) {
	scorer := NewHeuristicScorer()
	prop := ScoreOutcome(scorer, outcome(-300), nil)

	assert.Equal(t, models.CategoryPoints, prop.Category)
	assert.Equal(t, models.RiskVerySafe, prop.RiskLevel)
	assert.InDelta(t, 0.75, prop.ImpliedProbability, 1e-9)
	assert.InDelta(t, 0.78, prop.EstimatedProbability, 1e-9)
	// 0.78 < 0.75*1.1, not discrepant
	assert.False(t, prop.LineDiscrepancy)
}

func TestScorerIsDeterministic(t *testing.T) {
	scorer := NewHeuristicScorer()
	perf := &models.PerformanceContext{Average: 25, Line: 22.5}
	first := scorer.Score(outcome(-150), perf)
	second := scorer.Score(outcome(-150), perf)
	require.Equal(t, first, second)
}

func TestLineDiscrepant(t *testing.T) {
	tests := []struct {
		name         string
		americanOdds int
		confidence   float64
		expected     bool
	}{
		// implied(-110) = 0.52381; threshold 0.57619
		{name: "well above threshold", americanOdds: -110, confidence: 0.678, expected: true},
		{name: "exactly at threshold", americanOdds: -110, confidence: 110.0 / 210.0 * 1.1, expected: false},
		{name: "below threshold", americanOdds: -110, confidence: 0.53, expected: false},
		// implied(+200) = 0.3333; threshold 0.3667
		{name: "underdog with edge", americanOdds: 200, confidence: 0.45, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LineDiscrepant(tt.americanOdds, tt.confidence))
		})
	}
}

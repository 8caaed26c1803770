// Package scoring assesses raw bookmaker outcomes and turns them into
// scored props ready for selection.
package scoring

import (
	"github.com/yourusername/sgp-builder/internal/models"
	"github.com/yourusername/sgp-builder/internal/odds"
)

// Assessment is the scorer's verdict on a single outcome.
type Assessment struct {
	ImpliedProbability   float64
	EstimatedProbability float64
	ConfidenceScore      float64
	BettingEdge          float64
}

// Scorer estimates how likely a prop is to hit. Implementations must be
// deterministic for identical inputs; a missing or zero performance
// context falls back to an odds-only estimate, never an error.
type Scorer interface {
	Name() string
	Score(outcome models.Outcome, perf *models.PerformanceContext) Assessment
}

// ScoreOutcome runs one outcome through the full per-prop pipeline:
// scoring, risk classification and line-discrepancy detection.
func ScoreOutcome(scorer Scorer, outcome models.Outcome, perf *models.PerformanceContext) models.ScoredProp {
	assessment := scorer.Score(outcome, perf)
	return models.ScoredProp{
		Outcome:              outcome,
		Category:             models.CategoryFromMarketKey(outcome.MarketKey),
		ImpliedProbability:   assessment.ImpliedProbability,
		EstimatedProbability: assessment.EstimatedProbability,
		ConfidenceScore:      assessment.ConfidenceScore,
		BettingEdge:          assessment.BettingEdge,
		RiskLevel:            odds.ClassifyRisk(outcome.AmericanOdds),
		LineDiscrepancy:      LineDiscrepant(outcome.AmericanOdds, assessment.EstimatedProbability),
	}
}

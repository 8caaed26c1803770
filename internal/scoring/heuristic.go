package scoring

import (
	"github.com/yourusername/sgp-builder/internal/models"
	"github.com/yourusername/sgp-builder/internal/odds"
)

// HeuristicScorer is the shipped Scorer implementation. It is an explicit
// deterministic heuristic, not a trained model: the prior is a step
// function of the market's implied probability, optionally blended with
// the player's recent average relative to the line. Swap it out via the
// Scorer interface when a real model becomes available.
type HeuristicScorer struct {
	// PriorWeight controls how much the odds prior contributes when a
	// performance context is present. Remainder goes to the average/line
	// ratio.
	PriorWeight float64
}

// NewHeuristicScorer returns a scorer with the default prior weight.
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{PriorWeight: 0.6}
}

// Name returns the scorer name.
func (s *HeuristicScorer) Name() string {
	return "heuristic_v1"
}

// Score implements Scorer.
func (s *HeuristicScorer) Score(outcome models.Outcome, perf *models.PerformanceContext) Assessment {
	implied := odds.ToImpliedProbability(outcome.AmericanOdds)
	prior := oddsPrior(implied)

	estimated := prior
	if perf != nil && perf.Line > 0 && perf.Average > 0 {
		ratio := clamp(perf.Average/perf.Line, 0.1, 0.9)
		weight := s.PriorWeight
		if weight <= 0 || weight > 1 {
			weight = 0.6
		}
		estimated = weight*prior + (1-weight)*ratio
	}

	edge := 0.0
	if implied > 0 {
		edge = (estimated - implied) / implied
	}

	return Assessment{
		ImpliedProbability:   implied,
		EstimatedProbability: estimated,
		ConfidenceScore:      clamp(edge*50+50, 0, 100),
		BettingEdge:          edge,
	}
}

// oddsPrior maps implied probability to a baseline hit estimate. Heavier
// favorites get a higher prior; the steps are monotonic in implied.
func oddsPrior(implied float64) float64 {
	switch {
	case implied >= 0.75:
		return 0.78
	case implied >= 0.65:
		return 0.70
	case implied >= 0.55:
		return 0.62
	case implied >= 0.45:
		return 0.53
	case implied >= 0.35:
		return 0.45
	default:
		return 0.35
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

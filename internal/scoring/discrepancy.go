package scoring

import "github.com/yourusername/sgp-builder/internal/odds"

// discrepancyFactor is the relative edge the model must claim over the
// market before a prop is flagged.
const discrepancyFactor = 1.1

// LineDiscrepant reports whether the model's confidence in a prop
// materially exceeds what the market's odds imply (at least a 10%
// relative edge).
func LineDiscrepant(americanOdds int, modelConfidence float64) bool {
	implied := odds.ToImpliedProbability(americanOdds)
	return modelConfidence > implied*discrepancyFactor
}

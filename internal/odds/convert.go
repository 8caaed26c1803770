// Package odds provides conversions between American odds, decimal odds
// and implied probability, plus risk bucketing over American odds.
package odds

import (
	"fmt"
	"math"

	"github.com/yourusername/sgp-builder/internal/models"
)

// ToDecimal converts American odds to decimal odds.
// American +150 → 2.50, American -150 → 1.67. Zero is treated as a
// degenerate positive quote (decimal 1.0) rather than rejected, so the
// classifier's Moderate bucket stays exhaustive over all integers.
func ToDecimal(american int) float64 {
	if american < 0 {
		return 1.0 + 100.0/float64(-american)
	}
	return 1.0 + float64(american)/100.0
}

// ToImpliedProbability converts American odds to the win probability the
// quote encodes, ignoring bookmaker margin.
func ToImpliedProbability(american int) float64 {
	if american < 0 {
		return float64(-american) / (float64(-american) + 100.0)
	}
	return 100.0 / (float64(american) + 100.0)
}

// ToAmerican converts decimal odds back to American odds. Decimal odds of
// exactly 1.0 carry no payout and have no American representation; that is
// an input error, never a division by zero. Decimal 2.0 is encoded by both
// -100 and +100; the positive form is the canonical result.
func ToAmerican(decimal float64) (int, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("%w: decimal odds %.4f have no American equivalent", models.ErrInvalidInput, decimal)
	}
	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}
	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}

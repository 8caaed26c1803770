package parlay

import (
	"fmt"

	"github.com/yourusername/sgp-builder/internal/models"
)

// ToWin returns the profit a wager yields at the given American odds:
// positive quotes pay odds/100 per unit staked, negative quotes pay
// 100/|odds| per unit.
func ToWin(wager float64, americanOdds int) (float64, error) {
	if wager < 0 {
		return 0, fmt.Errorf("%w: wager cannot be negative", models.ErrInvalidInput)
	}
	if americanOdds == 0 {
		return 0, fmt.Errorf("%w: American odds of 0 carry no payout", models.ErrInvalidInput)
	}
	if americanOdds > 0 {
		return wager * float64(americanOdds) / 100.0, nil
	}
	return wager * 100.0 / float64(-americanOdds), nil
}

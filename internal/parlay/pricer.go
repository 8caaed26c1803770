package parlay

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yourusername/sgp-builder/internal/models"
	"github.com/yourusername/sgp-builder/internal/odds"
)

// Price combines the legs of a parlay into one American odds quote: the
// product of each leg's decimal odds converted back to American. A single
// leg round-trips its own price. An empty leg list has no defined price.
func Price(legs []models.ScoredProp) (int, error) {
	if len(legs) == 0 {
		return 0, fmt.Errorf("%w: cannot price a parlay with no legs", models.ErrInvalidInput)
	}

	quotes := make([]int, len(legs))
	for i, leg := range legs {
		quotes[i] = leg.AmericanOdds
	}
	return PriceAmerican(quotes)
}

// PriceAmerican combines raw American odds quotes. Decimal multiplication
// runs through shopspring/decimal so long parlays do not drift before the
// final rounding.
func PriceAmerican(quotes []int) (int, error) {
	if len(quotes) == 0 {
		return 0, fmt.Errorf("%w: cannot price a parlay with no legs", models.ErrInvalidInput)
	}

	combined := decimal.NewFromInt(1)
	for _, quote := range quotes {
		combined = combined.Mul(decimalOdds(quote))
	}

	price, err := odds.ToAmerican(combined.InexactFloat64())
	if err != nil {
		return 0, fmt.Errorf("combined decimal odds %s: %w", combined, err)
	}
	return price, nil
}

// decimalOdds converts one American quote to decimal odds exactly.
func decimalOdds(american int) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	one := decimal.NewFromInt(1)
	if american < 0 {
		return one.Add(hundred.Div(decimal.NewFromInt(int64(-american))))
	}
	return one.Add(decimal.NewFromInt(int64(american)).Div(hundred))
}

package odds

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sgp-builder/internal/models"
)

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		expected float64
	}{
		{name: "even money positive", american: 100, expected: 2.0},
		{name: "plus 150", american: 150, expected: 2.5},
		{name: "minus 150", american: -150, expected: 1.0 + 100.0/150.0},
		{name: "minus 200", american: -200, expected: 1.5},
		{name: "heavy favorite", american: -400, expected: 1.25},
		{name: "long shot", american: 900, expected: 10.0},
		{name: "zero degenerates to 1.0", american: 0, expected: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ToDecimal(tt.american), 1e-9)
		})
	}
}

func TestToImpliedProbability(t *testing.T) {
	tests := []struct {
		name     string
		american int
		expected float64
	}{
		{name: "even money", american: 100, expected: 0.5},
		{name: "minus 110", american: -110, expected: 110.0 / 210.0},
		{name: "minus 300", american: -300, expected: 0.75},
		{name: "plus 300", american: 300, expected: 0.25},
		{name: "plus 900", american: 900, expected: 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ToImpliedProbability(tt.american), 1e-9)
		})
	}
}

func TestToAmericanRejectsNoPayoutQuotes(t *testing.T) {
	for _, decimal := range []float64{1.0, 0.99, 0.0, -2.5} {
		_, err := ToAmerican(decimal)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrInvalidInput))
	}
}

func TestToAmerican(t *testing.T) {
	tests := []struct {
		name     string
		decimal  float64
		expected int
	}{
		{name: "boundary 2.0 is even money", decimal: 2.0, expected: 100},
		{name: "plus side", decimal: 2.5, expected: 150},
		{name: "minus side", decimal: 1.5, expected: -200},
		{name: "strong favorite", decimal: 1.25, expected: -400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToAmerican(tt.decimal)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// Real sportsbook quotes live in [-10000,-100] and [100,10000]; every one
// of them must survive a decimal round trip unchanged, except -100: it is
// the same price as +100 (decimal 2.0), and the inverse canonicalizes the
// shared point to the positive form.
func TestAmericanDecimalRoundTrip(t *testing.T) {
	for american := -10000; american <= -101; american++ {
		got, err := ToAmerican(ToDecimal(american))
		require.NoError(t, err)
		require.Equal(t, american, got, "round trip diverged at %d", american)
	}
	for american := 100; american <= 10000; american++ {
		got, err := ToAmerican(ToDecimal(american))
		require.NoError(t, err)
		require.Equal(t, american, got, "round trip diverged at %d", american)
	}
}

// -100 and +100 both encode decimal 2.0; the inverse returns +100 for both.
func TestEvenMoneyCanonicalizesPositive(t *testing.T) {
	assert.InDelta(t, 2.0, ToDecimal(-100), 1e-9)
	assert.InDelta(t, 2.0, ToDecimal(100), 1e-9)

	got, err := ToAmerican(ToDecimal(-100))
	require.NoError(t, err)
	assert.Equal(t, 100, got)
}

// Implied probability must strictly decrease as quotes lengthen.
func TestImpliedProbabilityMonotonic(t *testing.T) {
	quotes := []int{-10000, -500, -300, -200, -110, 100, 150, 250, 500, 10000}
	for i := 1; i < len(quotes); i++ {
		assert.Greater(t, ToImpliedProbability(quotes[i-1]), ToImpliedProbability(quotes[i]),
			"implied should fall from %d to %d", quotes[i-1], quotes[i])
	}
}

package service

import (
	"context"
	"fmt"

	"github.com/yourusername/sgp-builder/internal/models"
	"github.com/yourusername/sgp-builder/internal/parlay"
)

// Multi-game (SGP+) constraints.
const (
	MinGames          = 2
	MaxGames          = 12
	MaxTotalProps     = 24
	DefaultLegsPerGame = 3
)

// GameParlay pairs a game with its per-game selection.
type GameParlay struct {
	Game   models.GameRef          `json:"game"`
	Result *models.SelectionResult `json:"result"`
}

// MultiGameResult is an SGP+ recommendation: one small parlay per game
// plus a single combined price across every leg.
type MultiGameResult struct {
	Games        []GameParlay `json:"games"`
	TotalLegs    int          `json:"total_legs"`
	CombinedOdds int          `json:"combined_odds"`
}

// BuildMultiGame builds an SGP+ across 2-12 games, selecting up to
// legsPerGame props in each, capped at 24 legs overall. Games whose
// selection comes back empty are kept in the result with an empty leg
// list so the caller can surface which games contributed nothing.
func (b *ParlayBuilder) BuildMultiGame(ctx context.Context, refs []models.GameRef, legsPerGame int, filters Filters) (*MultiGameResult, error) {
	if len(refs) < MinGames || len(refs) > MaxGames {
		return nil, fmt.Errorf("%w: multi-game parlay needs %d-%d games, got %d",
			models.ErrInvalidInput, MinGames, MaxGames, len(refs))
	}
	if legsPerGame <= 0 {
		legsPerGame = DefaultLegsPerGame
	}
	if legsPerGame*len(refs) > MaxTotalProps {
		return nil, fmt.Errorf("%w: %d games x %d legs exceeds the %d prop cap",
			models.ErrInvalidInput, len(refs), legsPerGame, MaxTotalProps)
	}

	result := &MultiGameResult{Games: make([]GameParlay, 0, len(refs))}
	var allLegs []models.ScoredProp

	for _, ref := range refs {
		selection, err := b.BuildParlay(ctx, ref, legsPerGame, filters)
		if err != nil {
			if selection != nil && selection.Empty() {
				// Upstream failure on one game: keep going with the rest.
				result.Games = append(result.Games, GameParlay{Game: ref, Result: selection})
				continue
			}
			return nil, err
		}
		result.Games = append(result.Games, GameParlay{Game: ref, Result: selection})
		allLegs = append(allLegs, selection.Legs...)
	}

	result.TotalLegs = len(allLegs)
	if len(allLegs) == 0 {
		return result, nil
	}

	combined, err := parlay.Price(allLegs)
	if err != nil {
		return nil, err
	}
	result.CombinedOdds = combined
	return result, nil
}

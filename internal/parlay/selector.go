// Package parlay selects a diverse set of scored props and prices the
// combined wager.
package parlay

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/yourusername/sgp-builder/internal/models"
)

// Selector picks a category-balanced, conflict-free subset of a scored
// pool. The policy is two-phase: one diversity pass that takes the best
// prop per category in a fixed order, then a fill pass ranked purely by
// confidence. Output ordering is deterministic for identical inputs.
type Selector struct{}

// NewSelector creates a selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Select applies the request's filters and returns at most TargetCount
// legs. An empty result is a normal outcome when nothing survives the
// filters, not an error.
func (s *Selector) Select(req models.SelectionRequest) []models.ScoredProp {
	if req.TargetCount <= 0 {
		return nil
	}

	filtered := Filter(req.Pool, req.MinOdds, req.MaxOdds, req.ConfidenceRange)
	if len(filtered) == 0 {
		return nil
	}

	picked := make([]models.ScoredProp, 0, req.TargetCount)
	chosen := make(map[string]bool, req.TargetCount)
	conflicts := make(map[string]bool, req.TargetCount)

	appendLeg := func(p models.ScoredProp) {
		picked = append(picked, p)
		chosen[identity(p)] = true
		conflicts[p.ConflictKey()] = true
	}

	// Phase A: best prop per category, fixed traversal order.
	byCategory := make(map[models.Category][]models.ScoredProp)
	for _, p := range filtered {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}
	for _, category := range models.CategoryOrder {
		candidates := byCategory[category]
		if len(candidates) == 0 {
			continue
		}
		sortByConfidence(candidates)
		for _, p := range candidates {
			if conflicts[p.ConflictKey()] {
				continue
			}
			appendLeg(p)
			break
		}
	}

	// Phase B: fill from everything not yet chosen, confidence first,
	// favorite on ties.
	remaining := make([]models.ScoredProp, 0, len(filtered))
	for _, p := range filtered {
		if !chosen[identity(p)] {
			remaining = append(remaining, p)
		}
	}
	sortByConfidence(remaining)
	for _, p := range remaining {
		if len(picked) >= req.TargetCount {
			break
		}
		if conflicts[p.ConflictKey()] {
			continue
		}
		appendLeg(p)
	}

	if len(picked) > req.TargetCount {
		picked = picked[:req.TargetCount]
	}
	return picked
}

// Filter drops props outside the odds range or confidence range. It is
// idempotent: re-filtering with the same bounds returns the same set.
func Filter(pool []models.ScoredProp, minOdds, maxOdds *int, confidence *models.ConfidenceRange) []models.ScoredProp {
	out := make([]models.ScoredProp, 0, len(pool))
	for _, p := range pool {
		if minOdds != nil && p.AmericanOdds < *minOdds {
			continue
		}
		if maxOdds != nil && p.AmericanOdds > *maxOdds {
			continue
		}
		if confidence != nil && !confidence.Contains(p.ConfidenceScore) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// sortByConfidence orders props by confidence descending, breaking ties
// with the lower (more favored) American odds.
func sortByConfidence(props []models.ScoredProp) {
	sort.SliceStable(props, func(i, j int) bool {
		if props[i].ConfidenceScore != props[j].ConfidenceScore {
			return props[i].ConfidenceScore > props[j].ConfidenceScore
		}
		return props[i].AmericanOdds < props[j].AmericanOdds
	})
}

// identity distinguishes individual outcomes inside one pool, including
// the side and line so alternate lines of the same market stay distinct.
func identity(p models.ScoredProp) string {
	line := ""
	if p.Line != nil {
		line = strconv.FormatFloat(*p.Line, 'f', 1, 64)
	}
	return fmt.Sprintf("%s|%s|%s|%s|%d", p.Player, p.MarketKey, p.Side, line, p.AmericanOdds)
}

// Package models defines the core data shapes for the SGP builder engine.
package models

import "fmt"

// Side indicates which side of a prop line an outcome covers.
type Side string

const (
	SideOver    Side = "Over"
	SideUnder   Side = "Under"
	SideUnknown Side = "Unknown"
)

// RiskLevel classifies how risky a prop is based on its American odds.
type RiskLevel string

const (
	RiskVerySafe RiskLevel = "very_safe"
	RiskSafe     RiskLevel = "safe"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// Category is the normalized prop taxonomy. Market keys from the odds
// provider (including *_alternate variants) collapse into these buckets.
type Category string

const (
	CategoryPoints               Category = "points"
	CategoryRebounds             Category = "rebounds"
	CategoryAssists              Category = "assists"
	CategoryThrees               Category = "threes"
	CategoryPointsRebounds       Category = "points_rebounds"
	CategoryPointsAssists        Category = "points_assists"
	CategoryReboundsAssists      Category = "rebounds_assists"
	CategoryPointsReboundsAssists Category = "points_rebounds_assists"
	CategoryUnknown              Category = "unknown"
)

// CategoryOrder is the fixed traversal order used by the selector's
// diversity pass. Single-stat categories first, then combinations.
var CategoryOrder = []Category{
	CategoryPoints,
	CategoryRebounds,
	CategoryAssists,
	CategoryThrees,
	CategoryPointsRebounds,
	CategoryPointsAssists,
	CategoryReboundsAssists,
	CategoryPointsReboundsAssists,
}

// Outcome is a single raw bookmaker outcome for a player prop.
// Produced by the market-data layer, never mutated afterwards.
type Outcome struct {
	Player       string   `json:"player"`
	MarketKey    string   `json:"market_key"`
	Side         Side     `json:"side"`
	Line         *float64 `json:"line,omitempty"`
	AmericanOdds int      `json:"american_odds"`
	AltLine      bool     `json:"alt_line"`
}

// ScoredProp is an Outcome enriched with the engine's assessment.
type ScoredProp struct {
	Outcome
	Category             Category  `json:"category"`
	ImpliedProbability   float64   `json:"implied_probability"`
	EstimatedProbability float64   `json:"estimated_probability"`
	ConfidenceScore      float64   `json:"confidence_score"`
	BettingEdge          float64   `json:"betting_edge"`
	RiskLevel            RiskLevel `json:"risk_level"`
	LineDiscrepancy      bool      `json:"line_discrepancy"`
}

// ConflictKey identifies a player-stat pairing. Two legs with the same
// conflict key cannot coexist in one parlay.
func (p ScoredProp) ConflictKey() string {
	return fmt.Sprintf("%s|%s", p.Player, p.Category)
}

// CategoryFromMarketKey maps a provider market key onto the fixed taxonomy.
// Alternate-line variants share the bucket of their standard market.
func CategoryFromMarketKey(key string) Category {
	switch trimAlternate(key) {
	case "player_points", "points":
		return CategoryPoints
	case "player_rebounds", "rebounds":
		return CategoryRebounds
	case "player_assists", "assists":
		return CategoryAssists
	case "player_threes", "threes", "player_three_pointers_made":
		return CategoryThrees
	case "player_points_rebounds", "points_rebounds":
		return CategoryPointsRebounds
	case "player_points_assists", "points_assists":
		return CategoryPointsAssists
	case "player_rebounds_assists", "rebounds_assists":
		return CategoryReboundsAssists
	case "player_points_rebounds_assists", "points_rebounds_assists":
		return CategoryPointsReboundsAssists
	default:
		return CategoryUnknown
	}
}

// IsAlternateMarketKey reports whether the provider key is an alternate line.
func IsAlternateMarketKey(key string) bool {
	return len(key) > len(alternateSuffix) && key[len(key)-len(alternateSuffix):] == alternateSuffix
}

const alternateSuffix = "_alternate"

func trimAlternate(key string) string {
	if IsAlternateMarketKey(key) {
		return key[:len(key)-len(alternateSuffix)]
	}
	return key
}

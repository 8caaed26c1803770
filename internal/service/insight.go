package service

import (
	"fmt"

	"github.com/yourusername/sgp-builder/internal/models"
	"github.com/yourusername/sgp-builder/internal/odds"
)

// Insight renders a one-line rationale for a selected leg.
func Insight(prop models.ScoredProp) string {
	label := riskText(prop.RiskLevel)
	text := fmt.Sprintf("%s %s %s sits at %.1f%% confidence (%s). Rated a %s play.",
		prop.Player, prop.Side, categoryText(prop.Category),
		prop.ConfidenceScore, odds.FormatAmerican(prop.AmericanOdds), label)
	if prop.LineDiscrepancy {
		text += " Model sees more value than the market is pricing."
	}
	return text
}

func riskText(level models.RiskLevel) string {
	switch level {
	case models.RiskVerySafe:
		return "very safe"
	case models.RiskSafe:
		return "safe"
	case models.RiskModerate:
		return "moderate"
	case models.RiskHigh:
		return "high risk"
	case models.RiskVeryHigh:
		return "very high risk"
	default:
		return string(level)
	}
}

func categoryText(category models.Category) string {
	switch category {
	case models.CategoryPoints:
		return "Points"
	case models.CategoryRebounds:
		return "Rebounds"
	case models.CategoryAssists:
		return "Assists"
	case models.CategoryThrees:
		return "Threes"
	case models.CategoryPointsRebounds:
		return "Points+Rebounds"
	case models.CategoryPointsAssists:
		return "Points+Assists"
	case models.CategoryReboundsAssists:
		return "Rebounds+Assists"
	case models.CategoryPointsReboundsAssists:
		return "Points+Rebounds+Assists"
	default:
		return string(category)
	}
}

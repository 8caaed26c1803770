package odds

import "github.com/yourusername/sgp-builder/internal/models"

// ClassifyRisk maps American odds onto a discrete risk bucket. The buckets
// are closed and exhaustive over all integers; the -99..99 range that real
// American quotes skip by convention falls in Moderate.
func ClassifyRisk(american int) models.RiskLevel {
	switch {
	case american <= -300:
		return models.RiskVerySafe
	case american <= -200:
		return models.RiskSafe
	case american <= 100:
		return models.RiskModerate
	case american <= 250:
		return models.RiskHigh
	default:
		return models.RiskVeryHigh
	}
}

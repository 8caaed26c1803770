// Package service orchestrates the parlay build pipeline: market data in,
// scored, selected and priced parlays out.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sgp-builder/internal/cache"
	"github.com/yourusername/sgp-builder/internal/datasource"
	"github.com/yourusername/sgp-builder/internal/metrics"
	"github.com/yourusername/sgp-builder/internal/models"
	"github.com/yourusername/sgp-builder/internal/parlay"
	"github.com/yourusername/sgp-builder/internal/scoring"
)

// DefaultMarkets are the prop markets requested per event: the four
// standard categories plus their alternate lines.
var DefaultMarkets = []string{
	"player_points", "player_rebounds", "player_assists", "player_threes",
	"player_points_alternate", "player_rebounds_alternate",
	"player_assists_alternate", "player_threes_alternate",
}

// ConfidenceTier is a coarse confidence filter exposed to callers.
type ConfidenceTier string

const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
)

// Range converts a tier into the confidence range it admits.
func (t ConfidenceTier) Range() (*models.ConfidenceRange, error) {
	switch t {
	case TierHigh:
		return &models.ConfidenceRange{Min: 80, Max: 100}, nil
	case TierMedium:
		return &models.ConfidenceRange{Min: 60, Max: 100}, nil
	case TierLow:
		return &models.ConfidenceRange{Min: 40, Max: 100}, nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown confidence tier %q", models.ErrInvalidInput, t)
	}
}

// Filters narrows which scored props a build may select.
type Filters struct {
	MinOdds         *int
	MaxOdds         *int
	ConfidenceRange *models.ConfidenceRange
	Tier            ConfidenceTier
}

// ParlayRecorder persists built parlays. Optional; a nil recorder means
// history is disabled.
type ParlayRecorder interface {
	Record(ctx context.Context, record *models.ParlayRecord) error
}

// ParlayBuilder wires the datasources, scorer, selector and pricer into
// the caller-facing engine.
type ParlayBuilder struct {
	market   datasource.MarketDataSource
	stats    datasource.PlayerStatsSource
	scorer   scoring.Scorer
	selector *parlay.Selector
	cache    *cache.ResultCache
	recorder ParlayRecorder
	logger   *logrus.Logger
	markets  []string
}

// BuilderOption customizes a ParlayBuilder.
type BuilderOption func(*ParlayBuilder)

// WithStatsSource enables performance-context lookups for the scorer.
func WithStatsSource(stats datasource.PlayerStatsSource) BuilderOption {
	return func(b *ParlayBuilder) { b.stats = stats }
}

// WithRecorder enables parlay history persistence.
func WithRecorder(recorder ParlayRecorder) BuilderOption {
	return func(b *ParlayBuilder) { b.recorder = recorder }
}

// WithMarkets overrides the default market keys requested per event.
func WithMarkets(markets []string) BuilderOption {
	return func(b *ParlayBuilder) {
		if len(markets) > 0 {
			b.markets = markets
		}
	}
}

// NewParlayBuilder creates the engine facade.
func NewParlayBuilder(market datasource.MarketDataSource, scorer scoring.Scorer, resultCache *cache.ResultCache, logger *logrus.Logger, opts ...BuilderOption) *ParlayBuilder {
	b := &ParlayBuilder{
		market:   market,
		scorer:   scorer,
		selector: parlay.NewSelector(),
		cache:    resultCache,
		logger:   logger,
		markets:  DefaultMarkets,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildParlay resolves the event, scores its prop pool and returns a
// priced selection. An empty result is the normal outcome when no props
// satisfy the filters or the event has no data; upstream failures also
// yield an empty result but carry a typed error so the caller can decide
// whether to retry.
func (b *ParlayBuilder) BuildParlay(ctx context.Context, ref models.GameRef, targetCount int, filters Filters) (*models.SelectionResult, error) {
	started := time.Now()

	if targetCount < 1 {
		return nil, fmt.Errorf("%w: target count must be at least 1, got %d", models.ErrInvalidInput, targetCount)
	}
	confidence, err := resolveConfidence(filters)
	if err != nil {
		return nil, err
	}

	pool, err := b.scoredPool(ctx, ref)
	if err != nil {
		if errors.Is(err, models.ErrNoData) {
			b.logger.WithField("game", ref.Display()).Info("No props available")
			metrics.EmptySelectionsTotal.Inc()
			return &models.SelectionResult{}, nil
		}
		// Upstream failure degrades to an empty pool; the typed error
		// tells the caller a retry might succeed.
		b.logger.WithField("game", ref.Display()).Warnf("Upstream failure, returning empty selection: %v", err)
		metrics.RecordUpstreamError(b.market.Name())
		return &models.SelectionResult{}, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}

	legs := b.selector.Select(models.SelectionRequest{
		Pool:            pool,
		TargetCount:     targetCount,
		MinOdds:         filters.MinOdds,
		MaxOdds:         filters.MaxOdds,
		ConfidenceRange: confidence,
	})
	if len(legs) == 0 {
		metrics.EmptySelectionsTotal.Inc()
		return &models.SelectionResult{}, nil
	}

	combined, err := parlay.Price(legs)
	if err != nil {
		return nil, err
	}

	result := &models.SelectionResult{Legs: legs, CombinedOdds: combined}
	metrics.RecordBuild(time.Since(started).Seconds(), combined)
	b.logger.WithFields(logrus.Fields{
		"game":          ref.Display(),
		"legs":          len(legs),
		"combined_odds": combined,
	}).Info("Parlay built")

	b.record(ctx, ref, result)
	return result, nil
}

// PriceLegs combines already-selected legs into one American quote.
func (b *ParlayBuilder) PriceLegs(legs []models.ScoredProp) (int, error) {
	return parlay.Price(legs)
}

// scoredPool fetches and scores every outcome for the game. Event
// resolution, market data and player averages all go through the result
// cache so repeated builds within the TTL stay off the wire.
func (b *ParlayBuilder) scoredPool(ctx context.Context, ref models.GameRef) ([]models.ScoredProp, error) {
	eventKey := fmt.Sprintf("event:%s:%s", ref.Display(), ref.Date.Format("2006-01-02"))
	cachedID, err := b.cache.GetOrCompute(eventKey, func() (any, error) {
		return b.market.ResolveEvent(ctx, ref)
	})
	if err != nil {
		return nil, classifyUpstream(err)
	}
	eventID := cachedID.(string)

	outcomesKey := fmt.Sprintf("outcomes:%s:%s", eventID, strings.Join(b.markets, ","))
	cachedOutcomes, err := b.cache.GetOrCompute(outcomesKey, func() (any, error) {
		return b.market.EventOutcomes(ctx, eventID, b.markets)
	})
	if err != nil {
		return nil, classifyUpstream(err)
	}
	outcomes := cachedOutcomes.([]models.Outcome)
	if len(outcomes) == 0 {
		return nil, fmt.Errorf("%w: event %s returned no outcomes", models.ErrNoData, eventID)
	}

	pool := make([]models.ScoredProp, 0, len(outcomes))
	discrepant := 0
	for _, outcome := range outcomes {
		perf := b.performanceContext(ctx, outcome)
		prop := scoring.ScoreOutcome(b.scorer, outcome, perf)
		if prop.LineDiscrepancy {
			discrepant++
		}
		pool = append(pool, prop)
	}

	metrics.PropsScoredTotal.Add(float64(len(pool)))
	metrics.PoolSize.Observe(float64(len(pool)))
	metrics.DiscrepantPropsInPool.Set(float64(discrepant))
	return pool, nil
}

// performanceContext looks up the player's season average for the prop's
// category. Any failure falls back to nil so the scorer uses its
// odds-only prior.
func (b *ParlayBuilder) performanceContext(ctx context.Context, outcome models.Outcome) *models.PerformanceContext {
	if b.stats == nil || outcome.Line == nil || *outcome.Line <= 0 {
		return nil
	}

	category := models.CategoryFromMarketKey(outcome.MarketKey)
	statKey := fmt.Sprintf("avg:%s:%s", outcome.Player, category)
	cached, err := b.cache.GetOrCompute(statKey, func() (any, error) {
		return b.stats.SeasonAverage(ctx, outcome.Player, category)
	})
	if err != nil {
		b.logger.WithFields(logrus.Fields{
			"player":   outcome.Player,
			"category": category,
		}).Debugf("No performance context: %v", err)
		return nil
	}

	average := cached.(float64)
	if average <= 0 {
		return nil
	}
	return &models.PerformanceContext{Average: average, Line: *outcome.Line}
}

func (b *ParlayBuilder) record(ctx context.Context, ref models.GameRef, result *models.SelectionResult) {
	if b.recorder == nil || result.Empty() {
		return
	}
	rec := models.NewParlayRecord(ref.Display(), result.Legs, result.CombinedOdds)
	if err := b.recorder.Record(ctx, rec); err != nil {
		// History is best-effort; a storage failure never fails a build.
		b.logger.Warnf("Failed to record parlay history: %v", err)
	}
}

// resolveConfidence merges an explicit range with a tier shorthand; the
// explicit range wins when both are set.
func resolveConfidence(filters Filters) (*models.ConfidenceRange, error) {
	if filters.ConfidenceRange != nil {
		if filters.ConfidenceRange.Min > filters.ConfidenceRange.Max {
			return nil, fmt.Errorf("%w: confidence range min %.1f exceeds max %.1f",
				models.ErrInvalidInput, filters.ConfidenceRange.Min, filters.ConfidenceRange.Max)
		}
		return filters.ConfidenceRange, nil
	}
	return filters.Tier.Range()
}

// classifyUpstream maps datasource not-found errors onto ErrNoData and
// everything else onto a plain upstream failure.
func classifyUpstream(err error) error {
	if errors.Is(err, datasource.ErrNotFound) {
		return fmt.Errorf("%w: %v", models.ErrNoData, err)
	}
	return err
}

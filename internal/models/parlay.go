package models

import (
	"time"

	"github.com/google/uuid"
)

// SelectionRequest describes one parlay selection run over a scored pool.
type SelectionRequest struct {
	Pool            []ScoredProp
	TargetCount     int
	MinOdds         *int
	MaxOdds         *int
	ConfidenceRange *ConfidenceRange
}

// ConfidenceRange bounds the confidence scores a selection will accept.
type ConfidenceRange struct {
	Min float64
	Max float64
}

// Contains reports whether score falls inside the inclusive range.
func (r ConfidenceRange) Contains(score float64) bool {
	return score >= r.Min && score <= r.Max
}

// SelectionResult is a priced parlay recommendation. Legs is empty and
// CombinedOdds zero when nothing in the pool satisfied the request.
type SelectionResult struct {
	Legs         []ScoredProp `json:"legs"`
	CombinedOdds int          `json:"combined_odds"`
}

// Empty reports whether the selection produced no legs.
func (r SelectionResult) Empty() bool {
	return len(r.Legs) == 0
}

// NewParlayRecord builds a history row for a freshly priced parlay.
func NewParlayRecord(eventRef string, legs []ScoredProp, combinedOdds int) *ParlayRecord {
	return &ParlayRecord{
		ID:           uuid.New(),
		EventRef:     eventRef,
		Legs:         legs,
		CombinedOdds: combinedOdds,
		CreatedAt:    time.Now().UTC(),
	}
}

// ParlayRecord is a persisted history row for a built parlay.
type ParlayRecord struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	EventRef     string       `db:"event_ref" json:"event_ref"`
	Legs         []ScoredProp `db:"legs" json:"legs"`
	CombinedOdds int          `db:"combined_odds" json:"combined_odds"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// GameRef identifies a game by its teams and tip-off date, the way a
// human would describe it before an event id is resolved.
type GameRef struct {
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	Date     time.Time `json:"date"`
}

// Display renders the conventional "AWAY @ HOME" form.
func (g GameRef) Display() string {
	return g.AwayTeam + " @ " + g.HomeTeam
}

// PerformanceContext carries a player's recent statistical average for a
// category together with the target line being assessed.
type PerformanceContext struct {
	Average float64
	Line    float64
}

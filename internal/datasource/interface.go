// Package datasource fetches raw market data and player statistics from
// external providers and normalizes them at the boundary.
package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/sgp-builder/internal/models"
)

// MarketDataSource supplies bookmaker outcomes for games.
type MarketDataSource interface {
	// ResolveEvent maps a human-readable game reference to the
	// provider's event identifier.
	ResolveEvent(ctx context.Context, ref models.GameRef) (string, error)

	// EventOutcomes retrieves the raw prop outcomes for an event across
	// the requested market keys.
	EventOutcomes(ctx context.Context, eventID string, markets []string) ([]models.Outcome, error)

	// Name returns the name of the data source
	Name() string
}

// PlayerStatsSource supplies recent player performance averages.
type PlayerStatsSource interface {
	// SeasonAverage returns a player's season average for a category.
	// A missing player or stat yields ErrNotFound, not a zero average.
	SeasonAverage(ctx context.Context, player string, category models.Category) (float64, error)

	// Name returns the name of the data source
	Name() string
}

// EventListing is a provider event returned by a date-scoped listing.
type EventListing struct {
	ID        string    `json:"id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	StartTime time.Time `json:"commence_time"`
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

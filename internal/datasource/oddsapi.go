package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sgp-builder/internal/models"
)

const oddsAPISourceName = "odds_api"

// OddsAPIClient implements MarketDataSource against The Odds API v4.
type OddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	sportKey   string
	regions    string
	bookmaker  string
	logger     *logrus.Logger
}

// OddsAPIConfig holds the client settings.
type OddsAPIConfig struct {
	BaseURL   string
	APIKey    string
	SportKey  string
	Regions   string
	Bookmaker string
}

// oddsAPIEvent is the provider's event listing shape.
type oddsAPIEvent struct {
	ID           string    `json:"id"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	CommenceTime time.Time `json:"commence_time"`
}

// oddsAPIEventOdds is the provider's per-event odds payload.
type oddsAPIEventOdds struct {
	ID         string             `json:"id"`
	Bookmakers []oddsAPIBookmaker `json:"bookmakers"`
}

type oddsAPIBookmaker struct {
	Key     string          `json:"key"`
	Markets []oddsAPIMarket `json:"markets"`
}

type oddsAPIMarket struct {
	Key      string           `json:"key"`
	Outcomes []oddsAPIOutcome `json:"outcomes"`
}

type oddsAPIOutcome struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Point       *float64 `json:"point"`
}

// NewOddsAPIClient creates a new Odds API client.
func NewOddsAPIClient(httpClient *RateLimitedHTTPClient, cfg OddsAPIConfig, logger *logrus.Logger) *OddsAPIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.the-odds-api.com/v4"
	}
	sportKey := cfg.SportKey
	if sportKey == "" {
		sportKey = "basketball_nba"
	}
	regions := cfg.Regions
	if regions == "" {
		regions = "us"
	}
	return &OddsAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		sportKey:   sportKey,
		regions:    regions,
		bookmaker:  cfg.Bookmaker,
		logger:     logger,
	}
}

// Name returns the data source name.
func (c *OddsAPIClient) Name() string {
	return oddsAPISourceName
}

// ResolveEvent finds the provider event id for a game by matching home and
// away team names among events commencing on the game's date.
func (c *OddsAPIClient) ResolveEvent(ctx context.Context, ref models.GameRef) (string, error) {
	events, err := c.listEvents(ctx)
	if err != nil {
		return "", err
	}

	for _, event := range events {
		if !strings.EqualFold(event.HomeTeam, ref.HomeTeam) || !strings.EqualFold(event.AwayTeam, ref.AwayTeam) {
			continue
		}
		if !ref.Date.IsZero() && !sameDay(event.CommenceTime, ref.Date) {
			continue
		}
		return event.ID, nil
	}

	return "", NewDataSourceError(oddsAPISourceName, ErrCodeNotFound,
		fmt.Sprintf("no event found for %s", ref.Display()), ErrNotFound)
}

// EventOutcomes fetches and normalizes the prop outcomes for an event.
// Entries with no player, no price or an unrecognized market are rejected
// here so nothing malformed reaches the scoring pipeline.
func (c *OddsAPIClient) EventOutcomes(ctx context.Context, eventID string, markets []string) ([]models.Outcome, error) {
	if eventID == "" {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "event id is required", ErrInvalidData)
	}

	query := url.Values{}
	query.Set("apiKey", c.apiKey)
	query.Set("regions", c.regions)
	query.Set("oddsFormat", "american")
	query.Set("markets", strings.Join(markets, ","))
	if c.bookmaker != "" {
		query.Set("bookmakers", c.bookmaker)
	}

	endpoint := fmt.Sprintf("%s/sports/%s/events/%s/odds?%s", c.baseURL, c.sportKey, url.PathEscape(eventID), query.Encode())

	var payload oddsAPIEventOdds
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	bookmaker := c.pickBookmaker(payload.Bookmakers)
	if bookmaker == nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNotFound,
			fmt.Sprintf("no %s odds for event %s", c.bookmaker, eventID), ErrNotFound)
	}

	var outcomes []models.Outcome
	dropped := 0
	for _, market := range bookmaker.Markets {
		for _, raw := range market.Outcomes {
			outcome, ok := normalizeOutcome(market.Key, raw)
			if !ok {
				dropped++
				continue
			}
			outcomes = append(outcomes, outcome)
		}
	}

	if dropped > 0 {
		c.logger.WithFields(logrus.Fields{
			"event_id": eventID,
			"dropped":  dropped,
		}).Warn("Rejected malformed outcomes at ingestion boundary")
	}

	return outcomes, nil
}

// listEvents retrieves the current event listing for the configured sport.
func (c *OddsAPIClient) listEvents(ctx context.Context) ([]oddsAPIEvent, error) {
	query := url.Values{}
	query.Set("apiKey", c.apiKey)
	endpoint := fmt.Sprintf("%s/sports/%s/events?%s", c.baseURL, c.sportKey, query.Encode())

	var events []oddsAPIEvent
	if err := c.getJSON(ctx, endpoint, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *OddsAPIClient) pickBookmaker(bookmakers []oddsAPIBookmaker) *oddsAPIBookmaker {
	for i := range bookmakers {
		if c.bookmaker == "" || bookmakers[i].Key == c.bookmaker {
			return &bookmakers[i]
		}
	}
	return nil
}

func (c *OddsAPIClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewDataSourceError(oddsAPISourceName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(oddsAPISourceName, ErrCodeNotFound, "resource not found", ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(oddsAPISourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return NewDataSourceError(oddsAPISourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}

// normalizeOutcome converts one provider outcome into the engine's fixed
// Outcome shape. The provider stores "Over"/"Under" in the outcome name
// and the player in the description, sometimes with the side appended.
func normalizeOutcome(marketKey string, raw oddsAPIOutcome) (models.Outcome, bool) {
	if raw.Price == 0 {
		return models.Outcome{}, false
	}
	if models.CategoryFromMarketKey(marketKey) == models.CategoryUnknown {
		return models.Outcome{}, false
	}

	side := models.SideUnknown
	switch strings.ToLower(raw.Name) {
	case "over":
		side = models.SideOver
	case "under":
		side = models.SideUnder
	}

	player := playerFromDescription(raw.Description)
	if player == "" {
		return models.Outcome{}, false
	}

	return models.Outcome{
		Player:       player,
		MarketKey:    marketKey,
		Side:         side,
		Line:         raw.Point,
		AmericanOdds: raw.Price,
		AltLine:      models.IsAlternateMarketKey(marketKey),
	}, true
}

// playerFromDescription strips a trailing " Over"/" Under" suffix that
// some bookmakers embed in the outcome description.
func playerFromDescription(description string) string {
	if idx := strings.Index(description, " Over"); idx > 0 {
		return strings.TrimSpace(description[:idx])
	}
	if idx := strings.Index(description, " Under"); idx > 0 {
		return strings.TrimSpace(description[:idx])
	}
	return strings.TrimSpace(description)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

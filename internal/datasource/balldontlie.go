package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sgp-builder/internal/models"
)

const ballDontLieSourceName = "balldontlie"

// BallDontLieClient implements PlayerStatsSource against the balldontlie
// API, feeding the scorer's performance context.
type BallDontLieClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

// NewBallDontLieClient creates a new balldontlie client.
func NewBallDontLieClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *logrus.Logger) *BallDontLieClient {
	if baseURL == "" {
		baseURL = "https://api.balldontlie.io/v1"
	}
	return &BallDontLieClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// Name returns the data source name.
func (c *BallDontLieClient) Name() string {
	return ballDontLieSourceName
}

type bdlPlayerSearch struct {
	Data []struct {
		ID        int    `json:"id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"data"`
}

type bdlSeasonAverages struct {
	Data []struct {
		Points   float64 `json:"pts"`
		Rebounds float64 `json:"reb"`
		Assists  float64 `json:"ast"`
		Threes   float64 `json:"fg3m"`
	} `json:"data"`
}

// SeasonAverage returns the player's season average for a category.
// Combination categories sum their component averages.
func (c *BallDontLieClient) SeasonAverage(ctx context.Context, player string, category models.Category) (float64, error) {
	playerID, err := c.findPlayer(ctx, player)
	if err != nil {
		return 0, err
	}

	endpoint := fmt.Sprintf("%s/season_averages?player_ids[]=%d", c.baseURL, playerID)
	var averages bdlSeasonAverages
	if err := c.getJSON(ctx, endpoint, &averages); err != nil {
		return 0, err
	}
	if len(averages.Data) == 0 {
		return 0, NewDataSourceError(ballDontLieSourceName, ErrCodeNotFound,
			fmt.Sprintf("no season averages for %s", player), ErrNotFound)
	}

	row := averages.Data[0]
	switch category {
	case models.CategoryPoints:
		return row.Points, nil
	case models.CategoryRebounds:
		return row.Rebounds, nil
	case models.CategoryAssists:
		return row.Assists, nil
	case models.CategoryThrees:
		return row.Threes, nil
	case models.CategoryPointsRebounds:
		return row.Points + row.Rebounds, nil
	case models.CategoryPointsAssists:
		return row.Points + row.Assists, nil
	case models.CategoryReboundsAssists:
		return row.Rebounds + row.Assists, nil
	case models.CategoryPointsReboundsAssists:
		return row.Points + row.Rebounds + row.Assists, nil
	default:
		return 0, NewDataSourceError(ballDontLieSourceName, ErrCodeInvalidData,
			fmt.Sprintf("no stat mapping for category %q", category), ErrInvalidData)
	}
}

// findPlayer resolves a player name to the provider's player id.
func (c *BallDontLieClient) findPlayer(ctx context.Context, player string) (int, error) {
	endpoint := fmt.Sprintf("%s/players?search=%s", c.baseURL, url.QueryEscape(player))
	var search bdlPlayerSearch
	if err := c.getJSON(ctx, endpoint, &search); err != nil {
		return 0, err
	}
	if len(search.Data) == 0 {
		return 0, NewDataSourceError(ballDontLieSourceName, ErrCodeNotFound,
			fmt.Sprintf("player %q not found", player), ErrNotFound)
	}
	return search.Data[0].ID, nil
}

func (c *BallDontLieClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return NewDataSourceError(ballDontLieSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewDataSourceError(ballDontLieSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewDataSourceError(ballDontLieSourceName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(ballDontLieSourceName, ErrCodeNotFound, "resource not found", ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(ballDontLieSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return NewDataSourceError(ballDontLieSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(ballDontLieSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}

// Package api exposes the parlay builder over HTTP as a JSON API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sgp-builder/internal/models"
	"github.com/yourusername/sgp-builder/internal/odds"
	"github.com/yourusername/sgp-builder/internal/parlay"
	"github.com/yourusername/sgp-builder/internal/repository"
	"github.com/yourusername/sgp-builder/internal/service"
)

// Handler carries the dependencies shared by all endpoints.
type Handler struct {
	builder *service.ParlayBuilder
	history repository.ParlayRepository
	logger  *logrus.Logger
}

// NewHandler creates the API handler. history may be nil.
func NewHandler(builder *service.ParlayBuilder, history repository.ParlayRepository, logger *logrus.Logger) *Handler {
	return &Handler{builder: builder, history: history, logger: logger}
}

// Register attaches all routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/parlays", h.handleBuild)
	mux.HandleFunc("/v1/parlays/multi", h.handleBuildMulti)
	mux.HandleFunc("/v1/parlays/price", h.handlePrice)
	mux.HandleFunc("/v1/parlays/history", h.handleHistory)
}

// BuildRequest is the POST /v1/parlays body.
type BuildRequest struct {
	HomeTeam       string   `json:"home_team"`
	AwayTeam       string   `json:"away_team"`
	Date           string   `json:"date,omitempty"`
	TargetCount    int      `json:"target_count"`
	MinOdds        *int     `json:"min_odds,omitempty"`
	MaxOdds        *int     `json:"max_odds,omitempty"`
	ConfidenceTier string   `json:"confidence_tier,omitempty"`
	Wager          *float64 `json:"wager,omitempty"`
}

// LegView decorates a selected leg with display fields.
type LegView struct {
	models.ScoredProp
	OddsDisplay string `json:"odds_display"`
	Insight     string `json:"insight"`
}

// BuildResponse is the POST /v1/parlays reply.
type BuildResponse struct {
	Legs         []LegView `json:"legs"`
	CombinedOdds int       `json:"combined_odds"`
	OddsDisplay  string    `json:"odds_display,omitempty"`
	ToWin        *float64  `json:"to_win,omitempty"`
}

func (h *Handler) handleBuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ref, filters, err := h.buildArgs(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.builder.BuildParlay(r.Context(), ref, req.TargetCount, filters)
	if err != nil {
		h.writeBuildError(w, err)
		return
	}

	resp := BuildResponse{Legs: legViews(result.Legs), CombinedOdds: result.CombinedOdds}
	if !result.Empty() {
		resp.OddsDisplay = odds.FormatAmerican(result.CombinedOdds)
		if req.Wager != nil {
			if toWin, err := parlay.ToWin(*req.Wager, result.CombinedOdds); err == nil {
				resp.ToWin = &toWin
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// MultiBuildRequest is the POST /v1/parlays/multi body.
type MultiBuildRequest struct {
	Games          []BuildRequest `json:"games"`
	LegsPerGame    int            `json:"legs_per_game"`
	MinOdds        *int           `json:"min_odds,omitempty"`
	MaxOdds        *int           `json:"max_odds,omitempty"`
	ConfidenceTier string         `json:"confidence_tier,omitempty"`
}

func (h *Handler) handleBuildMulti(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req MultiBuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	refs := make([]models.GameRef, 0, len(req.Games))
	for _, game := range req.Games {
		ref, err := gameRef(game.HomeTeam, game.AwayTeam, game.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		refs = append(refs, ref)
	}

	filters := service.Filters{
		MinOdds: req.MinOdds,
		MaxOdds: req.MaxOdds,
		Tier:    service.ConfidenceTier(req.ConfidenceTier),
	}

	result, err := h.builder.BuildMultiGame(r.Context(), refs, req.LegsPerGame, filters)
	if err != nil {
		h.writeBuildError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// PriceRequest is the POST /v1/parlays/price body.
type PriceRequest struct {
	Odds []int `json:"odds"`
}

// PriceResponse is the POST /v1/parlays/price reply.
type PriceResponse struct {
	CombinedOdds int    `json:"combined_odds"`
	OddsDisplay  string `json:"odds_display"`
}

func (h *Handler) handlePrice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req PriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	combined, err := parlay.PriceAmerican(req.Odds)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, PriceResponse{
		CombinedOdds: combined,
		OddsDisplay:  odds.FormatAmerican(combined),
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	if h.history == nil {
		writeError(w, http.StatusNotFound, "parlay history is not enabled")
		return
	}

	eventRef := r.URL.Query().Get("event_ref")
	if eventRef == "" {
		writeError(w, http.StatusBadRequest, "event_ref query parameter is required")
		return
	}

	records, err := h.history.RecentByEvent(r.Context(), eventRef, 20)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load parlay history")
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) buildArgs(req BuildRequest) (models.GameRef, service.Filters, error) {
	ref, err := gameRef(req.HomeTeam, req.AwayTeam, req.Date)
	if err != nil {
		return models.GameRef{}, service.Filters{}, err
	}
	filters := service.Filters{
		MinOdds: req.MinOdds,
		MaxOdds: req.MaxOdds,
		Tier:    service.ConfidenceTier(req.ConfidenceTier),
	}
	return ref, filters, nil
}

// writeBuildError maps the engine's typed errors onto HTTP statuses. This
// is the outermost boundary where internal errors become display-friendly.
func (h *Handler) writeBuildError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrUpstream):
		writeError(w, http.StatusBadGateway, "odds provider unavailable, retry later")
	case errors.Is(err, models.ErrNoData):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.WithError(err).Error("Build failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func gameRef(home, away, date string) (models.GameRef, error) {
	if home == "" || away == "" {
		return models.GameRef{}, errors.New("home_team and away_team are required")
	}
	ref := models.GameRef{HomeTeam: home, AwayTeam: away}
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return models.GameRef{}, errors.New("date must be YYYY-MM-DD")
		}
		ref.Date = parsed
	}
	return ref, nil
}

func legViews(legs []models.ScoredProp) []LegView {
	views := make([]LegView, len(legs))
	for i, leg := range legs {
		views[i] = LegView{
			ScoredProp:  leg,
			OddsDisplay: odds.FormatAmerican(leg.AmericanOdds),
			Insight:     service.Insight(leg),
		}
	}
	return views
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

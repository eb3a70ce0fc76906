package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/scoracle-live/internal/api/respond"
	"github.com/albapepper/scoracle-live/internal/feed"
	"github.com/albapepper/scoracle-live/internal/match"
	"github.com/albapepper/scoracle-live/internal/validate"
)

// CreateMatch creates a match with a derived initial status.
// @Summary Create match
// @Description Validates the payload, derives status from the window and the current time, and persists the match.
// @Tags matches
// @Accept json
// @Produce json
// @Param body body object true "sport, homeTeam, awayTeam, startTime, endTime, homeScore?, awayScore?"
// @Success 201 {object} respond.DataResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/matches [post]
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	in, issues := validate.CreateMatch(body)
	if issues != nil {
		respond.Invalid(w, "Invalid payload", issues)
		return
	}

	m, err := h.matches.Create(r.Context(), in)
	if err != nil {
		h.internalError(w, r, "Failed to create match", err, "sport", in.Sport)
		return
	}
	h.logger.Info("Match created", "match_id", m.ID, "status", m.Status)
	respond.Data(w, http.StatusCreated, m)
}

// ListMatches returns the newest matches with their status resynced.
// @Summary List matches
// @Description Returns matches newest first. Each row's status is recomputed and persisted if stale.
// @Tags matches
// @Produce json
// @Param limit query int false "Max rows (1-100, default 50)"
// @Success 200 {object} respond.EventsResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/matches [get]
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	limit, issues := validate.Limit(r.URL.Query().Get("limit"))
	if issues != nil {
		respond.Invalid(w, "Invalid query parameters", issues)
		return
	}

	matches, err := h.matches.List(r.Context(), limit)
	if err != nil {
		h.internalError(w, r, "Failed to fetch matches", err)
		return
	}
	for i := range matches {
		h.syncStatus(r.Context(), &matches[i])
	}
	respond.Events(w, matches)
}

// GetMatch returns one match with its status resynced.
// @Summary Get match
// @Tags matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} respond.DataResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/matches/{id} [get]
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}

	m, err := h.matches.Get(r.Context(), id)
	if errors.Is(err, match.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Match not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to fetch match", err, "match_id", id)
		return
	}
	h.syncStatus(r.Context(), m)
	respond.Data(w, http.StatusOK, m)
}

// UpdateScore sets both scores and broadcasts the updated match.
// @Summary Update match score
// @Tags matches
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param body body match.ScoreUpdate true "Scores"
// @Success 200 {object} respond.DataResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/matches/{id}/score [patch]
func (h *Handler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	score, issues := validate.UpdateScore(body)
	if issues != nil {
		respond.Invalid(w, "Invalid payload", issues)
		return
	}

	m, err := h.matches.UpdateScore(r.Context(), id, score)
	if errors.Is(err, match.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Match not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to update score", err, "match_id", id)
		return
	}

	h.notifier.Notify(r.Context(), feed.MatchChannel(id), feed.EventScoreUpdated, m)
	respond.Data(w, http.StatusOK, m)
}

// matchID parses the {id} path parameter, writing a 400 on failure.
func (h *Handler) matchID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, issues := validate.ID(chi.URLParam(r, "id"))
	if issues != nil {
		respond.Invalid(w, "Invalid match ID", issues)
		return 0, false
	}
	return id, true
}

// syncStatus refreshes a stale status in place. A failed write is logged and
// the stored status is served.
func (h *Handler) syncStatus(ctx context.Context, m *match.Match) {
	changed, err := h.matches.Sync(ctx, m)
	if err != nil {
		h.logger.Warn("Match status sync failed", "match_id", m.ID, "error", err)
		return
	}
	if changed {
		h.logger.Info("Match status synced", "match_id", m.ID, "status", m.Status)
		h.notifier.Notify(ctx, feed.MatchChannel(m.ID), feed.EventStatusChanged, m)
	}
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/albapepper/scoracle-live/internal/api/respond"
	"github.com/albapepper/scoracle-live/internal/cache"
	"github.com/albapepper/scoracle-live/internal/feed"
	"github.com/albapepper/scoracle-live/internal/validate"
)

func commentaryPrefix(matchID int) string {
	return fmt.Sprintf("commentary:%d:", matchID)
}

// CreateCommentary persists an entry and broadcasts it on the match channel.
// @Summary Create commentary
// @Description Persists the entry, then publishes commentary.created on match-{id}. A failed broadcast does not fail the request.
// @Tags commentary
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param body body object true "sequence, eventType, message, minute?, period?, actor?, team?, metadata?, tags?"
// @Success 201 {object} respond.DataResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/matches/{id}/commentary [post]
func (h *Handler) CreateCommentary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	in, issues := validate.CreateCommentary(body)
	if issues != nil {
		respond.Invalid(w, "Invalid payload", issues)
		return
	}

	entry, err := h.commentary.Create(r.Context(), id, in)
	if err != nil {
		h.internalError(w, r, "Failed to create commentary", err, "match_id", id, "sequence", in.Sequence)
		return
	}
	h.cache.DeletePrefix(commentaryPrefix(id))
	respond.Data(w, http.StatusCreated, entry)
}

// ListCommentary returns a match's entries in sequence order.
// @Summary List commentary
// @Description Returns entries ordered by sequence ascending. Served from an ETag cache that is invalidated on every create.
// @Tags commentary
// @Produce json
// @Param id path int true "Match ID"
// @Param limit query int false "Max rows (1-100, default 100)"
// @Success 200 {object} respond.DataResponse
// @Success 304 "Not modified"
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/matches/{id}/commentary [get]
func (h *Handler) ListCommentary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}
	limit, issues := validate.Limit(r.URL.Query().Get("limit"))
	if issues != nil {
		respond.Invalid(w, "Invalid query parameters", issues)
		return
	}

	prefix := commentaryPrefix(id)
	cacheKey := fmt.Sprintf("%s%d", prefix, limit)
	ttl := cache.TTLCommentary

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	// Captured before the read so a create that lands mid-read keeps this
	// snapshot out of the cache.
	gen := h.cache.Generation(prefix)
	entries, err := h.commentary.List(r.Context(), id, limit)
	if err != nil {
		h.internalError(w, r, "Failed to fetch commentary", err, "match_id", id)
		return
	}
	data, err := respond.Marshal(entries)
	if err != nil {
		h.internalError(w, r, "Failed to fetch commentary", err, "match_id", id)
		return
	}

	etag, _ := h.cache.SetIfGeneration(cacheKey, prefix, gen, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}

// Invalidator drops cached commentary pages when another instance reports
// a new entry over the feed transport.
func (h *Handler) Invalidator() feed.Sink {
	return feed.SinkFunc(func(ev feed.Event) {
		if ev.Name != feed.EventCommentaryCreated {
			return
		}
		if id, ok := feed.MatchIDFromChannel(ev.Channel); ok {
			h.cache.DeletePrefix(commentaryPrefix(id))
		}
	})
}

// Package handler provides HTTP handlers for all API endpoints.
// Handlers validate at the boundary, then call the match store and the
// commentary service; responses keep the {data}, {events} and
// {error, details} shapes.
package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/scoracle-live/internal/api/respond"
	"github.com/albapepper/scoracle-live/internal/cache"
	"github.com/albapepper/scoracle-live/internal/commentary"
	"github.com/albapepper/scoracle-live/internal/match"
)

const maxBodyBytes = 64 << 10

// MatchStore is the match persistence the handlers use. Satisfied by
// *match.Store.
type MatchStore interface {
	Create(ctx context.Context, in match.NewMatch) (*match.Match, error)
	List(ctx context.Context, limit int) ([]match.Match, error)
	Get(ctx context.Context, id int) (*match.Match, error)
	UpdateScore(ctx context.Context, id int, score match.ScoreUpdate) (*match.Match, error)
	Sync(ctx context.Context, m *match.Match) (bool, error)
}

// CommentaryService is satisfied by *commentary.Service.
type CommentaryService interface {
	Create(ctx context.Context, matchID int, in commentary.NewEntry) (*commentary.Entry, error)
	List(ctx context.Context, matchID, limit int) ([]commentary.Entry, error)
}

// HealthChecker is satisfied by *db.Pool.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ClientCounter reports live WebSocket connections. Satisfied by *hub.Hub.
type ClientCounter interface {
	ClientCount() int
}

// Deps are the collaborators a Handler needs.
type Deps struct {
	Matches    MatchStore
	Commentary CommentaryService
	Notifier   commentary.Notifier
	Cache      *cache.Cache
	DB         HealthChecker
	Clients    ClientCounter
	Transport  string
	Logger     *slog.Logger
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	matches    MatchStore
	commentary CommentaryService
	notifier   commentary.Notifier
	cache      *cache.Cache
	db         HealthChecker
	clients    ClientCounter
	transport  string
	logger     *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	return &Handler{
		matches:    d.Matches,
		commentary: d.Commentary,
		notifier:   d.Notifier,
		cache:      d.Cache,
		db:         d.DB,
		clients:    d.Clients,
		transport:  d.Transport,
		logger:     d.Logger,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and the live feed transport.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"name":      "Scoracle Live API",
		"version":   "1.0.0",
		"status":    "running",
		"docs":      "/docs",
		"feed":      "/ws",
		"transport": h.transport,
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status, connected WebSocket clients and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.clients != nil {
		body["ws_clients"] = h.clients.ClientCount()
	}
	respond.WriteJSONObject(w, http.StatusOK, body)
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// readBody reads at most maxBodyBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return body, nil
}

// internalError logs err with its context and sends a generic 500.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, message string, err error, attrs ...any) {
	attrs = append(attrs, "path", r.URL.Path, "error", err)
	h.logger.Error(message, attrs...)
	respond.Error(w, http.StatusInternalServerError, message)
}

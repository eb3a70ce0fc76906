// Package hub fans feed events out to WebSocket clients subscribed to the
// event's match.
package hub

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/albapepper/scoracle-live/internal/feed"
	"github.com/albapepper/scoracle-live/internal/metrics"
)

// Hub tracks connected clients. It implements feed.Sink.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates an empty hub.
func New(logger *slog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
		metrics: m,
	}
}

// Register adds a client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.metrics.WSClients.Inc()
	h.logger.Info("WebSocket client connected", "client", c.ID, "clients", n)
}

// Unregister removes a client and closes its send buffer. Safe to call more
// than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	c.closeSend()
	h.metrics.WSClients.Dec()
	h.logger.Info("WebSocket client disconnected", "client", c.ID, "clients", n)
}

// Deliver sends ev to every client subscribed to its match. Clients whose
// buffer is full are disconnected.
func (h *Hub) Deliver(ev feed.Event) {
	matchID, ok := feed.MatchIDFromChannel(ev.Channel)
	if !ok {
		h.logger.Warn("Dropping feed event with unknown channel", "channel", ev.Channel, "event", ev.Name)
		return
	}
	h.metrics.FeedDelivered.Inc()

	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("Failed to encode feed event", "channel", ev.Channel, "error", err)
		return
	}

	var slow []*Client
	sent := 0

	h.mu.RLock()
	for c := range h.clients {
		if !c.Subscribed(matchID) {
			continue
		}
		if c.TrySend(data) {
			sent++
		} else {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("WebSocket client buffer full, disconnecting", "client", c.ID, "match_id", matchID)
		h.Unregister(c)
		c.close()
	}
	h.logger.Debug("Feed event delivered",
		"match_id", matchID, "event", ev.Name, "sent", sent, "dropped", len(slow))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown disconnects every client.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	h.logger.Info("Shutting down hub", "clients", len(clients))
	for _, c := range clients {
		h.Unregister(c)
	}
}

package hub

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
)

// ServeWS returns the /ws upgrade handler. Pumps run on ctx rather than the
// request context so they outlive the handler call. An optional
// ?matchId=N pre-subscribes the connection.
func (h *Hub) ServeWS(ctx context.Context, allowedOrigins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var preset int
		if raw := r.URL.Query().Get("matchId"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil || id <= 0 {
				http.Error(w, "matchId must be a positive integer", http.StatusBadRequest)
				return
			}
			preset = id
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("WebSocket upgrade failed", "error", err)
			return
		}

		c := NewClient(conn, h, h.logger)
		if preset > 0 {
			c.Subscribe(preset)
		}
		h.Register(c)
		if preset > 0 {
			c.reply(ControlMessage{Type: TypeSubscribed, MatchID: preset})
		}

		go c.WritePump(ctx)
		go c.ReadPump(ctx)
	}
}

// originChecker allows any origin when the list is empty or contains "*".
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

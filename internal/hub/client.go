package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize   = 512
	sendBufferSize   = 256
	maxSubscriptions = 50
)

// Client message types.
const (
	TypeSubscribe    = "subscribe"
	TypeUnsubscribe  = "unsubscribe"
	TypePing         = "ping"
	TypeSubscribed   = "subscribed"
	TypeUnsubscribed = "unsubscribed"
	TypePong         = "pong"
	TypeError        = "error"
)

// ClientMessage is a frame sent by a client.
type ClientMessage struct {
	Type    string      `json:"type"`
	MatchID json.Number `json:"matchId,omitempty"`
}

// ControlMessage is a non-feed frame sent to a client.
type ControlMessage struct {
	Type    string `json:"type"`
	MatchID int    `json:"matchId,omitempty"`
	Message string `json:"message,omitempty"`
}

// Client is one WebSocket connection and its match subscriptions.
type Client struct {
	ID   string
	conn *websocket.Conn
	hub  *Hub

	sendMu sync.Mutex
	send   chan []byte
	closed bool

	subsMu sync.RWMutex
	subs   map[int]struct{}

	logger *slog.Logger
}

// NewClient wraps conn. conn may be nil when the pumps are not started.
func NewClient(conn *websocket.Conn, h *Hub, logger *slog.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		ID:     id,
		conn:   conn,
		hub:    h,
		send:   make(chan []byte, sendBufferSize),
		subs:   make(map[int]struct{}),
		logger: logger.With("client", id),
	}
}

// Subscribe adds matchID. Returns false when the subscription limit is hit.
func (c *Client) Subscribe(matchID int) bool {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	if _, ok := c.subs[matchID]; !ok && len(c.subs) >= maxSubscriptions {
		return false
	}
	c.subs[matchID] = struct{}{}
	return true
}

// Unsubscribe removes matchID.
func (c *Client) Unsubscribe(matchID int) {
	c.subsMu.Lock()
	delete(c.subs, matchID)
	c.subsMu.Unlock()
}

// Subscribed reports whether the client follows matchID.
func (c *Client) Subscribed(matchID int) bool {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	_, ok := c.subs[matchID]
	return ok
}

// TrySend queues data without blocking. Returns false if the buffer is full
// or the client has been unregistered.
func (c *Client) TrySend(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// ReadPump reads client frames until the connection fails or ctx ends.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if ctx.Err() != nil {
			return
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket unexpected close", "error", err)
			}
			return
		}
		c.handleMessage(data)
	}
}

// WritePump drains the send buffer to the connection and keeps it alive
// with pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return

		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("WebSocket write failed", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.reply(ControlMessage{Type: TypeError, Message: "Invalid JSON"})
		return
	}

	switch msg.Type {
	case TypeSubscribe:
		id, ok := parseMatchID(msg.MatchID)
		if !ok {
			c.reply(ControlMessage{Type: TypeError, Message: "matchId must be a positive integer"})
			return
		}
		if !c.Subscribe(id) {
			c.reply(ControlMessage{Type: TypeError, MatchID: id, Message: "Too many subscriptions"})
			return
		}
		c.logger.Debug("WebSocket subscribed", "match_id", id)
		c.reply(ControlMessage{Type: TypeSubscribed, MatchID: id})

	case TypeUnsubscribe:
		id, ok := parseMatchID(msg.MatchID)
		if !ok {
			c.reply(ControlMessage{Type: TypeError, Message: "matchId must be a positive integer"})
			return
		}
		c.Unsubscribe(id)
		c.reply(ControlMessage{Type: TypeUnsubscribed, MatchID: id})

	case TypePing:
		c.reply(ControlMessage{Type: TypePong})

	default:
		c.reply(ControlMessage{Type: TypeError, Message: "Unknown message type: " + msg.Type})
	}
}

func (c *Client) reply(msg ControlMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.TrySend(data)
}

func parseMatchID(n json.Number) (int, bool) {
	id, err := strconv.Atoi(n.String())
	return id, err == nil && id > 0
}

// Package feed publishes match events to live subscribers over a pluggable
// transport (in-process, Postgres NOTIFY, Redis pub/sub or NATS) and relays
// events received from that transport back to local sinks.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event names.
const (
	EventCommentaryCreated = "commentary.created"
	EventScoreUpdated      = "match.score_updated"
	EventStatusChanged     = "match.status_changed"
)

const channelPrefix = "match-"

// MatchChannel returns the channel key for a match.
func MatchChannel(matchID int) string {
	return channelPrefix + strconv.Itoa(matchID)
}

// MatchIDFromChannel parses a key produced by MatchChannel.
func MatchIDFromChannel(channel string) (int, bool) {
	raw, ok := strings.CutPrefix(channel, channelPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Event is the envelope carried on every transport.
type Event struct {
	Channel     string          `json:"channel"`
	Name        string          `json:"event"`
	Payload     json.RawMessage `json:"payload"`
	PublishedAt time.Time       `json:"publishedAt"`
}

// NewEvent marshals payload into an envelope.
func NewEvent(channel, name string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", name, err)
	}
	return Event{
		Channel:     channel,
		Name:        name,
		Payload:     raw,
		PublishedAt: time.Now().UTC(),
	}, nil
}

// Publisher sends a payload to a named channel.
type Publisher interface {
	Publish(ctx context.Context, channel, event string, payload any) error
}

// Sink consumes events received from a transport.
type Sink interface {
	Deliver(ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev Event)

// Deliver calls f(ev).
func (f SinkFunc) Deliver(ev Event) { f(ev) }

// Tee fans an event out to several sinks in order.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(ev Event) {
		for _, s := range sinks {
			s.Deliver(ev)
		}
	})
}

// Transport is a process-wide publish/subscribe connection.
type Transport interface {
	Publisher

	// Subscribe delivers every event on the transport to sink. Blocks until
	// ctx is cancelled.
	Subscribe(ctx context.Context, sink Sink) error

	// Name identifies the transport in logs and metrics.
	Name() string

	Close() error
}

func encode(channel, name string, payload any) ([]byte, error) {
	ev, err := NewEvent(channel, name, payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ev)
}

func decode(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("decode feed event: %w", err)
	}
	return ev, nil
}

package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/albapepper/scoracle-live/internal/db"
	"github.com/albapepper/scoracle-live/internal/listener"
)

// NotifyChannel is the Postgres channel all feed events share.
const NotifyChannel = "scoracle_feed"

// maxNotifyPayload is the Postgres NOTIFY payload limit.
const maxNotifyPayload = 8000

// PGNotify publishes with pg_notify and subscribes with a dedicated
// LISTEN connection, so every API instance on the same database sees
// every event.
type PGNotify struct {
	q      db.Querier
	dbURL  string
	logger *slog.Logger
}

// NewPGNotify creates a Postgres-backed transport.
func NewPGNotify(q db.Querier, dbURL string, logger *slog.Logger) *PGNotify {
	return &PGNotify{q: q, dbURL: dbURL, logger: logger}
}

func (p *PGNotify) Publish(ctx context.Context, channel, event string, payload any) error {
	data, err := encode(channel, event, payload)
	if err != nil {
		return err
	}
	if len(data) > maxNotifyPayload {
		return fmt.Errorf("%s payload is %d bytes, exceeds NOTIFY limit of %d", event, len(data), maxNotifyPayload)
	}
	if _, err := p.q.Exec(ctx, "feed_notify", NotifyChannel, string(data)); err != nil {
		return fmt.Errorf("pg_notify %s: %w", channel, err)
	}
	return nil
}

func (p *PGNotify) Subscribe(ctx context.Context, sink Sink) error {
	listener.Start(ctx, p.dbURL, NotifyChannel, func(payload string) {
		ev, err := decode([]byte(payload))
		if err != nil {
			p.logger.Warn("Failed to parse feed notification", "payload", payload, "error", err)
			return
		}
		sink.Deliver(ev)
	}, p.logger)
	return nil
}

func (p *PGNotify) Name() string { return "postgres" }

// Close is a no-op; the pool is owned by the caller.
func (p *PGNotify) Close() error { return nil }

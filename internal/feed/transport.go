package feed

import (
	"context"
	"log/slog"

	"github.com/albapepper/scoracle-live/internal/config"
	"github.com/albapepper/scoracle-live/internal/db"
)

// New builds the transport selected by cfg.FeedTransport. Call once at
// startup; the returned transport is shared for the process lifetime.
func New(ctx context.Context, cfg *config.Config, q db.Querier, logger *slog.Logger) (Transport, error) {
	switch cfg.FeedTransport {
	case config.TransportPostgres:
		return NewPGNotify(q, cfg.DatabaseURL, logger), nil
	case config.TransportRedis:
		return NewRedis(ctx, cfg.RedisURL, cfg.RedisPassword, logger)
	case config.TransportNATS:
		return NewNATS(cfg.NATSURL, logger)
	case config.TransportNone:
		return Noop{}, nil
	default:
		return NewLocal(), nil
	}
}

// Relay subscribes sink to t and logs when the subscription ends. Blocks
// until ctx is cancelled. Intended to be called with `go`.
func Relay(ctx context.Context, t Transport, sink Sink, logger *slog.Logger) {
	logger.Info("Feed relay started", "transport", t.Name())
	if err := t.Subscribe(ctx, sink); err != nil && ctx.Err() == nil {
		logger.Error("Feed relay stopped", "transport", t.Name(), "error", err)
		return
	}
	logger.Info("Feed relay stopped", "transport", t.Name())
}

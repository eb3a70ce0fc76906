package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const natsPrefix = "feed."

// NATS publishes to subjects named feed.<channel>.
type NATS struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewNATS connects to url. The client reconnects on its own.
func NewNATS(url string, logger *slog.Logger) (*NATS, error) {
	conn, err := nats.Connect(url,
		nats.Name("scoracle-live"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATS{conn: conn, logger: logger}, nil
}

func (n *NATS) Publish(ctx context.Context, channel, event string, payload any) error {
	data, err := encode(channel, event, payload)
	if err != nil {
		return err
	}
	if err := n.conn.Publish(natsPrefix+channel, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", channel, err)
	}
	return nil
}

func (n *NATS) Subscribe(ctx context.Context, sink Sink) error {
	msgs := make(chan *nats.Msg, 256)
	sub, err := n.conn.ChanSubscribe(natsPrefix+">", msgs)
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}
	defer sub.Unsubscribe()
	n.logger.Info("NATS feed subscriber connected", "subject", natsPrefix+">")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-msgs:
			ev, err := decode(msg.Data)
			if err != nil {
				n.logger.Warn("Failed to parse NATS feed message", "subject", msg.Subject, "error", err)
				continue
			}
			sink.Deliver(ev)
		}
	}
}

func (n *NATS) Name() string { return "nats" }

func (n *NATS) Close() error {
	return n.conn.Drain()
}

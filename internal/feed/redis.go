package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "feed:"

// Redis publishes to redis pub/sub channels named feed:<channel>.
type Redis struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedis connects to addr and verifies the connection.
func NewRedis(ctx context.Context, addr, password string, logger *slog.Logger) (*Redis, error) {
	opts := &redis.Options{Addr: addr, Password: password}
	if u, err := redis.ParseURL(addr); err == nil {
		opts = u
		if password != "" {
			opts.Password = password
		}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client, logger: logger}, nil
}

func (r *Redis) Publish(ctx context.Context, channel, event string, payload any) error {
	data, err := encode(channel, event, payload)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, redisPrefix+channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", channel, err)
	}
	return nil
}

func (r *Redis) Subscribe(ctx context.Context, sink Sink) error {
	ps := r.client.PSubscribe(ctx, redisPrefix+"*")
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("redis psubscribe: %w", err)
	}
	r.logger.Info("Redis feed subscriber connected", "pattern", redisPrefix+"*")

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("redis subscription closed")
			}
			ev, err := decode([]byte(msg.Payload))
			if err != nil {
				r.logger.Warn("Failed to parse redis feed message", "channel", msg.Channel, "error", err)
				continue
			}
			sink.Deliver(ev)
		}
	}
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Close() error { return r.client.Close() }

package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/scoracle-live/internal/metrics"
)

// Broadcaster runs the notify phase that follows a committed write. Publish
// errors are logged and counted, never returned: the write is the
// durability boundary and delivery is best-effort.
type Broadcaster struct {
	pub     Publisher
	name    string
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewBroadcaster wraps t. A non-positive timeout means no deadline beyond ctx.
func NewBroadcaster(t Transport, timeout time.Duration, logger *slog.Logger, m *metrics.Metrics) *Broadcaster {
	return &Broadcaster{pub: t, name: t.Name(), timeout: timeout, logger: logger, metrics: m}
}

// Notify publishes payload on channel. It detaches from ctx cancellation so
// a client that hangs up after the write cannot suppress the broadcast.
func (b *Broadcaster) Notify(ctx context.Context, channel, event string, payload any) {
	ctx = context.WithoutCancel(ctx)
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	if err := b.pub.Publish(ctx, channel, event, payload); err != nil {
		b.metrics.FeedFailures.WithLabelValues(b.name).Inc()
		b.logger.Error("Feed publish failed",
			"transport", b.name, "channel", channel, "event", event, "error", err)
		return
	}
	b.metrics.FeedPublished.WithLabelValues(event).Inc()
}

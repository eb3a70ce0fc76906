package feed

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-live/internal/config"
	"github.com/albapepper/scoracle-live/internal/feed/feedtest"
)

func TestRedis_RoundTrip(t *testing.T) {
	url := feedtest.RedisURL(t)
	ctx := context.Background()

	tr, err := New(ctx, &config.Config{FeedTransport: config.TransportRedis, RedisURL: url}, nil, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	require.Equal(t, "redis", tr.Name())

	rec := runSubscriber(t, tr)
	ev := publishUntilSeen(t, tr, rec, MatchChannel(7))
	assertEnvelope(t, ev, "match-7")
}

func TestRedis_ChannelNaming(t *testing.T) {
	url := feedtest.RedisURL(t)
	ctx := context.Background()

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	raw := redis.NewClient(opts)
	t.Cleanup(func() { _ = raw.Close() })

	tr, err := NewRedis(ctx, url, "", slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })

	t.Run("publishes on feed:<channel>", func(t *testing.T) {
		sub := raw.Subscribe(ctx, "feed:match-7")
		t.Cleanup(func() { _ = sub.Close() })
		_, err := sub.Receive(ctx)
		require.NoError(t, err)

		require.NoError(t, tr.Publish(ctx, MatchChannel(7), EventScoreUpdated, map[string]int{"homeScore": 1}))

		select {
		case msg := <-sub.Channel():
			assert.Equal(t, "feed:match-7", msg.Channel)
			ev, err := decode([]byte(msg.Payload))
			require.NoError(t, err)
			assert.Equal(t, "match-7", ev.Channel)
			assert.Equal(t, EventScoreUpdated, ev.Name)
		case <-time.After(5 * time.Second):
			t.Fatal("no message on feed:match-7")
		}
	})

	t.Run("subscribes to feed:* only", func(t *testing.T) {
		rec := runSubscriber(t, tr)
		foreign, err := encode(MatchChannel(8), EventCommentaryCreated, map[string]any{"message": "ignored"})
		require.NoError(t, err)
		own, err := encode(MatchChannel(9), EventCommentaryCreated, map[string]any{"message": "Goal!"})
		require.NoError(t, err)

		// Pub/sub order is preserved for a single publishing connection, so
		// once match-9 arrives the foreign message would already have too.
		require.Eventually(t, func() bool {
			assert.NoError(t, raw.Publish(ctx, "other:match-8", foreign).Err())
			assert.NoError(t, raw.Publish(ctx, "feed:match-9", own).Err())
			return len(rec.snapshot()) > 0
		}, 20*time.Second, 100*time.Millisecond)

		for _, ev := range rec.snapshot() {
			assertEnvelope(t, ev, "match-9")
		}
	})
}

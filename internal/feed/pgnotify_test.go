package feed_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-live/internal/db/dbtest"
	"github.com/albapepper/scoracle-live/internal/feed"
)

type collector struct {
	mu     sync.Mutex
	events []feed.Event
}

func (c *collector) Deliver(ev feed.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestPGNotify_RoundTrip(t *testing.T) {
	pool, dsn := dbtest.NewPool(t)
	transport := feed.NewPGNotify(pool, dsn, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := &collector{}
	go func() { _ = transport.Subscribe(ctx, got) }()

	// The listener connects asynchronously; publish until one arrives.
	require.Eventually(t, func() bool {
		err := transport.Publish(context.Background(), feed.MatchChannel(3), feed.EventCommentaryCreated,
			map[string]any{"id": 1, "sequence": 1})
		require.NoError(t, err)
		return got.len() > 0
	}, 10*time.Second, 100*time.Millisecond)

	got.mu.Lock()
	ev := got.events[0]
	got.mu.Unlock()
	assert.Equal(t, "match-3", ev.Channel)
	assert.Equal(t, feed.EventCommentaryCreated, ev.Name)
	assert.JSONEq(t, `{"id":1,"sequence":1}`, string(ev.Payload))
}

func TestPGNotify_RejectsOversizedPayload(t *testing.T) {
	// Rejected before reaching the database.
	transport := feed.NewPGNotify(nil, "", slog.Default())

	big := make([]byte, 9000)
	for i := range big {
		big[i] = 'x'
	}
	err := transport.Publish(context.Background(), "match-1", feed.EventCommentaryCreated, string(big))
	assert.Error(t, err)
}

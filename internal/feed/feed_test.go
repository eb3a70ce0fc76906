package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-live/internal/metrics"
)

func TestMatchChannel(t *testing.T) {
	assert.Equal(t, "match-42", MatchChannel(42))

	tests := []struct {
		channel string
		wantID  int
		wantOK  bool
	}{
		{"match-42", 42, true},
		{"match-0", 0, false},
		{"match-abc", 0, false},
		{"game-42", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.channel, func(t *testing.T) {
			id, ok := MatchIDFromChannel(tt.channel)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestEncodeDecodeEnvelope(t *testing.T) {
	data, err := encode("match-7", EventCommentaryCreated, map[string]any{"sequence": 3})
	require.NoError(t, err)

	ev, err := decode(data)
	require.NoError(t, err)
	assert.Equal(t, "match-7", ev.Channel)
	assert.Equal(t, EventCommentaryCreated, ev.Name)
	assert.JSONEq(t, `{"sequence":3}`, string(ev.Payload))
	assert.False(t, ev.PublishedAt.IsZero())

	_, err = encode("match-7", EventCommentaryCreated, func() {})
	assert.Error(t, err)

	_, err = decode([]byte("not json"))
	assert.Error(t, err)
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Deliver(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Name)
	}
	return out
}

func TestTee(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Tee(a, b).Deliver(Event{Name: "x"})
	assert.Equal(t, []string{"x"}, a.names())
	assert.Equal(t, []string{"x"}, b.names())
}

func TestLocal_PublishSubscribe(t *testing.T) {
	l := NewLocal()
	rec := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = l.Subscribe(ctx, rec)
		close(done)
	}()

	require.Eventually(t, func() bool {
		l.mu.RLock()
		defer l.mu.RUnlock()
		return len(l.sinks) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, l.Publish(context.Background(), "match-1", EventCommentaryCreated, map[string]int{"id": 1}))
	require.NoError(t, l.Publish(context.Background(), "match-1", EventScoreUpdated, map[string]int{"id": 1}))
	assert.Equal(t, []string{EventCommentaryCreated, EventScoreUpdated}, rec.names())

	cancel()
	<-done

	l.mu.RLock()
	assert.Empty(t, l.sinks)
	l.mu.RUnlock()
}

type failingPublisher struct {
	err   error
	calls int
	ctxOK bool
}

func (f *failingPublisher) Publish(ctx context.Context, channel, event string, payload any) error {
	f.calls++
	f.ctxOK = ctx.Err() == nil
	return f.err
}

func TestBroadcaster_Notify(t *testing.T) {
	t.Run("failure is counted, not returned", func(t *testing.T) {
		m := metrics.NewNoop()
		pub := &failingPublisher{err: errors.New("transport down")}
		b := &Broadcaster{pub: pub, name: "test", timeout: time.Second, logger: slog.Default(), metrics: m}

		b.Notify(context.Background(), "match-1", EventCommentaryCreated, map[string]int{"id": 1})

		assert.Equal(t, 1, pub.calls)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedFailures.WithLabelValues("test")))
		assert.Equal(t, 0.0, testutil.ToFloat64(m.FeedPublished.WithLabelValues(EventCommentaryCreated)))
	})

	t.Run("cancelled request context still publishes", func(t *testing.T) {
		m := metrics.NewNoop()
		pub := &failingPublisher{}
		b := &Broadcaster{pub: pub, name: "test", timeout: time.Second, logger: slog.Default(), metrics: m}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		b.Notify(ctx, "match-1", EventCommentaryCreated, map[string]int{"id": 1})

		assert.True(t, pub.ctxOK)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedPublished.WithLabelValues(EventCommentaryCreated)))
	})
}

func TestNewEvent_PayloadIsVerbatimJSON(t *testing.T) {
	payload := struct {
		ID      int    `json:"id"`
		Message string `json:"message"`
	}{ID: 9, Message: "Goal!"}

	ev, err := NewEvent("match-9", EventCommentaryCreated, payload)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(ev.Payload, &back))
	assert.Equal(t, "Goal!", back["message"])
}

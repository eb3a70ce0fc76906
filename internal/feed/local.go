package feed

import (
	"context"
	"sync"
)

// Local delivers events in-process. Suitable for a single API instance.
type Local struct {
	mu    sync.RWMutex
	sinks map[int]Sink
	next  int
}

// NewLocal creates an in-process transport.
func NewLocal() *Local {
	return &Local{sinks: make(map[int]Sink)}
}

// Publish delivers synchronously to every subscribed sink.
func (l *Local) Publish(ctx context.Context, channel, event string, payload any) error {
	ev, err := NewEvent(channel, event, payload)
	if err != nil {
		return err
	}

	l.mu.RLock()
	sinks := make([]Sink, 0, len(l.sinks))
	for _, s := range l.sinks {
		sinks = append(sinks, s)
	}
	l.mu.RUnlock()

	for _, s := range sinks {
		s.Deliver(ev)
	}
	return nil
}

// Subscribe registers sink until ctx is cancelled.
func (l *Local) Subscribe(ctx context.Context, sink Sink) error {
	l.mu.Lock()
	id := l.next
	l.next++
	l.sinks[id] = sink
	l.mu.Unlock()

	<-ctx.Done()

	l.mu.Lock()
	delete(l.sinks, id)
	l.mu.Unlock()
	return nil
}

func (l *Local) Name() string { return "local" }

func (l *Local) Close() error { return nil }

// Noop discards everything. Used when live delivery is disabled.
type Noop struct{}

func (Noop) Publish(ctx context.Context, channel, event string, payload any) error { return nil }

func (Noop) Subscribe(ctx context.Context, sink Sink) error {
	<-ctx.Done()
	return nil
}

func (Noop) Name() string { return "none" }

func (Noop) Close() error { return nil }

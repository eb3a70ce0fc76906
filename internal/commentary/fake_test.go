package commentary

import (
	"context"
)

// ------------------------
// Fake Entry Store
// ------------------------

type FakeEntryStore struct {
	trace []string

	CreateFunc func(ctx context.Context, matchID int, in NewEntry) (*Entry, error)
	ListFunc   func(ctx context.Context, matchID, limit int) ([]Entry, error)
}

func (f *FakeEntryStore) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeEntryStore) Create(ctx context.Context, matchID int, in NewEntry) (*Entry, error) {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, matchID, in)
	}
	return &Entry{ID: 1, MatchID: matchID, Sequence: in.Sequence, EventType: in.EventType, Message: in.Message}, nil
}

func (f *FakeEntryStore) List(ctx context.Context, matchID, limit int) ([]Entry, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, matchID, limit)
	}
	return nil, nil
}

// ------------------------
// Fake Notifier
// ------------------------

type notification struct {
	channel string
	event   string
	payload any
}

type FakeNotifier struct {
	store *FakeEntryStore
	sent  []notification
}

func (f *FakeNotifier) Notify(ctx context.Context, channel, event string, payload any) {
	if f.store != nil {
		f.store.record("Notify")
	}
	f.sent = append(f.sent, notification{channel: channel, event: event, payload: payload})
}

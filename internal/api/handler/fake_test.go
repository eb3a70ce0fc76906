package handler_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/albapepper/scoracle-live/internal/commentary"
	"github.com/albapepper/scoracle-live/internal/match"
)

// ------------------------
// Fake Match Store
// ------------------------

type FakeMatchStore struct {
	CreateFunc      func(ctx context.Context, in match.NewMatch) (*match.Match, error)
	ListFunc        func(ctx context.Context, limit int) ([]match.Match, error)
	GetFunc         func(ctx context.Context, id int) (*match.Match, error)
	UpdateScoreFunc func(ctx context.Context, id int, score match.ScoreUpdate) (*match.Match, error)
	SyncFunc        func(ctx context.Context, m *match.Match) (bool, error)

	created []match.NewMatch
}

func (f *FakeMatchStore) Create(ctx context.Context, in match.NewMatch) (*match.Match, error) {
	f.created = append(f.created, in)
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, in)
	}
	now := time.Now()
	m := &match.Match{
		ID:        1,
		Sport:     in.Sport,
		HomeTeam:  in.HomeTeam,
		AwayTeam:  in.AwayTeam,
		Status:    match.DeriveStatus(in.StartTime, in.EndTime, now),
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		CreatedAt: now,
	}
	if in.HomeScore != nil {
		m.HomeScore = *in.HomeScore
	}
	if in.AwayScore != nil {
		m.AwayScore = *in.AwayScore
	}
	return m, nil
}

func (f *FakeMatchStore) List(ctx context.Context, limit int) ([]match.Match, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, limit)
	}
	return []match.Match{}, nil
}

func (f *FakeMatchStore) Get(ctx context.Context, id int) (*match.Match, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, id)
	}
	return nil, match.ErrNotFound
}

func (f *FakeMatchStore) UpdateScore(ctx context.Context, id int, score match.ScoreUpdate) (*match.Match, error) {
	if f.UpdateScoreFunc != nil {
		return f.UpdateScoreFunc(ctx, id, score)
	}
	return nil, match.ErrNotFound
}

func (f *FakeMatchStore) Sync(ctx context.Context, m *match.Match) (bool, error) {
	if f.SyncFunc != nil {
		return f.SyncFunc(ctx, m)
	}
	return false, nil
}

// ------------------------
// Fake Commentary Store
// ------------------------

// FakeEntryStore keeps entries in memory and lists them in sequence order,
// like the commentary_list statement. Matches absent from known fail the
// insert the way the foreign key does.
type FakeEntryStore struct {
	mu      sync.Mutex
	known   map[int]bool
	entries []commentary.Entry
	nextID  int
	lists   []int

	// afterList runs once a List has taken its snapshot.
	afterList func()
}

func NewFakeEntryStore(matchIDs ...int) *FakeEntryStore {
	known := make(map[int]bool, len(matchIDs))
	for _, id := range matchIDs {
		known[id] = true
	}
	return &FakeEntryStore{known: known}
}

type fkError struct{}

func (fkError) Error() string {
	return `ERROR: insert or update on table "commentary" violates foreign key constraint "commentary_match_id_fkey" (SQLSTATE 23503)`
}

func (f *FakeEntryStore) Create(ctx context.Context, matchID int, in commentary.NewEntry) (*commentary.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.known[matchID] {
		return nil, fkError{}
	}
	f.nextID++
	e := commentary.Entry{
		ID:        f.nextID,
		MatchID:   matchID,
		Minute:    in.Minute,
		Sequence:  in.Sequence,
		Period:    in.Period,
		EventType: in.EventType,
		Actor:     in.Actor,
		Team:      in.Team,
		Message:   in.Message,
		Metadata:  in.Metadata,
		Tags:      in.Tags,
		CreatedAt: time.Now(),
	}
	f.entries = append(f.entries, e)
	return &e, nil
}

func (f *FakeEntryStore) List(ctx context.Context, matchID, limit int) ([]commentary.Entry, error) {
	out := f.snapshot(matchID, limit)
	if f.afterList != nil {
		f.afterList()
	}
	return out, nil
}

func (f *FakeEntryStore) snapshot(matchID, limit int) []commentary.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, limit)
	limit = match.ClampLimit(limit, commentary.DefaultListLimit, commentary.MaxListLimit)

	out := []commentary.Entry{}
	for _, e := range f.entries {
		if e.MatchID == matchID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *FakeEntryStore) count(matchID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if e.MatchID == matchID {
			n++
		}
	}
	return n
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
	mu   sync.Mutex
	sent []notification
}

func (f *FakeNotifier) Notify(ctx context.Context, channel, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, notification{channel: channel, event: event, payload: payload})
}

func (f *FakeNotifier) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, n := range f.sent {
		out = append(out, n.channel+" "+n.event)
	}
	return out
}

// ------------------------
// Fake DB
// ------------------------

type FakeDB struct {
	Err error
}

func (f FakeDB) HealthCheck(ctx context.Context) error { return f.Err }

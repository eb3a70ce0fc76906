package commentary

import (
	"context"
	"log/slog"

	"github.com/albapepper/scoracle-live/internal/feed"
	"github.com/albapepper/scoracle-live/internal/metrics"
)

// EntryStore is the persistence the service needs. Satisfied by *Store.
type EntryStore interface {
	Create(ctx context.Context, matchID int, in NewEntry) (*Entry, error)
	List(ctx context.Context, matchID, limit int) ([]Entry, error)
}

// Notifier broadcasts after a committed write. Satisfied by *feed.Broadcaster.
type Notifier interface {
	Notify(ctx context.Context, channel, event string, payload any)
}

// Service coordinates the create path: persist, then broadcast.
type Service struct {
	store    EntryStore
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewService creates a Service.
func NewService(store EntryStore, notifier Notifier, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, notifier: notifier, logger: logger, metrics: m}
}

// Create persists the entry and then publishes it on the match channel.
// Only a storage failure is returned; the broadcast cannot fail the call.
func (s *Service) Create(ctx context.Context, matchID int, in NewEntry) (*Entry, error) {
	entry, err := s.store.Create(ctx, matchID, in)
	if err != nil {
		return nil, err
	}
	s.metrics.CommentaryCreated.Inc()
	s.logger.Debug("Commentary created",
		"match_id", matchID, "id", entry.ID, "sequence", entry.Sequence, "event_type", entry.EventType)

	s.notifier.Notify(ctx, feed.MatchChannel(matchID), feed.EventCommentaryCreated, entry)
	return entry, nil
}

// List returns entries ordered by sequence ascending.
func (s *Service) List(ctx context.Context, matchID, limit int) ([]Entry, error) {
	return s.store.List(ctx, matchID, limit)
}

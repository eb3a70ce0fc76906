// Package maintenance runs periodic background tasks as Go tickers.
// Stored match status goes stale as wall-clock time passes with no write;
// the status sweep recomputes it for every unfinished match and broadcasts
// each transition.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/scoracle-live/internal/feed"
	"github.com/albapepper/scoracle-live/internal/match"
	"github.com/albapepper/scoracle-live/internal/metrics"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	StatusSweepInterval time.Duration
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		StatusSweepInterval: time.Minute,
	}
}

// MatchSource is satisfied by *match.Store.
type MatchSource interface {
	ListUnfinishedAfter(ctx context.Context, after match.Cursor, limit int) ([]match.Match, error)
	Sync(ctx context.Context, m *match.Match) (bool, error)
}

// Notifier is satisfied by *feed.Broadcaster.
type Notifier interface {
	Notify(ctx context.Context, channel, event string, payload any)
}

// Sweeper resyncs stored match status.
type Sweeper struct {
	store     MatchSource
	batchSize int
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewSweeper creates a Sweeper.
func NewSweeper(store MatchSource, notifier Notifier, m *metrics.Metrics, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		store:     store,
		batchSize: match.SweepBatchSize,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, s *Sweeper, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started", "status_sweep", cfg.StatusSweepInterval)

	tickers := make([]*time.Ticker, 0, 1)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.StatusSweepInterval > 0 {
		// Catch up immediately after a restart.
		s.Sweep(ctx)

		t := time.NewTicker(cfg.StatusSweepInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { s.Sweep(ctx) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// Sweep recomputes the status of every unfinished match, persists changes
// and broadcasts match.status_changed for each. Matches are read in
// (start time, id) pages until a short page comes back. Per-match failures
// are logged and skipped. Returns the number of matches that changed.
func (s *Sweeper) Sweep(ctx context.Context) int {
	start := time.Now()
	checked, changed := 0, 0

	cursor := match.Cursor{}
	for ctx.Err() == nil {
		page, err := s.store.ListUnfinishedAfter(ctx, cursor, s.batchSize)
		if err != nil {
			s.logger.Warn("Status sweep: failed to list matches", "after_id", cursor.ID, "error", err)
			break
		}
		checked += len(page)
		changed += s.syncPage(ctx, page)

		if len(page) < s.batchSize {
			break
		}
		cursor = match.CursorAfter(page[len(page)-1])
	}

	if changed > 0 {
		s.logger.Info("Status sweep: updated matches",
			"checked", checked, "changed", changed,
			"duration", time.Since(start).Round(time.Millisecond))
	}
	return changed
}

func (s *Sweeper) syncPage(ctx context.Context, page []match.Match) int {
	changed := 0
	for i := range page {
		m := &page[i]
		ok, err := s.store.Sync(ctx, m)
		if err != nil {
			s.logger.Warn("Status sweep: sync failed", "match_id", m.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		changed++
		s.metrics.StatusTransitions.WithLabelValues(string(m.Status)).Inc()
		s.notifier.Notify(ctx, feed.MatchChannel(m.ID), feed.EventStatusChanged, m)
	}
	return changed
}

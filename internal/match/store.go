package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/scoracle-live/internal/db"
)

// SweepBatchSize is the largest page ListUnfinishedAfter returns.
const SweepBatchSize = 500

// Store persists matches through the prepared statements registered in db.
type Store struct {
	q   db.Querier
	now func() time.Time
}

// NewStore creates a Store using the wall clock.
func NewStore(q db.Querier) *Store {
	return &Store{q: q, now: time.Now}
}

// WithClock returns a copy of the store that derives status against now.
func (s *Store) WithClock(now func() time.Time) *Store {
	return &Store{q: s.q, now: now}
}

// Now returns the store's current instant.
func (s *Store) Now() time.Time {
	return s.now()
}

// Create derives the initial status and inserts the match.
func (s *Store) Create(ctx context.Context, in NewMatch) (*Match, error) {
	status := DeriveStatus(in.StartTime, in.EndTime, s.now())

	row := s.q.QueryRow(ctx, "match_insert",
		in.Sport, in.HomeTeam, in.AwayTeam, string(status),
		in.StartTime, in.EndTime, intOrZero(in.HomeScore), intOrZero(in.AwayScore))

	m, err := scanMatch(row)
	if err != nil {
		return nil, fmt.Errorf("insert match: %w", err)
	}
	return m, nil
}

// List returns matches newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Match, error) {
	limit = ClampLimit(limit, DefaultListLimit, MaxListLimit)
	return s.queryMatches(ctx, "match_list", limit, limit)
}

// ListUnfinished returns the first page of matches whose stored status is
// not finished, earliest start first.
func (s *Store) ListUnfinished(ctx context.Context, limit int) ([]Match, error) {
	return s.ListUnfinishedAfter(ctx, Cursor{}, limit)
}

// ListUnfinishedAfter returns unfinished matches ordered by (start time, id)
// that sort after the cursor. Pages are stable while statuses change.
func (s *Store) ListUnfinishedAfter(ctx context.Context, after Cursor, limit int) ([]Match, error) {
	limit = ClampLimit(limit, SweepBatchSize, SweepBatchSize)
	return s.queryMatches(ctx, "match_list_unfinished", limit, after.StartTime.UTC(), after.ID, limit)
}

// Get returns a single match.
func (s *Store) Get(ctx context.Context, id int) (*Match, error) {
	m, err := scanMatch(s.q.QueryRow(ctx, "match_by_id", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get match %d: %w", id, err)
	}
	return m, nil
}

// UpdateStatus persists a status. Satisfies StatusUpdater.
func (s *Store) UpdateStatus(ctx context.Context, id int, status Status) error {
	tag, err := s.q.Exec(ctx, "match_update_status", id, string(status))
	if err != nil {
		return fmt.Errorf("update match %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateScore sets both scores and returns the updated record.
func (s *Store) UpdateScore(ctx context.Context, id int, score ScoreUpdate) (*Match, error) {
	m, err := scanMatch(s.q.QueryRow(ctx, "match_update_score", id, score.HomeScore, score.AwayScore))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update match %d score: %w", id, err)
	}
	return m, nil
}

// Delete removes a match; its commentary is removed by the FK cascade.
func (s *Store) Delete(ctx context.Context, id int) error {
	tag, err := s.q.Exec(ctx, "match_delete", id)
	if err != nil {
		return fmt.Errorf("delete match %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Sync recomputes m's status against the store clock and persists a change.
func (s *Store) Sync(ctx context.Context, m *Match) (bool, error) {
	return SyncStatus(ctx, m, s.now(), s)
}

func (s *Store) queryMatches(ctx context.Context, stmt string, limit int, args ...any) ([]Match, error) {
	rows, err := s.q.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]Match, 0, limit)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

// scanMatch reads the columns listed in db.MatchColumns.
func scanMatch(row scanner) (*Match, error) {
	var m Match
	var status string
	if err := row.Scan(
		&m.ID, &m.Sport, &m.HomeTeam, &m.AwayTeam, &status,
		&m.StartTime, &m.EndTime, &m.HomeScore, &m.AwayScore, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	m.Status = Status(status)
	return &m, nil
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

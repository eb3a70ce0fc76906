package commentary

import (
	"context"
	"fmt"

	"github.com/albapepper/scoracle-live/internal/db"
	"github.com/albapepper/scoracle-live/internal/match"
)

// Store persists commentary through the prepared statements registered in db.
type Store struct {
	q db.Querier
}

// NewStore creates a Store.
func NewStore(q db.Querier) *Store {
	return &Store{q: q}
}

// Create inserts an entry for matchID. An unknown match violates the foreign
// key and is returned as an ordinary storage error.
func (s *Store) Create(ctx context.Context, matchID int, in NewEntry) (*Entry, error) {
	row := s.q.QueryRow(ctx, "commentary_insert",
		matchID, in.Minute, in.Sequence, in.Period, in.EventType,
		in.Actor, in.Team, in.Message, in.Metadata, in.Tags)

	e, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("insert commentary for match %d: %w", matchID, err)
	}
	return e, nil
}

// List returns a match's entries ordered by sequence, then id.
func (s *Store) List(ctx context.Context, matchID, limit int) ([]Entry, error) {
	limit = match.ClampLimit(limit, DefaultListLimit, MaxListLimit)

	rows, err := s.q.Query(ctx, "commentary_list", matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("list commentary for match %d: %w", matchID, err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan commentary: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Count returns the number of entries for a match.
func (s *Store) Count(ctx context.Context, matchID int) (int, error) {
	var n int
	if err := s.q.QueryRow(ctx, "commentary_count", matchID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count commentary for match %d: %w", matchID, err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanEntry reads the columns listed in db.CommentaryColumns.
func scanEntry(row scanner) (*Entry, error) {
	var e Entry
	if err := row.Scan(
		&e.ID, &e.MatchID, &e.Minute, &e.Sequence, &e.Period, &e.EventType,
		&e.Actor, &e.Team, &e.Message, &e.Metadata, &e.Tags, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

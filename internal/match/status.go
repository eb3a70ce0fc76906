package match

import (
	"context"
	"time"
)

// Status is the lifecycle stage of a match.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusFinished  Status = "finished"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusLive, StatusFinished:
		return true
	}
	return false
}

// DeriveStatus maps a match window and an instant to a status.
// now == start is live; now == end is finished.
func DeriveStatus(start, end, now time.Time) Status {
	if now.Before(start) {
		return StatusScheduled
	}
	if !now.Before(end) {
		return StatusFinished
	}
	return StatusLive
}

// StatusUpdater persists a recomputed status.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id int, status Status) error
}

// SyncStatus recomputes m's status against now and persists it through u
// only when it differs from the stored value. m is updated in place on
// success. Returns whether the status changed.
func SyncStatus(ctx context.Context, m *Match, now time.Time, u StatusUpdater) (bool, error) {
	next := DeriveStatus(m.StartTime, m.EndTime, now)
	if next == m.Status {
		return false, nil
	}
	if err := u.UpdateStatus(ctx, m.ID, next); err != nil {
		return false, err
	}
	m.Status = next
	return true, nil
}

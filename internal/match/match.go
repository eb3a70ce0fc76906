// Package match owns match records: status derivation, persistence and
// read-time status resync.
package match

import (
	"errors"
	"time"
)

// List limits.
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// ErrNotFound is returned when a match does not exist.
var ErrNotFound = errors.New("match not found")

// Match is a persisted match record.
type Match struct {
	ID        int       `json:"id"`
	Sport     string    `json:"sport"`
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	Status    Status    `json:"status"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	HomeScore int       `json:"homeScore"`
	AwayScore int       `json:"awayScore"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMatch is the validated input for Create. Nil scores default to 0.
type NewMatch struct {
	Sport     string
	HomeTeam  string
	AwayTeam  string
	StartTime time.Time
	EndTime   time.Time
	HomeScore *int
	AwayScore *int
}

// ScoreUpdate carries both scores of a score change.
type ScoreUpdate struct {
	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`
}

// Cursor positions a page of unfinished matches by (start time, id). The zero
// value starts from the beginning.
type Cursor struct {
	StartTime time.Time
	ID        int
}

// CursorAfter returns the cursor that continues after m.
func CursorAfter(m Match) Cursor {
	return Cursor{StartTime: m.StartTime, ID: m.ID}
}

// ClampLimit applies the default for non-positive values and caps at max.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

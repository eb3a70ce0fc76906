// Package commentary owns the per-match commentary feed: persistence,
// sequence-ordered reads, and the commit-then-notify create path.
package commentary

import (
	"time"
)

// List limits.
const (
	DefaultListLimit = 100
	MaxListLimit     = 100
)

// Entry is a persisted commentary entry. Optional fields are nil when absent.
type Entry struct {
	ID        int            `json:"id"`
	MatchID   int            `json:"matchId"`
	Minute    *int           `json:"minute"`
	Sequence  int            `json:"sequence"`
	Period    *string        `json:"period"`
	EventType string         `json:"eventType"`
	Actor     *string        `json:"actor"`
	Team      *string        `json:"team"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata"`
	Tags      []string       `json:"tags"`
	CreatedAt time.Time      `json:"createdAt"`
}

// NewEntry is the validated input for Create. Sequence is supplied by the
// caller and is not checked for uniqueness or contiguity.
type NewEntry struct {
	Minute    *int
	Sequence  int
	Period    *string
	EventType string
	Actor     *string
	Team      *string
	Message   string
	Metadata  map[string]any
	Tags      []string
}

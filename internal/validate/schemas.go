package validate

import (
	"strconv"
	"strings"

	"github.com/albapepper/scoracle-live/internal/commentary"
	"github.com/albapepper/scoracle-live/internal/match"
)

// Field limits mirror the column widths in schema.sql.
const (
	maxSportLen     = 100
	maxTeamLen      = 255
	maxEventTypeLen = 100
	maxPeriodLen    = 50
	maxMessageLen   = 1000

	// MaxLimit is the largest accepted ?limit= value.
	MaxLimit = 100
)

// CreateMatch validates a match creation body.
func CreateMatch(body []byte) (match.NewMatch, Issues) {
	o := parseObject(body)
	if o.issues != nil {
		return match.NewMatch{}, o.issues
	}

	sport := o.str("sport", true, 1, maxSportLen, "Sport is required")
	home := o.str("homeTeam", true, 1, maxTeamLen, "Home team is required")
	away := o.str("awayTeam", true, 1, maxTeamLen, "Away team is required")
	start, startOK := o.timestamp("startTime")
	end, endOK := o.timestamp("endTime")
	homeScore := o.integer("homeScore", false, true)
	awayScore := o.integer("awayScore", false, true)

	if startOK && endOK && !end.After(start) {
		o.add(CodeCustom, "endTime", "End time must be after start time")
	}
	if o.issues != nil {
		return match.NewMatch{}, o.issues
	}

	return match.NewMatch{
		Sport:     *sport,
		HomeTeam:  *home,
		AwayTeam:  *away,
		StartTime: start,
		EndTime:   end,
		HomeScore: homeScore,
		AwayScore: awayScore,
	}, nil
}

// UpdateScore validates a score update body. Both scores are required.
func UpdateScore(body []byte) (match.ScoreUpdate, Issues) {
	o := parseObject(body)
	if o.issues != nil {
		return match.ScoreUpdate{}, o.issues
	}

	home := o.integer("homeScore", true, true)
	away := o.integer("awayScore", true, true)
	if o.issues != nil {
		return match.ScoreUpdate{}, o.issues
	}
	return match.ScoreUpdate{HomeScore: *home, AwayScore: *away}, nil
}

// CreateCommentary validates a commentary creation body.
func CreateCommentary(body []byte) (commentary.NewEntry, Issues) {
	o := parseObject(body)
	if o.issues != nil {
		return commentary.NewEntry{}, o.issues
	}

	minute := o.integer("minute", false, true)
	sequence := o.integer("sequence", true, false)
	period := o.str("period", false, 0, maxPeriodLen, "")
	eventType := o.str("eventType", true, 1, maxEventTypeLen, "Event type is required")
	actor := o.str("actor", false, 0, maxTeamLen, "")
	team := o.str("team", false, 0, maxTeamLen, "")
	message := o.str("message", true, 1, maxMessageLen, "Message is required")
	metadata := o.record("metadata")
	tags := o.stringList("tags")
	if o.issues != nil {
		return commentary.NewEntry{}, o.issues
	}

	return commentary.NewEntry{
		Minute:    minute,
		Sequence:  *sequence,
		Period:    period,
		EventType: *eventType,
		Actor:     actor,
		Team:      team,
		Message:   *message,
		Metadata:  metadata,
		Tags:      tags,
	}, nil
}

// Limit validates an optional ?limit= value. An empty string yields 0, which
// the stores replace with their default.
func Limit(raw string) (int, Issues) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	n, msg := coerceInt(raw)
	switch {
	case msg != "":
		return 0, Issues{{Code: CodeInvalidType, Path: []string{"limit"}, Message: msg}}
	case n <= 0:
		return 0, Issues{{Code: CodeTooSmall, Path: []string{"limit"}, Message: "Must be greater than 0"}}
	case n > MaxLimit:
		return 0, Issues{{Code: CodeTooBig, Path: []string{"limit"}, Message: "Must be less than or equal to " + strconv.Itoa(MaxLimit)}}
	}
	return n, nil
}

// ID validates a match id path parameter.
func ID(raw string) (int, Issues) {
	n, msg := coerceInt(strings.TrimSpace(raw))
	switch {
	case msg != "":
		return 0, Issues{{Code: CodeInvalidType, Path: []string{"id"}, Message: msg}}
	case n <= 0:
		return 0, Issues{{Code: CodeTooSmall, Path: []string{"id"}, Message: "Must be greater than 0"}}
	}
	return n, nil
}

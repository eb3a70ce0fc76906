package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-live/internal/validate"
)

func TestParseMatch(t *testing.T) {
	in, err := parseMatch(map[string]any{
		"sport":     "football",
		"homeTeam":  "Arsenal",
		"awayTeam":  "Chelsea",
		"startTime": "2026-05-01T15:00:00Z",
		"endTime":   "2026-05-01T17:00:00Z",
		"homeScore": 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", in.HomeTeam)
	assert.Equal(t, time.Date(2026, 5, 1, 15, 0, 0, 0, time.UTC), in.StartTime.UTC())
	require.NotNil(t, in.HomeScore)
	assert.Equal(t, 2, *in.HomeScore)
	assert.Nil(t, in.AwayScore)
}

func TestParseMatch_Invalid(t *testing.T) {
	_, err := parseMatch(map[string]any{
		"sport":     "football",
		"homeTeam":  "Arsenal",
		"awayTeam":  "Chelsea",
		"startTime": "2026-05-01T17:00:00Z",
		"endTime":   "2026-05-01T15:00:00Z",
	})
	var issues validate.Issues
	require.ErrorAs(t, err, &issues)
	require.Len(t, issues, 1)
	assert.Equal(t, []string{"endTime"}, issues[0].Path)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = parseID("abc")
	assert.Error(t, err)
	_, err = parseID("0")
	assert.Error(t, err)
}

func TestMatchesCreate_RejectsBeforeConnecting(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"matches", "create", "--sport", "football", "--home", "Arsenal"})

	err := root.Execute()
	var issues validate.Issues
	require.ErrorAs(t, err, &issues)
	assert.Empty(t, out.String(), "nothing is printed for a rejected match")
}

func TestCommentaryList_RequiresMatchID(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"commentary", "list"})
	assert.Error(t, root.Execute())
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"id": 1}))
	assert.Equal(t, "{\n  \"id\": 1\n}\n", buf.String())
}
